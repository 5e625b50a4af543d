package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/LJTian/MarketPulse/internal/event"
	"github.com/LJTian/MarketPulse/internal/queue"
)

const dequeueTimeout = 5 * time.Second

// Broker 是校验 worker 依赖的队列能力：消费采集流、转发给分析系统
type Broker interface {
	Dequeue(ctx context.Context, queueName string, timeout time.Duration) (*queue.Envelope, error)
	Enqueue(ctx context.Context, queueName string, item any) error
}

// Validator 消费 data.raw 中的统一事件，复核必填字段后转发到 data.validation。
// at-least-once 语义下可能重复消费，下游靠存储层冲突处理保持幂等；
// 结构性无效的条目记日志后丢弃（重试无意义）
type Validator struct {
	broker Broker
}

func NewValidator(broker Broker) *Validator {
	return &Validator{broker: broker}
}

// Run 持续消费直到 ctx 取消
func (v *Validator) Run(ctx context.Context) error {
	log.Printf("validator worker consuming %s...", queue.QueueRaw)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := v.ProcessOne(ctx); err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// 单条失败不终止 worker
			log.Printf("validator worker: %v", err)
		}
	}
}

// ProcessOne 取一条信封并处理；队列为空时返回 queue.ErrEmpty
func (v *Validator) ProcessOne(ctx context.Context) error {
	env, err := v.broker.Dequeue(ctx, queue.QueueRaw, dequeueTimeout)
	if err != nil {
		return err
	}

	var ev event.CanonicalEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		log.Printf("validator worker: malformed payload dropped: %v", err)
		return nil
	}
	if err := ev.Validate(); err != nil {
		log.Printf("validator worker: invalid event %s dropped: %v", ev.ID, err)
		return nil
	}

	return v.broker.Enqueue(ctx, queue.QueueValidation, &ev)
}
