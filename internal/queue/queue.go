package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// 下游消费的三个队列
const (
	QueueRaw        = "data.raw"        // 采集落库后的统一事件流
	QueueValidation = "data.validation" // 校验通过、交给分析系统的事件
	QueueBreaking   = "data.breaking"   // 突发事件
)

// ErrEmpty 表示在等待时限内队列没有可消费的条目
var ErrEmpty = errors.New("queue empty")

// Envelope 是入队的统一信封；at-least-once 投递，
// 消费端依赖存储层的冲突处理实现幂等
type Envelope struct {
	Queue      string          `json:"queue"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Queue 基于 Redis list 的工作队列（LPUSH 入队 / BRPOP 出队）
type Queue struct {
	rdb *redis.Client
}

func New(addr string) *Queue {
	return &Queue{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Ping 探测 Redis 连通性，供就绪检查使用
func (q *Queue) Ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// Enqueue 把条目序列化后推入指定队列
func (q *Queue) Enqueue(ctx context.Context, queueName string, item any) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	env := Envelope{
		Queue:      queueName,
		EnqueuedAt: time.Now().UTC(),
		Payload:    payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueName, data).Err()
}

// Dequeue 阻塞等待一个条目，超时返回 ErrEmpty
func (q *Queue) Dequeue(ctx context.Context, queueName string, timeout time.Duration) (*Envelope, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	// BRPop 返回 [key, value]
	if len(res) != 2 {
		return nil, ErrEmpty
	}
	var env Envelope
	if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
		return nil, err
	}
	return &env, nil
}
