package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/LJTian/MarketPulse/internal/collector"
	"github.com/LJTian/MarketPulse/internal/event"
	"github.com/LJTian/MarketPulse/internal/queue"
)

// EventStore 是编排层依赖的持久化能力子集
type EventStore interface {
	StoreEvent(ev *event.CanonicalEvent) (string, error)
	UpsertSnapshot(snap *event.MarketSnapshot) error
	RecordSourceReliability(source, category string, processed, successes int64, accuracy float64) error
}

// Publisher 是编排层依赖的队列能力子集
type Publisher interface {
	Enqueue(ctx context.Context, queueName string, item any) error
}

// Runner 把一个采集器编排为完整的采集周期：
// 限流 → 抓取 → 逐条标准化 → 逐条落库（含可选快照投影）→ 逐条入队。
// 单条失败不影响批次，批次失败不影响进程；限流器与重试策略注入而非继承
type Runner struct {
	collector collector.Collector
	limiter   *collector.RateLimiter
	retry     *collector.RetryPolicy
	store     EventStore
	publisher Publisher
}

func NewRunner(c collector.Collector, limiter *collector.RateLimiter, retry *collector.RetryPolicy, store EventStore, publisher Publisher) *Runner {
	if limiter == nil {
		// 默认额度：每分钟 5 次
		limiter = collector.NewRateLimiter(5, time.Minute)
	}
	if retry == nil {
		retry = collector.DefaultRetryPolicy()
	}
	return &Runner{
		collector: c,
		limiter:   limiter,
		retry:     retry,
		store:     store,
		publisher: publisher,
	}
}

func (r *Runner) Name() string {
	return r.collector.Name()
}

// Run 执行一轮采集并返回落库条数。
// 重试耗尽时把最后的错误交还调用方（调度器只记日志，下一次排期即恢复）；
// 空批次是"本轮无数据"，不算失败
func (r *Runner) Run(ctx context.Context) (int, error) {
	name := r.collector.Name()

	var count int
	err := r.retry.Do(func() error {
		if err := r.limiter.Acquire(); err != nil {
			return err
		}

		log.Printf("fetch from %s (category=%s)...", name, r.collector.Category())
		raw, err := r.collector.FetchRaw()
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			log.Printf("%s: no new data this cycle", name)
			count = 0
			return nil
		}

		count = r.processBatch(ctx, raw)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		// 按批次累计数据源可信度计数；成功预测与准确度由下游分析回填
		if err := r.store.RecordSourceReliability(r.collector.Source(), r.collector.Category(), int64(count), 0, 0); err != nil {
			log.Printf("%s: record source reliability failed: %v", name, err)
		}
	}

	log.Printf("%s done, persisted=%d items", name, count)
	return count, nil
}

// processBatch 逐条处理：每条的落库是独立的原子单元，彼此不共享事务
func (r *Runner) processBatch(ctx context.Context, raw []collector.RawItem) int {
	name := r.collector.Name()
	snapshotter, hasSnapshots := r.collector.(collector.SnapshotProvider)

	count := 0
	for _, item := range raw {
		ev, err := r.collector.Standardize(item)
		if err != nil {
			log.Printf("%s: standardize item failed, skipping: %v", name, err)
			continue
		}
		if ev == nil {
			continue // 源侧判定丢弃，非错误
		}

		if _, err := r.store.StoreEvent(ev); err != nil {
			if errors.Is(err, event.ErrValidation) {
				log.Printf("%s: dropping invalid event: %v", name, err)
			} else {
				log.Printf("%s: persist event failed: %v", name, err)
			}
			continue
		}

		if hasSnapshots {
			if snap := snapshotter.Snapshot(item, ev); snap != nil {
				if err := r.store.UpsertSnapshot(snap); err != nil {
					log.Printf("%s: upsert snapshot %s failed: %v", name, snap.MarketID, err)
				}
			}
		}

		if err := r.publisher.Enqueue(ctx, queue.QueueRaw, ev); err != nil {
			log.Printf("%s: enqueue event %s failed: %v", name, ev.ID, err)
		}

		count++
	}
	return count
}
