package monitor

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/LJTian/MarketPulse/internal/classify"
	"github.com/LJTian/MarketPulse/internal/collector"
	"github.com/LJTian/MarketPulse/internal/event"
	"github.com/LJTian/MarketPulse/internal/queue"
)

const (
	// 回看窗口与单轮扫描上限：限定每轮工作量、偏向近期数据。
	// 持续高吞吐下超出窗口的事件会被永久跳过，这是既定取舍
	lookback  = 15 * time.Minute
	scanLimit = 20

	// 低于该紧急度的事件视为"非突发"，直接略过
	minUrgency = 5
)

// RecentStore 是监控依赖的存储能力子集：读最近事件、写突发事件
type RecentStore interface {
	RecentUnprocessed(lookback time.Duration, limit int) ([]event.CanonicalEvent, error)
	UpsertBreakingEvent(be *event.BreakingEvent) error
}

// Publisher 同管道层的队列能力子集
type Publisher interface {
	Enqueue(ctx context.Context, queueName string, item any) error
}

// Monitor 是一个特化的采集器：不访问外部接口，而是重读最近落库的事件，
// 用关键词打紧急度分，把达标的写入 breaking_events 并推送突发队列
type Monitor struct {
	limiter   *collector.RateLimiter
	retry     *collector.RetryPolicy
	store     RecentStore
	publisher Publisher
}

func New(store RecentStore, publisher Publisher) *Monitor {
	return &Monitor{
		// 额度：每小时 12 次（内部节奏约 5 分钟一轮）
		limiter:   collector.NewRateLimiter(12, time.Hour),
		retry:     collector.DefaultRetryPolicy(),
		store:     store,
		publisher: publisher,
	}
}

func (m *Monitor) Name() string { return "breaking_news_monitor" }

// Run 执行一轮扫描并返回写入的突发事件数。
// 同一事件在窗口内被重复扫描时由存储层的 insert-or-ignore 去重
func (m *Monitor) Run(ctx context.Context) (int, error) {
	var count int
	err := m.retry.Do(func() error {
		if err := m.limiter.Acquire(); err != nil {
			return err
		}

		log.Println("scanning recent events for breaking news...")
		events, err := m.store.RecentUnprocessed(lookback, scanLimit)
		if err != nil {
			return err
		}

		count = 0
		for _, ev := range events {
			be := m.assess(&ev)
			if be == nil {
				continue
			}
			if err := m.store.UpsertBreakingEvent(be); err != nil {
				log.Printf("breaking monitor: persist event for raw %s failed: %v", be.RawEventID, err)
				continue
			}
			if err := m.publisher.Enqueue(ctx, queue.QueueBreaking, be); err != nil {
				log.Printf("breaking monitor: enqueue for raw %s failed: %v", be.RawEventID, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		log.Printf("breaking monitor done, flagged=%d events", count)
	}
	return count, nil
}

// assess 给一条事件打紧急度分并重新归类；达不到门槛时返回 nil（非错误）。
// 类别重推独立于采集时的归类结果
func (m *Monitor) assess(ev *event.CanonicalEvent) *event.BreakingEvent {
	text := contentText(ev)

	urgency := classify.Urgency(text)
	if urgency < minUrgency {
		return nil
	}

	return &event.BreakingEvent{
		RawEventID:   ev.ID,
		Category:     classify.Category(text),
		EventData:    ev.Content,
		UrgencyScore: urgency,
	}
}

// contentText 把事件内容拍平成小写文本供关键词扫描
func contentText(ev *event.CanonicalEvent) string {
	data, err := json.Marshal(ev.Content)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(data))
}
