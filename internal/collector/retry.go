package collector

import (
	"errors"
	"time"

	"github.com/LJTian/MarketPulse/internal/event"
)

// RetryPolicy 用有界的指数退避包装一次易失败的操作。
// 校验错误不重试（结构性问题重试无意义）；
// 限流信号可重试，但等待时间以限流器给出的剩余时间为准而不是退避曲线
type RetryPolicy struct {
	Attempts   int
	MinBackoff time.Duration
	MaxBackoff time.Duration

	sleep func(time.Duration) // 可测试封装
}

// DefaultRetryPolicy 共 3 次尝试，退避从 4s 起倍增、上限 10s
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Attempts:   3,
		MinBackoff: 4 * time.Second,
		MaxBackoff: 10 * time.Second,
		sleep:      time.Sleep,
	}
}

// Do 执行 op，失败后按策略退避重试；重试耗尽时把最后一个错误交还调用方。
// 调用方（调度器）只记日志不崩溃，下一次排期调用即恢复机制
func (p *RetryPolicy) Do(op func() error) error {
	if p.sleep == nil {
		p.sleep = time.Sleep
	}

	backoff := p.MinBackoff
	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if errors.Is(err, event.ErrValidation) {
			return err
		}
		if attempt >= p.Attempts {
			return err
		}

		delay := backoff
		var rle *RateLimitError
		if errors.As(err, &rle) {
			// 限流信号：用限流器明确给出的剩余等待覆盖退避
			delay = rle.RemainingWait
		} else {
			backoff *= 2
			if backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}
		p.sleep(delay)
	}
}
