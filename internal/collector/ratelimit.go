package collector

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitError 不是失败，而是"等待后重试"的信号；
// 编排层应休眠 RemainingWait 后重新发起抓取
type RateLimitError struct {
	RemainingWait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RemainingWait)
}

// RateLimiter 用令牌桶限制单个采集器实例的调用频率：
// 平均 calls 次 / period，突发上限即 calls。
// 每个采集器实例各自持有一个限流器，不跨采集器共享
type RateLimiter struct {
	limiter *rate.Limiter
	period  time.Duration

	now func() time.Time // 可测试封装
}

func NewRateLimiter(calls int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(period/time.Duration(calls)), calls),
		period:  period,
		now:     time.Now,
	}
}

// Acquire 占用一次调用额度；额度耗尽时取消预约并返回 *RateLimitError，
// 其中带有距下一个可用额度的剩余等待时间
func (l *RateLimiter) Acquire() error {
	now := l.now()

	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return &RateLimitError{RemainingWait: l.period}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return &RateLimitError{RemainingWait: delay}
	}
	return nil
}
