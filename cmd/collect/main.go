package main

import (
	"log"
	"time"

	"github.com/LJTian/MarketPulse/internal/collector"
	"github.com/LJTian/MarketPulse/internal/config"
	"github.com/LJTian/MarketPulse/internal/event"
	"github.com/LJTian/MarketPulse/internal/monitor"
	"github.com/LJTian/MarketPulse/internal/pipeline"
	"github.com/LJTian/MarketPulse/internal/queue"
	"github.com/LJTian/MarketPulse/internal/scheduler"
	"github.com/LJTian/MarketPulse/internal/storage"
)

// 一个仅执行一次采集任务的命令行入口：适配外部排期器（cron 等）手动触发
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}
	q := queue.New(cfg.RedisAddr)

	jobs := []scheduler.Job{}

	for _, category := range []string{event.CategoryPolitical, event.CategoryEconomic} {
		c := collector.NewNewsCollector(category, cfg.NewsAPIKey)
		jobs = append(jobs, scheduler.Job{
			Task:     pipeline.NewRunner(c, collector.NewRateLimiter(10, time.Minute), collector.DefaultRetryPolicy(), store, q),
			CronSpec: cfg.NewsCronSpec,
		})
	}
	for _, category := range []string{
		event.CategoryPolitical, event.CategorySports,
		event.CategoryEconomic, event.CategoryMiscellaneous,
	} {
		c := collector.NewMarketCollector(category, cfg.MarketAPIURL)
		jobs = append(jobs, scheduler.Job{
			Task:     pipeline.NewRunner(c, collector.NewRateLimiter(30, time.Minute), collector.DefaultRetryPolicy(), store, q),
			CronSpec: cfg.MarketCronSpec,
		})
	}
	jobs = append(jobs, scheduler.Job{
		Task:     pipeline.NewRunner(&collector.HeadlineCollector{}, nil, collector.DefaultRetryPolicy(), store, q),
		CronSpec: cfg.HeadlinesCronSpec,
	})
	jobs = append(jobs, scheduler.Job{
		Task:     monitor.New(store, q),
		CronSpec: cfg.MonitorCronSpec,
	})

	s, err := scheduler.New(jobs)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮采集任务后退出
	s.RunAll()
}
