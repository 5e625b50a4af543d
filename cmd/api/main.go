package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/MarketPulse/internal/api"
	"github.com/LJTian/MarketPulse/internal/collector"
	"github.com/LJTian/MarketPulse/internal/config"
	"github.com/LJTian/MarketPulse/internal/event"
	"github.com/LJTian/MarketPulse/internal/monitor"
	"github.com/LJTian/MarketPulse/internal/pipeline"
	"github.com/LJTian/MarketPulse/internal/queue"
	"github.com/LJTian/MarketPulse/internal/scheduler"
	"github.com/LJTian/MarketPulse/internal/storage"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}
	q := queue.New(cfg.RedisAddr)

	s, err := scheduler.New(buildJobs(cfg, store, q))
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	// API：健康/就绪探针 + 事件查询
	r := gin.Default()
	apiServer := api.NewServer(store, q)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// buildJobs 注册全部采集任务；单个采集器配置失败不影响其它采集器
func buildJobs(cfg *config.Config, store *storage.Store, q *queue.Queue) []scheduler.Job {
	// 新闻接口额度较紧：10 次/分钟
	newsLimiter := func() *collector.RateLimiter { return collector.NewRateLimiter(10, time.Minute) }
	// 行情接口较宽裕：30 次/分钟
	marketLimiter := func() *collector.RateLimiter { return collector.NewRateLimiter(30, time.Minute) }

	jobs := []scheduler.Job{}

	for _, category := range []string{event.CategoryPolitical, event.CategoryEconomic} {
		c := collector.NewNewsCollector(category, cfg.NewsAPIKey)
		jobs = append(jobs, scheduler.Job{
			Task:     pipeline.NewRunner(c, newsLimiter(), collector.DefaultRetryPolicy(), store, q),
			CronSpec: cfg.NewsCronSpec,
		})
	}

	for _, category := range []string{
		event.CategoryPolitical, event.CategorySports,
		event.CategoryEconomic, event.CategoryMiscellaneous,
	} {
		c := collector.NewMarketCollector(category, cfg.MarketAPIURL)
		jobs = append(jobs, scheduler.Job{
			Task:     pipeline.NewRunner(c, marketLimiter(), collector.DefaultRetryPolicy(), store, q),
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

	return jobs
}
