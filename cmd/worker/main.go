package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/LJTian/MarketPulse/internal/config"
	"github.com/LJTian/MarketPulse/internal/queue"
	"github.com/LJTian/MarketPulse/internal/worker"
)

// 校验 worker 入口：消费采集流并把合格事件转发给下游分析系统
func main() {
	cfg := config.Load()

	q := queue.New(cfg.RedisAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := worker.NewValidator(q)
	if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("validator worker exit: %v", err)
	}
	log.Println("validator worker stopped")
}
