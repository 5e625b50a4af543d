package config

import (
	"log"
	"os"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	// 缺失时新闻采集器显式降级为固定样例模式，不影响进程启动
	NewsAPIKey string
	// 预测市场接口地址，留空使用默认端点
	MarketAPIURL string

	// 各数据源按更新频率配置独立的采集周期
	NewsCronSpec      string
	MarketCronSpec    string
	HeadlinesCronSpec string
	MonitorCronSpec   string
}

func Load() *Config {
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "9000"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=marketpulse password=marketpulse dbname=marketpulse port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		NewsAPIKey:   getEnv("NEWS_API_KEY", ""),
		MarketAPIURL: getEnv("MARKET_API_URL", ""),

		NewsCronSpec:      getEnv("NEWS_CRON", "*/10 * * * *"),
		MarketCronSpec:    getEnv("MARKET_CRON", "*/5 * * * *"),
		HeadlinesCronSpec: getEnv("HEADLINES_CRON", "*/30 * * * *"),
		MonitorCronSpec:   getEnv("MONITOR_CRON", "*/5 * * * *"),
	}

	log.Printf("config loaded: port=%s news_cron=%s market_cron=%s monitor_cron=%s",
		cfg.AppPort, cfg.NewsCronSpec, cfg.MarketCronSpec, cfg.MonitorCronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
