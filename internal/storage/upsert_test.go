package storage

import (
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LJTian/MarketPulse/internal/event"
)

// newTestStore 在内存 SQLite 上建表；冲突子句（ON CONFLICT ... excluded.*）
// 与 PostgreSQL 语义一致，可用于验证存储层的合并行为
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&event.CanonicalEvent{},
		&event.MarketSnapshot{},
		&event.BreakingEvent{},
		&event.SourceReliability{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Store{DB: db}
}

func TestUpsertSnapshotLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	price1, vol1 := 0.40, int64(100)
	if err := s.UpsertSnapshot(&event.MarketSnapshot{
		MarketID:   "mkt-1",
		Category:   event.CategoryPolitical,
		Price:      &price1,
		Volume:     &vol1,
		MarketData: datatypes.JSONMap{"status": "open"},
		Source:     "polymarket_api",
		Timestamp:  time.Now(),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	price2, vol2 := 0.62, int64(250)
	if err := s.UpsertSnapshot(&event.MarketSnapshot{
		MarketID:   "mkt-1",
		Category:   event.CategoryPolitical,
		Price:      &price2,
		Volume:     &vol2,
		MarketData: datatypes.JSONMap{"status": "open"},
		Source:     "polymarket_api",
		Timestamp:  time.Now(),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := s.DB.Model(&event.MarketSnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1 (same marketId must not duplicate)", count)
	}

	var got event.MarketSnapshot
	if err := s.DB.First(&got, "market_id = ?", "mkt-1").Error; err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got.Price == nil || *got.Price != 0.62 {
		t.Fatalf("Price = %v, want 0.62 (second write wins)", got.Price)
	}
	if got.Volume == nil || *got.Volume != 250 {
		t.Fatalf("Volume = %v, want 250 (second write wins)", got.Volume)
	}
}

func TestUpsertBreakingEventIgnoresDuplicate(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertBreakingEvent(&event.BreakingEvent{
		RawEventID:   "ev-1",
		Category:     event.CategoryPolitical,
		EventData:    datatypes.JSONMap{"title": "breaking vote"},
		UrgencyScore: 7,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// 重复扫描到同一事件：静默忽略，不报错、不覆盖
	if err := s.UpsertBreakingEvent(&event.BreakingEvent{
		RawEventID:   "ev-1",
		Category:     event.CategoryPolitical,
		EventData:    datatypes.JSONMap{"title": "breaking vote"},
		UrgencyScore: 9,
	}); err != nil {
		t.Fatalf("duplicate upsert should not error: %v", err)
	}

	var count int64
	if err := s.DB.Model(&event.BreakingEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}

	var got event.BreakingEvent
	if err := s.DB.First(&got, "raw_event_id = ?", "ev-1").Error; err != nil {
		t.Fatalf("load breaking event: %v", err)
	}
	if got.UrgencyScore != 7 {
		t.Fatalf("UrgencyScore = %d, want 7 (first write wins)", got.UrgencyScore)
	}
}

func TestRecordSourceReliabilityAccumulates(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordSourceReliability("news_api_org", event.CategoryPolitical, 10, 3, 0.5); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := s.RecordSourceReliability("news_api_org", event.CategoryPolitical, 5, 2, 0.8); err != nil {
		t.Fatalf("second record: %v", err)
	}
	// 另一类别独立计数
	if err := s.RecordSourceReliability("news_api_org", event.CategoryEconomic, 4, 1, 0.6); err != nil {
		t.Fatalf("other category record: %v", err)
	}

	var got event.SourceReliability
	if err := s.DB.First(&got, "source = ? AND category = ?", "news_api_org", event.CategoryPolitical).Error; err != nil {
		t.Fatalf("load reliability: %v", err)
	}
	if got.TotalEventsProcessed != 15 {
		t.Fatalf("TotalEventsProcessed = %d, want 15 (additive merge)", got.TotalEventsProcessed)
	}
	if got.SuccessfulPredictions != 5 {
		t.Fatalf("SuccessfulPredictions = %d, want 5 (additive merge)", got.SuccessfulPredictions)
	}
	if got.AccuracyScore != 0.8 {
		t.Fatalf("AccuracyScore = %v, want 0.8 (latest observation wins)", got.AccuracyScore)
	}

	var count int64
	if err := s.DB.Model(&event.SourceReliability{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("rows = %d, want 2 (per source+category)", count)
	}
}

func TestRecentUnprocessedHonorsWindowAndFlag(t *testing.T) {
	s := newTestStore(t)

	recent := event.CanonicalEvent{
		ID: "ev-recent", Source: "s", EventType: "news_article",
		Category: event.CategoryPolitical, Content: datatypes.JSONMap{"t": "a"},
		CreatedAt: time.Now().Add(-time.Minute),
	}
	stale := event.CanonicalEvent{
		ID: "ev-stale", Source: "s", EventType: "news_article",
		Category: event.CategoryPolitical, Content: datatypes.JSONMap{"t": "b"},
		CreatedAt: time.Now().Add(-time.Hour),
	}
	done := event.CanonicalEvent{
		ID: "ev-done", Source: "s", EventType: "news_article",
		Category: event.CategoryPolitical, Content: datatypes.JSONMap{"t": "c"},
		Processed: true, CreatedAt: time.Now().Add(-time.Minute),
	}
	for _, ev := range []event.CanonicalEvent{recent, stale, done} {
		if err := s.DB.Create(&ev).Error; err != nil {
			t.Fatalf("seed %s: %v", ev.ID, err)
		}
	}

	events, err := s.RecentUnprocessed(15*time.Minute, 20)
	if err != nil {
		t.Fatalf("RecentUnprocessed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "ev-recent" {
		t.Fatalf("events = %+v, want only ev-recent", events)
	}
}
