package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LJTian/MarketPulse/internal/event"
)

// Store 独占所有持久化行：统一事件表为追加式日志，
// 快照与突发事件表依赖数据库自身的冲突子句保证并发写入安全
type Store struct {
	DB *gorm.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&event.CanonicalEvent{},
		&event.MarketSnapshot{},
		&event.BreakingEvent{},
		&event.SourceReliability{},
	); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// Ping 探测数据库连通性，供就绪检查使用
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// StoreEvent 追加一条统一事件并返回生成的标识。
// 必填字段在任何 I/O 之前校验，校验失败时不写入任何数据；
// 已有行永不更新（追加式日志）
func (s *Store) StoreEvent(ev *event.CanonicalEvent) (string, error) {
	if err := ev.Validate(); err != nil {
		return "", err
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if err := s.DB.Create(ev).Error; err != nil {
		return "", err
	}
	return ev.ID, nil
}

// UpsertSnapshot 按 market_id 插入或整行覆盖（后写者胜）。
// 两轮采集交叠时最后提交的一轮决定存储状态，存储层不做版本保护
func (s *Store) UpsertSnapshot(snap *event.MarketSnapshot) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "market_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category", "price", "volume", "market_data", "source", "timestamp",
		}),
	}).Create(snap).Error
}

// UpsertBreakingEvent 按 raw_event_id 做 insert-or-ignore：
// 监控在回看窗口内重复扫描同一事件时静默去重，先写者胜
func (s *Store) UpsertBreakingEvent(be *event.BreakingEvent) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "raw_event_id"}},
		DoNothing: true,
	}).Create(be).Error
}

// RecentUnprocessed 返回回看窗口内未处理的统一事件，按时间倒序并限制行数。
// 倾向近期而非完整：超出窗口的事件对监控永久不可见（既有取舍，不在此处修补）
func (s *Store) RecentUnprocessed(lookback time.Duration, limit int) ([]event.CanonicalEvent, error) {
	var events []event.CanonicalEvent
	err := s.DB.
		Where("processed = ? AND created_at > ?", false, time.Now().Add(-lookback)).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// ListEvents 按可选类别返回最近的统一事件，供查询接口使用
func (s *Store) ListEvents(category string, limit int) ([]event.CanonicalEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	db := s.DB.Model(&event.CanonicalEvent{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	var events []event.CanonicalEvent
	err := db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

// ListBreaking 按紧急度与时间返回最近的突发事件
func (s *Store) ListBreaking(limit int) ([]event.BreakingEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var events []event.BreakingEvent
	err := s.DB.
		Order("urgency_score DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
