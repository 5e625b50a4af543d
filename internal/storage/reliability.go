package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LJTian/MarketPulse/internal/event"
)

// RecordSourceReliability 按 (source, category) 累计一批采集的可信度观测。
// 计数做累加合并；accuracy_score 直接用最新观测覆盖而不做加权平均——
// 这是既定的简化方案，加权更新留给下游分析系统定义后再改
func (s *Store) RecordSourceReliability(source, category string, processed, successes int64, accuracy float64) error {
	rec := &event.SourceReliability{
		Source:                source,
		Category:              category,
		TotalEventsProcessed:  processed,
		SuccessfulPredictions: successes,
		AccuracyScore:         accuracy,
		LastUpdated:           time.Now(),
	}

	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "category"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_events_processed": gorm.Expr("source_reliability.total_events_processed + excluded.total_events_processed"),
			"successful_predictions": gorm.Expr("source_reliability.successful_predictions + excluded.successful_predictions"),
			"accuracy_score":         gorm.Expr("excluded.accuracy_score"),
			"last_updated":           gorm.Expr("excluded.last_updated"),
		}),
	}).Create(rec).Error
}
