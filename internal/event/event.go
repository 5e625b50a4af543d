package event

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// 内部统一的四个事件类别
const (
	CategoryPolitical     = "political"
	CategorySports        = "sports"
	CategoryEconomic      = "economic"
	CategoryMiscellaneous = "miscellaneous"
)

// ErrValidation 表示事件缺少必填字段，重试无意义，直接丢弃该条目
var ErrValidation = errors.New("event validation failed")

// CanonicalEvent 是采集管道中流转的统一事件结构，入库后不再修改（追加式日志）
type CanonicalEvent struct {
	ID             string            `gorm:"primaryKey;size:40" json:"id"`
	Source         string            `gorm:"size:64;index" json:"source"`
	EventType      string            `gorm:"size:64;index" json:"eventType"`
	Category       string            `gorm:"size:32;index" json:"category"`
	Content        datatypes.JSONMap `gorm:"type:jsonb" json:"content"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	RelevanceScore *float64          `json:"relevanceScore"`
	// 下游分析阶段消费后置位；突发监控只扫描未处理的事件
	Processed bool      `gorm:"index;default:false" json:"processed"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (CanonicalEvent) TableName() string {
	return "raw_data_events"
}

// Validate 检查必填字段（source / eventType / category / content），
// 在任何 I/O 之前调用；校验失败的事件不允许部分入库
func (e *CanonicalEvent) Validate() error {
	switch {
	case e.Source == "":
		return fmt.Errorf("%w: missing source", ErrValidation)
	case e.EventType == "":
		return fmt.Errorf("%w: missing eventType", ErrValidation)
	case e.Category == "":
		return fmt.Errorf("%w: missing category", ErrValidation)
	case len(e.Content) == 0:
		return fmt.Errorf("%w: missing content", ErrValidation)
	}
	return nil
}

// MarketSnapshot 是市场类数据源的衍生投影：每个 marketId 只保留一行最新状态，
// 新一轮采集直接覆盖旧值（live-state 表，不是日志）
type MarketSnapshot struct {
	MarketID   string            `gorm:"primaryKey;size:128" json:"marketId"`
	Category   string            `gorm:"size:32;index" json:"category"`
	Price      *float64          `json:"price"`
	Volume     *int64            `json:"volume"`
	MarketData datatypes.JSONMap `gorm:"type:jsonb" json:"marketData"`
	Source     string            `gorm:"size:64" json:"source"`
	Timestamp  time.Time         `json:"timestamp"`
}

func (MarketSnapshot) TableName() string {
	return "market_snapshots"
}

// BreakingEvent 记录被突发监控判定为紧急的事件。
// raw_event_id 唯一，同一原始事件重复扫描时 insert-or-ignore，不报错也不产生重复行
type BreakingEvent struct {
	RawEventID   string            `gorm:"primaryKey;size:40" json:"rawEventId"`
	Category     string            `gorm:"size:32;index" json:"category"`
	EventData    datatypes.JSONMap `gorm:"type:jsonb" json:"eventData"`
	UrgencyScore int               `gorm:"index" json:"urgencyScore"`
	Processed    bool              `gorm:"index;default:false" json:"processed"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
}

func (BreakingEvent) TableName() string {
	return "breaking_events"
}

// SourceReliability 按 (source, category) 累计数据源的可信度计数。
// 计数做累加合并，accuracy_score 直接用最新值覆盖（简化方案，见 DESIGN.md）
type SourceReliability struct {
	Source                string    `gorm:"primaryKey;size:64" json:"source"`
	Category              string    `gorm:"primaryKey;size:32" json:"category"`
	TotalEventsProcessed  int64     `json:"totalEventsProcessed"`
	SuccessfulPredictions int64     `json:"successfulPredictions"`
	AccuracyScore         float64   `json:"accuracyScore"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

func (SourceReliability) TableName() string {
	return "source_reliability"
}
