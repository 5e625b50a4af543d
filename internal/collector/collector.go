package collector

import "github.com/LJTian/MarketPulse/internal/event"

// RawItem 是数据源返回的一条未加工条目
type RawItem map[string]any

// Collector 抽象每一个数据源：抓取原始条目并逐条映射为统一事件。
// FetchRaw 对传输层错误只记日志并返回空批次，空批次表示"本轮无数据"而非失败；
// Standardize 返回 (nil, nil) 表示丢弃该条目（非错误），单条失败不影响同批其它条目
type Collector interface {
	Name() string
	Source() string
	Category() string
	FetchRaw() ([]RawItem, error)
	Standardize(item RawItem) (*event.CanonicalEvent, error)
}

// SnapshotProvider 由市场类采集器额外实现：从原始条目中抽取 live-state 投影
type SnapshotProvider interface {
	Snapshot(item RawItem, ev *event.CanonicalEvent) *event.MarketSnapshot
}
