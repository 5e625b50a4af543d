package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/LJTian/MarketPulse/internal/event"
)

const (
	marketMaxResponseBytes = 8 << 20 // 8MB，行情接口单页返回较大
	marketClientTimeout    = 15 * time.Second
	marketFetchLimit       = 100
	defaultMarketAPIURL    = "https://gamma-api.polymarket.com/markets"
)

// 内部类别到行情接口查询参数的映射
var marketCategoryQuery = map[string]string{
	event.CategoryPolitical:     "politics",
	event.CategorySports:        "sports",
	event.CategoryEconomic:      "economy",
	event.CategoryMiscellaneous: "misc",
}

// 行情接口类别回我们内部分类的归一化；接口侧大小写不定，先统一小写
func normalizeMarketCategory(vendor string) string {
	switch strings.ToLower(vendor) {
	case "politics", "political":
		return event.CategoryPolitical
	case "sports", "gaming":
		return event.CategorySports
	case "economy", "business", "finance":
		return event.CategoryEconomic
	default:
		return event.CategoryMiscellaneous
	}
}

// MarketCollector 按类别从预测市场接口采集开放中的市场，
// 除统一事件外还抽取 market_snapshots 的 live-state 投影
type MarketCollector struct {
	source   string
	category string
	endpoint string
	client   *http.Client

	now func() time.Time // 可测试封装，用于过期判断
}

func NewMarketCollector(category, endpoint string) *MarketCollector {
	if endpoint == "" {
		endpoint = defaultMarketAPIURL
	}
	return &MarketCollector{
		source:   "polymarket_api",
		category: category,
		endpoint: endpoint,
		client:   &http.Client{Timeout: marketClientTimeout},
		now:      time.Now,
	}
}

func (c *MarketCollector) Name() string     { return "market_" + c.category }
func (c *MarketCollector) Source() string   { return c.source }
func (c *MarketCollector) Category() string { return c.category }

func (c *MarketCollector) FetchRaw() ([]RawItem, error) {
	req, err := http.NewRequest(http.MethodGet, c.endpoint, nil)
	if err != nil {
		log.Printf("market collector (%s): build request: %v", c.category, err)
		return nil, nil
	}

	q := req.URL.Query()
	q.Set("status", "open")
	q.Set("category", marketCategoryQuery[c.category])
	q.Set("limit", fmt.Sprintf("%d", marketFetchLimit))
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("market collector (%s): request failed: %v", c.category, err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("market collector (%s): unexpected status %d", c.category, resp.StatusCode)
		return nil, nil
	}

	var payload struct {
		Data []RawItem `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, marketMaxResponseBytes)).Decode(&payload); err != nil {
		log.Printf("market collector (%s): decode response: %v", c.category, err)
		return nil, nil
	}

	return payload.Data, nil
}

// Standardize 把一条市场数据映射为统一事件。
// 已关闭、已过盘（endsAt 在当前时间之前）或缺少稳定标识的市场直接丢弃
func (c *MarketCollector) Standardize(item RawItem) (*event.CanonicalEvent, error) {
	marketID := stableMarketID(item)
	if marketID == "" {
		return nil, nil
	}
	if closed, ok := item["closed"].(bool); ok && closed {
		return nil, nil
	}
	if endsAt, ok := item["endsAt"].(string); ok && endsAt != "" {
		if t, err := time.Parse(time.RFC3339, endsAt); err == nil && t.Before(c.now()) {
			return nil, nil
		}
	}

	// 未带类别的条目归入 miscellaneous，不继承查询时的类别
	vendorCategory, _ := item["category"].(string)
	category := normalizeMarketCategory(vendorCategory)

	metadata := datatypes.JSONMap{
		"fetch_timestamp": time.Now().Unix(),
		"market_id":       marketID,
	}
	if title, ok := item["title"].(string); ok {
		metadata["title"] = title
	}
	if status, ok := item["status"].(string); ok {
		metadata["status"] = status
	}
	if endsAt, ok := item["endsAt"].(string); ok {
		metadata["ends_at"] = endsAt
	}

	return &event.CanonicalEvent{
		ID:        uuid.NewString(),
		Source:    c.source,
		EventType: "market_data",
		Category:  category,
		Content:   datatypes.JSONMap(item),
		Metadata:  metadata,
	}, nil
}

// Snapshot 抽取 live-state 投影：每个 marketId 一行，后写覆盖先写
func (c *MarketCollector) Snapshot(item RawItem, ev *event.CanonicalEvent) *event.MarketSnapshot {
	marketID := stableMarketID(item)
	if marketID == "" {
		return nil
	}

	snap := &event.MarketSnapshot{
		MarketID:   marketID,
		Category:   ev.Category,
		MarketData: datatypes.JSONMap(item),
		Source:     c.source,
		Timestamp:  time.Now(),
	}
	if price, ok := item["currentPrice"].(float64); ok {
		snap.Price = &price
	}
	if vol, ok := item["volumeUsd"].(float64); ok {
		v := int64(vol)
		snap.Volume = &v
	}
	return snap
}

// stableMarketID 优先用 id，缺失时退回 slug；两者都没有视为不可用条目
func stableMarketID(item RawItem) string {
	switch id := item["id"].(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	if slug, ok := item["slug"].(string); ok {
		return slug
	}
	return ""
}
