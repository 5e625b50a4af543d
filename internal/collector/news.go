package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/LJTian/MarketPulse/internal/event"
)

const (
	newsMaxResponseBytes = 2 << 20 // 2MB
	newsClientTimeout    = 10 * time.Second
	newsPageSize         = 20
)

// ArticleSource 抽象新闻文章的获取方式：线上 API 或本地固定样例。
// 缺少 API key 时在构造阶段显式降级为样例源，而不是运行期隐式分支
type ArticleSource interface {
	FetchArticles() ([]RawItem, error)
}

// NewsCollector 按类别从 NewsAPI 风格的接口采集新闻文章
type NewsCollector struct {
	source   string
	category string
	articles ArticleSource
}

// NewNewsCollector 构造一个新闻采集器；apiKey 为空时退化为固定样例模式
func NewNewsCollector(category, apiKey string) *NewsCollector {
	c := &NewsCollector{
		source:   "news_api_org",
		category: category,
	}

	if apiKey == "" {
		log.Printf("news collector (%s): NEWS_API_KEY not set, using fixture articles", category)
		c.articles = &FixtureArticleSource{Category: category}
		return c
	}

	c.articles = &liveArticleSource{
		endpoint: newsEndpointFor(category),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: newsClientTimeout},
	}
	return c
}

// newsEndpointFor 按类别选择接口：政治/经济走 top-headlines 专栏，其余做通用检索
func newsEndpointFor(category string) string {
	switch category {
	case event.CategoryPolitical:
		return "https://newsapi.org/v2/top-headlines?country=us&category=politics"
	case event.CategoryEconomic:
		return "https://newsapi.org/v2/top-headlines?country=us&category=business"
	default:
		return "https://newsapi.org/v2/everything?q=" + url.QueryEscape(category)
	}
}

func (c *NewsCollector) Name() string     { return "news_" + c.category }
func (c *NewsCollector) Source() string   { return c.source }
func (c *NewsCollector) Category() string { return c.category }

func (c *NewsCollector) FetchRaw() ([]RawItem, error) {
	items, err := c.articles.FetchArticles()
	if err != nil {
		// 传输层失败只记日志，空批次表示本轮无数据
		log.Printf("news collector (%s): fetch failed: %v", c.category, err)
		return nil, nil
	}
	return items, nil
}

// Standardize 把一条 NewsAPI 文章映射为统一事件；
// 被下架的占位文章（"[Removed]"）和没有 URL 的条目直接丢弃
func (c *NewsCollector) Standardize(item RawItem) (*event.CanonicalEvent, error) {
	title, _ := item["title"].(string)
	articleURL, _ := item["url"].(string)
	if articleURL == "" || title == "" || title == "[Removed]" {
		return nil, nil
	}

	metadata := datatypes.JSONMap{
		"fetch_timestamp": time.Now().Unix(),
		"article_url":     articleURL,
	}
	if publishedAt, ok := item["publishedAt"].(string); ok {
		metadata["published_at"] = publishedAt
	}
	if src, ok := item["source"].(map[string]any); ok {
		if name, ok := src["name"].(string); ok {
			metadata["api_source_name"] = name // 例如 "Reuters"
		}
	}

	return &event.CanonicalEvent{
		ID:        uuid.NewString(),
		Source:    c.source,
		EventType: "news_article",
		Category:  c.category,
		Content:   datatypes.JSONMap(item),
		Metadata:  metadata,
	}, nil
}

// liveArticleSource 调用真实的 NewsAPI 接口
type liveArticleSource struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func (s *liveArticleSource) FetchArticles() ([]RawItem, error) {
	req, err := http.NewRequest(http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("news: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	q := req.URL.Query()
	q.Set("pageSize", fmt.Sprintf("%d", newsPageSize))
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Articles []RawItem `json:"articles"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, newsMaxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("news: decode response: %w", err)
	}
	return payload.Articles, nil
}
