package collector

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/LJTian/MarketPulse/internal/classify"
	"github.com/LJTian/MarketPulse/internal/event"
)

const (
	headlinesClientTimeout = 10 * time.Second
	defaultHeadlinesURL    = "https://apnews.com/"
)

// HeadlineCollector 抓取 AP 新闻首页的头条卡片作为补充新闻源。
// 没有独立的类别配置，逐条用关键词归类
type HeadlineCollector struct {
	// 留空时抓取 AP 首页，测试可注入本地地址
	BaseURL string
}

func (h *HeadlineCollector) Name() string     { return "ap_headlines" }
func (h *HeadlineCollector) Source() string   { return "ap_wire" }
func (h *HeadlineCollector) Category() string { return event.CategoryMiscellaneous }

func (h *HeadlineCollector) FetchRaw() ([]RawItem, error) {
	base := h.BaseURL
	if base == "" {
		base = defaultHeadlinesURL
	}
	u, err := url.Parse(base)
	if err != nil {
		log.Printf("fetch headlines: bad base url %q: %v", base, err)
		return nil, nil
	}

	log.Println("fetch AP headlines...")

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.UserAgent("MarketPulseBot/1.0"),
	)
	c.SetRequestTimeout(headlinesClientTimeout)

	results := make([]RawItem, 0, 30)

	// 页面结构可能调整，此处基于当前的 DOM 结构做"尽力而为"的解析
	c.OnHTML("div.PagePromo", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText("h3.PagePromo-title"))
		if title == "" {
			title = strings.TrimSpace(e.ChildText("a.Link"))
		}
		// 卡片里常见站内相对链接，补全为绝对地址
		href := e.Request.AbsoluteURL(e.ChildAttr("a", "href"))
		if title == "" || href == "" {
			return
		}

		summary := strings.TrimSpace(e.ChildText("div.PagePromo-description"))

		results = append(results, RawItem{
			"title":       title,
			"url":         href,
			"description": summary,
		})
	})

	if err := c.Visit(base); err != nil {
		log.Printf("fetch AP headlines failed: %v", err)
		return nil, nil
	}

	if len(results) == 0 {
		log.Println("ap headlines: no items parsed")
	}
	return results, nil
}

func (h *HeadlineCollector) Standardize(item RawItem) (*event.CanonicalEvent, error) {
	title, _ := item["title"].(string)
	href, _ := item["url"].(string)
	if title == "" || href == "" {
		return nil, nil
	}

	description, _ := item["description"].(string)

	return &event.CanonicalEvent{
		ID:        uuid.NewString(),
		Source:    h.Source(),
		EventType: "news_article",
		Category:  classify.Category(title + " " + description),
		Content:   datatypes.JSONMap(item),
		Metadata: datatypes.JSONMap{
			"fetch_timestamp": time.Now().Unix(),
			"article_url":     href,
		},
	}, nil
}
