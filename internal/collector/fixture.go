package collector

import "time"

// FixtureArticleSource 在缺少 API key 时提供少量固定样例文章，
// 保证管道在本地或未配置环境中仍可端到端跑通
type FixtureArticleSource struct {
	Category string
}

func (s *FixtureArticleSource) FetchArticles() ([]RawItem, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	base := []RawItem{
		{
			"title":       "Senate schedules vote on budget bill",
			"description": "Lawmakers prepare for a closely watched government vote this week.",
			"url":         "https://example.com/fixtures/senate-budget-vote",
			"publishedAt": now,
			"source":      map[string]any{"name": "Fixture Wire"},
		},
		{
			"title":       "Championship match ends in overtime thriller",
			"description": "The final game drew a record audience for the league.",
			"url":         "https://example.com/fixtures/championship-overtime",
			"publishedAt": now,
			"source":      map[string]any{"name": "Fixture Wire"},
		},
		{
			"title":       "Markets steady as fed signals patience",
			"description": "Stocks held gains while traders weighed economic data.",
			"url":         "https://example.com/fixtures/markets-steady",
			"publishedAt": now,
			"source":      map[string]any{"name": "Fixture Wire"},
		},
	}

	return base, nil
}
