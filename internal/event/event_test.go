package event

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestValidateRequiredFields(t *testing.T) {
	ev := CanonicalEvent{
		Source:    "news_api_org",
		EventType: "news_article",
		Category:  CategoryPolitical,
		Content:   datatypes.JSONMap{"title": "x"},
	}
	if err := ev.Validate(); err != nil {
		t.Fatalf("complete event should validate: %v", err)
	}

	// 四个必填字段缺一不可
	broken := []CanonicalEvent{
		{EventType: "news_article", Category: CategoryPolitical, Content: datatypes.JSONMap{"a": 1}},
		{Source: "s", Category: CategoryPolitical, Content: datatypes.JSONMap{"a": 1}},
		{Source: "s", EventType: "news_article", Content: datatypes.JSONMap{"a": 1}},
		{Source: "s", EventType: "news_article", Category: CategoryPolitical},
	}
	for i, b := range broken {
		if err := b.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}
