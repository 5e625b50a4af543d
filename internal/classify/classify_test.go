package classify

import "testing"

func TestCategoryPriorityOrder(t *testing.T) {
	// political 优先于 economic："senate" 与 "market" 同时出现时归政治
	if got := Category("Senate debates market reform"); got != "political" {
		t.Fatalf("Category = %q, want political", got)
	}
	// sports 优先于 economic
	if got := Category("the game moved stocks today"); got != "sports" {
		t.Fatalf("Category = %q, want sports", got)
	}
	if got := Category("GDP numbers released by the Fed"); got != "economic" {
		t.Fatalf("Category = %q, want economic", got)
	}
	if got := Category("a quiet day in the village"); got != "miscellaneous" {
		t.Fatalf("Category = %q, want miscellaneous", got)
	}
}

func TestCategoryCaseInsensitive(t *testing.T) {
	if got := Category("ELECTION DAY"); got != "political" {
		t.Fatalf("Category = %q, want political", got)
	}
}

func TestUrgencyMaxNotSum(t *testing.T) {
	// breaking=7 与 urgent=8 同时出现取最大值 8，而不是 15
	if got := Urgency("Breaking: urgent debate"); got != 8 {
		t.Fatalf("Urgency = %d, want 8", got)
	}
	// alert 恒为最高的 9
	if got := Urgency("alert breaking urgent flash"); got != 9 {
		t.Fatalf("Urgency = %d, want 9", got)
	}
}

func TestUrgencyImportantOnlyWithoutStrongerKeyword(t *testing.T) {
	if got := Urgency("an important announcement"); got != 5 {
		t.Fatalf("Urgency = %d, want 5", got)
	}
	// 有更强触发词时 important 不参与
	if got := Urgency("breaking and important"); got != 7 {
		t.Fatalf("Urgency = %d, want 7", got)
	}
}

func TestUrgencyNoTriggerScoresZero(t *testing.T) {
	if got := Urgency("the weather is mild today"); got != 0 {
		t.Fatalf("Urgency = %d, want 0", got)
	}
}
