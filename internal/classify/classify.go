package classify

import "strings"

// 类别关键词按固定优先级匹配：political → sports → economic，先命中者胜。
// 例如 "market" 同时出现在政治与经济语境时由优先级决定归类，顺序不可调整
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"political", []string{"election", "president", "government", "senate"}},
	{"sports", []string{"sports", "game", "match", "player"}},
	{"economic", []string{"market", "economy", "gdp", "fed", "stocks"}},
}

// Category 对事件文本做确定性的关键词归类，无命中时归入 miscellaneous
func Category(text string) string {
	text = strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				return set.category
			}
		}
	}
	return "miscellaneous"
}

// 紧急度触发词与其分值；取命中关键词的最大值而不是求和
var urgencyKeywords = []struct {
	keyword string
	score   int
}{
	{"breaking", 7},
	{"urgent", 8},
	{"alert", 9},
	{"flash", 8},
}

// Urgency 对小写化后的文本打一个 [0,10] 的整数紧急度。
// "important" 只在没有更强触发词时贡献 5 分
func Urgency(text string) int {
	text = strings.ToLower(text)
	score := 0
	matched := false
	for _, kw := range urgencyKeywords {
		if strings.Contains(text, kw.keyword) {
			matched = true
			if kw.score > score {
				score = kw.score
			}
		}
	}
	if !matched && strings.Contains(text, "important") && score < 5 {
		score = 5
	}
	return score
}
