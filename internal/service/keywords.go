package service

import (
	"strings"
)

// KeywordEntry 一组分类触发词及其对应的标题关键词（顺序即优先级）
type KeywordEntry struct {
	Triggers []string
	Keywords []string
}

// KeywordTable 目标分类 -> 活动标题关键词；按条目顺序匹配，首个命中的条目生效
type KeywordTable struct {
	Entries  []KeywordEntry
	Fallback []string // 未命中任何条目时追加在分类本身之后
}

// DefaultKeywordTable 默认关键词表
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		Entries: []KeywordEntry{
			{
				Triggers: []string{"fitness", "exercise", "physical"},
				Keywords: []string{"fitness", "workout", "exercise", "yoga", "running", "gym", "sports"},
			},
			{
				Triggers: []string{"academic", "study", "learning"},
				Keywords: []string{"study", "academic", "workshop", "seminar", "tutoring", "learning", "education"},
			},
			{
				Triggers: []string{"mental", "wellness", "stress"},
				Keywords: []string{"wellness", "mental", "meditation", "mindfulness", "stress", "counseling", "support"},
			},
			{
				Triggers: []string{"nutrition", "diet", "food"},
				Keywords: []string{"nutrition", "cooking", "diet", "healthy", "food", "meal"},
			},
		},
		Fallback: []string{"wellness", "health", "event"},
	}
}

// Keywords 返回分类对应的关键词（小写，非空）；分类为空时返回 nil
func (t KeywordTable) Keywords(category string) []string {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		return nil
	}
	for _, e := range t.Entries {
		for _, trig := range e.Triggers {
			if strings.Contains(cat, trig) {
				return e.Keywords
			}
		}
	}
	out := make([]string, 0, len(t.Fallback)+1)
	out = append(out, cat)
	for _, k := range t.Fallback {
		if k != cat {
			out = append(out, k)
		}
	}
	return out
}
