package service

import (
	"reflect"
	"testing"
)

func TestKeywordTable(t *testing.T) {
	table := DefaultKeywordTable()

	t.Run("it maps categories to the first matching entry", func(t *testing.T) {
		for category, first := range map[string]string{
			"Fitness":           "fitness",
			"Physical Activity": "fitness",
			"ACADEMIC":          "study",
			"Study Habits":      "study",
			"Mental Health":     "wellness",
			"Stress Relief":     "wellness",
			"Healthy Diet":      "nutrition",
		} {
			got := table.Keywords(category)
			if len(got) == 0 || got[0] != first {
				t.Errorf("Keywords(%q) = %v, want entry starting with %q", category, got, first)
			}
		}
	})

	t.Run("it falls back to the category plus general keywords", func(t *testing.T) {
		got := table.Keywords("Sleep")
		want := []string{"sleep", "wellness", "health", "event"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Keywords(Sleep) = %v, want %v", got, want)
		}
	})

	t.Run("it never yields an empty set for a non-empty category", func(t *testing.T) {
		for _, c := range []string{"x", "wellness", "Event", "  Fitness  ", "未知"} {
			if len(table.Keywords(c)) == 0 {
				t.Errorf("Keywords(%q) is empty", c)
			}
		}
	})

	t.Run("it does not send mental health titles to fitness goals", func(t *testing.T) {
		for _, kw := range table.Keywords("Fitness") {
			if kw == "health" || kw == "mental" {
				t.Errorf("fitness keywords contain %q", kw)
			}
		}
	})

	t.Run("it returns nothing for an empty category", func(t *testing.T) {
		if got := table.Keywords("   "); got != nil {
			t.Errorf("Keywords(blank) = %v", got)
		}
	})
}
