package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TopicGoalCompleted 目标完成事实所在的总线主题，分区键为 goalId
const TopicGoalCompleted = "goal-completed-facts"

// ErrMalformedFact 消息无法解析为目标完成事实（永久不可处理）
var ErrMalformedFact = errors.New("malformed goal completion fact")

// GoalCompletionFact 目标完成事实，发布后不可变
type GoalCompletionFact struct {
	GoalID      string    `json:"goalId"`
	StudentID   string    `json:"studentId"`
	GoalTitle   string    `json:"goalTitle"`
	Category    string    `json:"category"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewGoalCompletionFact 由目标生成事实
func NewGoalCompletionFact(goal *Goal, completedAt time.Time) GoalCompletionFact {
	return GoalCompletionFact{
		GoalID:      goal.ID,
		StudentID:   goal.StudentID,
		GoalTitle:   goal.Title,
		Category:    goal.Category,
		CompletedAt: completedAt.UTC(),
	}
}

// goalCompletionWire 解析用结构：字段为指针，用于区分"缺失"与"空字符串"
type goalCompletionWire struct {
	GoalID      *string    `json:"goalId"`
	StudentID   *string    `json:"studentId"`
	GoalTitle   *string    `json:"goalTitle"`
	Category    *string    `json:"category"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ParseGoalCompletionFact 解析总线消息；任一必填字段缺失即视为格式错误（fail closed）
// 空字符串是合法值（例如 category 为空时走"无分类"推荐分支）
func ParseGoalCompletionFact(data []byte) (GoalCompletionFact, error) {
	var w goalCompletionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return GoalCompletionFact{}, fmt.Errorf("%w: %v", ErrMalformedFact, err)
	}

	var missing []string
	if w.GoalID == nil {
		missing = append(missing, "goalId")
	}
	if w.StudentID == nil {
		missing = append(missing, "studentId")
	}
	if w.GoalTitle == nil {
		missing = append(missing, "goalTitle")
	}
	if w.Category == nil {
		missing = append(missing, "category")
	}
	if w.CompletedAt == nil {
		missing = append(missing, "completedAt")
	}
	if len(missing) > 0 {
		return GoalCompletionFact{}, fmt.Errorf("%w: missing %s", ErrMalformedFact, strings.Join(missing, ","))
	}

	return GoalCompletionFact{
		GoalID:      *w.GoalID,
		StudentID:   *w.StudentID,
		GoalTitle:   *w.GoalTitle,
		Category:    *w.Category,
		CompletedAt: *w.CompletedAt,
	}, nil
}
