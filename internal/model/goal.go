package model

import (
	"strings"
	"time"
)

// 目标状态
const (
	GoalStatusActive    = "ACTIVE"
	GoalStatusCompleted = "COMPLETED"
	GoalStatusCancelled = "CANCELLED"
)

// Goal 学生健康目标
type Goal struct {
	ID          string     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	StudentID   string     `gorm:"column:student_id;type:varchar(64);index;not null" json:"studentId"`
	Title       string     `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Category    string     `gorm:"column:category;type:varchar(64);index" json:"category"`
	Status      string     `gorm:"column:status;type:varchar(16);index;default:ACTIVE" json:"status"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;default:now()" json:"createdAt"`
	TargetDate  *time.Time `gorm:"column:target_date;type:timestamptz" json:"targetDate,omitempty"`
}

func (Goal) TableName() string { return "goals" }

// IsCompleted 状态是否为已完成（忽略大小写）
func (g *Goal) IsCompleted() bool {
	return IsCompletedStatus(g.Status)
}

// IsCompletedStatus 判断状态字符串是否为已完成
func IsCompletedStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), GoalStatusCompleted)
}
