package model

import (
	"time"
)

// Event 健康活动（活动目录中的候选活动）
type Event struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title    string    `gorm:"column:title;type:varchar(256);not null" json:"title"`
	StartsAt time.Time `gorm:"column:starts_at;type:timestamptz;index;not null" json:"startsAt"`
	Location string    `gorm:"column:location;type:varchar(120)" json:"location,omitempty"`
}

func (Event) TableName() string { return "events" }

// Registration 活动报名记录
type Registration struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID       uint64    `gorm:"column:event_id;type:bigint;index;not null" json:"eventId"`
	AttendeeName  string    `gorm:"column:attendee_name;type:varchar(120);not null" json:"attendeeName"`
	AttendeeEmail string    `gorm:"column:attendee_email;type:varchar(160);not null" json:"attendeeEmail"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;default:now()" json:"createdAt"`
}

func (Registration) TableName() string { return "registrations" }

// EventWithResources 活动详情 + 资源目录中的关联资源
type EventWithResources struct {
	Event     *Event     `json:"event"`
	Resources []Resource `json:"resources"`
}
