package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"WellnessHub/internal/model"

	"gorm.io/gorm"
)

// EventQuery 活动列表筛选条件；Start/End 同时给出时按 [Start, End) 过滤
type EventQuery struct {
	Start    *time.Time
	End      *time.Time
	Location string // 地点子串，忽略大小写
}

// EventRepository 活动与报名持久化，同时实现 interfaces.EventCatalog
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	Save(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint64) error
	Search(ctx context.Context, q EventQuery) ([]model.Event, error)
	FindStartingBetween(ctx context.Context, start, end time.Time) ([]model.Event, error)
	FindByLocation(ctx context.Context, location string) ([]model.Event, error)

	CreateRegistration(ctx context.Context, reg *model.Registration) error
	ListRegistrations(ctx context.Context, eventID uint64) ([]model.Registration, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建活动仓储
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Save(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete 删除活动及其报名记录（同一事务）
func (r *eventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Registration{}).Error; err != nil {
			return fmt.Errorf("删除报名记录失败: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&model.Event{})
		if res.Error != nil {
			return fmt.Errorf("删除活动失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Search 按时间窗口与地点筛选，按开始时间升序
func (r *eventRepository) Search(ctx context.Context, q EventQuery) ([]model.Event, error) {
	db := r.db.WithContext(ctx).Model(&model.Event{})
	if q.Start != nil && q.End != nil {
		db = db.Where("starts_at >= ? AND starts_at < ?", *q.Start, *q.End)
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		db = db.Where("location ILIKE ?", "%"+escapeLike(loc)+"%")
	}
	events := make([]model.Event, 0)
	if err := db.Order("starts_at ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindStartingBetween(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return r.Search(ctx, EventQuery{Start: &start, End: &end})
}

func (r *eventRepository) FindByLocation(ctx context.Context, location string) ([]model.Event, error) {
	return r.Search(ctx, EventQuery{Location: location})
}

func (r *eventRepository) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *eventRepository) ListRegistrations(ctx context.Context, eventID uint64) ([]model.Registration, error) {
	regs := make([]model.Registration, 0)
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
