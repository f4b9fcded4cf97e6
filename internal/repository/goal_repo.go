package repository

import (
	"context"

	"WellnessHub/internal/model"

	"gorm.io/gorm"
)

// GoalFilter 目标列表筛选条件
type GoalFilter struct {
	StudentID string
	Status    string
	Category  string
}

// GoalRepository 目标持久化
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	GetByID(ctx context.Context, id string) (*model.Goal, error)
	List(ctx context.Context, filter GoalFilter) ([]model.Goal, error)
	Save(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id string) error
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository 创建目标仓储
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) GetByID(ctx context.Context, id string) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) List(ctx context.Context, filter GoalFilter) ([]model.Goal, error) {
	db := r.db.WithContext(ctx).Model(&model.Goal{})
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		db = db.Where("UPPER(status) = UPPER(?)", filter.Status)
	}
	if filter.Category != "" {
		db = db.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	goals := make([]model.Goal, 0)
	if err := db.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) Save(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
