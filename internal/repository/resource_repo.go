package repository

import (
	"context"

	"WellnessHub/internal/model"

	"gorm.io/gorm"
)

// ResourceRepository 资源目录持久化
type ResourceRepository interface {
	ListAll(ctx context.Context) ([]model.Resource, error)
	ListByCategory(ctx context.Context, category string) ([]model.Resource, error)
	GetByID(ctx context.Context, id uint64) (*model.Resource, error)
	Create(ctx context.Context, res *model.Resource) error
	Update(ctx context.Context, res *model.Resource) error
	Delete(ctx context.Context, id uint64) error
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository 创建资源仓储
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) ListAll(ctx context.Context) ([]model.Resource, error) {
	out := make([]model.Resource, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCategory 分类匹配忽略大小写
func (r *resourceRepository) ListByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	out := make([]model.Resource, 0)
	if err := r.db.WithContext(ctx).
		Where("LOWER(category) = LOWER(?)", category).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint64) (*model.Resource, error) {
	var res model.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepository) Create(ctx context.Context, res *model.Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

// Update 整体覆盖；记录不存在时返回 gorm.ErrRecordNotFound
func (r *resourceRepository) Update(ctx context.Context, res *model.Resource) error {
	result := r.db.WithContext(ctx).Model(&model.Resource{}).
		Where("id = ?", res.ID).
		Updates(map[string]interface{}{
			"title":       res.Title,
			"description": res.Description,
			"category":    res.Category,
			"url":         res.URL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Resource{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
