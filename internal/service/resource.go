package service

import (
	"context"
	"strings"

	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"

	"github.com/sirupsen/logrus"
)

// ResourceInput 创建/更新资源的请求体
type ResourceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}

// ResourceService 资源目录；repo 通常为 CachedResourceRepository
type ResourceService struct {
	repo   repository.ResourceRepository
	logger *logrus.Logger
}

// NewResourceService 创建 ResourceService
func NewResourceService(repo repository.ResourceRepository, logger *logrus.Logger) *ResourceService {
	return &ResourceService{repo: repo, logger: logger}
}

// List 有分类时按分类查询；eventId 目前不参与过滤，返回全部资源
func (s *ResourceService) List(ctx context.Context, category string, eventID uint64) ([]model.Resource, error) {
	if category = strings.TrimSpace(category); category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	if eventID > 0 {
		s.logger.WithField("eventId", eventID).Debug("按活动查询资源，返回全部资源")
	}
	return s.repo.ListAll(ctx)
}

func (s *ResourceService) ByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *ResourceService) Get(ctx context.Context, id uint64) (*model.Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, in ResourceInput) (*model.Resource, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	res := &model.Resource{Title: in.Title, Description: in.Description, Category: in.Category, URL: in.URL}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResourceService) Update(ctx context.Context, id uint64, in ResourceInput) (*model.Resource, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	res := &model.Resource{ID: id, Title: in.Title, Description: in.Description, Category: in.Category, URL: in.URL}
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResourceService) Delete(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}
