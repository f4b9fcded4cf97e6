package service

import (
	"context"
	"strings"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CompletionPublisher 目标完成通知（fire-and-forget）
type CompletionPublisher interface {
	Publish(ctx context.Context, goal *model.Goal)
}

// GoalInput 创建/更新目标的请求体
type GoalInput struct {
	StudentID   string     `json:"studentId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	TargetDate  *time.Time `json:"targetDate"`
}

// GoalService 目标增删改查；状态迁移到 COMPLETED 时发布完成事实
type GoalService struct {
	repo      repository.GoalRepository
	publisher CompletionPublisher
	resources interfaces.ResourceFetcher
	now       func() time.Time
	logger    *logrus.Logger
}

// NewGoalService 创建 GoalService
func NewGoalService(repo repository.GoalRepository, publisher CompletionPublisher, resources interfaces.ResourceFetcher, logger *logrus.Logger) *GoalService {
	return &GoalService{
		repo:      repo,
		publisher: publisher,
		resources: resources,
		now:       time.Now,
		logger:    logger,
	}
}

func normalizeStatus(status string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case "":
		return model.GoalStatusActive, nil
	case model.GoalStatusActive, model.GoalStatusCompleted, model.GoalStatusCancelled:
		return s, nil
	default:
		return "", invalid("unknown status %q", status)
	}
}

// Create 新建目标；新建即为 COMPLETED 不视为状态迁移，不发布事实
func (s *GoalService) Create(ctx context.Context, in GoalInput) (*model.Goal, error) {
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, invalid("studentId is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	goal := &model.Goal{
		ID:          uuid.NewString(),
		StudentID:   in.StudentID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      status,
		CreatedAt:   s.now(),
		TargetDate:  in.TargetDate,
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, id string) (*model.Goal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GoalService) List(ctx context.Context, filter repository.GoalFilter) ([]model.Goal, error) {
	return s.repo.List(ctx, filter)
}

// Update 覆盖可编辑字段；状态从非 COMPLETED 变为 COMPLETED 时发布一次完成事实
func (s *GoalService) Update(ctx context.Context, id string, in GoalInput) (*model.Goal, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := goal.IsCompleted()
	goal.Title = in.Title
	goal.Description = in.Description
	goal.Category = in.Category
	goal.Status = status
	goal.TargetDate = in.TargetDate
	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}

	if goal.IsCompleted() && !wasCompleted {
		s.logger.WithFields(logrus.Fields{"goal_id": goal.ID, "student_id": goal.StudentID}).Info("目标已完成，发布完成事实")
		s.publisher.Publish(ctx, goal)
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Resources 目标分类相关的健康资源；目标无分类时返回校验错误
func (s *GoalService) Resources(ctx context.Context, id string) ([]model.Resource, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(goal.Category) == "" {
		return nil, invalid("goal has no category")
	}
	return s.resources.Fetch(ctx, interfaces.ResourceFilter{Category: goal.Category}), nil
}
