package service

import (
	"context"
	"strings"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"

	"github.com/sirupsen/logrus"
)

// EventInput 创建/更新活动的请求体；更新时 nil 字段保持原值
type EventInput struct {
	Title    *string    `json:"title"`
	StartsAt *time.Time `json:"startsAt"`
	Location *string    `json:"location"`
}

// RegistrationInput 报名请求体
type RegistrationInput struct {
	AttendeeName  string `json:"attendeeName"`
	AttendeeEmail string `json:"attendeeEmail"`
}

// EventService 活动目录与报名
type EventService struct {
	repo      repository.EventRepository
	resources interfaces.ResourceFetcher
	now       func() time.Time
	logger    *logrus.Logger
}

// NewEventService 创建 EventService
func NewEventService(repo repository.EventRepository, resources interfaces.ResourceFetcher, logger *logrus.Logger) *EventService {
	return &EventService{repo: repo, resources: resources, now: time.Now, logger: logger}
}

// List start/end 必须同时给出或同时省略
func (s *EventService) List(ctx context.Context, start, end *time.Time, location string) ([]model.Event, error) {
	if (start == nil) != (end == nil) {
		return nil, invalid("provide both 'start' and 'end' or neither")
	}
	return s.repo.Search(ctx, repository.EventQuery{Start: start, End: end, Location: location})
}

// Create 未给开始时间时取当前时间
func (s *EventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, invalid("title is required")
	}
	ev := &model.Event{Title: *in.Title, StartsAt: s.now()}
	if in.StartsAt != nil {
		ev.StartsAt = *in.StartsAt
	}
	if in.Location != nil {
		ev.Location = *in.Location
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *EventService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) Update(ctx context.Context, id uint64, in EventInput) (*model.Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, invalid("title must not be blank")
		}
		ev.Title = *in.Title
	}
	if in.StartsAt != nil {
		ev.StartsAt = *in.StartsAt
	}
	if in.Location != nil {
		ev.Location = *in.Location
	}
	if err := s.repo.Save(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *EventService) Delete(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}

func (s *EventService) Register(ctx context.Context, eventID uint64, in RegistrationInput) (*model.Registration, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.AttendeeName) == "" || strings.TrimSpace(in.AttendeeEmail) == "" {
		return nil, invalid("name and email are required")
	}
	reg := &model.Registration{
		EventID:       eventID,
		AttendeeName:  in.AttendeeName,
		AttendeeEmail: in.AttendeeEmail,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *EventService) Registrations(ctx context.Context, eventID uint64) ([]model.Registration, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, eventID)
}

// WithResources 活动详情 + 资源目录中的关联资源（资源目录不可用时资源为空）
func (s *EventService) WithResources(ctx context.Context, eventID uint64) (*model.EventWithResources, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &model.EventWithResources{
		Event:     ev,
		Resources: s.resources.Fetch(ctx, interfaces.ResourceFilter{EventID: eventID}),
	}, nil
}
