package api

import (
	"context"
	"io"
	"sync"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type goalStore struct {
	mu    sync.Mutex
	goals map[string]model.Goal
}

func (s *goalStore) Create(_ context.Context, g *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = *g
	return nil
}

func (s *goalStore) GetByID(_ context.Context, id string) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (s *goalStore) List(_ context.Context, f repository.GoalFilter) ([]model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Goal, 0)
	for _, g := range s.goals {
		if f.StudentID != "" && g.StudentID != f.StudentID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *goalStore) Save(ctx context.Context, g *model.Goal) error { return s.Create(ctx, g) }

func (s *goalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.goals, id)
	return nil
}

type eventStore struct {
	events []model.Event
	regs   []model.Registration
}

func (s *eventStore) Create(_ context.Context, ev *model.Event) error {
	ev.ID = uint64(len(s.events) + 1)
	s.events = append(s.events, *ev)
	return nil
}

func (s *eventStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	for _, ev := range s.events {
		if ev.ID == id {
			e := ev
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *eventStore) Save(_ context.Context, ev *model.Event) error {
	for i := range s.events {
		if s.events[i].ID == ev.ID {
			s.events[i] = *ev
		}
	}
	return nil
}

func (s *eventStore) Delete(_ context.Context, id uint64) error {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *eventStore) Search(_ context.Context, q repository.EventQuery) ([]model.Event, error) {
	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if q.Start != nil && (ev.StartsAt.Before(*q.Start) || !ev.StartsAt.Before(*q.End)) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *eventStore) FindStartingBetween(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	return s.Search(ctx, repository.EventQuery{Start: &start, End: &end})
}

func (s *eventStore) FindByLocation(ctx context.Context, loc string) ([]model.Event, error) {
	return s.Search(ctx, repository.EventQuery{Location: loc})
}

func (s *eventStore) CreateRegistration(_ context.Context, reg *model.Registration) error {
	reg.ID = uint64(len(s.regs) + 1)
	s.regs = append(s.regs, *reg)
	return nil
}

func (s *eventStore) ListRegistrations(_ context.Context, eventID uint64) ([]model.Registration, error) {
	out := make([]model.Registration, 0)
	for _, reg := range s.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

type resourceStore struct {
	items []model.Resource
}

func (s *resourceStore) ListAll(context.Context) ([]model.Resource, error) {
	return append([]model.Resource{}, s.items...), nil
}

func (s *resourceStore) ListByCategory(_ context.Context, c string) ([]model.Resource, error) {
	out := make([]model.Resource, 0)
	for _, it := range s.items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *resourceStore) GetByID(_ context.Context, id uint64) (*model.Resource, error) {
	for _, it := range s.items {
		if it.ID == id {
			r := it
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *resourceStore) Create(_ context.Context, r *model.Resource) error {
	r.ID = uint64(len(s.items) + 1)
	s.items = append(s.items, *r)
	return nil
}

func (s *resourceStore) Update(_ context.Context, r *model.Resource) error {
	for i := range s.items {
		if s.items[i].ID == r.ID {
			s.items[i] = *r
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *resourceStore) Delete(_ context.Context, id uint64) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fixedFetcher struct {
	out []model.Resource
}

func (f fixedFetcher) Fetch(context.Context, interfaces.ResourceFilter) []model.Resource {
	return f.out
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *model.Goal) {}
