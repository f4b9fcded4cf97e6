package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/model"
)

type captureBus struct {
	mu        sync.Mutex
	published []interfaces.Message
	ctxErr    error
	err       error
}

func (b *captureBus) Publish(ctx context.Context, msg interfaces.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctxErr = ctx.Err()
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, msg)
	return nil
}

func (b *captureBus) Subscribe(context.Context, string, string, interfaces.MessageHandler) (interfaces.Subscription, error) {
	return nil, errors.New("not supported")
}

func (b *captureBus) Close() error { return nil }

func TestGoalCompletionPublisher(t *testing.T) {
	goal := &model.Goal{ID: "goal-42", StudentID: "stu-1", Title: "Run 5K", Category: "Fitness", Status: model.GoalStatusCompleted}

	t.Run("it publishes the fact keyed by goal id", func(t *testing.T) {
		bus := &captureBus{}
		p := NewGoalCompletionPublisher(bus, time.Second, quietLogger())
		p.now = func() time.Time { return testNow }

		p.Publish(context.Background(), goal)

		if len(bus.published) != 1 {
			t.Fatalf("published %d messages", len(bus.published))
		}
		msg := bus.published[0]
		if msg.Topic != model.TopicGoalCompleted || msg.Key != "goal-42" || msg.ID == "" {
			t.Errorf("unexpected envelope %+v", msg)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			t.Fatal(err)
		}
		for key, want := range map[string]string{
			"goalId":      "goal-42",
			"studentId":   "stu-1",
			"goalTitle":   "Run 5K",
			"category":    "Fitness",
			"completedAt": testNow.Format(time.RFC3339),
		} {
			if body[key] != want {
				t.Errorf("%s = %v, want %v", key, body[key], want)
			}
		}
		fact, err := model.ParseGoalCompletionFact(msg.Payload)
		if err != nil || fact.GoalID != "goal-42" {
			t.Errorf("payload does not parse back: %v", err)
		}
	})

	t.Run("it swallows bus failures", func(t *testing.T) {
		bus := &captureBus{err: errors.New("broker unavailable")}
		NewGoalCompletionPublisher(bus, time.Second, quietLogger()).Publish(context.Background(), goal)
	})

	t.Run("it still publishes when the request was canceled", func(t *testing.T) {
		bus := &captureBus{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		NewGoalCompletionPublisher(bus, time.Second, quietLogger()).Publish(ctx, goal)
		if bus.ctxErr != nil || len(bus.published) != 1 {
			t.Errorf("publish ctx err = %v, published = %d", bus.ctxErr, len(bus.published))
		}
	})
}
