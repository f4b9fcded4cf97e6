package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"WellnessHub/internal/interfaces"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// recorder 按 key 记录收到的 payload
type recorder struct {
	mu   sync.Mutex
	seen map[string][]string
	n    int
	done chan struct{}
	want int
}

func newRecorder(want int) *recorder {
	return &recorder{seen: map[string][]string{}, done: make(chan struct{}), want: want}
}

func (r *recorder) handle(_ context.Context, msg interfaces.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[msg.Key] = append(r.seen[msg.Key], string(msg.Payload))
	r.n++
	if r.n == r.want {
		close(r.done)
	}
	return nil
}

func (r *recorder) wait(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(timeout):
		r.mu.Lock()
		defer r.mu.Unlock()
		t.Fatalf("received %d of %d messages", r.n, r.want)
	}
}

func TestPartitionFor(t *testing.T) {
	t.Run("it is stable and in range", func(t *testing.T) {
		for _, key := range []string{"", "goal-1", "goal-2", "日本"} {
			p := PartitionFor(key, 8)
			if p < 0 || p >= 8 {
				t.Errorf("PartitionFor(%q) = %d out of range", key, p)
			}
			if PartitionFor(key, 8) != p {
				t.Errorf("PartitionFor(%q) not stable", key)
			}
		}
		if PartitionFor("goal-1", 1) != 0 || PartitionFor("goal-1", 0) != 0 {
			t.Error("single partition must be 0")
		}
	})
}

func TestMemoryBus(t *testing.T) {
	ctx := context.Background()

	t.Run("it delivers messages of one key in publish order", func(t *testing.T) {
		b := NewMemoryBus(4, quietLogger())
		defer b.Close()

		const perKey = 50
		keys := []string{"goal-a", "goal-b", "goal-c"}
		rec := newRecorder(perKey * len(keys))
		if _, err := b.Subscribe(ctx, "facts", "g1", rec.handle); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < perKey; i++ {
			for _, k := range keys {
				if err := b.Publish(ctx, interfaces.Message{Topic: "facts", Key: k, Payload: []byte(fmt.Sprint(i))}); err != nil {
					t.Fatal(err)
				}
			}
		}
		rec.wait(t, 5*time.Second)

		for _, k := range keys {
			got := rec.seen[k]
			for i, v := range got {
				if v != fmt.Sprint(i) {
					t.Fatalf("key %s position %d = %s, out of order", k, i, v)
				}
			}
		}
	})

	t.Run("it fans out to every consumer group", func(t *testing.T) {
		b := NewMemoryBus(2, quietLogger())
		defer b.Close()

		r1, r2 := newRecorder(1), newRecorder(1)
		_, _ = b.Subscribe(ctx, "facts", "g1", r1.handle)
		_, _ = b.Subscribe(ctx, "facts", "g2", r2.handle)
		_ = b.Publish(ctx, interfaces.Message{Topic: "facts", Key: "k", Payload: []byte("x")})
		r1.wait(t, time.Second)
		r2.wait(t, time.Second)
	})

	t.Run("it rejects a duplicate group subscription", func(t *testing.T) {
		b := NewMemoryBus(1, quietLogger())
		defer b.Close()
		noop := func(context.Context, interfaces.Message) error { return nil }
		_, _ = b.Subscribe(ctx, "facts", "g1", noop)
		if _, err := b.Subscribe(ctx, "facts", "g1", noop); err == nil {
			t.Error("expected error for duplicate group")
		}
	})

	t.Run("it redelivers after a handler error", func(t *testing.T) {
		b := NewMemoryBus(1, quietLogger())
		defer b.Close()

		var mu sync.Mutex
		calls := 0
		done := make(chan struct{})
		_, _ = b.Subscribe(ctx, "facts", "g1", func(context.Context, interfaces.Message) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			close(done)
			return nil
		})
		_ = b.Publish(ctx, interfaces.Message{Topic: "facts", Key: "k"})
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("message not redelivered")
		}
	})

	t.Run("it assigns an id and timestamp", func(t *testing.T) {
		b := NewMemoryBus(1, quietLogger())
		defer b.Close()
		got := make(chan interfaces.Message, 1)
		_, _ = b.Subscribe(ctx, "facts", "g1", func(_ context.Context, m interfaces.Message) error {
			got <- m
			return nil
		})
		_ = b.Publish(ctx, interfaces.Message{Topic: "facts", Key: "k"})
		m := <-got
		if m.ID == "" || m.PublishedAt.IsZero() {
			t.Errorf("message missing id or timestamp: %+v", m)
		}
	})

	t.Run("it stops delivering after unsubscribe", func(t *testing.T) {
		b := NewMemoryBus(1, quietLogger())
		defer b.Close()
		rec := newRecorder(1)
		sub, _ := b.Subscribe(ctx, "facts", "g1", rec.handle)
		if sub.Topic() != "facts" {
			t.Errorf("Topic() = %s", sub.Topic())
		}
		_ = sub.Unsubscribe()
		_ = b.Publish(ctx, interfaces.Message{Topic: "facts", Key: "k"})
		time.Sleep(50 * time.Millisecond)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if rec.n != 0 {
			t.Errorf("received %d messages after unsubscribe", rec.n)
		}
	})

	t.Run("it refuses to publish after close", func(t *testing.T) {
		b := NewMemoryBus(1, quietLogger())
		_ = b.Close()
		if err := b.Publish(ctx, interfaces.Message{Topic: "facts"}); !errors.Is(err, ErrClosed) {
			t.Errorf("Publish after Close = %v, want ErrClosed", err)
		}
	})
}
