package bus

import (
	"context"
	"testing"

	"WellnessHub/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("it builds the in-process bus by default", func(t *testing.T) {
		b, err := New(context.Background(), config.BusConfig{Partitions: 2}, nil, quietLogger())
		if err != nil {
			t.Fatal(err)
		}
		defer b.Close()
		if _, ok := b.(*MemoryBus); !ok {
			t.Errorf("got %T", b)
		}
	})

	t.Run("it rejects unknown bus types", func(t *testing.T) {
		if _, err := New(context.Background(), config.BusConfig{Type: "kafka"}, nil, quietLogger()); err == nil {
			t.Error("expected error")
		}
	})
}
