package breaker

import (
	"errors"
	"io"
	"testing"
	"time"

	"WellnessHub/internal/config"
	"WellnessHub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

var errRemote = errors.New("remote down")

func newTestBreaker(name string) *Breaker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(config.BreakerConfig{
		Name:                name,
		Interval:            time.Minute,
		BucketPeriod:        10 * time.Second,
		OpenTimeout:         50 * time.Millisecond,
		HalfOpenMaxRequests: 2,
		MinRequests:         4,
		FailureRatio:        0.5,
	}, nil, nil, logger)
}

func call(b *Breaker, err error) (calls int, out error) {
	_, out = Do(b, func() (int, error) {
		calls++
		return 0, err
	})
	return calls, out
}

func TestBreaker(t *testing.T) {
	t.Run("it stays closed below the minimum request count", func(t *testing.T) {
		b := newTestBreaker("t-min")
		for i := 0; i < 3; i++ {
			call(b, errRemote)
		}
		if b.State() != gobreaker.StateClosed {
			t.Errorf("state = %s, want closed", b.State())
		}
	})

	t.Run("it stays closed at exactly the failure ratio", func(t *testing.T) {
		b := newTestBreaker("t-ratio")
		call(b, nil)
		call(b, nil)
		call(b, errRemote)
		call(b, errRemote)
		if b.State() != gobreaker.StateClosed {
			t.Errorf("state = %s, want closed at 50%% failures", b.State())
		}
	})

	t.Run("it opens and short-circuits once the ratio is exceeded", func(t *testing.T) {
		b := newTestBreaker("t-open")
		call(b, nil)
		for i := 0; i < 3; i++ {
			call(b, errRemote)
		}
		if b.State() != gobreaker.StateOpen {
			t.Fatalf("state = %s, want open", b.State())
		}
		if got := testutil.ToFloat64(metrics.BreakerState.WithLabelValues("t-open")); got != metrics.BreakerOpen {
			t.Errorf("state gauge = %v, want %v", got, metrics.BreakerOpen)
		}

		calls, err := call(b, nil)
		if calls != 0 {
			t.Errorf("open breaker invoked the call %d times", calls)
		}
		if !IsRejected(err) {
			t.Errorf("err = %v, want rejection", err)
		}
	})

	t.Run("it closes after successful half-open trials", func(t *testing.T) {
		b := newTestBreaker("t-recover")
		for i := 0; i < 4; i++ {
			call(b, errRemote)
		}
		time.Sleep(60 * time.Millisecond)
		if b.State() != gobreaker.StateHalfOpen {
			t.Fatalf("state = %s, want half-open", b.State())
		}
		call(b, nil)
		call(b, nil)
		if b.State() != gobreaker.StateClosed {
			t.Fatalf("state = %s, want closed", b.State())
		}
		if c := b.Counts(); c.Requests != 0 || c.TotalFailures != 0 {
			t.Errorf("counts not reset: %+v", c)
		}
	})

	t.Run("it reopens when a half-open trial fails", func(t *testing.T) {
		b := newTestBreaker("t-reopen")
		for i := 0; i < 4; i++ {
			call(b, errRemote)
		}
		time.Sleep(60 * time.Millisecond)
		call(b, errRemote)
		if b.State() != gobreaker.StateOpen {
			t.Errorf("state = %s, want open", b.State())
		}
	})

	t.Run("it does not count errors the caller marks as successful", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		benign := errors.New("not found")
		b := New(config.BreakerConfig{Name: "t-benign", MinRequests: 1, FailureRatio: 0.5},
			func(err error) bool { return err == nil || errors.Is(err, benign) }, nil, logger)
		for i := 0; i < 10; i++ {
			call(b, benign)
		}
		if b.State() != gobreaker.StateClosed {
			t.Errorf("state = %s, want closed", b.State())
		}
	})
	t.Run("it keeps failures that straddle a bucket boundary in the window", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		b := New(config.BreakerConfig{
			Name:         "t-rolling",
			Interval:     400 * time.Millisecond,
			BucketPeriod: 100 * time.Millisecond,
			OpenTimeout:  time.Minute,
			MinRequests:  4,
			FailureRatio: 0.5,
		}, nil, nil, logger)

		// 第一批落在首个 Interval 末尾，第二批越过其边界；滚动窗口仍同时包含两批
		time.Sleep(300 * time.Millisecond)
		for i := 0; i < 3; i++ {
			call(b, errRemote)
		}
		time.Sleep(150 * time.Millisecond)
		for i := 0; i < 3; i++ {
			call(b, errRemote)
		}
		if b.State() != gobreaker.StateOpen {
			t.Errorf("state = %s counts = %+v, want open", b.State(), b.Counts())
		}
	})

	t.Run("it neither credits nor blames excluded outcomes", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		aborted := errors.New("caller gave up")
		b := New(config.BreakerConfig{
			Name:                "t-excluded",
			Interval:            time.Minute,
			OpenTimeout:         50 * time.Millisecond,
			HalfOpenMaxRequests: 1,
			MinRequests:         2,
			FailureRatio:        0.5,
		}, nil, func(err error) bool { return errors.Is(err, aborted) }, logger)

		for i := 0; i < 5; i++ {
			call(b, aborted)
		}
		if c := b.Counts(); c.TotalFailures != 0 || c.TotalSuccesses != 0 {
			t.Errorf("excluded calls counted: %+v", c)
		}

		for i := 0; i < 6; i++ {
			call(b, errRemote)
		}
		if b.State() != gobreaker.StateOpen {
			t.Fatalf("state = %s, want open", b.State())
		}
		time.Sleep(60 * time.Millisecond)
		call(b, aborted)
		if b.State() != gobreaker.StateHalfOpen {
			t.Errorf("state = %s after an excluded trial, want half-open", b.State())
		}
	})
}
