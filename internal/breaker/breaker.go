package breaker

import (
	"errors"
	"time"

	"WellnessHub/internal/config"
	"WellnessHub/internal/metrics"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// Breaker 单个（调用方, 远端）组合的熔断器
//
// CLOSED 状态在长度为 Interval 的滑动窗口（按 BucketPeriod 分桶滚动）内计数，
// 请求数达到 MinRequests 且失败比例超过 FailureRatio 时跳闸；
// OPEN 状态在 OpenTimeout 内直接拒绝；HALF_OPEN 放行 HalfOpenMaxRequests 个试探请求，
// 任一失败回到 OPEN，全部成功回到 CLOSED 并清零计数。
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// New 创建熔断器；isSuccessful 为 nil 时任何错误都计为失败，
// isExcluded 返回 true 的结果既不计成功也不计失败（例如调用方主动放弃）
func New(cfg config.BreakerConfig, isSuccessful, isExcluded func(err error) bool, logger *logrus.Logger) *Breaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	halfOpen := cfg.HalfOpenMaxRequests
	if halfOpen == 0 {
		halfOpen = 1
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	bucket := cfg.BucketPeriod
	if bucket <= 0 || bucket > interval {
		bucket = interval
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 10 * time.Second
	}

	st := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  halfOpen,
		Interval:     interval,
		BucketPeriod: bucket,
		Timeout:      openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.BreakerTransitions.WithLabelValues(name, to.String()).Inc()
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("熔断器状态切换")
		},
		IsSuccessful: isSuccessful,
		IsExcluded:   isExcluded,
	}
	metrics.BreakerState.WithLabelValues(cfg.Name).Set(metrics.BreakerClosed)

	return &Breaker{name: cfg.Name, cb: gobreaker.NewCircuitBreaker[any](st)}
}

// Name 熔断器名称
func (b *Breaker) Name() string { return b.name }

// State 当前状态
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Counts 当前统计窗口内的计数
func (b *Breaker) Counts() gobreaker.Counts { return b.cb.Counts() }

// Do 在熔断器保护下执行 fn；OPEN 或 HALF_OPEN 超额时不调用 fn，返回的错误满足 IsRejected
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if out == nil {
		var zero T
		return zero, err
	}
	return out.(T), err
}

// IsRejected 错误是否由熔断器直接拒绝（未发起调用）
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}
