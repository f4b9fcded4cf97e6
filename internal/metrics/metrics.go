package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wellness"

// 熔断器状态值（与 gobreaker.State 对应）
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

var (
	// BreakerState 各熔断器当前状态：0=CLOSED 1=HALF_OPEN 2=OPEN
	BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "breaker",
		Name:      "state",
		Help:      "Current circuit breaker state (0 closed, 1 half-open, 2 open).",
	}, []string{"breaker"})

	// BreakerTransitions 熔断器状态切换次数
	BreakerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "breaker",
		Name:      "transitions_total",
		Help:      "Circuit breaker state transitions.",
	}, []string{"breaker", "to"})

	// CatalogRequests 资源目录客户端调用结果：success / not_found / client_error / failure / rejected / aborted
	CatalogRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog_client",
		Name:      "requests_total",
		Help:      "Resource catalog client calls by outcome.",
	}, []string{"client", "outcome"})

	// CatalogFallbacks 返回兜底空结果的次数
	CatalogFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog_client",
		Name:      "fallbacks_total",
		Help:      "Resource catalog calls answered with the empty fallback.",
	}, []string{"client"})

	// FactsPublished 目标完成事实发布结果：ok / failed
	FactsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facts",
		Name:      "published_total",
		Help:      "Goal completion facts handed to the bus.",
	}, []string{"result"})

	// FactsConsumed 目标完成事实消费结果：matched / fallback / malformed / failed
	FactsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facts",
		Name:      "consumed_total",
		Help:      "Goal completion facts processed by the recommendation consumer.",
	}, []string{"result"})

	// CacheLookups 资源缓存读取：hit / miss / error
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resource_cache",
		Name:      "lookups_total",
		Help:      "Resource cache lookups by result.",
	}, []string{"result"})

	// CacheEvictions 写操作触发的整体失效：ok / failed
	CacheEvictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resource_cache",
		Name:      "evictions_total",
		Help:      "Write-triggered resource cache evictions.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		BreakerState,
		BreakerTransitions,
		CatalogRequests,
		CatalogFallbacks,
		FactsPublished,
		FactsConsumed,
		CacheLookups,
		CacheEvictions,
	)
}
