package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/metrics"
	"WellnessHub/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// ResourceCacheTag 资源列表缓存的整体失效标签
const ResourceCacheTag = "resources"

const (
	shapeAll            = "all"
	shapeCategoryPrefix = "category:"
)

// CachedResourceRepository 读穿透缓存装饰器：读接口按查询形态缓存，写接口完成后整体失效
//
// 读写由 RWMutex 排序：写操作在持有写锁期间完成落库与失效，
// 因此写开始前已进行中的读不会在写返回后把旧数据回填进缓存。
// 锁仅在单进程内有效，多副本部署时依赖 TTL 兜底。
type CachedResourceRepository struct {
	base   ResourceRepository
	cache  interfaces.CacheStore
	ttl    time.Duration
	logger *logrus.Logger

	mu            sync.RWMutex
	evictAttempts uint64
}

// NewCachedResourceRepository 创建缓存装饰器
func NewCachedResourceRepository(base ResourceRepository, cache interfaces.CacheStore, ttl time.Duration, logger *logrus.Logger) *CachedResourceRepository {
	return &CachedResourceRepository{
		base:          base,
		cache:         cache,
		ttl:           ttl,
		logger:        logger,
		evictAttempts: 3,
	}
}

func (r *CachedResourceRepository) ListAll(ctx context.Context) ([]model.Resource, error) {
	return r.readThrough(ctx, shapeAll, func() ([]model.Resource, error) {
		return r.base.ListAll(ctx)
	})
}

func (r *CachedResourceRepository) ListByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	return r.readThrough(ctx, shapeCategoryPrefix+category, func() ([]model.Resource, error) {
		return r.base.ListByCategory(ctx, category)
	})
}

// GetByID 单条查询不缓存
func (r *CachedResourceRepository) GetByID(ctx context.Context, id uint64) (*model.Resource, error) {
	return r.base.GetByID(ctx, id)
}

func (r *CachedResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	return r.write(ctx, func() error { return r.base.Create(ctx, res) })
}

func (r *CachedResourceRepository) Update(ctx context.Context, res *model.Resource) error {
	return r.write(ctx, func() error { return r.base.Update(ctx, res) })
}

func (r *CachedResourceRepository) Delete(ctx context.Context, id uint64) error {
	return r.write(ctx, func() error { return r.base.Delete(ctx, id) })
}

func (r *CachedResourceRepository) readThrough(ctx context.Context, key string, load func() ([]model.Resource, error)) ([]model.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.WithError(err).WithField("key", key).Warn("读取资源缓存失败，回源查询")
	case ok:
		var cached []model.Resource
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		r.logger.WithField("key", key).Warn("资源缓存内容无法解析，回源查询")
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	out, err := load()
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(out); err == nil {
		if err := r.cache.Put(ctx, ResourceCacheTag, key, payload, r.ttl); err != nil {
			r.logger.WithError(err).WithField("key", key).Warn("写入资源缓存失败")
		}
	}
	return out, nil
}

// write 持写锁执行写操作，并在返回前清空整个资源缓存（无论写是否成功）
func (r *CachedResourceRepository) write(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := fn()
	r.evict(context.WithoutCancel(ctx))
	return err
}

func (r *CachedResourceRepository) evict(ctx context.Context) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second

	op := func() error { return r.cache.Clear(ctx, ResourceCacheTag) }
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, r.evictAttempts), ctx)); err != nil {
		metrics.CacheEvictions.WithLabelValues("failed").Inc()
		r.logger.WithError(err).WithField("tag", ResourceCacheTag).Error("资源缓存失效失败，依赖 TTL 过期")
		return
	}
	metrics.CacheEvictions.WithLabelValues("ok").Inc()
}
