// Package cache provides the CacheStore adapters used by the resource catalog.
package cache

import (
	"context"
	"fmt"

	"WellnessHub/internal/config"
	"WellnessHub/internal/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	_ interfaces.CacheStore = (*MemoryStore)(nil)
	_ interfaces.CacheStore = (*RedisStore)(nil)
)

// New 按配置创建缓存；返回的 close 用于释放连接
func New(ctx context.Context, cfg config.CacheConfig, logger *logrus.Logger) (interfaces.CacheStore, func() error, error) {
	switch cfg.Type {
	case "", "memory":
		logger.Info("使用进程内缓存")
		return NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		client, err := DialRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", cfg.Addr).Info("使用 Redis 缓存")
		return NewRedisStore(client), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("未知缓存类型: %s", cfg.Type)
	}
}
