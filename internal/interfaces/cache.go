package interfaces

import (
	"context"
	"time"
)

// CacheStore 带 TTL 的键值缓存；tag 表示一个逻辑缓存集合（population），Clear 一次性清空该集合下所有键
type CacheStore interface {
	// Get 命中返回 (value, true, nil)，未命中返回 (nil, false, nil)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put 写入 key 并将其归入 tag 集合
	Put(ctx context.Context, tag, key string, value []byte, ttl time.Duration) error
	// Clear 清空 tag 集合下的全部键
	Clear(ctx context.Context, tag string) error
}
