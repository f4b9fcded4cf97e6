package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"WellnessHub/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "wellness:cache:"
	tagPrefix = "wellness:tag:"
)

// RedisStore 基于 Redis 的缓存：条目为带过期时间的字符串，标签为记录成员 key 的集合
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore 使用已有客户端创建缓存
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis 按配置连接 Redis 并检查连通性
func DialRedis(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Put(ctx context.Context, tag, key string, value []byte, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+key, value, ttl)
		pipe.SAdd(ctx, tagPrefix+tag, key)
		return nil
	})
	return err
}

// clearScript 在一次原子执行中读取标签集合并删除其成员与集合本身，
// 避免读取与删除之间插入的 Put 留下不在任何标签下的条目
var clearScript = redis.NewScript(`
local members = redis.call('SMEMBERS', KEYS[1])
for i = 1, #members, 500 do
	local batch = {}
	for j = i, math.min(i + 499, #members) do
		batch[#batch + 1] = ARGV[1] .. members[j]
	end
	redis.call('DEL', unpack(batch))
end
redis.call('DEL', KEYS[1])
return #members
`)

// Clear 删除标签下的全部条目及标签集合本身
func (s *RedisStore) Clear(ctx context.Context, tag string) error {
	return clearScript.Run(ctx, s.client, []string{tagPrefix + tag}, keyPrefix).Err()
}
