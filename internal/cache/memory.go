package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	tag       string
	expiresAt time.Time // 零值表示不过期
}

// MemoryStore 进程内 TTL 缓存，按标签分组失效
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tags    map[string]map[string]struct{}
	now     func() time.Time
}

// NewMemoryStore 创建进程内缓存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.removeLocked(key, e.tag)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, tag, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok && old.tag != tag {
		s.removeLocked(key, old.tag)
	}
	e := memoryEntry{value: append([]byte(nil), value...), tag: tag}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	keys, ok := s.tags[tag]
	if !ok {
		keys = make(map[string]struct{})
		s.tags[tag] = keys
	}
	keys[key] = struct{}{}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.tags[tag] {
		delete(s.entries, key)
	}
	delete(s.tags, tag)
	return nil
}

// Len 当前条目数（含未清理的过期条目）
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) removeLocked(key, tag string) {
	delete(s.entries, key)
	if keys, ok := s.tags[tag]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.tags, tag)
		}
	}
}
