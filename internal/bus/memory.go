package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"WellnessHub/internal/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MemoryBus 进程内事件总线：每个 (topic, group) 一组分区 worker，
// 处理失败按指数退避重投，超过次数后丢弃并记录日志
type MemoryBus struct {
	partitions int
	maxRetries uint64
	logger     *logrus.Logger

	mu     sync.RWMutex
	subs   map[string]map[string]*memorySubscription // topic -> group -> sub
	closed bool
}

var _ interfaces.EventBus = (*MemoryBus)(nil)

// NewMemoryBus 创建进程内总线
func NewMemoryBus(partitions int, logger *logrus.Logger) *MemoryBus {
	return &MemoryBus{
		partitions: partitions,
		maxRetries: defaultMaxRetries,
		logger:     logger,
		subs:       make(map[string]map[string]*memorySubscription),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, msg interfaces.Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("bus: topic is required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.PublishedAt.IsZero() {
		msg.PublishedAt = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for _, sub := range b.subs[msg.Topic] {
		if err := sub.d.dispatch(ctx, msg, nil); err != nil {
			return fmt.Errorf("bus: deliver to group %s: %w", sub.group, err)
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, topic, group string, handler interfaces.MessageHandler) (interfaces.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	groups, ok := b.subs[topic]
	if !ok {
		groups = make(map[string]*memorySubscription)
		b.subs[topic] = groups
	}
	if _, exists := groups[group]; exists {
		return nil, fmt.Errorf("bus: group %s already subscribed to %s", group, topic)
	}

	sub := &memorySubscription{bus: b, topic: topic, group: group}
	sub.d = newDispatcher(b.partitions, 0, func(wctx context.Context, msg interfaces.Message) error {
		return b.deliver(wctx, sub, handler, msg)
	})
	groups[group] = sub
	b.logger.WithFields(logrus.Fields{"topic": topic, "group": group}).Info("进程内总线订阅成功")
	return sub, nil
}

// deliver 调用处理函数，失败时在同一分区内退避重试，超过次数后丢弃
func (b *MemoryBus) deliver(ctx context.Context, sub *memorySubscription, handler interfaces.MessageHandler, msg interfaces.Message) error {
	log := b.logger.WithFields(logrus.Fields{"topic": msg.Topic, "group": sub.group})
	err := retryInPlace(ctx, handler, msg, b.maxRetries, log)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{"key": msg.Key, "id": msg.ID}).Error("消息处理多次失败，已丢弃")
	}
	return err
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var subs []*memorySubscription
	for _, groups := range b.subs {
		for _, s := range groups {
			subs = append(subs, s)
		}
	}
	b.subs = map[string]map[string]*memorySubscription{}
	b.mu.Unlock()

	for _, s := range subs {
		s.d.stop()
	}
	return nil
}

type memorySubscription struct {
	bus   *MemoryBus
	topic string
	group string
	d     *dispatcher
	once  sync.Once
}

func (s *memorySubscription) Topic() string { return s.topic }

func (s *memorySubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if groups, ok := s.bus.subs[s.topic]; ok && groups[s.group] == s {
			delete(groups, s.group)
		}
		s.bus.mu.Unlock()
		s.d.stop()
	})
	return nil
}
