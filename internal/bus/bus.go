// Package bus provides EventBus adapters: an in-process bus and a NATS JetStream bus.
package bus

import (
	"context"
	"fmt"

	"WellnessHub/internal/config"
	"WellnessHub/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// New 按配置创建事件总线
func New(ctx context.Context, cfg config.BusConfig, topics []string, logger *logrus.Logger) (interfaces.EventBus, error) {
	switch cfg.Type {
	case "", "memory":
		logger.Warn("使用进程内事件总线（仅限单进程部署）")
		return NewMemoryBus(cfg.Partitions, logger), nil
	case "nats":
		return NewNATSBus(ctx, cfg, topics, logger)
	default:
		return nil, fmt.Errorf("未知事件总线类型: %s", cfg.Type)
	}
}
