package interfaces

import (
	"context"
	"time"
)

// Message 总线消息
type Message struct {
	ID          string            // 消息ID（用于去重）
	Topic       string            // 主题
	Key         string            // 分区/排序键：同一 Key 的消息按发布顺序投递
	Payload     []byte            // 消息体（JSON）
	Headers     map[string]string // 附加头
	PublishedAt time.Time         // 发布时间
}

// MessageHandler 消息处理函数；返回 nil 表示确认（ack），返回错误则由总线按至少一次语义重投
type MessageHandler func(ctx context.Context, msg Message) error

// EventBus 持久化、分区、至少一次投递的发布订阅通道
type EventBus interface {
	// Publish 追加一条消息到主题
	Publish(ctx context.Context, msg Message) error
	// Subscribe 以消费组身份订阅主题；同一 Key 的消息串行处理，不同 Key 可并行
	Subscribe(ctx context.Context, topic, group string, handler MessageHandler) (Subscription, error)
	// Close 关闭连接并停止所有订阅
	Close() error
}

// Subscription 活跃订阅
type Subscription interface {
	Topic() string
	// Unsubscribe 停止接收消息，并等待处理中的消息完成
	Unsubscribe() error
}
