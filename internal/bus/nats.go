package bus

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"WellnessHub/internal/config"
	"WellnessHub/internal/interfaces"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// HeaderKey 消息分区键所在的 NATS header
const HeaderKey = "Wellness-Key"

var subjectUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SubjectFor 主题 + 分区键 -> JetStream subject（topic.<key>）
func SubjectFor(topic, key string) string {
	token := subjectUnsafe.ReplaceAllString(key, "_")
	if token == "" {
		token = "_"
	}
	return topic + "." + token
}

// NATSBus 基于 NATS JetStream 的事件总线：持久化、至少一次投递，
// 消费组映射为 durable consumer，消费端按 key 分区串行处理
type NATSBus struct {
	nc         *nats.Conn
	js         jetstream.JetStream
	cfg        config.BusConfig
	maxRetries uint64
	logger     *logrus.Logger

	mu   sync.Mutex
	subs []*natsSubscription
}

var _ interfaces.EventBus = (*NATSBus)(nil)

// NewNATSBus 连接 NATS（按 connect_retries 退避重试）并确保流存在，流覆盖 topics 下的全部 subject
func NewNATSBus(ctx context.Context, cfg config.BusConfig, topics []string, logger *logrus.Logger) (*NATSBus, error) {
	var nc *nats.Conn
	connect := func() error {
		var err error
		nc, err = nats.Connect(cfg.URL,
			nats.Name("wellness-hub"),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.WithError(err).Warn("NATS 连接断开")
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.WithField("url", c.ConnectedUrl()).Info("NATS 已重连")
			}),
		)
		return err
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	retries := uint64(0)
	if cfg.ConnectRetries > 0 {
		retries = uint64(cfg.ConnectRetries)
	}
	err := backoff.RetryNotify(connect, backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx),
		func(err error, next time.Duration) {
			logger.WithError(err).WithField("retry_in", next).Warn("连接 NATS 失败，稍后重试")
		})
	if err != nil {
		return nil, fmt.Errorf("连接 NATS 失败: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("初始化 JetStream 失败: %w", err)
	}

	subjects := make([]string, 0, len(topics))
	for _, t := range topics {
		subjects = append(subjects, t+".>")
	}
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  subjects,
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("创建 JetStream 流 %s 失败: %w", cfg.Stream, err)
	}

	logger.WithFields(logrus.Fields{"url": cfg.URL, "stream": cfg.Stream}).Info("NATS JetStream 总线已就绪")
	return &NATSBus{nc: nc, js: js, cfg: cfg, maxRetries: defaultMaxRetries, logger: logger}, nil
}

func (b *NATSBus) Publish(ctx context.Context, msg interfaces.Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("bus: topic is required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	out := nats.NewMsg(SubjectFor(msg.Topic, msg.Key))
	out.Data = msg.Payload
	for k, v := range msg.Headers {
		out.Header.Set(k, v)
	}
	out.Header.Set(HeaderKey, msg.Key)

	if _, err := b.js.PublishMsg(ctx, out, jetstream.WithMsgID(msg.ID)); err != nil {
		return fmt.Errorf("bus: publish %s: %w", out.Subject, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(ctx context.Context, topic, group string, handler interfaces.MessageHandler) (interfaces.Subscription, error) {
	cons, err := b.js.CreateOrUpdateConsumer(ctx, b.cfg.Stream, jetstream.ConsumerConfig{
		Durable:       group,
		FilterSubject: topic + ".>",
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.cfg.AckWait,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		MaxAckPending: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("bus: create consumer %s: %w", group, err)
	}

	log := b.logger.WithFields(logrus.Fields{"topic": topic, "group": group})
	// 先在分区 worker 内重试，避免 Nak 重投让后续同 key 消息先被处理
	d := newDispatcher(b.cfg.Partitions, 0, func(wctx context.Context, msg interfaces.Message) error {
		return retryInPlace(wctx, handler, msg, b.maxRetries, log)
	})

	cc, err := cons.Consume(func(jm jetstream.Msg) {
		msg := toMessage(topic, jm)
		settle := func(err error) {
			if err != nil {
				log.WithError(err).WithField("key", msg.Key).Error("消息多次处理失败，交由 JetStream 重投")
				_ = jm.NakWithDelay(time.Second)
				return
			}
			if err := jm.Ack(); err != nil {
				log.WithError(err).WithField("key", msg.Key).Warn("消息确认失败")
			}
		}
		if err := d.dispatch(context.Background(), msg, settle); err != nil {
			_ = jm.Nak()
		}
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		log.WithError(err).Warn("JetStream 消费异常")
	}))
	if err != nil {
		d.stop()
		return nil, fmt.Errorf("bus: consume %s: %w", group, err)
	}

	sub := &natsSubscription{topic: topic, cc: cc, d: d}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	log.Info("JetStream 订阅成功")
	return sub, nil
}

func (b *NATSBus) Close() error {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, s := range subs {
		_ = s.Unsubscribe()
	}
	b.nc.Close()
	return nil
}

func toMessage(topic string, jm jetstream.Msg) interfaces.Message {
	headers := map[string]string{}
	for k, v := range jm.Headers() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	key := headers[HeaderKey]
	if key == "" {
		key = strings.TrimPrefix(jm.Subject(), topic+".")
	}
	msg := interfaces.Message{
		ID:      headers[nats.MsgIdHdr],
		Topic:   topic,
		Key:     key,
		Payload: jm.Data(),
		Headers: headers,
	}
	if meta, err := jm.Metadata(); err == nil {
		msg.PublishedAt = meta.Timestamp
	}
	return msg
}

type natsSubscription struct {
	topic string
	cc    jetstream.ConsumeContext
	d     *dispatcher
	once  sync.Once
}

func (s *natsSubscription) Topic() string { return s.topic }

// Unsubscribe 停止拉取并等待处理中的消息结束；durable consumer 保留，重启后从未确认处继续
func (s *natsSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cc.Stop()
		s.d.stop()
	})
	return nil
}
