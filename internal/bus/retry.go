package bus

import (
	"context"
	"time"

	"WellnessHub/internal/interfaces"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// defaultMaxRetries 处理失败后在分区 worker 内的重试次数
const defaultMaxRetries = 3

// retryInPlace 在当前分区 worker 内按指数退避重试 handler；
// 重试期间同一分区的后续消息排队等待，key 内顺序不变
func retryInPlace(ctx context.Context, handler interfaces.MessageHandler, msg interfaces.Message, maxRetries uint64, log *logrus.Entry) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxInterval = time.Second

	attempt := 0
	op := func() error {
		attempt++
		return handler(ctx, msg)
	}
	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(eb, maxRetries), ctx),
		func(err error, next time.Duration) {
			log.WithError(err).WithFields(logrus.Fields{
				"key": msg.Key, "attempt": attempt, "retry_in": next,
			}).Warn("消息处理失败，稍后重试")
		})
}
