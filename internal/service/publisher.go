package service

import (
	"context"
	"encoding/json"
	"time"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/metrics"
	"WellnessHub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GoalCompletionPublisher 将目标完成事实写入事件总线。调用方负责判断状态迁移，这里无条件发布；
// 任何失败只记录日志与指标，不向调用方返回错误
type GoalCompletionPublisher struct {
	bus     interfaces.EventBus
	timeout time.Duration
	now     func() time.Time
	logger  *logrus.Logger
}

// NewGoalCompletionPublisher 创建发布器；timeout 为单次写入总线的上限
func NewGoalCompletionPublisher(bus interfaces.EventBus, timeout time.Duration, logger *logrus.Logger) *GoalCompletionPublisher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &GoalCompletionPublisher{bus: bus, timeout: timeout, now: time.Now, logger: logger}
}

// Publish 发布事实，分区键为目标 ID。写入不受请求取消影响，但受 timeout 限制
func (p *GoalCompletionPublisher) Publish(ctx context.Context, goal *model.Goal) {
	log := p.logger.WithFields(logrus.Fields{"goal_id": goal.ID, "student_id": goal.StudentID})

	fact := model.NewGoalCompletionFact(goal, p.now())
	payload, err := json.Marshal(fact)
	if err != nil {
		metrics.FactsPublished.WithLabelValues("failed").Inc()
		log.WithError(err).Error("序列化目标完成事实失败")
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	err = p.bus.Publish(pctx, interfaces.Message{
		ID:      uuid.NewString(),
		Topic:   model.TopicGoalCompleted,
		Key:     goal.ID,
		Payload: payload,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		metrics.FactsPublished.WithLabelValues("failed").Inc()
		log.WithError(err).Error("发布目标完成事实失败")
		return
	}
	metrics.FactsPublished.WithLabelValues("ok").Inc()
	log.Info("目标完成事实已发布")
}
