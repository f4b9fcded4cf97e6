package listener

import (
	"context"
	"fmt"

	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/metrics"
	"WellnessHub/internal/model"
	"WellnessHub/internal/service"

	"github.com/sirupsen/logrus"
)

// Recommender 根据目标完成事实生成推荐
type Recommender interface {
	Recommend(ctx context.Context, fact model.GoalCompletionFact) (service.Recommendation, error)
}

// GoalCompletedListener 订阅目标完成事实并触发活动推荐
type GoalCompletedListener struct {
	bus         interfaces.EventBus
	recommender Recommender
	group       string
	logger      *logrus.Logger
}

// NewGoalCompletedListener 创建监听器；group 为消费组名称
func NewGoalCompletedListener(bus interfaces.EventBus, recommender Recommender, group string, logger *logrus.Logger) *GoalCompletedListener {
	return &GoalCompletedListener{bus: bus, recommender: recommender, group: group, logger: logger}
}

// Run 订阅主题直到 ctx 结束
func (l *GoalCompletedListener) Run(ctx context.Context) error {
	sub, err := l.bus.Subscribe(ctx, model.TopicGoalCompleted, l.group, l.Handle)
	if err != nil {
		return fmt.Errorf("订阅 %s 失败: %w", model.TopicGoalCompleted, err)
	}
	l.logger.WithFields(logrus.Fields{"topic": sub.Topic(), "group": l.group}).Info("GoalCompletedListener 已启动")

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil {
		l.logger.WithError(err).Warn("取消订阅失败")
	}
	l.logger.Info("GoalCompletedListener 已停止")
	return nil
}

// Handle 处理单条消息。格式错误的消息永远不会变得合法，直接确认丢弃；
// 查询活动目录失败返回错误，由总线重投
func (l *GoalCompletedListener) Handle(ctx context.Context, msg interfaces.Message) error {
	fact, err := model.ParseGoalCompletionFact(msg.Payload)
	if err != nil {
		metrics.FactsConsumed.WithLabelValues("malformed").Inc()
		l.logger.WithError(err).WithFields(logrus.Fields{
			"key":     msg.Key,
			"id":      msg.ID,
			"payload": truncate(string(msg.Payload), 256),
		}).Warn("收到无法解析的目标完成事实，已丢弃")
		return nil
	}

	l.logger.WithFields(logrus.Fields{
		"goal_id":    fact.GoalID,
		"student_id": fact.StudentID,
		"category":   fact.Category,
	}).Infof("目标 '%s' 已完成，开始推荐活动", fact.GoalTitle)

	rec, err := l.recommender.Recommend(ctx, fact)
	if err != nil {
		metrics.FactsConsumed.WithLabelValues("failed").Inc()
		return err
	}
	if rec.Matched {
		metrics.FactsConsumed.WithLabelValues("matched").Inc()
	} else {
		metrics.FactsConsumed.WithLabelValues("fallback").Inc()
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
