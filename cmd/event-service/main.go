package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"WellnessHub/internal/api"
	"WellnessHub/internal/bus"
	"WellnessHub/internal/config"
	"WellnessHub/internal/database"
	"WellnessHub/internal/listener"
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"
	"WellnessHub/internal/resourceclient"
	"WellnessHub/internal/server"
	"WellnessHub/internal/service"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig("event-service")
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := server.NewLogger(cfg)
	logger.Info("配置文件加载成功")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 PostgreSQL（活动表 + 报名表）
	db, err := database.Open(cfg.Postgres, logger, &model.Event{}, &model.Registration{})
	if err != nil {
		logger.Fatalf("连接PostgreSQL失败: %v", err)
	}
	eventRepo := repository.NewEventRepository(db)

	// 4. 事件总线
	eventBus, err := bus.New(ctx, cfg.Bus, []string{model.TopicGoalCompleted}, logger)
	if err != nil {
		logger.Fatalf("初始化事件总线失败: %v", err)
	}
	defer eventBus.Close()

	// 5. 目标完成 -> 活动推荐
	board := service.NewRecommendationBoard()
	recommender := service.NewRecommendationService(eventRepo, service.DefaultKeywordTable(), board,
		cfg.Recommendation.WindowMonths, cfg.Recommendation.Limit, logger)
	goalListener := listener.NewGoalCompletedListener(eventBus, recommender, cfg.Bus.ConsumerGroup, logger)
	go func() {
		if err := goalListener.Run(ctx); err != nil {
			logger.WithError(err).Error("GoalCompletedListener 退出")
			stop()
		}
	}()

	// 6. 活动服务（资源客户端与 goal-service 的实例相互独立）
	resources := resourceclient.NewClient("event-service", cfg.ResourceClient, logger)
	eventService := service.NewEventService(eventRepo, resources, logger)

	// 7. 注册路由并启动
	r := server.NewEngine(cfg, logger)
	api.NewEventHandler(eventService, logger).RegisterRoutes(r)
	api.NewRecommendationHandler(board).RegisterRoutes(r)

	if err := server.Run(ctx, r, cfg.Server.Port, logger); err != nil {
		logger.Fatalf("服务异常退出: %v", err)
	}
	logger.Info("event-service 已退出")
}
