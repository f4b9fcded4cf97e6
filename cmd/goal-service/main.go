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
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"
	"WellnessHub/internal/resourceclient"
	"WellnessHub/internal/server"
	"WellnessHub/internal/service"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig("goal-service")
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := server.NewLogger(cfg)
	logger.Info("配置文件加载成功")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 PostgreSQL 并迁移目标表
	db, err := database.Open(cfg.Postgres, logger, &model.Goal{})
	if err != nil {
		logger.Fatalf("连接PostgreSQL失败: %v", err)
	}

	// 4. 事件总线（只发布目标完成事实）
	eventBus, err := bus.New(ctx, cfg.Bus, []string{model.TopicGoalCompleted}, logger)
	if err != nil {
		logger.Fatalf("初始化事件总线失败: %v", err)
	}
	defer eventBus.Close()

	// 5. 组装服务
	publisher := service.NewGoalCompletionPublisher(eventBus, cfg.Bus.PublishTimeout, logger)
	resources := resourceclient.NewClient("goal-service", cfg.ResourceClient, logger)
	goalService := service.NewGoalService(repository.NewGoalRepository(db), publisher, resources, logger)

	// 6. 注册路由并启动
	r := server.NewEngine(cfg, logger)
	api.NewGoalHandler(goalService, logger).RegisterRoutes(r)

	if err := server.Run(ctx, r, cfg.Server.Port, logger); err != nil {
		logger.Fatalf("服务异常退出: %v", err)
	}
	logger.Info("goal-service 已退出")
}
