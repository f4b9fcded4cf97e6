package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"WellnessHub/internal/api"
	"WellnessHub/internal/cache"
	"WellnessHub/internal/config"
	"WellnessHub/internal/database"
	"WellnessHub/internal/model"
	"WellnessHub/internal/repository"
	"WellnessHub/internal/server"
	"WellnessHub/internal/service"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig("resource-service")
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := server.NewLogger(cfg)
	logger.Info("配置文件加载成功")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化 PostgreSQL
	db, err := database.Open(cfg.Postgres, logger, &model.Resource{})
	if err != nil {
		logger.Fatalf("连接PostgreSQL失败: %v", err)
	}

	// 4. 读缓存（所有写操作整体失效 resources 标签）
	store, closeCache, err := cache.New(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatalf("初始化缓存失败: %v", err)
	}
	defer closeCache()

	repo := repository.NewCachedResourceRepository(repository.NewResourceRepository(db), store, cfg.Cache.TTL, logger)
	resourceService := service.NewResourceService(repo, logger)

	// 5. 注册路由并启动
	r := server.NewEngine(cfg, logger)
	api.NewResourceHandler(resourceService, logger).RegisterRoutes(r)

	if err := server.Run(ctx, r, cfg.Server.Port, logger); err != nil {
		logger.Fatalf("服务异常退出: %v", err)
	}
	logger.Info("resource-service 已退出")
}
