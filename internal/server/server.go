// Package server holds the process bootstrap shared by the three service binaries.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"WellnessHub/internal/api"
	"WellnessHub/internal/config"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// NewLogger 按配置级别创建 logrus 日志器，级别非法时回退 info
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("日志级别 %q 非法，使用 info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewEngine 创建 gin 引擎并注册 pprof、/healthz、/metrics
func NewEngine(cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	api.RegisterOps(r, cfg.Service)
	logger.Infof("Gin运行模式: %s", cfg.Server.Mode)
	return r
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}

// Run 监听端口直到 ctx 结束，然后优雅关闭
func Run(ctx context.Context, handler http.Handler, port int, logger *logrus.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("服务启动成功，端口：%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务失败: %w", err)
	case <-ctx.Done():
	}

	logger.Info("收到退出信号，开始关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
