package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterOps 注册存活检查与 Prometheus 指标
func RegisterOps(r gin.IRouter, service string) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
