package api

import (
	"errors"
	"net/http"
	"strconv"

	"WellnessHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// respondError 把服务层错误映射为 HTTP 状态码
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).Errorf("%s failed", op)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// idParam 解析路径中的数字 id，失败时直接写 400
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
