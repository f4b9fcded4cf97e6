package api

import (
	"net/http"

	"WellnessHub/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendationHandler 查看学生最近一次活动推荐
type RecommendationHandler struct {
	board *service.RecommendationBoard
}

func NewRecommendationHandler(board *service.RecommendationBoard) *RecommendationHandler {
	return &RecommendationHandler{board: board}
}

func (h *RecommendationHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/recommendations/:student_id", h.GetLatest)
}

// GetLatest GET /api/recommendations/:student_id
func (h *RecommendationHandler) GetLatest(c *gin.Context) {
	rec, ok := h.board.Latest(c.Param("student_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recommendation yet"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
