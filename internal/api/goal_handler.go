package api

import (
	"net/http"

	"WellnessHub/internal/repository"
	"WellnessHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GoalHandler 学生目标接口
type GoalHandler struct {
	goalService *service.GoalService
	logger      *logrus.Logger
}

// NewGoalHandler 创建 GoalHandler
func NewGoalHandler(goalService *service.GoalService, logger *logrus.Logger) *GoalHandler {
	return &GoalHandler{goalService: goalService, logger: logger}
}

// RegisterRoutes 注册 /api/goals 路由
func (h *GoalHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/goals")
	g.POST("", h.CreateGoal)
	g.GET("", h.ListGoals)
	g.GET("/:id", h.GetGoal)
	g.PUT("/:id", h.UpdateGoal)
	g.DELETE("/:id", h.DeleteGoal)
	g.GET("/:id/resources", h.GetGoalResources)
}

// CreateGoal 新建目标
// POST /api/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var in service.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.goalService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "CreateGoal", err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// ListGoals 目标列表
// GET /api/goals?studentId=stu123&status=ACTIVE&category=Fitness
func (h *GoalHandler) ListGoals(c *gin.Context) {
	filter := repository.GoalFilter{
		StudentID: c.Query("studentId"),
		Status:    c.Query("status"),
		Category:  c.Query("category"),
	}
	goals, err := h.goalService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "ListGoals", err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// GetGoal GET /api/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goal, err := h.goalService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "GetGoal", err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpdateGoal 更新目标；状态变为 COMPLETED 时由服务层发布完成事实
// PUT /api/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var in service.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.goalService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "UpdateGoal", err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DeleteGoal DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.goalService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "DeleteGoal", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetGoalResources 目标分类相关的健康资源（资源服务不可用时返回空列表）
// GET /api/goals/:id/resources
func (h *GoalHandler) GetGoalResources(c *gin.Context) {
	resources, err := h.goalService.Resources(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "GetGoalResources", err)
		return
	}
	c.JSON(http.StatusOK, resources)
}
