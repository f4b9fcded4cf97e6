package api

import (
	"net/http"
	"strconv"

	"WellnessHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResourceHandler 资源目录接口；读接口同时供其他服务的 resourceclient 调用
type ResourceHandler struct {
	resourceService *service.ResourceService
	logger          *logrus.Logger
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(resourceService *service.ResourceService, logger *logrus.Logger) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService, logger: logger}
}

// RegisterRoutes 注册 /api/resources 路由
func (h *ResourceHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/resources")
	g.GET("", h.ListResources)
	g.GET("/category/:category", h.ListByCategory)
	g.GET("/:id", h.GetResource)
	g.POST("", h.CreateResource)
	g.PUT("/:id", h.UpdateResource)
	g.DELETE("/:id", h.DeleteResource)
}

// ListResources 资源列表
// GET /api/resources?category=fitness&eventId=1
func (h *ResourceHandler) ListResources(c *gin.Context) {
	var eventID uint64
	if raw := c.Query("eventId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "eventId must be a positive integer"})
			return
		}
		eventID = id
	}
	resources, err := h.resourceService.List(c.Request.Context(), c.Query("category"), eventID)
	if err != nil {
		respondError(c, h.logger, "ListResources", err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// ListByCategory GET /api/resources/category/:category
func (h *ResourceHandler) ListByCategory(c *gin.Context) {
	resources, err := h.resourceService.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, h.logger, "ListByCategory", err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// GetResource GET /api/resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetResource", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateResource POST /api/resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var in service.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.resourceService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "CreateResource", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// UpdateResource PUT /api/resources/:id
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.resourceService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "UpdateResource", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteResource DELETE /api/resources/:id
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteResource", err)
		return
	}
	c.Status(http.StatusNoContent)
}
