package api

import (
	"net/http"
	"time"

	"WellnessHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 活动目录与报名接口
type EventHandler struct {
	eventService *service.EventService
	logger       *logrus.Logger
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventService *service.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{eventService: eventService, logger: logger}
}

// RegisterRoutes 注册 /events 路由
func (h *EventHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/events")
	g.GET("", h.ListEvents)
	g.POST("", h.CreateEvent)
	g.GET("/:id", h.GetEvent)
	g.PUT("/:id", h.UpdateEvent)
	g.DELETE("/:id", h.DeleteEvent)
	g.POST("/:id/registrations", h.Register)
	g.GET("/:id/registrations", h.ListRegistrations)
	g.GET("/:id/resources", h.GetEventResources)
}

// ListEvents 活动列表，start/end 为 RFC3339 时间，需同时给出
// GET /events?start=2026-03-01T00:00:00Z&end=2026-06-01T00:00:00Z&location=Gym
func (h *EventHandler) ListEvents(c *gin.Context) {
	start, ok := timeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := timeQuery(c, "end")
	if !ok {
		return
	}
	events, err := h.eventService.List(c.Request.Context(), start, end, c.Query("location"))
	if err != nil {
		respondError(c, h.logger, "ListEvents", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an RFC3339 timestamp"})
		return nil, false
	}
	return &t, true
}

// CreateEvent POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.eventService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "CreateEvent", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// GetEvent GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ev, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetEvent", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// UpdateEvent 部分更新
// PUT /events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.eventService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "UpdateEvent", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// DeleteEvent DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteEvent", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Register 活动报名
// POST /events/:id/registrations
func (h *EventHandler) Register(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in service.RegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reg, err := h.eventService.Register(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// ListRegistrations GET /events/:id/registrations
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	regs, err := h.eventService.Registrations(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ListRegistrations", err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// GetEventResources 活动详情 + 关联资源
// GET /events/:id/resources
func (h *EventHandler) GetEventResources(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.eventService.WithResources(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetEventResources", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
