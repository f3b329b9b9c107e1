package http

import (
	"net/http"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *services.ReminderService
}

func NewNotificationHandler(svc *services.ReminderService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type permissionRequest struct {
	Permission string `json:"permission" binding:"required"`
}

// subscriptionRequest mirrors the browser's PushSubscription.toJSON().
type subscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("/permission", h.GetPermission)
		n.PUT("/permission", h.SetPermission)
		n.POST("/subscriptions", h.Subscribe)
		n.DELETE("/subscriptions", h.Unsubscribe)
		n.GET("/vapid-key", h.PublicKey)
	}
}

func (h *NotificationHandler) GetPermission(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	perm, err := h.svc.Permission(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": perm})
}

// SetPermission godoc
// @Summary  Record the notification decision
// @Tags     notifications
// @Accept   json
// @Produce  json
// @Param    body body permissionRequest true "default, granted or denied"
// @Success  200 {object} map[string]interface{}
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /notifications/permission [put]
func (h *NotificationHandler) SetPermission(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	perm, err := domain.ParsePermission(req.Permission)
	if err != nil {
		respondError(c, err)
		return
	}

	armed, err := h.svc.SetPermission(c.Request.Context(), userID, perm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": perm, "reminders_armed": armed})
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &domain.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.svc.Subscribe(c.Request.Context(), sub); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), userID, req.Endpoint); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) PublicKey(c *gin.Context) {
	key := h.svc.PublicKey()
	if key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": key})
}
