package http

import (
	"net/http"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

// ScreenHandler exposes the per-session screen host. Every call answers with
// the rendered view of the screen that is current afterwards.
type ScreenHandler struct {
	svc *services.NavigatorService
}

func NewScreenHandler(svc *services.NavigatorService) *ScreenHandler {
	return &ScreenHandler{svc: svc}
}

type navigateRequest struct {
	Screen  string `json:"screen" binding:"required"`
	HabitID string `json:"habit_id"`
}

func (h *ScreenHandler) RegisterRoutes(router *gin.RouterGroup) {
	screen := router.Group("/screen")
	{
		screen.GET("", h.Render)
		screen.POST("/start", h.Start)
		screen.POST("/navigate", h.Navigate)
		screen.POST("/onboarding/complete", h.CompleteOnboarding)
	}
}

func sessionContext(c *gin.Context) (string, string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return "", "", false
	}
	sessionID, ok := middleware.GetSessionID(c)
	return userID, sessionID, ok
}

func (h *ScreenHandler) render(c *gin.Context, userID, sessionID string) {
	view, err := h.svc.Render(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Render godoc
// @Summary  Current screen view model
// @Tags     screen
// @Produce  json
// @Success  200 {object} services.ScreenView
// @Security BearerAuth
// @Router   /screen [get]
func (h *ScreenHandler) Render(c *gin.Context) {
	userID, sessionID, ok := sessionContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session context missing"})
		return
	}
	h.render(c, userID, sessionID)
}

func (h *ScreenHandler) Start(c *gin.Context) {
	userID, sessionID, ok := sessionContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session context missing"})
		return
	}

	if _, err := h.svc.Start(c.Request.Context(), userID, sessionID); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, userID, sessionID)
}

// Navigate godoc
// @Summary  Switch screen
// @Tags     screen
// @Accept   json
// @Produce  json
// @Param    body body navigateRequest true "Target"
// @Success  200 {object} services.ScreenView
// @Failure  400,404 {object} map[string]string
// @Security BearerAuth
// @Router   /screen/navigate [post]
func (h *ScreenHandler) Navigate(c *gin.Context) {
	userID, sessionID, ok := sessionContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session context missing"})
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.Navigate(c.Request.Context(), userID, sessionID, req.Screen, req.HabitID); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, userID, sessionID)
}

func (h *ScreenHandler) CompleteOnboarding(c *gin.Context) {
	userID, sessionID, ok := sessionContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session context missing"})
		return
	}

	if _, err := h.svc.CompleteOnboarding(c.Request.Context(), userID, sessionID); err != nil {
		respondError(c, err)
		return
	}
	h.render(c, userID, sessionID)
}
