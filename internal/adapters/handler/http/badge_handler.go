package http

import (
	"net/http"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	svc *services.BadgeService
}

func NewBadgeHandler(svc *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

func (h *BadgeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/badges", h.List)
}

// List godoc
// @Summary  Badges with their earned state
// @Tags     badges
// @Produce  json
// @Param    category query string false "All, Streaks, Completion or Milestones"
// @Success  200 {array} domain.Badge
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /badges [get]
func (h *BadgeHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	badges, err := h.svc.List(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, badges)
}
