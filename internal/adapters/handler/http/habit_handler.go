package http

import (
	"net/http"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name         string `json:"name" binding:"required"`
	Emoji        string `json:"emoji"`
	Category     string `json:"category"`
	Frequency    string `json:"frequency"`
	ReminderTime string `json:"reminder_time"`
	Notes        string `json:"notes"`
}

type updateHabitRequest struct {
	Name         string  `json:"name"`
	Emoji        string  `json:"emoji"`
	Category     string  `json:"category"`
	Frequency    string  `json:"frequency"`
	ReminderTime string  `json:"reminder_time"`
	Notes        *string `json:"notes"`
	Version      int     `json:"version"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/toggle", h.Toggle)
	}
}

// Create godoc
// @Summary  Add a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    body body createHabitRequest true "Habit"
// @Success  201 {object} services.HabitResult
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID: userID,
		HabitFields: domain.HabitFields{
			Name:         req.Name,
			Emoji:        req.Emoji,
			Category:     req.Category,
			Frequency:    req.Frequency,
			ReminderTime: req.ReminderTime,
			Notes:        req.Notes,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List godoc
// @Summary  Habits of the caller, newest first
// @Tags     habits
// @Produce  json
// @Success  200 {array} domain.Habit
// @Security BearerAuth
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []*domain.Habit{}
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Name:         req.Name,
		Emoji:        req.Emoji,
		Category:     req.Category,
		Frequency:    req.Frequency,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
		Version:      req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete always answers 204: removing a habit that is already gone is a no-op.
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Toggle godoc
// @Summary  Flip today's completion
// @Tags     habits
// @Produce  json
// @Param    id path string true "Habit id"
// @Success  200 {object} domain.Habit
// @Failure  404,409 {object} map[string]string
// @Security BearerAuth
// @Router   /habits/{id}/toggle [post]
func (h *HabitHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habit, err := h.svc.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}
