package http

import (
	"net/http"

	"github.com/comitanigiacomo/trackloom/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	svc *services.SuggestionService
}

func NewSuggestionHandler(svc *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{svc: svc}
}

type generateRequest struct {
	Goals string `json:"goals"`
}

// adoptRequest names a built-in suggestion by id, or carries a full
// suggestion returned earlier by generate.
type adoptRequest struct {
	ID         string             `json:"id"`
	Suggestion *domain.Suggestion `json:"suggestion"`
}

func (h *SuggestionHandler) RegisterRoutes(r *gin.RouterGroup) {
	suggestions := r.Group("/suggestions")
	{
		suggestions.GET("", h.Defaults)
		suggestions.POST("/generate", h.Generate)
		suggestions.POST("/adopt", h.Adopt)
	}
}

func (h *SuggestionHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, services.SuggestionResult{
		Suggestions: h.svc.Defaults(),
		Source:      services.SourceDefault,
	})
}

// Generate godoc
// @Summary  AI habit suggestions for a goal
// @Tags     suggestions
// @Accept   json
// @Produce  json
// @Param    body body generateRequest true "Goals"
// @Success  200 {object} services.SuggestionResult
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /suggestions/generate [post]
func (h *SuggestionHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), userID, req.Goals)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SuggestionHandler) Adopt(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req adoptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		result *services.HabitResult
		err    error
	)
	switch {
	case req.Suggestion != nil:
		result, err = h.svc.Adopt(c.Request.Context(), userID, *req.Suggestion)
	case req.ID != "":
		result, err = h.svc.AdoptDefault(c.Request.Context(), userID, req.ID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "id or suggestion is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
