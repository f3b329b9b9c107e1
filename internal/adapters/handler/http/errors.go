package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

var validationErrors = []error{
	domain.ErrHabitNameEmpty,
	domain.ErrHabitNameTooLong,
	domain.ErrHabitNotesTooLong,
	domain.ErrInvalidCategory,
	domain.ErrInvalidFrequency,
	domain.ErrInvalidReminder,
	domain.ErrInvalidScreen,
	domain.ErrInvalidPermission,
	domain.ErrSubscriptionFields,
	domain.ErrInvalidBadgeCategory,
	domain.ErrGoalsEmpty,
	domain.ErrInvalidSuggestion,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrDisplayNameTooLong,
	domain.ErrInvalidTimezone,
}

// respondError maps domain errors to HTTP statuses. Anything unrecognised is
// recorded on the context for the request logger and reported as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrSuggestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrHabitConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Please reload.",
		})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
