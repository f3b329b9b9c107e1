package middleware

import (
	"net/http"
	"strings"

	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextUserIDKey    = "userID"
	ContextSessionIDKey = "sessionID"
)

// TokenValidator is satisfied by services.TokenService.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.TokenClaims, error)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != authorizationType {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(fields[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextSessionIDKey, claims.SessionID)

		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserIDKey)
	return id, id != ""
}

func GetSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextSessionIDKey)
	return id, id != ""
}
