package middleware

import (
	"context"
	"strings"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	apierrors "github.com/ErikLozanov/job-application-tracker/internal/errors"
	"github.com/gin-gonic/gin"
)

// Authenticator resolves a session token to a user ID.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint64, error)
}

// RequireAuth checks the bearer token of the request
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
		if token == "" {
			apierrors.Unauthorized(c, "Not authorized, no token")
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			apierrors.Unauthorized(c, "Not authorized, token failed")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
