package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shashankgaur/task-manager-api/internal/auth"
	"github.com/shashankgaur/task-manager-api/internal/constants"
	apierrors "github.com/shashankgaur/task-manager-api/internal/errors"
	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
)

// RequireAuth authenticates a bearer token. A cryptographically valid
// signature is not enough: the exact token string must still be registered
// in session_tokens for the resolved user, which is what makes logout
// effective without token expiry. On success the user and the raw token are
// attached to the request context; they live only as long as the request.
func RequireAuth(manager *auth.TokenManager, users repository.UserRepository, sessions repository.SessionTokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := manager.Verify(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		active, err := sessions.Exists(userID, token)
		if err != nil || !active {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyToken, token)
		c.Next()
	}
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetCurrentToken retrieves the raw session token from context
func GetCurrentToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyToken)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
