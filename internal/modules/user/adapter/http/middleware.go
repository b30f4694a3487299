package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/pkg/logger"
	"github.com/bscit-05-39008695/gamehub/pkg/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AuthMiddleware validates the bearer credential and injects the user
// identity into the request context. The token is read from the
// Authorization header, or from the `token` query parameter for
// EventSource clients that cannot set headers.
func AuthMiddleware(userSvc service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"code": "unauthorized", "message": "missing token"}})
			return
		}

		userID, username, _, err := userSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn(c.Request.Context()).Err(err).Msg("token validation failed")
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"code": "unauthorized", "message": "invalid token"}})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, username)
		c.Next()
	}
}
