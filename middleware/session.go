package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware assigns a session id to requests that arrive without
// one, for correlating log lines across services.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.Set("sessionId", sessionID)
		c.Writer.Header().Set("X-Session-ID", sessionID)

		c.Next()
	}
}
