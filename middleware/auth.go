package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"coworkly/response"
	"coworkly/services"
)

// AuthMiddleware extracts the authenticated user from the bearer token and
// stores it in the gin context under "userID".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := services.GetUserIDFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
