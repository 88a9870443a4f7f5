package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenKey is the gin context key holding the caller's bearer token.
const TokenKey = "bearerToken"

// BearerAuth requires an "Authorization: Bearer <token>" header and stores the
// token for the handler. The token itself is checked by the services.
func BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		c.Set(TokenKey, strings.TrimSpace(parts[1]))
		c.Next()
	}
}

// Token returns the token stored by BearerAuth.
func Token(c *gin.Context) string {
	return c.GetString(TokenKey)
}
