package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"groupchat/internal/middleware"
)

const userIDContextKey = "userID"

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if id := c.GetString(userIDContextKey); id != "" {
		return &id
	}
	return nil
}

// setCaller records who acted, for audit records emitted afterwards.
func setCaller(c *gin.Context, userID string) {
	c.Set(userIDContextKey, userID)
}
