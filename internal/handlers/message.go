package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"groupchat/internal/middleware"
	"groupchat/internal/models"
	"groupchat/internal/services"
)

type messageService interface {
	SendMessage(ctx context.Context, groupID string, content string, token string) (models.Message, error)
	GetGroupMessages(ctx context.Context, groupID string, limit int, offset int) ([]models.Message, error)
	CountGroupMessages(ctx context.Context, groupID string) (int, error)
	GetByID(ctx context.Context, id string) (models.Message, bool, error)
}

// MessageHandler manages message endpoints.
type MessageHandler struct {
	base
	messages messageService
	maxLimit int
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messages messageService, opts Options) *MessageHandler {
	return &MessageHandler{base: opts.base(), messages: messages, maxLimit: opts.MaxMessageLimit}
}

// PostGroupMessage handles POST /groups/:id/messages.
func (h *MessageHandler) PostGroupMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), c.Param("id"), req.Content, middleware.Token(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	setCaller(c, msg.UserID)
	h.emitAudit(c, "INFO", "Group message sent")
	c.JSON(http.StatusCreated, msg)
}

// GetGroupMessages handles GET /groups/:id/messages?limit=&offset=.
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	limit, ok := h.queryInt(c, "limit", services.DefaultMessageLimit)
	if !ok {
		return
	}
	offset, ok := h.queryInt(c, "offset", 0)
	if !ok {
		return
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}

	groupID := c.Param("id")
	msgs, err := h.messages.GetGroupMessages(c.Request.Context(), groupID, limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	total, err := h.messages.CountGroupMessages(c.Request.Context(), groupID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs, "total": total, "limit": limit, "offset": offset})
}

// GetMessage handles GET /messages/:id.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	msg, ok, err := h.messages.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		h.badRequest(c, "invalid "+key)
		return 0, false
	}
	return value, true
}
