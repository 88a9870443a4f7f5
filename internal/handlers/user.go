package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchat/internal/models"
)

type identityService interface {
	Register(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, bool, error)
	ResolveToken(ctx context.Context, token string) (models.User, bool, error)
}

// UserHandler manages registration and identity lookups.
type UserHandler struct {
	base
	identity identityService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(identity identityService, opts Options) *UserHandler {
	return &UserHandler{base: opts.base(), identity: identity}
}

// Register handles POST /users. The response is the only place the token is returned.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	user, err := h.identity.Register(c.Request.Context(), req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}

	setCaller(c, user.ID)
	h.emitAudit(c, "INFO", "User registered")
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, ok, err := h.identity.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Authenticate handles POST /users/authenticate.
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required,len=64,hexadecimal,lowercase"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid token format")
		return
	}

	user, ok, err := h.identity.ResolveToken(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.emitAudit(c, "ERROR", "invalid token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	setCaller(c, user.ID)
	c.JSON(http.StatusOK, user.Public())
}
