package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchat/internal/middleware"
	"groupchat/internal/models"
)

type groupService interface {
	CreateGroup(ctx context.Context, name string, description *string, token string) (models.Group, error)
	JoinGroup(ctx context.Context, groupID string, token string) error
	GetByID(ctx context.Context, groupID string) (models.Group, bool, error)
	ListAll(ctx context.Context) ([]models.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
}

// GroupHandler manages group-related endpoints.
type GroupHandler struct {
	base
	groups groupService
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups groupService, opts Options) *GroupHandler {
	return &GroupHandler{base: opts.base(), groups: groups}
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), req.Name, req.Description, middleware.Token(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	setCaller(c, group.CreatedBy)
	h.emitAudit(c, "INFO", "Group created")
	c.JSON(http.StatusCreated, group)
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup handles GET /groups/:id.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, ok, err := h.groups.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// JoinGroup handles POST /groups/:id/join.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	if err := h.groups.JoinGroup(c.Request.Context(), c.Param("id"), middleware.Token(c)); err != nil {
		h.fail(c, err)
		return
	}

	h.emitAudit(c, "INFO", "Group joined")
	c.JSON(http.StatusOK, gin.H{"message": "Successfully joined group"})
}

// ListMembers handles GET /groups/:id/members.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	members, err := h.groups.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}
