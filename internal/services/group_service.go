package services

import (
	"context"
	"errors"
	"strings"

	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// Authenticator turns a bearer token into the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// GroupService creates groups and manages membership.
type GroupService struct {
	groups repositories.GroupRepository
	auth   Authenticator
	deps   Deps
}

// NewGroupService constructs a GroupService.
func NewGroupService(groups repositories.GroupRepository, auth Authenticator, deps Deps) *GroupService {
	return &GroupService{groups: groups, auth: auth, deps: deps.withDefaults()}
}

// CreateGroup creates a group owned by the caller. The group row and the
// creator's membership are written in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, name string, description *string, token string) (models.Group, error) {
	caller, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return models.Group{}, err
	}

	name = strings.TrimSpace(name)
	if err := ValidateGroup(name, description); err != nil {
		return models.Group{}, err
	}

	now := s.deps.Clock.Now()
	group := models.Group{
		ID:          s.deps.NewID(),
		Name:        name,
		Description: description,
		CreatedBy:   caller.ID,
		CreatedAt:   now,
	}
	if err := s.groups.CreateGroup(ctx, group, now); err != nil {
		return models.Group{}, persistence("create group", err)
	}

	publish(ctx, s.deps.Events, EventGroupCreated, now, group)
	return group, nil
}

// JoinGroup adds the caller to the group. Joining twice is an error.
func (s *GroupService) JoinGroup(ctx context.Context, groupID string, token string) error {
	caller, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if _, err := s.mustGet(ctx, groupID); err != nil {
		return err
	}

	member, err := s.IsMember(ctx, groupID, caller.ID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}

	joinedAt := s.deps.Clock.Now()
	if err := s.groups.AddMember(ctx, groupID, caller.ID, joinedAt); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return ErrAlreadyMember
		}
		return persistence("add member", err)
	}

	publish(ctx, s.deps.Events, EventGroupMemberJoined, joinedAt, models.Membership{
		GroupID:  groupID,
		UserID:   caller.ID,
		JoinedAt: joinedAt,
	})
	return nil
}

// GetByID looks up a group. A miss is reported through the bool.
func (s *GroupService) GetByID(ctx context.Context, groupID string) (models.Group, bool, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		return models.Group{}, false, nil
	}
	if err != nil {
		return models.Group{}, false, persistence("load group", err)
	}
	return group, true, nil
}

// ListAll returns every group, newest first.
func (s *GroupService) ListAll(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return nil, persistence("list groups", err)
	}
	return groups, nil
}

// ListMembers returns the group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	if _, err := s.mustGet(ctx, groupID); err != nil {
		return nil, err
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, persistence("list members", err)
	}
	return members, nil
}

// IsMember reports whether the user currently belongs to the group.
func (s *GroupService) IsMember(ctx context.Context, groupID string, userID string) (bool, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, persistence("check membership", err)
	}
	return member, nil
}

// Get returns the group or ErrGroupNotFound.
func (s *GroupService) Get(ctx context.Context, groupID string) (models.Group, error) {
	return s.mustGet(ctx, groupID)
}

func (s *GroupService) mustGet(ctx context.Context, groupID string) (models.Group, error) {
	group, ok, err := s.GetByID(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	return group, nil
}
