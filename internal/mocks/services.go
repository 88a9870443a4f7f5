package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"groupchat/internal/models"
)

type IdentityServiceMock struct {
	mock.Mock
}

func (m *IdentityServiceMock) Register(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *IdentityServiceMock) GetByID(ctx context.Context, id string) (models.User, bool, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Bool(1), args.Error(2)
}

func (m *IdentityServiceMock) ResolveToken(ctx context.Context, token string) (models.User, bool, error) {
	args := m.Called(ctx, token)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Bool(1), args.Error(2)
}

type GroupServiceMock struct {
	mock.Mock
}

func (m *GroupServiceMock) CreateGroup(ctx context.Context, name string, description *string, token string) (models.Group, error) {
	args := m.Called(ctx, name, description, token)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupServiceMock) JoinGroup(ctx context.Context, groupID string, token string) error {
	args := m.Called(ctx, groupID, token)
	return args.Error(0)
}

func (m *GroupServiceMock) GetByID(ctx context.Context, groupID string) (models.Group, bool, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Bool(1), args.Error(2)
}

func (m *GroupServiceMock) ListAll(ctx context.Context) ([]models.Group, error) {
	args := m.Called(ctx)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupServiceMock) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	args := m.Called(ctx, groupID)
	var members []models.Member
	if val := args.Get(0); val != nil {
		members = val.([]models.Member)
	}
	return members, args.Error(1)
}

type MessageServiceMock struct {
	mock.Mock
}

func (m *MessageServiceMock) SendMessage(ctx context.Context, groupID string, content string, token string) (models.Message, error) {
	args := m.Called(ctx, groupID, content, token)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageServiceMock) GetGroupMessages(ctx context.Context, groupID string, limit int, offset int) ([]models.Message, error) {
	args := m.Called(ctx, groupID, limit, offset)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageServiceMock) CountGroupMessages(ctx context.Context, groupID string) (int, error) {
	args := m.Called(ctx, groupID)
	return args.Int(0), args.Error(1)
}

func (m *MessageServiceMock) GetByID(ctx context.Context, id string) (models.Message, bool, error) {
	args := m.Called(ctx, id)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Bool(1), args.Error(2)
}
