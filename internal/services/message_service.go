package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// DefaultMessageLimit is the page size used when the caller gives none.
const DefaultMessageLimit = 50

// Membership resolves groups and answers membership questions.
type Membership interface {
	Get(ctx context.Context, groupID string) (models.Group, error)
	IsMember(ctx context.Context, groupID string, userID string) (bool, error)
}

// MessageService posts and reads group messages.
type MessageService struct {
	messages repositories.MessageRepository
	auth     Authenticator
	groups   Membership
	deps     Deps
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages repositories.MessageRepository, auth Authenticator, groups Membership, deps Deps) *MessageService {
	return &MessageService{messages: messages, auth: auth, groups: groups, deps: deps.withDefaults()}
}

// SendMessage posts content to the group on behalf of the caller, who must be
// a member at the time of sending.
func (s *MessageService) SendMessage(ctx context.Context, groupID string, content string, token string) (models.Message, error) {
	caller, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return models.Message{}, err
	}
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return models.Message{}, err
	}

	member, err := s.groups.IsMember(ctx, groupID, caller.ID)
	if err != nil {
		return models.Message{}, err
	}
	if !member {
		return models.Message{}, ErrNotAMember
	}

	content = strings.TrimSpace(content)
	if err := ValidateContent(content); err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:        s.deps.NewID(),
		GroupID:   groupID,
		UserID:    caller.ID,
		Username:  caller.Username,
		Content:   content,
		CreatedAt: s.deps.Clock.Now(),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return models.Message{}, persistence("create message", err)
	}

	publish(ctx, s.deps.Events, EventMessageSent, msg.CreatedAt, msg)
	return msg, nil
}

// GetGroupMessages returns one page of the group's history. Pages are cut
// from the newest message backwards (offset 0 holds the newest limit
// messages) and each page is returned oldest first. A zero limit means
// DefaultMessageLimit.
func (s *MessageService) GetGroupMessages(ctx context.Context, groupID string, limit int, offset int) ([]models.Message, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}

	var violations []string
	if limit < 0 {
		violations = append(violations, "limit must not be negative")
	}
	if offset < 0 {
		violations = append(violations, "offset must not be negative")
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if limit == 0 {
		limit = DefaultMessageLimit
	}

	msgs, err := s.messages.ListRecentMessages(ctx, groupID, limit, offset)
	if err != nil {
		return nil, persistence("list messages", err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// CountGroupMessages returns the total number of messages in the group.
func (s *MessageService) CountGroupMessages(ctx context.Context, groupID string) (int, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return 0, err
	}
	count, err := s.messages.CountMessages(ctx, groupID)
	if err != nil {
		return 0, persistence("count messages", err)
	}
	return count, nil
}

// GetByID looks up a message. A miss is reported through the bool.
func (s *MessageService) GetByID(ctx context.Context, id string) (models.Message, bool, error) {
	msg, err := s.messages.GetMessage(ctx, id)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.Message{}, false, nil
	}
	if err != nil {
		return models.Message{}, false, persistence("load message", err)
	}
	return msg, true, nil
}
