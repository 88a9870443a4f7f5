package services

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupchat/internal/db"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type stack struct {
	identity *IdentityService
	groups   *GroupService
	messages *MessageService
}

func newStack(t *testing.T) stack {
	t.Helper()
	database := db.OpenTestSQLite(t)
	deps := Deps{Clock: &stepClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}}

	identity := NewIdentityService(repositories.NewUserRepo(database), deps)
	groups := NewGroupService(repositories.NewGroupRepo(database), identity, deps)
	messages := NewMessageService(repositories.NewMessageRepo(database), identity, groups, deps)
	return stack{identity: identity, groups: groups, messages: messages}
}

func (s stack) register(t *testing.T, username string) models.User {
	t.Helper()
	user, err := s.identity.Register(context.Background(), username)
	require.NoError(t, err)
	return user
}

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestRegisterIssuesToken(t *testing.T) {
	s := newStack(t)

	user := s.register(t, "alice")
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Regexp(t, hexToken, user.Token)
	require.False(t, user.CreatedAt.IsZero())

	bob := s.register(t, "bob")
	require.NotEqual(t, user.Token, bob.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newStack(t)
	s.register(t, "alice")

	_, err := s.identity.Register(context.Background(), "alice")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// usernames are case sensitive
	s.register(t, "Alice")
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.identity.Register(ctx, "alice")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicateUsername)
	}
	require.Equal(t, 1, succeeded)
}

func TestRegisterValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		username  string
		violation string
	}{
		{name: "too short", username: "ab", violation: "Username must be at least 3 characters long"},
		{name: "too long", username: strings.Repeat("a", 51), violation: "Username must not exceed 50 characters"},
		{name: "charset", username: "bad name!", violation: "Username can only contain letters, numbers, underscores, dots, and hyphens"},
		{name: "blank", username: "   ", violation: "Username is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.identity.Register(ctx, tc.username)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, []string{tc.violation}, validationErr.Violations)
		})
	}

	user, err := s.identity.Register(ctx, "valid_name.1")
	require.NoError(t, err)
	require.Equal(t, "valid_name.1", user.Username)
}

func TestResolveToken(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")

	got, ok, err := s.identity.ResolveToken(ctx, alice.Token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice.ID, got.ID)

	_, ok, err = s.identity.ResolveToken(ctx, "deadbeef")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = s.identity.ResolveToken(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)

	byName, ok, err := s.identity.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, alice.ID, byName.ID)

	_, ok, err = s.identity.GetByID(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateGroupMakesCreatorMember(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")

	desc := "monthly reads"
	group, err := s.groups.CreateGroup(ctx, "Book Club", &desc, alice.Token)
	require.NoError(t, err)
	require.Equal(t, alice.ID, group.CreatedBy)

	caller, _, err := s.identity.ResolveToken(ctx, alice.Token)
	require.NoError(t, err)
	member, err := s.groups.IsMember(ctx, group.ID, caller.ID)
	require.NoError(t, err)
	require.True(t, member)

	got, ok, err := s.groups.GetByID(ctx, group.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Book Club", got.Name)
	require.Equal(t, desc, *got.Description)
}

func TestCreateGroupErrors(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")

	_, err := s.groups.CreateGroup(ctx, "Book Club", nil, "deadbeef")
	require.ErrorIs(t, err, ErrInvalidToken)

	long := strings.Repeat("d", 501)
	_, err = s.groups.CreateGroup(ctx, "ab", &long, alice.Token)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.ElementsMatch(t, []string{
		"Group name must be at least 3 characters long",
		"Group description must not exceed 500 characters",
	}, validationErr.Violations)

	groups, err := s.groups.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestListAllNewestFirst(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")

	first, err := s.groups.CreateGroup(ctx, "First", nil, alice.Token)
	require.NoError(t, err)
	second, err := s.groups.CreateGroup(ctx, "Second", nil, alice.Token)
	require.NoError(t, err)

	groups, err := s.groups.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, second.ID, groups[0].ID)
	require.Equal(t, first.ID, groups[1].ID)
}

func TestJoinGroupTwice(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	group, err := s.groups.CreateGroup(ctx, "Book Club", nil, alice.Token)
	require.NoError(t, err)

	require.NoError(t, s.groups.JoinGroup(ctx, group.ID, bob.Token))
	require.ErrorIs(t, s.groups.JoinGroup(ctx, group.ID, bob.Token), ErrAlreadyMember)
	require.ErrorIs(t, s.groups.JoinGroup(ctx, group.ID, alice.Token), ErrAlreadyMember)
	require.ErrorIs(t, s.groups.JoinGroup(ctx, "missing", bob.Token), ErrGroupNotFound)
	require.ErrorIs(t, s.groups.JoinGroup(ctx, group.ID, "deadbeef"), ErrInvalidToken)

	members, err := s.groups.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, alice.ID, members[0].UserID)
	require.Equal(t, bob.ID, members[1].UserID)
	require.True(t, members[0].JoinedAt.Before(members[1].JoinedAt))

	_, err = s.groups.ListMembers(ctx, "missing")
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	group, err := s.groups.CreateGroup(ctx, "Book Club", nil, alice.Token)
	require.NoError(t, err)

	_, err = s.messages.SendMessage(ctx, group.ID, "hi", bob.Token)
	require.ErrorIs(t, err, ErrNotAMember)

	require.NoError(t, s.groups.JoinGroup(ctx, group.ID, bob.Token))
	msg, err := s.messages.SendMessage(ctx, group.ID, "  hi  ", bob.Token)
	require.NoError(t, err)
	require.Equal(t, "hi", msg.Content)
	require.Equal(t, bob.ID, msg.UserID)

	got, ok, err := s.messages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "bob", got.Username)

	_, ok, err = s.messages.GetByID(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSendMessageErrors(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	group, err := s.groups.CreateGroup(ctx, "Book Club", nil, alice.Token)
	require.NoError(t, err)

	_, err = s.messages.SendMessage(ctx, group.ID, "hi", "deadbeef")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.messages.SendMessage(ctx, "missing", "hi", alice.Token)
	require.ErrorIs(t, err, ErrGroupNotFound)

	var validationErr *ValidationError
	_, err = s.messages.SendMessage(ctx, group.ID, "   ", alice.Token)
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{"Message content is required"}, validationErr.Violations)

	long := strings.Repeat("x", 2001)
	_, err = s.messages.SendMessage(ctx, group.ID, long, alice.Token)
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{"Message content must not exceed 2000 characters"}, validationErr.Violations)
}

func TestGetGroupMessagesPaging(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	alice := s.register(t, "alice")
	group, err := s.groups.CreateGroup(ctx, "Book Club", nil, alice.Token)
	require.NoError(t, err)

	var sent []models.Message
	for _, content := range []string{"m1", "m2", "m3"} {
		msg, err := s.messages.SendMessage(ctx, group.ID, content, alice.Token)
		require.NoError(t, err)
		sent = append(sent, msg)
	}

	page, err := s.messages.GetGroupMessages(ctx, group.ID, 2, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"m2", "m3"}, contents(page))

	page, err = s.messages.GetGroupMessages(ctx, group.ID, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"m1"}, contents(page))

	page, err = s.messages.GetGroupMessages(ctx, group.ID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2", "m3"}, contents(page))
	require.Equal(t, sent[0].ID, page[0].ID)

	count, err := s.messages.CountGroupMessages(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	_, err = s.messages.GetGroupMessages(ctx, "missing", 2, 0)
	require.ErrorIs(t, err, ErrGroupNotFound)

	var validationErr *ValidationError
	_, err = s.messages.GetGroupMessages(ctx, group.ID, -1, -1)
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Violations, 2)
}

func TestBookClubScenario(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	alice := s.register(t, "alice")
	group, err := s.groups.CreateGroup(ctx, "Book Club", nil, alice.Token)
	require.NoError(t, err)

	member, err := s.groups.IsMember(ctx, group.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, member)

	bob := s.register(t, "bob")
	_, err = s.messages.SendMessage(ctx, group.ID, "hello from bob", bob.Token)
	require.ErrorIs(t, err, ErrNotAMember)

	require.NoError(t, s.groups.JoinGroup(ctx, group.ID, bob.Token))
	_, err = s.messages.SendMessage(ctx, group.ID, "hello from alice", alice.Token)
	require.NoError(t, err)
	_, err = s.messages.SendMessage(ctx, group.ID, "hello from bob", bob.Token)
	require.NoError(t, err)

	msgs, err := s.messages.GetGroupMessages(ctx, group.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, alice.ID, msgs[0].UserID)
	require.Equal(t, bob.ID, msgs[1].UserID)
}

func contents(msgs []models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Content)
	}
	return out
}
