package services

import (
	"context"
	"errors"
	"strings"

	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// IdentityService registers users and resolves bearer tokens.
type IdentityService struct {
	users repositories.UserRepository
	deps  Deps
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(users repositories.UserRepository, deps Deps) *IdentityService {
	return &IdentityService{users: users, deps: deps.withDefaults()}
}

// Register creates a user with a fresh token. The returned record is the only
// place the token is handed out.
func (s *IdentityService) Register(ctx context.Context, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return models.User{}, err
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return models.User{}, persistence("check username", err)
	}
	if exists {
		return models.User{}, ErrDuplicateUsername
	}

	token, err := s.deps.NewToken()
	if err != nil {
		return models.User{}, persistence("generate token", err)
	}

	user := models.User{
		ID:        s.deps.NewID(),
		Username:  username,
		Token:     token,
		CreatedAt: s.deps.Clock.Now(),
	}
	// the unique index is the final arbiter when two registrations race past the check above
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, persistence("create user", err)
	}

	publish(ctx, s.deps.Events, EventUserRegistered, user.CreatedAt, user.Public())
	return user, nil
}

// ResolveToken looks up the owner of a token. A miss is reported through the
// bool, not as an error.
func (s *IdentityService) ResolveToken(ctx context.Context, token string) (models.User, bool, error) {
	if token == "" {
		return models.User{}, false, nil
	}
	return s.find(s.users.GetUserByToken(ctx, token))
}

// GetByID looks up a user by id.
func (s *IdentityService) GetByID(ctx context.Context, id string) (models.User, bool, error) {
	return s.find(s.users.GetUser(ctx, id))
}

// GetByUsername looks up a user by exact username.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (models.User, bool, error) {
	return s.find(s.users.GetUserByUsername(ctx, username))
}

// Authenticate resolves a token into its user or ErrInvalidToken.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (models.User, error) {
	user, ok, err := s.ResolveToken(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidToken
	}
	return user, nil
}

func (s *IdentityService) find(user models.User, err error) (models.User, bool, error) {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, persistence("load user", err)
	}
	return user, true, nil
}
