package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"groupchat/internal/db"
	"groupchat/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByToken(ctx context.Context, token string) (models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const selectUser = `SELECT id, username, token, created_at FROM users`

// CreateUser inserts a user. A duplicate username yields ErrUsernameTaken, any
// other unique violation (a token collision) yields ErrConflict.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO users (id, username, token, created_at) VALUES (?, ?, ?, ?)`),
		user.ID, user.Username, user.Token, user.CreatedAt)
	if err != nil && db.IsUniqueViolation(err) && constraintMentions(err, "username") {
		return ErrUsernameTaken
	}
	return mapInsertError(err, "insert user")
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = ?`, id)
}

// GetUserByUsername fetches a user by exact (case-sensitive) username.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = ?`, username)
}

// GetUserByToken resolves a bearer token.
func (r *UserRepo) GetUserByToken(ctx context.Context, token string) (models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE token = ?`, token)
}

// UsernameExists checks whether the username is registered.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`), username)
	return exists, err
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}
