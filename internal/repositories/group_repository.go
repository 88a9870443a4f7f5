package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"groupchat/internal/db"
	"groupchat/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group and membership persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group models.Group, joinedAt time.Time) error
	GetGroup(ctx context.Context, groupID string) (models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	AddMember(ctx context.Context, groupID string, userID string, joinedAt time.Time) error
	IsMember(ctx context.Context, groupID string, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup inserts the group and its creator's membership atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, group models.Group, joinedAt time.Time) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO groups (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)`),
			group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt); err != nil {
			return mapInsertError(err, "insert group")
		}
		return addMember(ctx, tx, group.ID, group.CreatedBy, joinedAt)
	})
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, r.db.Rebind(`SELECT id, name, description, created_by, created_at FROM groups WHERE id = ?`), groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// ListGroups returns every group, newest first.
func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups, `SELECT id, name, description, created_by, created_at FROM groups ORDER BY created_at DESC, id DESC`)
	return groups, err
}

// AddMember inserts a membership. A second membership for the same pair
// yields ErrConflict.
func (r *GroupRepo) AddMember(ctx context.Context, groupID string, userID string, joinedAt time.Time) error {
	return addMember(ctx, r.db, groupID, userID, joinedAt)
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupID string, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)`), groupID, userID)
	return exists, err
}

// ListMembers returns members in join order.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	members := []models.Member{}
	query := `SELECT u.id, u.username, u.created_at, gm.joined_at FROM users u
        INNER JOIN group_members gm ON gm.user_id = u.id
        WHERE gm.group_id = ?
        ORDER BY gm.joined_at ASC, u.id ASC`
	err := r.db.SelectContext(ctx, &members, r.db.Rebind(query), groupID)
	return members, err
}

func addMember(ctx context.Context, ext sqlx.ExtContext, groupID string, userID string, joinedAt time.Time) error {
	_, err := ext.ExecContext(ctx, ext.Rebind(`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`), groupID, userID, joinedAt)
	return mapInsertError(err, "insert member")
}
