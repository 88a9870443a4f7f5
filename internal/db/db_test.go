package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func insertUser(ctx context.Context, ext sqlx.ExtContext, id, username, token string) error {
	_, err := ext.ExecContext(ctx, ext.Rebind(`INSERT INTO users (id, username, token, created_at) VALUES (?, ?, ?, ?)`),
		id, username, token, time.Now().UTC())
	return err
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	db := OpenTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, insertUser(ctx, db, "u1", "alice", "t1"))
	err := insertUser(ctx, db, "u2", "alice", "t2")
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	err = insertUser(ctx, db, "u1", "bob", "t3")
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolationPostgres(t *testing.T) {
	require.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("boom")))
	require.False(t, IsUniqueViolation(nil))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := OpenTestSQLite(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, "u1", "alice", "t1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	require.Zero(t, count)
}

func TestWithTxCommits(t *testing.T) {
	db := OpenTestSQLite(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx *sqlx.Tx) error {
		return insertUser(ctx, tx, "u1", "alice", "t1")
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	require.Equal(t, 1, count)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
}
