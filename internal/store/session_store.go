package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// SaveUser records the logged-in user. Switching to a different account
// drops the previous account's cached todos and notes.
func (s *SQLiteStore) SaveUser(ctx context.Context, user model.User) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var previous int64
	err = tx.GetContext(ctx, &previous, "SELECT user_id FROM session WHERE id = 1")
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading session: %w", err)
	case previous != user.ID:
		if err := clearCache(ctx, tx); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session (id, user_id, username, email, name, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			name = excluded.name,
			created_at = excluded.created_at`,
		user.ID, user.Username, user.Email, user.Name, user.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	return tx.Commit()
}

// GetUser returns the cached user or ErrNoSession.
func (s *SQLiteStore) GetUser(ctx context.Context) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
		SELECT user_id AS id, username, email, name, created_at
		FROM session WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return &u, nil
}

// ClearSession removes the user, todos, and notes.
func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	if err := clearCache(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func clearCache(ctx context.Context, db execer) error {
	for _, table := range []string{"todos", "notes"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// MarkSynced stamps the session with the time of the last full refresh.
// Without a session it does nothing.
func (s *SQLiteStore) MarkSynced(ctx context.Context, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE session SET synced_at = ? WHERE id = 1", at.UTC()); err != nil {
		return fmt.Errorf("marking sync time: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LastSynced(ctx context.Context) (time.Time, error) {
	var at sql.NullTime
	err := s.db.GetContext(ctx, &at, "SELECT synced_at FROM session WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading sync time: %w", err)
	}
	return at.Time, nil
}
