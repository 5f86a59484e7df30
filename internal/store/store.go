package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// ErrNoSession is returned by GetUser when nobody is logged in.
var ErrNoSession = errors.New("no cached session")

// Store is the local cache of the last known backend state. The backend
// stays authoritative; the cache only serves offline reads and fast start.
type Store interface {
	// === Todos ===

	// ReplaceTodos swaps the cached collection for todos in one transaction.
	ReplaceTodos(ctx context.Context, todos []model.Todo) error
	UpsertTodo(ctx context.Context, todo model.Todo) error
	DeleteTodo(ctx context.Context, id int64) error
	DeleteCompletedTodos(ctx context.Context) error
	// GetTodos returns the cached todos, newest first.
	GetTodos(ctx context.Context) ([]model.Todo, error)

	// === Notes ===

	ReplaceNotes(ctx context.Context, notes []model.Note) error
	UpsertNote(ctx context.Context, note model.Note) error
	DeleteNote(ctx context.Context, id int64) error
	GetNotes(ctx context.Context) ([]model.Note, error)

	// === Session ===

	SaveUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context) (*model.User, error)
	// ClearSession forgets the user and everything cached for them.
	ClearSession(ctx context.Context) error
	MarkSynced(ctx context.Context, at time.Time) error
	// LastSynced returns the zero time when no sync has completed.
	LastSynced(ctx context.Context) (time.Time, error)

	Close() error
}
