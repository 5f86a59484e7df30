// Package service coordinates the backend client, the local cache, and the
// in-memory engine state. The backend is authoritative: every mutation goes
// to it first and only its response is mirrored locally.
package service

import (
	"context"
	"errors"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
)

var (
	// ErrEmptyText is returned before any network call when a todo's text
	// or a note's title is blank.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrNotFound is returned when an operation names an id the client
	// does not know.
	ErrNotFound = errors.New("not found")

	// ErrStale marks a result served from the local cache because the
	// backend could not be reached.
	ErrStale = errors.New("showing cached data")
)

// TodoBackend is the subset of the backend client used for todos.
type TodoBackend interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, in api.TodoCreate) (model.Todo, error)
	UpdateTodo(ctx context.Context, id int64, in api.TodoUpdate) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) error
}

// NoteBackend is the subset of the backend client used for notes.
type NoteBackend interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	CreateNote(ctx context.Context, in api.NoteInput) (model.Note, error)
	UpdateNote(ctx context.Context, id int64, in api.NoteInput) (model.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// AuthBackend is the subset of the backend client used for sessions.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Register(ctx context.Context, reg api.Registration) (*api.Session, error)
	Me(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, name string) (*model.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	SetToken(token string)
}

// TokenStore persists the session token between runs.
type TokenStore interface {
	Token() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

var (
	_ TodoBackend = (*api.Client)(nil)
	_ NoteBackend = (*api.Client)(nil)
	_ AuthBackend = (*api.Client)(nil)
)
