package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
)

// Todos owns the client's todo state. It is safe for concurrent use; every
// method returns a snapshot of the state after the operation.
type Todos struct {
	backend TodoBackend
	cache   store.Store
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	state engine.State
}

// NewTodos creates the todo service. view seeds the initial view params.
func NewTodos(backend TodoBackend, cache store.Store, logger *zap.Logger, view engine.ViewParams) *Todos {
	return &Todos{
		backend: backend,
		cache:   cache,
		logger:  logging.OrNop(logger).Named("todos"),
		now:     time.Now,
		state:   engine.NewState().WithView(view),
	}
}

// State returns the current snapshot.
func (s *Todos) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetView changes the view selections.
func (s *Todos) SetView(p engine.ViewParams) engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithView(p)
	return s.state
}

// Stats aggregates the whole collection as of now.
func (s *Todos) Stats() engine.Statistics {
	return engine.Aggregate(s.State().Todos, s.now())
}

// LoadCached fills the state from the local cache only.
func (s *Todos) LoadCached(ctx context.Context) (engine.State, error) {
	todos, err := s.cache.GetTodos(ctx)
	if err != nil {
		return s.State(), fmt.Errorf("reading cached todos: %w", err)
	}
	return s.update(func(st engine.State) engine.State { return st.Load(todos) }), nil
}

// Load fetches the full collection and replaces state and cache with it.
// When the backend fails, the cached collection is loaded instead and the
// returned error wraps both ErrStale and the backend error.
func (s *Todos) Load(ctx context.Context) (engine.State, error) {
	todos, err := s.backend.ListTodos(ctx)
	if err != nil {
		s.logger.Warn("fetching todos failed, using cache", zap.Error(err))
		st, cacheErr := s.LoadCached(ctx)
		if cacheErr != nil {
			s.logger.Error("reading cache failed", zap.Error(cacheErr))
		}
		return st, fmt.Errorf("%w: %w", ErrStale, err)
	}

	if err := s.cache.ReplaceTodos(ctx, todos); err != nil {
		s.logger.Warn("caching todos failed", zap.Error(err))
	} else if err := s.cache.MarkSynced(ctx, s.now()); err != nil {
		s.logger.Warn("recording sync time failed", zap.Error(err))
	}

	s.logger.Debug("todos loaded", zap.Int("count", len(todos)))
	return s.update(func(st engine.State) engine.State { return st.Load(todos) }), nil
}

// Create adds a todo. Blank text is rejected without contacting the backend.
func (s *Todos) Create(ctx context.Context, in api.TodoCreate) (engine.State, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return s.State(), ErrEmptyText
	}
	in.Description = strings.TrimSpace(in.Description)

	created, err := s.backend.CreateTodo(ctx, in)
	if err != nil {
		return s.State(), fmt.Errorf("creating todo: %w", err)
	}

	s.mirror(ctx, created)
	s.logger.Info("todo created", zap.Int64("id", created.ID))
	return s.update(func(st engine.State) engine.State { return st.Add(created) }), nil
}

// Toggle flips the completed flag of the todo with id.
func (s *Todos) Toggle(ctx context.Context, id int64) (engine.State, error) {
	current, ok := s.State().Find(id)
	if !ok {
		return s.State(), fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	completed := !current.Completed
	return s.Edit(ctx, id, api.TodoUpdate{Completed: &completed})
}

// SetDueDate sets the due date of the todo with id.
func (s *Todos) SetDueDate(ctx context.Context, id int64, due time.Time) (engine.State, error) {
	return s.Edit(ctx, id, api.TodoUpdate{DueDate: &due})
}

// Edit applies a partial update. A text field that trims to empty is
// rejected without contacting the backend.
func (s *Todos) Edit(ctx context.Context, id int64, in api.TodoUpdate) (engine.State, error) {
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return s.State(), ErrEmptyText
		}
		in.Text = &text
	}
	if _, ok := s.State().Find(id); !ok {
		return s.State(), fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}

	updated, err := s.backend.UpdateTodo(ctx, id, in)
	if err != nil {
		return s.State(), fmt.Errorf("updating todo %d: %w", id, err)
	}

	s.mirror(ctx, updated)
	return s.update(func(st engine.State) engine.State { return st.Replace(updated) }), nil
}

// Delete removes the todo with id. A 404 from the backend means it is
// already gone, so the local copy is dropped as well.
func (s *Todos) Delete(ctx context.Context, id int64) (engine.State, error) {
	if err := s.backend.DeleteTodo(ctx, id); err != nil && !api.IsNotFound(err) {
		return s.State(), fmt.Errorf("deleting todo %d: %w", id, err)
	}

	if err := s.cache.DeleteTodo(ctx, id); err != nil {
		s.logger.Warn("removing cached todo failed", zap.Int64("id", id), zap.Error(err))
	}
	s.logger.Info("todo deleted", zap.Int64("id", id))
	return s.update(func(st engine.State) engine.State { return st.Remove(id) }), nil
}

// ClearCompleted removes every completed todo.
func (s *Todos) ClearCompleted(ctx context.Context) (engine.State, error) {
	if err := s.backend.ClearCompleted(ctx); err != nil {
		return s.State(), fmt.Errorf("clearing completed todos: %w", err)
	}

	if err := s.cache.DeleteCompletedTodos(ctx); err != nil {
		s.logger.Warn("clearing cached todos failed", zap.Error(err))
	}
	return s.update(func(st engine.State) engine.State { return st.RemoveCompleted() }), nil
}

func (s *Todos) mirror(ctx context.Context, t model.Todo) {
	if err := s.cache.UpsertTodo(ctx, t); err != nil {
		s.logger.Warn("caching todo failed", zap.Int64("id", t.ID), zap.Error(err))
	}
}

func (s *Todos) update(fn func(engine.State) engine.State) engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}
