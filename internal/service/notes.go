package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
)

// Notes owns the client's notes. It is safe for concurrent use.
type Notes struct {
	backend NoteBackend
	cache   store.Store
	logger  *zap.Logger

	mu    sync.Mutex
	notes []model.Note
}

func NewNotes(backend NoteBackend, cache store.Store, logger *zap.Logger) *Notes {
	return &Notes{
		backend: backend,
		cache:   cache,
		logger:  logging.OrNop(logger).Named("notes"),
		notes:   []model.Note{},
	}
}

// List returns a copy of the current notes, most recently updated first.
func (s *Notes) List() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// Search filters the current notes by query and category.
func (s *Notes) Search(query, category string) []model.Note {
	return engine.FilterNotes(s.List(), query, category)
}

// Load fetches notes, falling back to the cache like Todos.Load.
func (s *Notes) Load(ctx context.Context) ([]model.Note, error) {
	notes, err := s.backend.ListNotes(ctx)
	if err != nil {
		s.logger.Warn("fetching notes failed, using cache", zap.Error(err))
		cached, cacheErr := s.cache.GetNotes(ctx)
		if cacheErr != nil {
			s.logger.Error("reading cache failed", zap.Error(cacheErr))
			return s.List(), fmt.Errorf("%w: %w", ErrStale, err)
		}
		s.set(cached)
		return s.List(), fmt.Errorf("%w: %w", ErrStale, err)
	}

	if err := s.cache.ReplaceNotes(ctx, notes); err != nil {
		s.logger.Warn("caching notes failed", zap.Error(err))
	}
	s.set(notes)
	return s.List(), nil
}

// Create adds a note. A blank title is rejected before any network call.
func (s *Notes) Create(ctx context.Context, in api.NoteInput) (model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.Note{}, ErrEmptyText
	}

	n, err := s.backend.CreateNote(ctx, in)
	if err != nil {
		return model.Note{}, fmt.Errorf("creating note: %w", err)
	}
	s.upsert(ctx, n)
	return n, nil
}

// Update changes the non-empty fields of in on the note with id.
func (s *Notes) Update(ctx context.Context, id int64, in api.NoteInput) (model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)

	n, err := s.backend.UpdateNote(ctx, id, in)
	if err != nil {
		return model.Note{}, fmt.Errorf("updating note %d: %w", id, err)
	}
	s.upsert(ctx, n)
	return n, nil
}

func (s *Notes) Delete(ctx context.Context, id int64) error {
	if err := s.backend.DeleteNote(ctx, id); err != nil && !api.IsNotFound(err) {
		return fmt.Errorf("deleting note %d: %w", id, err)
	}
	if err := s.cache.DeleteNote(ctx, id); err != nil {
		s.logger.Warn("removing cached note failed", zap.Int64("id", id), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = slices.DeleteFunc(slices.Clone(s.notes), func(n model.Note) bool { return n.ID == id })
	return nil
}

func (s *Notes) upsert(ctx context.Context, n model.Note) {
	if err := s.cache.UpsertNote(ctx, n); err != nil {
		s.logger.Warn("caching note failed", zap.Int64("id", n.ID), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	notes := slices.DeleteFunc(slices.Clone(s.notes), func(x model.Note) bool { return x.ID == n.ID })
	s.notes = append([]model.Note{n}, notes...)
}

func (s *Notes) set(notes []model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = slices.Clone(notes)
	if s.notes == nil {
		s.notes = []model.Note{}
	}
}
