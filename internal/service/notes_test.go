package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	"github.com/nhle/todo-client/tests/testutil"
)

func TestNotesLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(now, nil)
	cache := testutil.NewTestStore(t)
	svc := service.NewNotes(backend, cache, zap.NewNop())

	if _, err := svc.Create(ctx, api.NoteInput{Title: " "}); !errors.Is(err, service.ErrEmptyText) {
		t.Fatalf("blank title: got %v", err)
	}

	a, err := svc.Create(ctx, api.NoteInput{Title: "Groceries", Content: "eggs", Category: model.CategoryPersonal})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create(ctx, api.NoteInput{Title: "Standup", Color: model.NoteColorBlue})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Color != model.NoteColorYellow {
		t.Errorf("default color: got %q", a.Color)
	}

	list := svc.List()
	if len(list) != 2 || list[0].ID != b.ID {
		t.Fatalf("newest note should be first, got %+v", list)
	}

	if _, err := svc.Update(ctx, a.ID, api.NoteInput{Content: "eggs, milk"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := svc.Search("milk", ""); len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("Search: got %+v", got)
	}

	if err := svc.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(svc.List()) != 1 {
		t.Errorf("after delete: %+v", svc.List())
	}

	cached, _ := cache.GetNotes(ctx)
	if len(cached) != 1 || cached[0].Content != "eggs, milk" {
		t.Errorf("cache: got %+v", cached)
	}
}

func TestNotesLoadFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(now, nil)
	cache := testutil.NewTestStore(t)
	if err := cache.ReplaceNotes(ctx, testutil.SampleNotes(now)); err != nil {
		t.Fatal(err)
	}
	svc := service.NewNotes(backend, cache, zap.NewNop())

	backend.NotesErr = errors.New("offline")
	notes, err := svc.Load(ctx)
	if !errors.Is(err, service.ErrStale) {
		t.Fatalf("got %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("expected cached notes, got %d", len(notes))
	}
}
