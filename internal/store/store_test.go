package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/tests/testutil"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)
	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("schema version: got %d, want 2", v)
	}
}

func TestReplaceAndGetTodos(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if err := s.ReplaceTodos(ctx, testutil.SampleTodos(now)); err != nil {
		t.Fatalf("ReplaceTodos: %v", err)
	}

	got, err := s.GetTodos(ctx)
	if err != nil {
		t.Fatalf("GetTodos: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d todos, want 4", len(got))
	}

	// Newest first.
	wantOrder := []int64{4, 3, 2, 1}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("index %d: got id %d, want %d", i, got[i].ID, id)
		}
	}

	first := got[3]
	if first.Text != "Submit report" || first.Priority != model.PriorityHigh || first.Category != model.CategoryWork {
		t.Errorf("todo 1: got %+v", first)
	}
	if first.DueDate == nil || !first.DueDate.Equal(now.Add(-24*time.Hour)) {
		t.Errorf("todo 1 due date: got %v", first.DueDate)
	}
	if !got[1].Completed {
		t.Error("todo 3 should be completed")
	}
	if got[0].DueDate != nil {
		t.Errorf("todo 4 should be undated, got %v", got[0].DueDate)
	}
	if got[2].Description != "Pages 80-112" {
		t.Errorf("description: got %q", got[2].Description)
	}

	// A second replace drops what is no longer present.
	if err := s.ReplaceTodos(ctx, testutil.SampleTodos(now)[:1]); err != nil {
		t.Fatalf("ReplaceTodos: %v", err)
	}
	got, _ = s.GetTodos(ctx)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("after replace: got %+v", got)
	}
}

func TestTodoMutations(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	if err := s.ReplaceTodos(ctx, testutil.SampleTodos(now)); err != nil {
		t.Fatal(err)
	}

	updated := testutil.SampleTodos(now)[0]
	updated.Completed = true
	updated.Text = "Submitted report"
	if err := s.UpsertTodo(ctx, updated); err != nil {
		t.Fatalf("UpsertTodo: %v", err)
	}

	if err := s.DeleteTodo(ctx, 4); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if err := s.DeleteTodo(ctx, 404); err != nil {
		t.Errorf("deleting unknown id: %v", err)
	}

	got, _ := s.GetTodos(ctx)
	if len(got) != 3 {
		t.Fatalf("got %d todos, want 3", len(got))
	}

	if err := s.DeleteCompletedTodos(ctx); err != nil {
		t.Fatalf("DeleteCompletedTodos: %v", err)
	}
	got, _ = s.GetTodos(ctx)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("after clearing completed: got %+v", got)
	}
}

func TestEmptyStoreReturnsEmptySlices(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todos, err := s.GetTodos(ctx)
	if err != nil || todos == nil || len(todos) != 0 {
		t.Errorf("GetTodos: got %v, %v", todos, err)
	}
	notes, err := s.GetNotes(ctx)
	if err != nil || notes == nil || len(notes) != 0 {
		t.Errorf("GetNotes: got %v, %v", notes, err)
	}
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if err := s.ReplaceNotes(ctx, testutil.SampleNotes(now)); err != nil {
		t.Fatalf("ReplaceNotes: %v", err)
	}
	got, err := s.GetNotes(ctx)
	if err != nil {
		t.Fatalf("GetNotes: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("expected most recently updated first, got %+v", got)
	}

	n := got[1]
	n.Color = "teal"
	n.UpdatedAt = now
	if err := s.UpsertNote(ctx, n); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	got, _ = s.GetNotes(ctx)
	if got[0].ID != 1 || got[0].Color != model.NoteColorYellow {
		t.Errorf("after upsert: got %+v", got[0])
	}

	if err := s.DeleteNote(ctx, 1); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	got, _ = s.GetNotes(ctx)
	if len(got) != 1 {
		t.Errorf("after delete: got %d notes", len(got))
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if _, err := s.GetUser(ctx); !errors.Is(err, store.ErrNoSession) {
		t.Fatalf("GetUser on empty store: got %v", err)
	}
	synced, err := s.LastSynced(ctx)
	if err != nil || !synced.IsZero() {
		t.Fatalf("LastSynced without session: got %v, %v", synced, err)
	}

	ana := model.User{ID: 1, Username: "ana", Email: "ana@example.com", Name: "Ana", CreatedAt: now}
	if err := s.SaveUser(ctx, ana); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := s.ReplaceTodos(ctx, testutil.SampleTodos(now)); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkSynced(ctx, now); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	u, err := s.GetUser(ctx)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.ID != 1 || u.Email != ana.Email {
		t.Errorf("GetUser: got %+v", u)
	}
	synced, _ = s.LastSynced(ctx)
	if !synced.Equal(now) {
		t.Errorf("LastSynced: got %v", synced)
	}

	// Saving the same user again keeps the cache.
	if err := s.SaveUser(ctx, ana); err != nil {
		t.Fatal(err)
	}
	if todos, _ := s.GetTodos(ctx); len(todos) != 4 {
		t.Errorf("same user should keep cache, got %d todos", len(todos))
	}

	// A different account drops it.
	if err := s.SaveUser(ctx, model.User{ID: 2, Username: "bo", Email: "bo@example.com", CreatedAt: now}); err != nil {
		t.Fatal(err)
	}
	if todos, _ := s.GetTodos(ctx); len(todos) != 0 {
		t.Errorf("new user should start with empty cache, got %d todos", len(todos))
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, err := s.GetUser(ctx); !errors.Is(err, store.ErrNoSession) {
		t.Errorf("after ClearSession: got %v", err)
	}
}
