package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	"github.com/nhle/todo-client/internal/store"
	"github.com/nhle/todo-client/tests/testutil"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTodos(t *testing.T) (*service.Todos, *testutil.FakeBackend, *store.SQLiteStore) {
	t.Helper()
	backend := testutil.NewFakeBackend(now, testutil.SampleTodos(now))
	cache := testutil.NewTestStore(t)
	svc := service.NewTodos(backend, cache, zap.NewNop(), engine.DefaultView())
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc, backend, cache
}

func TestLoadReplacesStateAndCache(t *testing.T) {
	svc, _, cache := newTodos(t)

	st := svc.State()
	if len(st.Todos) != 4 || st.Todos[0].ID != 4 {
		t.Fatalf("state should hold all todos newest first, got %+v", st.Todos)
	}

	cached, err := cache.GetTodos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 4 {
		t.Errorf("cache: got %d todos", len(cached))
	}
}

func TestLoadFallsBackToCache(t *testing.T) {
	svc, backend, _ := newTodos(t)
	ctx := context.Background()

	if _, err := svc.Delete(ctx, 4); err != nil {
		t.Fatal(err)
	}

	down := errors.New("connection refused")
	backend.ListErr = down

	st, err := svc.Load(ctx)
	if !errors.Is(err, service.ErrStale) || !errors.Is(err, down) {
		t.Fatalf("expected stale error wrapping the cause, got %v", err)
	}
	if len(st.Todos) != 3 {
		t.Errorf("expected cached todos, got %d", len(st.Todos))
	}
}

func TestCreate(t *testing.T) {
	svc, backend, cache := newTodos(t)
	ctx := context.Background()

	calls := backend.Calls
	if _, err := svc.Create(ctx, api.TodoCreate{Text: "   "}); !errors.Is(err, service.ErrEmptyText) {
		t.Fatalf("blank text: got %v", err)
	}
	if backend.Calls != calls {
		t.Error("blank text should not reach the backend")
	}

	st, err := svc.Create(ctx, api.TodoCreate{
		Text:     "  Plan trip ",
		Priority: model.PriorityHigh,
		Category: model.CategoryPersonal,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(st.Todos) != 5 {
		t.Fatalf("got %d todos", len(st.Todos))
	}
	created := st.Todos[0]
	if created.Text != "Plan trip" || created.Priority != model.PriorityHigh {
		t.Errorf("created: got %+v", created)
	}

	cached, _ := cache.GetTodos(ctx)
	if len(cached) != 5 {
		t.Errorf("cache not updated: %d todos", len(cached))
	}
}

func TestToggleAndEdit(t *testing.T) {
	svc, _, _ := newTodos(t)
	ctx := context.Background()

	st, err := svc.Toggle(ctx, 1)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if got, _ := st.Find(1); !got.Completed {
		t.Error("todo 1 should be completed")
	}
	st, _ = svc.Toggle(ctx, 1)
	if got, _ := st.Find(1); got.Completed {
		t.Error("second toggle should reopen todo 1")
	}

	if _, err := svc.Toggle(ctx, 999); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}

	blank := "  "
	if _, err := svc.Edit(ctx, 2, api.TodoUpdate{Text: &blank}); !errors.Is(err, service.ErrEmptyText) {
		t.Errorf("blank edit: got %v", err)
	}

	text := " Read chapter 5 "
	low := model.PriorityLow
	st, err = svc.Edit(ctx, 2, api.TodoUpdate{Text: &text, Priority: &low})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, _ := st.Find(2)
	if got.Text != "Read chapter 5" || got.Priority != model.PriorityLow {
		t.Errorf("edited: got %+v", got)
	}

	due := now.Add(48 * time.Hour)
	st, err = svc.SetDueDate(ctx, 4, due)
	if err != nil {
		t.Fatalf("SetDueDate: %v", err)
	}
	if got, _ := st.Find(4); got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date: got %v", got.DueDate)
	}
}

func TestBackendErrorLeavesStateUntouched(t *testing.T) {
	svc, backend, _ := newTodos(t)
	before := svc.State()

	backend.UpdateErr = &api.APIError{StatusCode: 500, Detail: "boom"}
	st, err := svc.Toggle(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if got, _ := st.Find(1); got.Completed {
		t.Error("failed toggle must not change local state")
	}
	if len(st.Todos) != len(before.Todos) {
		t.Error("state changed on failure")
	}
}

func TestDeleteAndClearCompleted(t *testing.T) {
	svc, _, cache := newTodos(t)
	ctx := context.Background()

	st, err := svc.Delete(ctx, 2)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := st.Find(2); ok {
		t.Error("todo 2 still present")
	}

	// Already gone on the backend.
	if _, err := svc.Delete(ctx, 2); err != nil {
		t.Errorf("deleting twice: %v", err)
	}

	st, err = svc.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if c := st.Counts(); c.Completed != 0 || c.Active != 2 {
		t.Errorf("counts after clear: %+v", c)
	}

	cached, _ := cache.GetTodos(ctx)
	if len(cached) != 2 {
		t.Errorf("cache: got %d todos", len(cached))
	}
}

func TestSetViewAndStats(t *testing.T) {
	svc, _, _ := newTodos(t)

	st := svc.SetView(engine.ViewParams{Status: engine.StatusCompleted})
	if vis := st.Visible(); len(vis) != 1 || vis[0].ID != 3 {
		t.Errorf("visible: got %+v", vis)
	}
	if svc.State().View.Sort != engine.SortDate {
		t.Error("view should be normalized")
	}

	stats := svc.Stats()
	if stats.Total != 4 || stats.Completed != 1 {
		t.Errorf("stats: got %+v", stats)
	}
}
