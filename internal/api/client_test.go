package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithToken("secret"), WithMaxRetries(2))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-10T12:30:00", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-03-10T12:30:00.250000", time.Date(2024, 3, 10, 12, 30, 0, 250_000_000, time.UTC)},
		{"2024-03-10T12:30:00Z", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-03-10T19:30:00+07:00", time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)},
		{"2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestListTodos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/todos/" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization: got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		w.Write([]byte(`[
			{"id": 1, "text": "a", "completed": false, "created_at": "2024-03-10T08:00:00",
			 "due_date": null, "category": null, "priority": "high", "description": null, "user_id": 7},
			{"id": 2, "text": "b", "completed": true, "created_at": "2024-03-09T08:00:00.123456",
			 "due_date": "2024-03-12T00:00:00", "category": "Kerja", "priority": "urgent", "description": "d", "user_id": 7}
		]`))
	})

	todos, err := c.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("got %d todos", len(todos))
	}

	first, second := todos[0], todos[1]
	if first.DueDate != nil || first.Category != "" || first.Priority != model.PriorityHigh {
		t.Errorf("first: got %+v", first)
	}
	if first.CreatedAt.Location() != time.UTC || first.CreatedAt.Hour() != 8 {
		t.Errorf("naive timestamp not read as UTC: %v", first.CreatedAt)
	}
	if second.DueDate == nil || second.DueDate.Day() != 12 {
		t.Errorf("second due date: got %v", second.DueDate)
	}
	if second.Category != model.CategoryWork || second.Description != "d" {
		t.Errorf("second: got %+v", second)
	}
	if second.Priority != model.PriorityMedium {
		t.Errorf("unknown priority should read as medium, got %q", second.Priority)
	}
}

func TestCreateTodoBody(t *testing.T) {
	due := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type: got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
			return
		}
		if body["text"] != "write report" || body["priority"] != "low" {
			t.Errorf("body: got %v", body)
		}
		if body["due_date"] != "2024-03-12T09:00:00Z" {
			t.Errorf("due_date: got %v", body["due_date"])
		}
		if body["category"] != nil {
			t.Errorf("empty category should be null, got %v", body["category"])
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 9, "text": "write report", "completed": false,
			"created_at": "2024-03-10T08:00:00", "due_date": "2024-03-12T09:00:00", "priority": "low"}`))
	})

	got, err := c.CreateTodo(context.Background(), TodoCreate{
		Text:     "write report",
		DueDate:  &due,
		Priority: model.PriorityLow,
	})
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if got.ID != 9 || got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("got %+v", got)
	}
}

func TestUpdateTodoSendsOnlySetFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/todos/4" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["completed"] != true {
			t.Errorf("body: got %v", body)
		}
		w.Write([]byte(`{"id": 4, "text": "x", "completed": true, "created_at": "2024-03-10T08:00:00", "priority": "medium"}`))
	})

	done := true
	got, err := c.UpdateTodo(context.Background(), 4, TodoUpdate{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !got.Completed {
		t.Error("expected completed todo")
	}
}

func TestClearCompletedNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/todos/completed/clear" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.ClearCompleted(context.Background()); err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAuth   bool
		wantNotFnd bool
		wantDetail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "Could not validate credentials"}`, true, false, "Could not validate credentials"},
		{"not found", http.StatusNotFound, `{"detail": "Todo not found"}`, false, true, "Todo not found"},
		{"validation", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body", "text"]}]}`, false, false, `[{"loc": ["body", "text"]}]`},
		{"plain text", http.StatusInternalServerError, "boom\n", false, false, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.ListTodos(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if IsAuthError(err) != tt.wantAuth {
				t.Errorf("IsAuthError: got %v", IsAuthError(err))
			}
			if IsNotFound(err) != tt.wantNotFnd {
				t.Errorf("IsNotFound: got %v", IsNotFound(err))
			}
			if !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error %q does not contain %q", err, tt.wantDetail)
			}
		})
	}
}

func TestRetryOnThrottle(t *testing.T) {
	var calls atomic.Int32
	var (
		mu  sync.Mutex
		ids []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	})

	todos, err := c.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("got %d todos", len(todos))
	}
	if calls.Load() != 2 {
		t.Errorf("calls: got %d, want 2", calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 2 || ids[0] != ids[1] {
		t.Errorf("retries should reuse the request id: %v", ids)
	}
}

func TestRetryExhausted(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail": "maintenance"}`))
	})

	err := c.DeleteTodo(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", calls.Load())
	}
}

func TestNegativeRetriesStillSends(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, WithMaxRetries(-1))
	todos, err := c.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 0 || calls.Load() != 1 {
		t.Errorf("got %d todos after %d calls", len(todos), calls.Load())
	}
}

func TestLoginSetsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["email"] != "ana@example.com" || body["password"] != "pw" {
				t.Errorf("login body: got %v", body)
			}
			w.Write([]byte(`{"user": {"id": 3, "username": "ana", "email": "ana@example.com",
				"name": "Ana", "created_at": "2024-01-01T00:00:00"}, "access_token": "fresh", "token_type": "bearer"}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id": 3, "username": "ana", "email": "ana@example.com", "name": "Ana", "created_at": "2024-01-01T00:00:00"}`))
		}
	})

	sess, err := c.Login(context.Background(), "ana@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token != "fresh" || sess.User.Username != "ana" {
		t.Errorf("session: got %+v", sess)
	}

	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.ID != 3 {
		t.Errorf("Me: got %+v", me)
	}
}

func TestNoteRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		switch r.Method {
		case http.MethodPost:
			if body["color"] != "yellow" {
				t.Errorf("unknown color should be sent as yellow, got %v", body["color"])
			}
		case http.MethodPut:
			if _, ok := body["content"]; ok {
				t.Errorf("empty content should be omitted on update: %v", body)
			}
		}
		w.Write([]byte(`{"id": 5, "title": "t", "content": null, "category": "Pribadi", "color": "teal",
			"user_id": 1, "created_at": "2024-03-10T08:00:00", "updated_at": "2024-03-10T09:00:00"}`))
	})

	n, err := c.CreateNote(context.Background(), NoteInput{Title: "t", Color: "teal"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if n.Color != model.NoteColorYellow || n.Category != model.CategoryPersonal || n.Content != "" {
		t.Errorf("note: got %+v", n)
	}
	if _, err := c.UpdateNote(context.Background(), 5, NoteInput{Title: "t2"}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
}
