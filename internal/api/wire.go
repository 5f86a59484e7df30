package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// naiveLayouts are the timestamp forms the backend emits without an offset.
// Such values are UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Time is a backend timestamp. It accepts RFC 3339 as well as naive ISO
// strings, and marshals as RFC 3339 in UTC.
type Time struct {
	time.Time
}

// ParseTime parses a backend timestamp.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func timePtr(t *Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func apiTimePtr(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	return &Time{Time: *t}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}

// apiTodo is the backend's todo representation.
type apiTodo struct {
	ID          int64   `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CreatedAt   Time    `json:"created_at"`
	DueDate     *Time   `json:"due_date"`
	Category    *string `json:"category"`
	Priority    string  `json:"priority"`
	Description *string `json:"description"`
}

func (a apiTodo) toModel() model.Todo {
	return model.Todo{
		ID:          a.ID,
		Text:        a.Text,
		Completed:   a.Completed,
		CreatedAt:   a.CreatedAt.Time,
		DueDate:     timePtr(a.DueDate),
		Category:    model.Category(deref(a.Category)),
		Priority:    model.ParsePriority(a.Priority),
		Description: deref(a.Description),
	}
}

// TodoCreate is the payload for creating a todo.
type TodoCreate struct {
	Text        string
	DueDate     *time.Time
	Category    model.Category
	Priority    model.Priority
	Description string
}

func (c TodoCreate) wire() any {
	body := struct {
		Text        string  `json:"text"`
		Completed   bool    `json:"completed"`
		DueDate     *Time   `json:"due_date"`
		Category    *string `json:"category"`
		Priority    string  `json:"priority"`
		Description *string `json:"description"`
	}{
		Text:     c.Text,
		DueDate:  apiTimePtr(c.DueDate),
		Priority: string(model.ParsePriority(string(c.Priority))),
	}
	if c.Category != "" {
		body.Category = strPtr(string(c.Category))
	}
	if c.Description != "" {
		body.Description = strPtr(c.Description)
	}
	return body
}

// TodoUpdate is a partial update. Nil fields are left unchanged by the
// backend, so a due date cannot be cleared through it.
type TodoUpdate struct {
	Text        *string
	Completed   *bool
	DueDate     *time.Time
	Category    *model.Category
	Priority    *model.Priority
	Description *string
}

func (u TodoUpdate) wire() any {
	body := struct {
		Text        *string `json:"text,omitempty"`
		Completed   *bool   `json:"completed,omitempty"`
		DueDate     *Time   `json:"due_date,omitempty"`
		Category    *string `json:"category,omitempty"`
		Priority    *string `json:"priority,omitempty"`
		Description *string `json:"description,omitempty"`
	}{
		Text:        u.Text,
		Completed:   u.Completed,
		DueDate:     apiTimePtr(u.DueDate),
		Description: u.Description,
	}
	if u.Category != nil {
		body.Category = strPtr(string(*u.Category))
	}
	if u.Priority != nil {
		body.Priority = strPtr(string(model.ParsePriority(string(*u.Priority))))
	}
	return body
}

// apiNote is the backend's note representation.
type apiNote struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Color     string  `json:"color"`
	CreatedAt Time    `json:"created_at"`
	UpdatedAt Time    `json:"updated_at"`
}

func (a apiNote) toModel() model.Note {
	return model.Note{
		ID:        a.ID,
		Title:     a.Title,
		Content:   deref(a.Content),
		Category:  model.Category(deref(a.Category)),
		Color:     model.NormalizeNoteColor(a.Color),
		CreatedAt: a.CreatedAt.Time,
		UpdatedAt: a.UpdatedAt.Time,
	}
}

// NoteInput carries the editable fields of a note. On update, empty
// fields are left unchanged.
type NoteInput struct {
	Title    string
	Content  string
	Category model.Category
	Color    string
}

func (n NoteInput) createBody() any {
	body := struct {
		Title    string  `json:"title"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
		Color    string  `json:"color"`
	}{
		Title: n.Title,
		Color: model.NormalizeNoteColor(n.Color),
	}
	if n.Content != "" {
		body.Content = strPtr(n.Content)
	}
	if n.Category != "" {
		body.Category = strPtr(string(n.Category))
	}
	return body
}

func (n NoteInput) updateBody() any {
	body := struct {
		Title    *string `json:"title,omitempty"`
		Content  *string `json:"content,omitempty"`
		Category *string `json:"category,omitempty"`
		Color    *string `json:"color,omitempty"`
	}{}
	if n.Title != "" {
		body.Title = strPtr(n.Title)
	}
	if n.Content != "" {
		body.Content = strPtr(n.Content)
	}
	if n.Category != "" {
		body.Category = strPtr(string(n.Category))
	}
	if n.Color != "" {
		body.Color = strPtr(model.NormalizeNoteColor(n.Color))
	}
	return body
}

type apiUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt Time   `json:"created_at"`
}

func (a apiUser) toModel() model.User {
	return model.User{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Time,
	}
}
