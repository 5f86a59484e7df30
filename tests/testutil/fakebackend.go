package testutil

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
)

// FakeBackend is an in-memory stand-in for the backend client. It
// satisfies the service package's backend interfaces.
type FakeBackend struct {
	mu     sync.Mutex
	todos  []model.Todo
	notes  []model.Note
	nextID int64
	now    time.Time

	Token string
	Users map[string]model.User // email -> user
	// Passwords is consulted by ChangePassword only; Login accepts any
	// password for a known email.
	Passwords map[string]string
	Calls     int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ClearErr  error
	NotesErr  error
	MeErr     error
}

// NewFakeBackend creates a fake seeded with todos. New records are
// stamped with now.
func NewFakeBackend(now time.Time, todos []model.Todo) *FakeBackend {
	f := &FakeBackend{
		todos:  slices.Clone(todos),
		nextID: 100,
		now:    now,
		Users:  map[string]model.User{},

		Passwords: map[string]string{},
	}
	return f
}

// Todos returns a copy of the fake's todos.
func (f *FakeBackend) Todos() []model.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.todos)
}

func notFound(path string) error {
	return &api.APIError{StatusCode: http.StatusNotFound, Path: path, Detail: "not found"}
}

func (f *FakeBackend) ListTodos(ctx context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.todos), nil
}

func (f *FakeBackend) CreateTodo(ctx context.Context, in api.TodoCreate) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.CreateErr != nil {
		return model.Todo{}, f.CreateErr
	}
	f.nextID++
	t := model.Todo{
		ID:          f.nextID,
		Text:        in.Text,
		CreatedAt:   f.now,
		DueDate:     in.DueDate,
		Category:    in.Category,
		Priority:    model.ParsePriority(string(in.Priority)),
		Description: in.Description,
	}
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *FakeBackend) UpdateTodo(ctx context.Context, id int64, in api.TodoUpdate) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.UpdateErr != nil {
		return model.Todo{}, f.UpdateErr
	}
	i := slices.IndexFunc(f.todos, func(t model.Todo) bool { return t.ID == id })
	if i < 0 {
		return model.Todo{}, notFound(fmt.Sprintf("/api/todos/%d", id))
	}
	t := f.todos[i]
	if in.Text != nil {
		t.Text = *in.Text
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	if in.Priority != nil {
		t.Priority = model.ParsePriority(string(*in.Priority))
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	f.todos[i] = t
	return t, nil
}

func (f *FakeBackend) DeleteTodo(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	n := len(f.todos)
	f.todos = slices.DeleteFunc(f.todos, func(t model.Todo) bool { return t.ID == id })
	if len(f.todos) == n {
		return notFound(fmt.Sprintf("/api/todos/%d", id))
	}
	return nil
}

func (f *FakeBackend) ClearCompleted(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.todos = slices.DeleteFunc(f.todos, func(t model.Todo) bool { return t.Completed })
	return nil
}

func (f *FakeBackend) ListNotes(ctx context.Context) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.NotesErr != nil {
		return nil, f.NotesErr
	}
	return slices.Clone(f.notes), nil
}

func (f *FakeBackend) CreateNote(ctx context.Context, in api.NoteInput) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.NotesErr != nil {
		return model.Note{}, f.NotesErr
	}
	f.nextID++
	n := model.Note{
		ID:        f.nextID,
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Color:     model.NormalizeNoteColor(in.Color),
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *FakeBackend) UpdateNote(ctx context.Context, id int64, in api.NoteInput) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.NotesErr != nil {
		return model.Note{}, f.NotesErr
	}
	i := slices.IndexFunc(f.notes, func(n model.Note) bool { return n.ID == id })
	if i < 0 {
		return model.Note{}, notFound(fmt.Sprintf("/api/notes/%d", id))
	}
	n := f.notes[i]
	if in.Title != "" {
		n.Title = in.Title
	}
	if in.Content != "" {
		n.Content = in.Content
	}
	if in.Category != "" {
		n.Category = in.Category
	}
	if in.Color != "" {
		n.Color = model.NormalizeNoteColor(in.Color)
	}
	n.UpdatedAt = f.now
	f.notes[i] = n
	return n, nil
}

func (f *FakeBackend) DeleteNote(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.NotesErr != nil {
		return f.NotesErr
	}
	n := len(f.notes)
	f.notes = slices.DeleteFunc(f.notes, func(x model.Note) bool { return x.ID == id })
	if len(f.notes) == n {
		return notFound(fmt.Sprintf("/api/notes/%d", id))
	}
	return nil
}

// Login accepts any password for a registered email.
func (f *FakeBackend) Login(ctx context.Context, email, password string) (*api.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	u, ok := f.Users[email]
	if !ok {
		return nil, &api.AuthError{Detail: "Incorrect email or password"}
	}
	f.Token = "token-" + u.Username
	return &api.Session{User: u, Token: f.Token}, nil
}

func (f *FakeBackend) Register(ctx context.Context, reg api.Registration) (*api.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if _, ok := f.Users[reg.Email]; ok {
		return nil, &api.APIError{StatusCode: http.StatusBadRequest, Detail: "Email already registered"}
	}
	f.nextID++
	u := model.User{ID: f.nextID, Username: reg.Username, Email: reg.Email, Name: reg.Name, CreatedAt: f.now}
	f.Users[reg.Email] = u
	f.Passwords[reg.Email] = reg.Password
	f.Token = "token-" + u.Username
	return &api.Session{User: u, Token: f.Token}, nil
}

// Me resolves the current token back to its user.
func (f *FakeBackend) Me(ctx context.Context) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	for _, u := range f.Users {
		if f.Token == "token-"+u.Username {
			return &u, nil
		}
	}
	return nil, &api.AuthError{Detail: "Could not validate credentials"}
}

// UpdateProfile renames the user behind the current token.
func (f *FakeBackend) UpdateProfile(ctx context.Context, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	for email, u := range f.Users {
		if f.Token == "token-"+u.Username {
			u.Name = name
			f.Users[email] = u
			return &u, nil
		}
	}
	return nil, &api.AuthError{Detail: "Could not validate credentials"}
}

// ChangePassword checks oldPassword against the registered password.
func (f *FakeBackend) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	for email, u := range f.Users {
		if f.Token != "token-"+u.Username {
			continue
		}
		if want, ok := f.Passwords[email]; ok && want != oldPassword {
			return &api.APIError{StatusCode: http.StatusBadRequest, Detail: "Incorrect password"}
		}
		f.Passwords[email] = newPassword
		return nil
	}
	return &api.AuthError{Detail: "Could not validate credentials"}
}

func (f *FakeBackend) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}
