package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
)

// requestTimeout bounds a single user-initiated backend call.
const requestTimeout = 30 * time.Second

// todoResultMsg carries the state after a todo operation.
type todoResultMsg struct {
	state  engine.State
	action string
	err    error
}

// notesLoadedMsg carries the note collection.
type notesLoadedMsg struct {
	notes []model.Note
	err   error
}

// noteResultMsg is sent after a note mutation.
type noteResultMsg struct {
	action string
	err    error
}

func (m Model) handleTodoResult(msg todoResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
	} else if msg.action != "" {
		m.setNotice(msg.action)
	}
	m.syncViews(msg.state.Todos)
	return m, m.taskList.SetState(msg.state)
}

// todoCmd runs fn against the todo service off the UI goroutine.
func (m Model) todoCmd(action string, fn func(context.Context, *service.Todos) (engine.State, error)) tea.Cmd {
	svc := m.todos
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		st, err := fn(ctx, svc)
		if err != nil {
			action = ""
		}
		return todoResultMsg{state: st, action: action, err: err}
	}
}

// loadCached shows whatever the cache holds before the first refresh.
func (m Model) loadCached() tea.Cmd {
	return m.todoCmd("", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.LoadCached(ctx)
	})
}

// loadRemote fetches the collection directly; used when no background
// refresher is running.
func (m Model) loadRemote() tea.Cmd {
	return m.todoCmd("refreshed", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.Load(ctx)
	})
}

func (m Model) createTodo(in api.TodoCreate) tea.Cmd {
	return m.todoCmd("todo added", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.Create(ctx, in)
	})
}

// updateTodo skips the round trip when the form changed nothing.
func (m Model) updateTodo(id int64, in api.TodoUpdate) tea.Cmd {
	if in == (api.TodoUpdate{}) {
		return nil
	}
	return m.todoCmd("todo updated", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.Edit(ctx, id, in)
	})
}

func (m Model) toggleTodo(id int64) tea.Cmd {
	return m.todoCmd("", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.Toggle(ctx, id)
	})
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	return m.todoCmd("todo deleted", func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.Delete(ctx, id)
	})
}

func (m Model) clearCompleted() tea.Cmd {
	n := m.todos.State().Counts().Completed
	return m.todoCmd(fmt.Sprintf("cleared %d completed", n), func(ctx context.Context, s *service.Todos) (engine.State, error) {
		return s.ClearCompleted(ctx)
	})
}

func (m Model) loadNotes() tea.Cmd {
	svc := m.notes
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		notes, err := svc.Load(ctx)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func (m Model) noteCmd(action string, fn func(context.Context, *service.Notes) error) tea.Cmd {
	svc := m.notes
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx, svc); err != nil {
			return noteResultMsg{err: err}
		}
		return noteResultMsg{action: action}
	}
}

func (m Model) createNote(in api.NoteInput) tea.Cmd {
	return m.noteCmd("note added", func(ctx context.Context, s *service.Notes) error {
		_, err := s.Create(ctx, in)
		return err
	})
}

func (m Model) updateNote(id int64, in api.NoteInput) tea.Cmd {
	if in == (api.NoteInput{}) {
		return nil
	}
	return m.noteCmd("note updated", func(ctx context.Context, s *service.Notes) error {
		_, err := s.Update(ctx, id, in)
		return err
	})
}

func (m Model) deleteNote(id int64) tea.Cmd {
	return m.noteCmd("note deleted", func(ctx context.Context, s *service.Notes) error {
		return s.Delete(ctx, id)
	})
}
