package engine

import (
	"slices"

	"github.com/nhle/todo-client/internal/model"
)

// State is the client's view of the session: the cached collection plus the
// active view selections. Transitions return a new State and leave the
// receiver, including its backing slice, untouched.
type State struct {
	Todos []model.Todo
	View  ViewParams
}

// NewState returns an empty State using the default view.
func NewState() State {
	return State{Todos: []model.Todo{}, View: DefaultView()}
}

// Load replaces the collection wholesale, ordered newest first.
func (s State) Load(todos []model.Todo) State {
	s.Todos = Sort(todos, SortDate)
	return s
}

// Add prepends a newly created todo. An existing todo with the same ID is
// replaced in place instead so IDs stay unique.
func (s State) Add(t model.Todo) State {
	if s.indexOf(t.ID) >= 0 {
		return s.Replace(t)
	}
	todos := make([]model.Todo, 0, len(s.Todos)+1)
	todos = append(todos, t)
	todos = append(todos, s.Todos...)
	s.Todos = todos
	return s
}

// Replace swaps the todo with t.ID for t. Unknown IDs leave the state as is.
func (s State) Replace(t model.Todo) State {
	i := s.indexOf(t.ID)
	if i < 0 {
		return s
	}
	todos := slices.Clone(s.Todos)
	todos[i] = t
	s.Todos = todos
	return s
}

// Remove drops the todo with the given ID.
func (s State) Remove(id int64) State {
	s.Todos = slices.DeleteFunc(slices.Clone(s.Todos), func(t model.Todo) bool {
		return t.ID == id
	})
	return s
}

// RemoveCompleted drops every completed todo.
func (s State) RemoveCompleted() State {
	s.Todos = slices.DeleteFunc(slices.Clone(s.Todos), func(t model.Todo) bool {
		return t.Completed
	})
	return s
}

// WithView replaces the view selections.
func (s State) WithView(p ViewParams) State {
	s.View = p.Normalize()
	return s
}

// Find returns the todo with the given ID.
func (s State) Find(id int64) (model.Todo, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.Todos[i], true
}

// Visible returns the filtered, sorted todos for the current view.
func (s State) Visible() []model.Todo {
	return Apply(s.Todos, s.View)
}

// Counts returns active/completed counts over the whole collection.
func (s State) Counts() Counts {
	return Count(s.Todos)
}

func (s State) indexOf(id int64) int {
	return slices.IndexFunc(s.Todos, func(t model.Todo) bool { return t.ID == id })
}
