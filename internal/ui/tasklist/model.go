package tasklist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// ViewChangedMsg is sent when the user changes a filter, the search or
// the sort order.
type ViewChangedMsg struct {
	View engine.ViewParams
}

// NewTodoMsg asks for the create form.
type NewTodoMsg struct{}

// EditTodoMsg asks for the edit form for Todo.
type EditTodoMsg struct {
	Todo model.Todo
}

// ToggleTodoMsg asks to flip the completed flag of ID.
type ToggleTodoMsg struct {
	ID int64
}

// DeleteTodoMsg asks to delete ID.
type DeleteTodoMsg struct {
	ID int64
}

// ClearCompletedMsg asks to delete every completed todo.
type ClearCompletedMsg struct{}

// Model is the main todo list view component. It renders an engine.State
// and turns key presses into intent messages; it never talks to the
// backend itself.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	state       engine.State
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new todo list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{now: time.Now}, width, height-2)
	l.Title = "Todos"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search todos..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		state:       engine.NewState(),
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// State returns the state currently rendered.
func (m Model) State() engine.State {
	return m.state
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetState replaces the rendered state, keeping the cursor on the same
// todo when it is still visible.
func (m *Model) SetState(st engine.State) tea.Cmd {
	var selected int64
	if it, ok := m.list.SelectedItem().(TodoItem); ok {
		selected = it.Todo.ID
	}

	m.state = st
	visible := st.Visible()
	items := make([]list.Item, len(visible))
	cursor := 0
	for i, t := range visible {
		items[i] = TodoItem{Todo: t}
		if t.ID == selected {
			cursor = i
		}
	}
	m.list.Title = m.title()
	cmd := m.list.SetItems(items)
	m.list.Select(cursor)
	return cmd
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.Todo, true
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The view
// updates as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		return m, m.changeView(func(p *engine.ViewParams) { p.Search = "" })
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	query := m.searchInput.Value()
	return m, tea.Batch(cmd, m.changeView(func(p *engine.ViewParams) { p.Search = query }))
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.state.View.Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.New):
		return m, emit(NewTodoMsg{})

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.Selected(); ok {
			return m, emit(EditTodoMsg{Todo: t})
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.Selected(); ok {
			return m, emit(ToggleTodoMsg{ID: t.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.Selected(); ok {
			return m, emit(DeleteTodoMsg{ID: t.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearCompleted):
		if m.state.Counts().Completed == 0 {
			return m, nil
		}
		return m, emit(ClearCompletedMsg{})

	case key.Matches(msg, m.keys.CycleStatus):
		return m, m.changeView(func(p *engine.ViewParams) { p.Status = p.Status.Next() })

	case key.Matches(msg, m.keys.CycleSort):
		return m, m.changeView(func(p *engine.ViewParams) { p.Sort = p.Sort.Next() })

	case key.Matches(msg, m.keys.CyclePriority):
		return m, m.changeView(func(p *engine.ViewParams) { p.Priority = NextPriority(p.Priority) })

	case key.Matches(msg, m.keys.CycleCategory):
		return m, m.changeView(func(p *engine.ViewParams) { p.Category = NextCategory(p.Category) })

	case key.Matches(msg, m.keys.ResetView):
		return m, m.changeView(func(p *engine.ViewParams) {
			sort := p.Sort
			*p = engine.DefaultView()
			p.Sort = sort
		})
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) changeView(fn func(*engine.ViewParams)) tea.Cmd {
	p := m.state.View
	fn(&p)
	return emit(ViewChangedMsg{View: p.Normalize()})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// NextPriority cycles the priority filter all -> high -> medium -> low -> all.
func NextPriority(cur string) string {
	order := []string{engine.FilterAll}
	for _, p := range model.Priorities() {
		order = append(order, string(p))
	}
	return next(order, cur)
}

// NextCategory cycles the category filter through all and the known
// categories.
func NextCategory(cur string) string {
	order := []string{engine.FilterAll}
	for _, c := range model.KnownCategories() {
		order = append(order, string(c))
	}
	return next(order, cur)
}

func next(order []string, cur string) string {
	for i, v := range order {
		if v == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func (m Model) title() string {
	c := m.state.Counts()
	return fmt.Sprintf("Todos · %d active · %d done", c.Active, c.Completed)
}

// Summary describes the active view selections for the status bar.
func (m Model) Summary() string {
	p := m.state.View.Normalize()
	s := fmt.Sprintf("status:%s sort:%s", p.Status, p.Sort)
	if p.Priority != engine.FilterAll {
		s += " priority:" + p.Priority
	}
	if p.Category != engine.FilterAll {
		s += " category:" + model.Category(p.Category).Label()
	}
	if p.Search != "" {
		s += fmt.Sprintf(" search:%q", p.Search)
	}
	return s
}

// View renders the todo list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no todos are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if !m.state.View.IsDefault() && len(m.state.Todos) > 0 {
		return style.Render("No matching todos.\nPress 0 to reset filters.")
	}

	return style.Render("Nothing to do yet.\n\nPress n to add a todo.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
