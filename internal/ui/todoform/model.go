package todoform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// Accepted due date layouts. A date without a time is due at the end of
// that day.
const (
	dateLayout     = time.DateOnly
	dateTimeLayout = "2006-01-02 15:04"
)

// TodoCreateMsg is dispatched when the form is submitted in create mode.
type TodoCreateMsg struct {
	Input api.TodoCreate
}

// TodoUpdateMsg is dispatched when the form is submitted in edit mode.
// Only changed fields are set on Input.
type TodoUpdateMsg struct {
	ID    int64
	Input api.TodoUpdate
}

// TodoFormCancelMsg is dispatched when the user cancels the form.
type TodoFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text        string
	description string
	priority    model.Priority
	category    string
	dueDate     string
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	original model.Todo
	loc      *time.Location
	width    int
	height   int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		loc:    time.Local,
		width:  width,
		height: height,
	}
}

// Editing reports whether the form edits an existing todo.
func (m Model) Editing() bool {
	return m.editMode
}

// StartCreate initializes the form for creating a new todo.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.original = model.Todo{}
	*m.fb = formBindings{priority: model.PriorityMedium}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing todo.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editMode = true
	m.original = todo
	*m.fb = formBindings{
		text:        todo.Text,
		description: todo.Description,
		priority:    model.ParsePriority(string(todo.Priority)),
		category:    string(todo.Category),
	}
	if todo.DueDate != nil {
		m.fb.dueDate = FormatDue(*todo.DueDate, m.loc)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.editMode {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	dueTitle := "Due Date"
	if m.editMode && m.original.DueDate != nil {
		dueTitle = "Due Date (cannot be cleared)"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What needs to be done?").
				Value(&m.fb.text).
				Validate(validateRequired("Task")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorityOptions()...).
				Value(&m.fb.priority),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(m.fb.category)...).
				Value(&m.fb.category),
			huh.NewInput().
				Title(dueTitle).
				Placeholder("YYYY-MM-DD or YYYY-MM-DD HH:MM (optional)").
				Value(&m.fb.dueDate).
				Validate(m.validateOptionalDue),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func priorityOptions() []huh.Option[model.Priority] {
	opts := make([]huh.Option[model.Priority], 0, 3)
	for _, p := range model.Priorities() {
		opts = append(opts, huh.NewOption(p.Label(), p))
	}
	return opts
}

// categoryOptions lists the known categories plus current when it is a
// free-text value from the backend.
func categoryOptions(current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	known := false
	for _, c := range model.KnownCategories() {
		opts = append(opts, huh.NewOption(c.Label(), string(c)))
		if string(c) == current {
			known = true
		}
	}
	if current != "" && !known {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func (m Model) handleSubmit() tea.Cmd {
	text := strings.TrimSpace(m.fb.text)
	description := strings.TrimSpace(m.fb.description)
	category := model.Category(m.fb.category)
	priority := m.fb.priority
	due, _ := ParseDue(m.fb.dueDate, m.loc)

	if !m.editMode {
		in := api.TodoCreate{
			Text:        text,
			DueDate:     due,
			Category:    category,
			Priority:    priority,
			Description: description,
		}
		return func() tea.Msg { return TodoCreateMsg{Input: in} }
	}

	orig := m.original
	var in api.TodoUpdate
	if text != orig.Text {
		in.Text = &text
	}
	if description != orig.Description {
		in.Description = &description
	}
	if category != orig.Category {
		in.Category = &category
	}
	if priority != orig.Priority {
		in.Priority = &priority
	}
	if due != nil && (orig.DueDate == nil || !due.Equal(*orig.DueDate)) {
		in.DueDate = due
	}

	id := orig.ID
	return func() tea.Msg { return TodoUpdateMsg{ID: id, Input: in} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func (m Model) validateOptionalDue(s string) error {
	_, err := ParseDue(s, m.loc)
	return err
}

// ParseDue reads a due date typed by the user in loc. An empty string
// means no due date.
func ParseDue(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateTimeLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date, use YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}
	end := t.Add(24*time.Hour - time.Minute)
	return &end, nil
}

// FormatDue renders t for the due date field, omitting the time when it
// is the end-of-day default.
func FormatDue(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	if t.Hour() == 23 && t.Minute() == 59 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
