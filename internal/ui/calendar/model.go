package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// upcomingCount is how many todos the side list shows.
const upcomingCount = 8

// cellWidth fits a two-digit day and a due count.
const cellWidth = 6

// sideBySideMinWidth is the narrowest content width that puts the
// upcoming list next to the grid instead of below it.
const sideBySideMinWidth = 90

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model shows a month of due dates and the next open todos.
type Model struct {
	todos  []model.Todo
	now    time.Time
	month  time.Time // first day of the shown month, in now's location
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a calendar view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetTodos replaces the collection. The first call also selects now's
// month.
func (m *Model) SetTodos(todos []model.Todo, now time.Time) {
	m.todos = todos
	m.now = now
	if m.month.IsZero() {
		m.month = firstOfMonth(now)
	}
}

// Month returns the first day of the month on screen.
func (m Model) Month() time.Time { return m.month }

// Update handles month navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back, m.keys.Calendar):
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.month = m.month.AddDate(0, -1, 0)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.month = m.month.AddDate(0, 1, 0)
	case key.Matches(keyMsg, m.keys.Today):
		m.month = firstOfMonth(m.now)
	}
	return m, nil
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the month grid and the upcoming list.
func (m Model) View() string {
	if m.month.IsZero() {
		return ""
	}

	grid := m.renderMonth()
	side := m.renderUpcoming()

	var body string
	if m.width >= sideBySideMinWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", side)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, "", side)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m Model) renderMonth() string {
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	dayStyle := lipgloss.NewStyle().Width(cellWidth)
	todayStyle := dayStyle.Bold(true).Underline(true)

	lines := []string{headStyle.Render(m.month.Format("January 2006")), ""}

	var head strings.Builder
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		head.WriteString(theme.HelpStyle.Width(cellWidth).Render(d))
	}
	lines = append(lines, head.String())

	due := 0
	for _, week := range engine.MonthGrid(m.month.Year(), m.month.Month()) {
		var row strings.Builder
		for _, d := range week {
			if d == 0 {
				row.WriteString(dayStyle.Render(""))
				continue
			}
			day := time.Date(m.month.Year(), m.month.Month(), d, 12, 0, 0, 0, m.month.Location())
			todos := engine.DueOn(m.todos, day)
			due += len(todos)

			style := dayStyle
			if engine.IsToday(day, m.now) {
				style = todayStyle
			}
			row.WriteString(style.Render(fmt.Sprintf("%2d", d) + dueMarker(todos, m.now)))
		}
		lines = append(lines, row.String())
	}

	lines = append(lines, "", theme.HelpStyle.Render(fmt.Sprintf("%d due this month", due)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// dueMarker is the count of todos due that day, flagged when any is
// overdue.
func dueMarker(todos []model.Todo, now time.Time) string {
	if len(todos) == 0 {
		return ""
	}
	label := fmt.Sprintf("·%d", len(todos))
	if engine.OverdueCount(todos, now) > 0 {
		return theme.OverdueStyle.Render(label)
	}
	return theme.DueDateStyle.Render(label)
}

func (m Model) renderUpcoming() string {
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	lines := []string{headStyle.Render("Upcoming"), ""}

	upcoming := engine.Upcoming(m.todos, m.now, upcomingCount)
	if len(upcoming) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("Nothing due."))
	}
	for _, t := range upcoming {
		lines = append(lines, fmt.Sprintf("%s  %s %s",
			theme.DueDateStyle.Render(t.DueDate.In(m.now.Location()).Format("Mon 01-02 15:04")),
			theme.PriorityStyle(t.Priority).Render(t.Priority.Label()),
			t.Text,
		))
	}

	if n := engine.OverdueCount(m.todos, m.now); n > 0 {
		lines = append(lines, "", theme.OverdueStyle.Render(fmt.Sprintf("%d overdue", n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
