package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
type TodoItem struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Text }

// Title returns the todo text for the list.
func (i TodoItem) Title() string { return i.Todo.Text }

// Description returns a short summary line for the list.
func (i TodoItem) Description() string {
	parts := []string{
		i.Todo.Priority.Label(),
		i.Todo.CategoryOrOther().Label(),
		relativeTime(i.Todo.CreatedAt, time.Now()),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering todo lines.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	line := renderLine(ti.Todo, now)
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// renderLine draws the checkbox, priority, text, category and due date.
func renderLine(t model.Todo, now time.Time) string {
	prefix := "○"
	if t.Completed {
		prefix = "✓"
	}

	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	catBadge := ""
	if t.Category != "" {
		catBadge = " " + theme.CategoryStyle(t.Category).Render(t.Category.Label())
	}

	dueStr := ""
	if t.DueDate != nil {
		dueStr = theme.DueDateStyle.Render(" " + dueLabel(*t.DueDate, now))
	}

	overdueStr := ""
	if t.IsOverdue(now) {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	age := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + relativeTime(t.CreatedAt, now))

	text := t.Text
	if t.Completed {
		text = theme.DimmedStyle.Render(text)
	}

	return fmt.Sprintf("%s %s %s%s%s%s%s", prefix, priBadge, text, catBadge, dueStr, overdueStr, age)
}

// dueLabel formats a due date relative to now's day.
func dueLabel(due, now time.Time) string {
	switch {
	case engine.IsToday(due, now):
		return "today " + due.In(now.Location()).Format("15:04")
	case engine.IsToday(due, now.AddDate(0, 0, 1)):
		return "tomorrow"
	case due.Year() == now.Year():
		return due.In(now.Location()).Format("Jan 02")
	default:
		return due.In(now.Location()).Format("Jan 02 2006")
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "H"
	case model.PriorityLow:
		return "L"
	default:
		return "M"
	}
}
