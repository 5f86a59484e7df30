package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// recentCount is how many todos the dashboard lists.
const recentCount = 5

// barWidth is the widest histogram bar in cells.
const barWidth = 24

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the statistics dashboard. It always reflects the full
// collection, not the filtered list.
type Model struct {
	todos    []model.Todo
	stats    engine.Statistics
	now      time.Time
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new statistics view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetTodos recomputes the dashboard for todos as of now.
func (m *Model) SetTodos(todos []model.Todo, now time.Time) {
	m.todos = todos
	m.now = now
	m.stats = engine.Aggregate(todos, now)
	m.viewport.SetContent(m.renderContent())
}

// Stats returns the statistics currently shown.
func (m Model) Stats() engine.Statistics {
	return m.stats
}

// Update handles messages for the statistics view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back, m.keys.Stats) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the statistics view.
func (m Model) View() string {
	if m.stats.Total == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No todos yet, so nothing to measure.")
	}
	return m.viewport.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	st := m.stats
	if st.Total == 0 {
		return ""
	}

	headStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))

	var sections []string

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", fmt.Sprint(st.Total)),
		card("Done", fmt.Sprint(st.Completed)),
		card("In progress", fmt.Sprint(st.InProgress)),
		card("Overdue", overdueValue(st.Overdue)),
		card("Completion", fmt.Sprintf("%d%%", st.CompletionRate)),
		card("Per day", fmt.Sprintf("%.1f", st.AveragePerDay)),
		card("Streak", streakValue(st.Streak)),
	)
	sections = append(sections, cards, "")

	sections = append(sections, headStyle.Render("Last 7 days"), "")
	sections = append(sections, renderWeek(st)...)

	sections = append(sections, "", separator, "", headStyle.Render("Categories"), "")
	for _, c := range st.Categories {
		pct := c.Count * 100 / st.Total
		sections = append(sections, fmt.Sprintf("%s %3d  %s",
			theme.CategoryStyle(c.Category).Width(12).Render(c.Category.Label()),
			c.Count,
			theme.HelpStyle.Render(fmt.Sprintf("%d%%", pct)),
		))
	}

	sections = append(sections, "", separator, "", headStyle.Render("Recent"), "")
	for _, t := range engine.Recent(m.todos, recentCount) {
		sections = append(sections, m.renderRecent(t))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func card(label, value string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(value),
		theme.HelpStyle.Render(label),
	)
	return theme.PanelStyle.Width(13).Render(body)
}

func overdueValue(n int) string {
	if n == 0 {
		return "0"
	}
	return theme.OverdueStyle.Render(fmt.Sprint(n))
}

func streakValue(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// renderWeek draws one bar per day scaled to the busiest day.
func renderWeek(st engine.Statistics) []string {
	peak := st.MaxWeekCompleted()
	lines := make([]string, 0, len(st.Week))
	for _, d := range st.Week {
		n := d.Completed * barWidth / peak
		if d.Completed > 0 && n == 0 {
			n = 1
		}
		bar := theme.BarStyle.Render(strings.Repeat("█", n)) +
			lipgloss.NewStyle().Foreground(theme.ColorSubtle).Render(strings.Repeat("·", barWidth-n))
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			d.Date.Format("Mon 01-02"),
			bar,
			theme.HelpStyle.Render(fmt.Sprintf("%d done / %d added", d.Completed, d.Created)),
		))
	}
	return lines
}

func (m Model) renderRecent(t model.Todo) string {
	mark := "○"
	text := t.Text
	if t.Completed {
		mark = "✓"
		text = theme.DimmedStyle.Render(text)
	}
	line := fmt.Sprintf("%s %s %s", mark,
		theme.PriorityStyle(t.Priority).Render(t.Priority.Label()),
		text,
	)
	if t.IsOverdue(m.now) {
		line += "  " + theme.OverdueStyle.Render("OVERDUE")
	}
	return line
}
