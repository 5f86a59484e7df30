package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		titleStyle.Render("Legend"),
		legend(),
		"",
		titleStyle.Render("Commands"),
		theme.HelpStyle.Render(strings.Join(command.Usage(), "\n")),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func legend() string {
	lines := []string{
		"○ open   ✓ done   " + theme.OverdueStyle.Render("OVERDUE") + " past due and open",
		theme.PriorityStyle("high").Render("H") + " high   " +
			theme.PriorityStyle("medium").Render("M") + " medium   " +
			theme.PriorityStyle("low").Render("L") + " low",
		"Search matches the todo text, case-insensitively.",
		"Deadline sort puts undated todos last.",
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
