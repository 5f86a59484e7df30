package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name string
	Arg  string
}

// ErrorMsg is emitted when the typed command is not recognised.
type ErrorMsg struct {
	Err error
}

// entry describes one palette command.
type entry struct {
	name    string
	arg     string
	summary string
}

var commands = []entry{
	{"new", "", "create a todo"},
	{"status", "all|active|completed", "filter by completion"},
	{"sort", "date|priority|deadline", "change the order"},
	{"priority", "all|high|medium|low", "filter by priority"},
	{"category", "all|<name>", "filter by category"},
	{"search", "<text>", "filter by text"},
	{"reset", "", "clear all filters"},
	{"clear", "", "delete completed todos"},
	{"refresh", "", "reload from the server"},
	{"stats", "", "show statistics"},
	{"calendar", "", "show due dates by month"},
	{"notes", "", "show notes"},
	{"todos", "", "show the todo list"},
	{"theme", "default|mono", "switch colors"},
	{"settings", "", "view and edit settings"},
	{"logout", "", "forget the session and quit"},
	{"quit", "", "exit"},
}

// Usage returns one line per command for the help view.
func Usage() []string {
	lines := make([]string, 0, len(commands))
	for _, c := range commands {
		head := c.name
		if c.arg != "" {
			head += " " + c.arg
		}
		lines = append(lines, fmt.Sprintf("%-32s %s", head, c.summary))
	}
	return lines
}

// Parse splits input into a command name and its argument. Names may be
// abbreviated to any unique prefix.
func Parse(input string) (CommandMsg, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	name, arg, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	var matches []string
	for _, c := range commands {
		if c.name == name {
			return CommandMsg{Name: c.name, Arg: arg}, nil
		}
		if strings.HasPrefix(c.name, name) {
			matches = append(matches, c.name)
		}
	}

	switch len(matches) {
	case 0:
		return CommandMsg{}, fmt.Errorf("unknown command %q", name)
	case 1:
		return CommandMsg{Name: matches[0], Arg: arg}, nil
	default:
		return CommandMsg{}, fmt.Errorf("ambiguous command %q: %s", name, strings.Join(matches, ", "))
	}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		input := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(input) == "" {
			return m, nil
		}
		cmd, err := Parse(input)
		if err != nil {
			return m, func() tea.Msg { return ErrorMsg{Err: err} }
		}
		return m, func() tea.Msg { return cmd }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		theme.HelpStyle.Render(m.suggestion()),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// suggestion shows the usage of the command being typed.
func (m Model) suggestion() string {
	name, _, _ := strings.Cut(strings.TrimSpace(m.input.Value()), " ")
	if name == "" {
		return "try: sort priority, status active, search milk"
	}
	for _, c := range commands {
		if strings.HasPrefix(c.name, strings.ToLower(name)) {
			return strings.TrimSpace(c.name + " " + c.arg + "  " + c.summary)
		}
	}
	return "no such command"
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
