package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorPink    = lipgloss.AdaptiveColor{Dark: "#F783AC", Light: "#B83280"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Theme names accepted by display.theme.
const (
	NameDefault = "default"
	NameMono    = "mono"
)

var (
	// HeaderStyle is used for top-level section headers and the application title.
	HeaderStyle lipgloss.Style
	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style
	// PanelStyle wraps boxed content such as the stats cards.
	PanelStyle lipgloss.Style
	// ListItemStyle is the base style for items in a list.
	ListItemStyle lipgloss.Style
	// SelectedItemStyle highlights the currently focused list item.
	SelectedItemStyle lipgloss.Style
	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style
	// BorderStyle provides a standard rounded border for panels.
	BorderStyle lipgloss.Style
	// DimmedStyle renders completed todos and secondary text.
	DimmedStyle lipgloss.Style
	// OverdueStyle flags past-due todos.
	OverdueStyle lipgloss.Style
	// DueDateStyle renders upcoming due dates.
	DueDateStyle lipgloss.Style
	// ErrorStyle renders error lines in the status bar and forms.
	ErrorStyle lipgloss.Style
	// BarStyle fills histogram bars.
	BarStyle lipgloss.Style

	mono bool
)

func init() {
	build()
}

// Apply switches to the named theme. Unknown names select the default.
func Apply(name string) {
	mono = name == NameMono
	build()
}

func color(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if mono {
		return lipgloss.NoColor{}
	}
	return c
}

func build() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(color(ColorWhite)).
		Background(color(ColorBlue)).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(color(ColorWhite)).
		Background(color(ColorSubtle)).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(ColorBorder))

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(color(ColorBlue)).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color(ColorBlue))

	HelpStyle = lipgloss.NewStyle().
		Foreground(color(ColorGray)).
		Italic(true)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(ColorBorder))

	DimmedStyle = lipgloss.NewStyle().
		Foreground(color(ColorGray)).
		Strikethrough(true)

	OverdueStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(color(ColorRed))

	DueDateStyle = lipgloss.NewStyle().
		Foreground(color(ColorYellow))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(color(ColorRed))

	BarStyle = lipgloss.NewStyle().
		Foreground(color(ColorGreen))
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(color(ColorRed))
	case model.PriorityMedium:
		return base.Foreground(color(ColorYellow))
	case model.PriorityLow:
		return base.Foreground(color(ColorBlue))
	default:
		return base.Foreground(color(ColorGray))
	}
}

// CategoryStyle returns a color-coded badge style for the given category.
func CategoryStyle(c model.Category) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)

	switch c {
	case model.CategorySchool:
		return base.Foreground(color(ColorMagenta))
	case model.CategoryWork:
		return base.Foreground(color(ColorBlue))
	case model.CategoryPersonal:
		return base.Foreground(color(ColorGreen))
	default:
		return base.Foreground(color(ColorGray))
	}
}

// NoteColor maps a note color name to a terminal color.
func NoteColor(c string) lipgloss.TerminalColor {
	switch c {
	case model.NoteColorBlue:
		return color(ColorBlue)
	case model.NoteColorGreen:
		return color(ColorGreen)
	case model.NoteColorPurple:
		return color(ColorMagenta)
	case model.NoteColorPink:
		return color(ColorPink)
	default:
		return color(ColorYellow)
	}
}

// NoteStyle returns the card style for a note color.
func NoteStyle(c string) lipgloss.Style {
	return PanelStyle.BorderForeground(NoteColor(c))
}
