package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Todo actions
	New            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding

	// View selections
	CycleStatus   key.Binding
	CycleSort     key.Binding
	CyclePriority key.Binding
	CycleCategory key.Binding
	ResetView     key.Binding

	// Screens
	Stats    key.Binding
	Notes    key.Binding
	Calendar key.Binding

	// Calendar navigation
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear completed"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "cycle category"),
		),
		ResetView: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset filters"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "statistics"),
		),
		Notes: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notes"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "calendar"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("h", "left", "["),
			key.WithHelp("h/←", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("l", "right", "]"),
			key.WithHelp("l/→", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.New, k.Toggle, k.Edit, k.Delete,
		k.CycleStatus, k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Quit},
		{k.New, k.Edit, k.Toggle, k.Delete, k.ClearCompleted},
		{k.CycleStatus, k.CycleSort, k.CyclePriority, k.CycleCategory, k.ResetView, k.Search},
		{k.Stats, k.Notes, k.Calendar, k.Refresh, k.Command, k.Help},
		{k.PrevMonth, k.NextMonth, k.Today},
	}
}
