package notes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/ui/tasklist"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// NoteCreateMsg asks the parent to create a note.
type NoteCreateMsg struct {
	Input api.NoteInput
}

// NoteUpdateMsg asks the parent to update note ID. Empty fields on Input
// are left unchanged.
type NoteUpdateMsg struct {
	ID    int64
	Input api.NoteInput
}

// NoteDeleteMsg asks the parent to delete note ID.
type NoteDeleteMsg struct {
	ID int64
}

// cardMinWidth is the narrowest terminal that shows the note card.
const cardMinWidth = 90

// Model lists notes with a search box and a category filter, and hosts
// the create/edit form.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	all         []model.Note
	query       string
	category    string
	searchMode  bool
	searchInput textinput.Model

	form    *huh.Form
	fb      *formBindings
	editing *model.Note

	width  int
	height int
}

// New creates a new notes view model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Notes"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("note", "notes")
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search notes..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		keys:        k,
		category:    engine.FilterAll,
		searchInput: si,
		fb:          &formBindings{},
	}
	m.SetSize(width, height)
	return m
}

// SetNotes replaces the full note collection and reapplies the filters.
func (m *Model) SetNotes(notes []model.Note) tea.Cmd {
	m.all = notes
	return m.refilter()
}

// Visible returns the notes currently listed.
func (m Model) Visible() []model.Note {
	return engine.FilterNotes(m.all, m.query, m.category)
}

// Editing reports whether the form is open.
func (m Model) Editing() bool {
	return m.form != nil
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Selected returns the note under the cursor.
func (m Model) Selected() (model.Note, bool) {
	it, ok := m.list.SelectedItem().(NoteItem)
	if !ok {
		return model.Note{}, false
	}
	return it.Note, true
}

// CloseForm discards the open form, if any.
func (m *Model) CloseForm() {
	m.form = nil
	m.editing = nil
}

func (m *Model) refilter() tea.Cmd {
	visible := m.Visible()
	items := make([]list.Item, len(visible))
	for i, n := range visible {
		items[i] = NoteItem{Note: n}
	}
	m.list.Title = m.title()
	return m.list.SetItems(items)
}

// Update handles messages for the notes view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

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

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.CloseForm()
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.submit()
		m.CloseForm()
		return m, submit
	case huh.StateAborted:
		m.CloseForm()
		return m, nil
	}
	return m, cmd
}

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
		m.query = ""
		return m, m.refilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	return m, tea.Batch(cmd, m.refilter())
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back, m.keys.Notes):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleCategory):
		m.category = tasklist.NextCategory(m.category)
		return m, m.refilter()

	case key.Matches(msg, m.keys.ResetView):
		m.category = engine.FilterAll
		m.query = ""
		m.searchInput.Reset()
		return m, m.refilter()

	case key.Matches(msg, m.keys.New):
		return m, m.startForm(nil)

	case key.Matches(msg, m.keys.Edit):
		if n, ok := m.Selected(); ok {
			return m, m.startForm(&n)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.Selected(); ok {
			return m, func() tea.Msg { return NoteDeleteMsg{ID: n.ID} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// startForm opens the form for a new note when n is nil and for editing n
// otherwise.
func (m *Model) startForm(n *model.Note) tea.Cmd {
	m.editing = n
	if n == nil {
		*m.fb = formBindings{color: model.NoteColorYellow}
	} else {
		*m.fb = formBindings{
			title:    n.Title,
			content:  n.Content,
			category: string(n.Category),
			color:    model.NormalizeNoteColor(n.Color),
		}
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m Model) title() string {
	visible := len(m.Visible())
	t := fmt.Sprintf("Notes · %d", visible)
	if visible != len(m.all) {
		t += fmt.Sprintf(" of %d", len(m.all))
	}
	if m.category != engine.FilterAll {
		t += " · " + model.Category(m.category).Label()
	}
	return t
}

// View renders the notes view.
func (m Model) View() string {
	if m.form != nil {
		heading := "New Note"
		if m.editing != nil {
			heading = "Edit Note"
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
		return lipgloss.NewStyle().Padding(1, 2).Render(titleStyle.Render(heading) + "\n" + m.form.View())
	}

	if m.searchMode {
		searchBar := lipgloss.NewStyle().Padding(0, 1).Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		msg := "No notes yet.\n\nPress n to write one."
		if len(m.all) > 0 {
			msg = "No matching notes.\nPress 0 to reset filters."
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(msg)
	}
	if !m.showCard() {
		return m.list.View()
	}
	n, _ := m.Selected()
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCard(n),
		"",
		theme.HelpStyle.Render(m.categorySummary()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), side)
}

// categorySummary counts every note per category, ignoring filters.
func (m Model) categorySummary() string {
	counts := engine.NoteCategoryCounts(m.all)
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Category.Label(), c.Count))
	}
	return strings.Join(parts, " · ")
}

// showCard reports whether there is room for the selected note's card
// beside the list.
func (m Model) showCard() bool {
	return m.width >= cardMinWidth
}

func (m Model) listWidth() int {
	if m.showCard() {
		return m.width * 3 / 5
	}
	return m.width
}

func (m Model) renderCard(n model.Note) string {
	w := m.width - m.listWidth() - 4
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(n.Title),
		theme.HelpStyle.Render(n.UpdatedAt.Local().Format("2006-01-02 15:04")),
		"",
		lipgloss.NewStyle().Width(max(w-2, 10)).Render(n.Content),
	)
	return theme.NoteStyle(n.Color).Width(max(w, 12)).Render(body)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(m.listWidth(), height-2)
	m.searchInput.Width = width - 4
}
