package notes

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// NoteItem wraps a model.Note for bubbles/list.
type NoteItem struct {
	Note model.Note
}

// FilterValue returns the string used for fuzzy filtering.
func (i NoteItem) FilterValue() string { return i.Note.Title }

// itemDelegate renders a note as a title line and a content preview.
type itemDelegate struct{}

func (d itemDelegate) Height() int  { return 2 }
func (d itemDelegate) Spacing() int { return 1 }

func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NoteItem)
	if !ok {
		return
	}

	title, preview := renderNote(ni.Note, m.Width()-4)
	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}
	fmt.Fprint(w, style.Render(lipgloss.JoinVertical(lipgloss.Left, title, preview)))
}

// renderNote returns the title and preview lines for n.
func renderNote(n model.Note, width int) (string, string) {
	swatch := lipgloss.NewStyle().Foreground(theme.NoteColor(n.Color)).Render("■")

	title := swatch + " " + lipgloss.NewStyle().Bold(true).Render(n.Title)
	if n.Category != "" {
		title += " " + theme.CategoryStyle(n.Category).Render(n.Category.Label())
	}

	preview := strings.Join(strings.Fields(n.Content), " ")
	if preview == "" {
		preview = "(empty)"
	}
	if width > 3 && lipgloss.Width(preview) > width {
		preview = truncate(preview, width-1) + "…"
	}
	return title, theme.HelpStyle.Render(preview)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
