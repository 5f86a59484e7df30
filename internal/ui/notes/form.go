package notes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
)

// formBindings keeps huh's value pointers valid across model copies.
type formBindings struct {
	title    string
	content  string
	category string
	color    string
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("Title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Content").
				Value(&m.fb.content),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(m.fb.category)...).
				Value(&m.fb.category),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions()...).
				Value(&m.fb.color),
		),
	).WithWidth(min(max(m.width-4, 40), 100))
}

func categoryOptions(current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	known := false
	for _, c := range model.KnownCategories() {
		opts = append(opts, huh.NewOption(c.Label(), string(c)))
		known = known || string(c) == current
	}
	if current != "" && !known {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func colorOptions() []huh.Option[string] {
	colors := model.NoteColors()
	opts := make([]huh.Option[string], 0, len(colors))
	for _, c := range colors {
		opts = append(opts, huh.NewOption(c, c))
	}
	return opts
}

// submit builds the create or update message from the bound values.
// Updates carry only the fields that changed.
func (m Model) submit() tea.Cmd {
	in := api.NoteInput{
		Title:    strings.TrimSpace(m.fb.title),
		Content:  strings.TrimSpace(m.fb.content),
		Category: model.Category(m.fb.category),
		Color:    m.fb.color,
	}

	if m.editing == nil {
		return func() tea.Msg { return NoteCreateMsg{Input: in} }
	}

	orig := *m.editing
	var diff api.NoteInput
	if in.Title != orig.Title {
		diff.Title = in.Title
	}
	if in.Content != orig.Content {
		diff.Content = in.Content
	}
	if in.Category != orig.Category {
		diff.Category = in.Category
	}
	if in.Color != orig.Color {
		diff.Color = in.Color
	}
	return func() tea.Msg { return NoteUpdateMsg{ID: orig.ID, Input: diff} }
}
