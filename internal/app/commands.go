package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/ui/command"
	"github.com/nhle/todo-client/internal/ui/tasklist"
)

// executeCommand runs a parsed command palette entry.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Name {
	case "new":
		m.currentView = ViewList
		return func() tea.Msg { return tasklist.NewTodoMsg{} }
	case "status":
		return m.changeView(func(p *engine.ViewParams) { p.Status = engine.ParseStatusFilter(c.Arg) })
	case "sort":
		return m.changeView(func(p *engine.ViewParams) { p.Sort = engine.ParseSortKey(c.Arg) })
	case "priority":
		return m.changeView(func(p *engine.ViewParams) { p.Priority = engine.ParsePriorityFilter(c.Arg) })
	case "category":
		return m.changeView(func(p *engine.ViewParams) { p.Category = engine.ParseCategoryFilter(c.Arg) })
	case "search":
		return m.changeView(func(p *engine.ViewParams) { p.Search = c.Arg })
	case "reset":
		return m.changeView(func(p *engine.ViewParams) {
			sort := p.Sort
			*p = engine.DefaultView()
			p.Sort = sort
		})
	case "clear":
		if m.todos.State().Counts().Completed == 0 {
			m.setNotice("nothing to clear")
			return nil
		}
		return m.clearCompleted()
	case "refresh":
		return m.refresh()
	case "stats":
		m.showStats()
		return nil
	case "calendar":
		m.showCalendar()
		return nil
	case "notes":
		m.currentView = ViewNotes
		return m.loadNotes()
	case "todos":
		m.currentView = ViewList
		return nil
	case "settings":
		m.currentView = ViewSettings
		return nil
	case "theme":
		theme.Apply(c.Arg)
		m.setNotice("theme " + c.Arg)
		return nil
	case "logout":
		return m.logout()
	case "quit":
		m.stopRefresh()
		return tea.Quit
	default:
		m.setError(fmt.Errorf("unknown command %q", c.Name))
		return nil
	}
}

// changeView applies fn to the current view params and shows the list.
func (m *Model) changeView(fn func(*engine.ViewParams)) tea.Cmd {
	p := m.todos.State().View
	fn(&p)
	m.currentView = ViewList
	return m.taskList.SetState(m.todos.SetView(p.Normalize()))
}
