package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	appsync "github.com/nhle/todo-client/internal/sync"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/ui"
	"github.com/nhle/todo-client/internal/ui/calendar"
	"github.com/nhle/todo-client/internal/ui/command"
	"github.com/nhle/todo-client/internal/ui/config"
	helpview "github.com/nhle/todo-client/internal/ui/help"
	"github.com/nhle/todo-client/internal/ui/notes"
	"github.com/nhle/todo-client/internal/ui/stats"
	"github.com/nhle/todo-client/internal/ui/tasklist"
	"github.com/nhle/todo-client/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewStats
	ViewNotes
	ViewHelp
	ViewCommand
	ViewSettings
	ViewCalendar
)

// Deps are the services the root model drives.
type Deps struct {
	Todos     *service.Todos
	Notes     *service.Notes
	Auth      *service.Auth
	Refresher *appsync.Refresher
	Logger    *zap.Logger

	// Config and ConfigPath back the settings view.
	Config     model.AppConfig
	ConfigPath string
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the calls into the service layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	todos     *service.Todos
	notes     *service.Notes
	auth      *service.Auth
	refresher *appsync.Refresher
	logger    *zap.Logger
	now       func() time.Time

	taskList    tasklist.Model
	todoForm    todoform.Model
	statsView   stats.Model
	calendar    calendar.Model
	notesView   notes.Model
	helpView    helpview.Model
	commandView command.Model
	settings    config.Model

	user      *model.User
	notice    string
	noticeErr bool
	stale     bool
	ready     bool
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewList,
		keys:        k,
		todos:       d.Todos,
		notes:       d.Notes,
		auth:        d.Auth,
		refresher:   d.Refresher,
		logger:      logging.OrNop(d.Logger).Named("app"),
		now:         time.Now,
		taskList:    tasklist.New(k, 80, 24),
		todoForm:    todoform.New(80, 24),
		statsView:   stats.New(k, 80, 24),
		calendar:    calendar.New(k, 80, 24),
		notesView:   notes.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		settings:    config.New(d.ConfigPath, d.Config, k, 80, 24),
	}
}

// Init shows the cached collection at once, then checks the session and
// starts background refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCached(),
		m.checkSession(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.todoForm.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.calendar.SetSize(w, h)
		m.notesView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.settings.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionCheckedMsg:
		return m.handleSession(msg)

	case appsync.RefreshResultMsg:
		return m.handleRefresh(msg)

	case todoResultMsg:
		return m.handleTodoResult(msg)

	case notesLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, m.notesView.SetNotes(msg.notes)

	case noteResultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setNotice(msg.action)
		}
		return m, m.notesView.SetNotes(m.notes.List())

	case loggedOutMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.stopRefresh()
		return m, tea.Quit

	case tasklist.ViewChangedMsg:
		return m, m.taskList.SetState(m.todos.SetView(msg.View))

	case tasklist.NewTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m, m.todoForm.StartCreate()

	case tasklist.EditTodoMsg:
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m, m.todoForm.StartEdit(msg.Todo)

	case tasklist.ToggleTodoMsg:
		return m, m.toggleTodo(msg.ID)

	case tasklist.DeleteTodoMsg:
		return m, m.deleteTodo(msg.ID)

	case tasklist.ClearCompletedMsg:
		return m, m.clearCompleted()

	case todoform.TodoCreateMsg:
		m.currentView = ViewList
		return m, m.createTodo(msg.Input)

	case todoform.TodoUpdateMsg:
		m.currentView = ViewList
		return m, m.updateTodo(msg.ID, msg.Input)

	case todoform.TodoFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case config.SavedMsg:
		theme.Apply(msg.Config.Display.Theme)
		m.logger.Info("settings saved", zap.Bool("restart", msg.Restart))
		return m, nil

	case stats.BackMsg, calendar.BackMsg, notes.BackMsg, config.DoneMsg:
		m.currentView = ViewList
		return m, nil

	case notes.NoteCreateMsg:
		return m, m.createNote(msg.Input)

	case notes.NoteUpdateMsg:
		return m, m.updateNote(msg.ID, msg.Input)

	case notes.NoteDeleteMsg:
		return m, m.deleteNote(msg.ID)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case command.ErrorMsg:
		m.currentView = m.previousView
		m.setError(msg.Err)
		return m, nil

	case tea.KeyMsg:
		if mdl, cmd, handled := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work outside a single view. Views
// that own text input get every key except ctrl+c.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.stopRefresh()
		return m, tea.Quit, true
	}
	if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back, m.keys.Command) {
		m.currentView = m.previousView
		return m, nil, true
	}
	if m.capturesInput() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopRefresh()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh(), true

	case key.Matches(msg, m.keys.Stats):
		m.showStats()
		return m, nil, true

	case key.Matches(msg, m.keys.Calendar):
		m.showCalendar()
		return m, nil, true

	case key.Matches(msg, m.keys.Notes):
		m.currentView = ViewNotes
		return m, m.loadNotes(), true
	}
	return m, nil, false
}

// capturesInput reports whether the active view is editing text.
func (m Model) capturesInput() bool {
	switch m.currentView {
	case ViewForm, ViewCommand:
		return true
	case ViewList:
		return m.taskList.Searching()
	case ViewNotes:
		return m.notesView.Searching() || m.notesView.Editing()
	case ViewSettings:
		return m.settings.Editing()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewNotes:
		m.notesView, cmd = m.notesView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

func (m *Model) showStats() {
	m.statsView.SetTodos(m.todos.State().Todos, m.now())
	m.currentView = ViewStats
}

func (m *Model) showCalendar() {
	m.calendar.SetTodos(m.todos.State().Todos, m.now())
	m.currentView = ViewCalendar
}

// syncViews pushes a new collection into the dashboards that are open.
func (m *Model) syncViews(todos []model.Todo) {
	switch m.currentView {
	case ViewStats:
		m.statsView.SetTodos(todos, m.now())
	case ViewCalendar:
		m.calendar.SetTodos(todos, m.now())
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeErr = false
}

func (m *Model) setError(err error) {
	m.notice = err.Error()
	m.noticeErr = true
	m.logger.Warn("action failed", zap.Error(err))
}

func (m Model) stopRefresh() {
	if m.refresher != nil {
		m.refresher.Stop()
	}
}

func (m Model) refresh() tea.Cmd {
	if m.refresher != nil {
		m.refresher.Trigger()
		return nil
	}
	return m.loadRemote()
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Todo"
	if m.user != nil {
		title = fmt.Sprintf("Todo · %s", displayName(*m.user))
	}
	header := m.layout.RenderHeader(title, m.syncStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.notice, m.noticeErr)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewForm:
		return m.todoForm.View()
	case ViewStats:
		return m.statsView.View()
	case ViewCalendar:
		return m.calendar.View()
	case ViewNotes:
		return m.notesView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

// syncStatus describes the refresher state for the header.
func (m Model) syncStatus() string {
	if m.refresher == nil {
		return "offline"
	}
	st := m.refresher.Status()
	switch {
	case st.State == appsync.SyncRunning:
		return "syncing..."
	case m.stale:
		return "⚠ offline, showing cache"
	case st.LastSync.IsZero():
		return "not synced"
	default:
		return "synced " + st.LastSync.Local().Format("15:04")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewForm:
		return "enter next | shift+tab back | esc cancel"
	case ViewStats:
		return "esc back | ↑/↓ scroll"
	case ViewCalendar:
		return "h/l month | t today | esc back"
	case ViewSettings:
		if m.settings.Editing() {
			return "enter next | esc cancel"
		}
		return "e edit | esc back"
	case ViewNotes:
		if m.notesView.Editing() {
			return "enter next | esc cancel"
		}
		return "n new | e edit | d delete | / search | g category | esc back"
	default:
		if m.taskList.State().View.IsDefault() {
			return "q quit | ? help | n new | x done | / search | s status | tab sort"
		}
		return m.taskList.Summary() + " | 0 reset"
	}
}

func displayName(u model.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
