package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/service"
	appsync "github.com/nhle/todo-client/internal/sync"
)

// sessionCheckedMsg is sent once the saved session has been validated.
type sessionCheckedMsg struct {
	user *model.User
	err  error
}

// loggedOutMsg is sent after the session has been cleared.
type loggedOutMsg struct {
	err error
}

// checkSession asks the backend who the token belongs to. A stale answer
// from the cache still counts as a session.
func (m Model) checkSession() tea.Cmd {
	a := m.auth
	if a == nil {
		return func() tea.Msg { return sessionCheckedMsg{} }
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		u, err := a.Me(ctx)
		return sessionCheckedMsg{user: u, err: err}
	}
}

// handleSession starts background refresh unless the token was rejected.
func (m Model) handleSession(msg sessionCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.user != nil {
		m.user = msg.user
	}

	switch {
	case msg.err == nil:
	case api.IsAuthError(msg.err):
		m.setError(errors.New("session expired; run `todo login`"))
		return m, nil
	case errors.Is(msg.err, service.ErrStale):
		m.stale = true
		m.logger.Info("backend unreachable at startup", zap.Error(msg.err))
	default:
		m.setError(msg.err)
	}

	if m.refresher == nil {
		return m, m.loadRemote()
	}
	return m, m.refresher.Start()
}

func (m Model) handleRefresh(msg appsync.RefreshResultMsg) (tea.Model, tea.Cmd) {
	m.stale = msg.Stale
	switch {
	case msg.AuthExpired:
		m.setError(errors.New("session expired; run `todo login`"))
	case msg.Error != nil && !msg.Stale:
		m.setError(msg.Error)
	case msg.Stale:
		m.setNotice("backend unreachable")
	case msg.NewCount > 0:
		m.setNotice(fmt.Sprintf("%d new todo(s)", msg.NewCount))
	case m.noticeErr:
		m.setNotice("")
	}

	m.syncViews(msg.State.Todos)
	cmds := []tea.Cmd{m.taskList.SetState(msg.State)}
	if !msg.AuthExpired {
		cmds = append(cmds, m.refresher.WaitForNextResult())
	} else {
		m.refresher.Stop()
	}
	return m, tea.Batch(cmds...)
}

// logout clears the session and quits.
func (m Model) logout() tea.Cmd {
	a := m.auth
	if a == nil {
		return tea.Quit
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loggedOutMsg{err: a.Logout(ctx)}
	}
}
