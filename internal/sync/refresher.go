package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/engine"
	"github.com/nhle/todo-client/internal/logging"
	"github.com/nhle/todo-client/internal/service"
)

// SyncState represents the current state of the refresh loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus is a snapshot of the refresher's progress.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// RefreshResultMsg is a tea.Msg sent when a refresh completes.
type RefreshResultMsg struct {
	State engine.State
	Error error
	// Stale is set when State came from the local cache.
	Stale bool
	// AuthExpired is set when the backend rejected the session token.
	AuthExpired bool
	// NewCount is the number of todos that were not in the previous state.
	NewCount int
}

// Loader fetches the full collection. *service.Todos implements it.
type Loader interface {
	State() engine.State
	Load(ctx context.Context) (engine.State, error)
}

// fetchTimeout is the maximum time allowed for a single refresh.
const fetchTimeout = 30 * time.Second

// defaultInterval applies when the configured interval is not positive.
const defaultInterval = 120 * time.Second

// Refresher reloads the collection in the background on a fixed interval
// and on demand.
type Refresher struct {
	loader   Loader
	interval time.Duration
	logger   *zap.Logger

	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	running bool
	status  SyncStatus
}

// New creates a Refresher that calls loader every interval.
func New(loader Loader, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Refresher{
		loader:    loader,
		interval:  interval,
		logger:    logging.OrNop(logger).Named("sync"),
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the refresh goroutine and
// subscribes to results. The first refresh runs immediately.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()

	return r.waitForResult()
}

// Stop halts the refresh goroutine. It is safe to call more than once.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	close(r.stopCh)
	r.running = false
}

// Trigger requests an immediate refresh. Requests made while one is
// already pending are coalesced.
func (r *Refresher) Trigger() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
}

// Status returns the current sync status.
func (r *Refresher) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

// refresh performs a single load and sends a RefreshResultMsg on the
// result channel.
func (r *Refresher) refresh() {
	r.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	known := make(map[int64]bool)
	for _, t := range r.loader.State().Todos {
		known[t.ID] = true
	}

	st, err := r.loader.Load(ctx)
	msg := RefreshResultMsg{State: st, Error: err}

	if err != nil {
		r.setStatus(SyncError, err)
		msg.Stale = errors.Is(err, service.ErrStale)
		msg.AuthExpired = api.IsAuthError(err)
		r.logger.Warn("refresh failed", zap.Error(err), zap.Bool("auth", msg.AuthExpired))
		r.sendResult(msg)
		return
	}

	// The very first load is not news.
	if len(known) > 0 {
		for _, t := range st.Todos {
			if !known[t.ID] {
				msg.NewCount++
			}
		}
	}

	r.setStatus(SyncIdle, nil)
	r.logger.Debug("refresh complete", zap.Int("todos", len(st.Todos)), zap.Int("new", msg.NewCount))
	r.sendResult(msg)
}

func (r *Refresher) setStatus(state SyncState, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.State = state
	r.status.Error = err
	if state == SyncIdle && err == nil {
		r.status.LastSync = time.Now()
	}
}

// sendResult sends on the result channel without blocking.
func (r *Refresher) sendResult(msg RefreshResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the loop
	}
}

func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after handling a RefreshResultMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}
