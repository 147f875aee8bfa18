package sync

import (
	"context"
	"log"
	"slices"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarlsen/mailterm/internal/model"
)

// SyncState represents the current state of the polling loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the observable state of the poller for the header.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// SyncResultMsg is a tea.Msg delivered when a poll completes with either a
// changed collection or an error. Polls whose payload equals the last
// delivered snapshot produce no message at all, so downstream state is
// replaced only on inequality.
type SyncResultMsg struct {
	Emails []model.Email
	Err    error
}

// fetchTimeout is the maximum time allowed for a single fetch.
const fetchTimeout = 30 * time.Second

// Fetcher is the slice of the API client the poller needs.
type Fetcher interface {
	ListEmails(ctx context.Context) ([]model.Email, error)
}

// Poller re-fetches the email collection on a fixed interval and bridges
// results into the Bubble Tea runtime over a buffered channel.
type Poller struct {
	fetcher   Fetcher
	interval  time.Duration
	resultCh  chan SyncResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu       gosync.Mutex
	status   SyncStatus
	snapshot []model.Email
	running  bool
}

// New creates a Poller that fetches from f every interval. Intervals of
// zero or less fall back to the 2s default.
func New(f Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		fetcher:   f,
		interval:  interval,
		resultCh:  make(chan SyncResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
	}
}

// Start launches the polling goroutine and returns a subscription command
// that waits on the result channel. Calling Start while running is a
// no-op; a stopped poller can be started again.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	go p.loop(stopCh)

	return p.waitForResult()
}

// Stop halts the polling goroutine. This is the one resource-lifecycle
// contract in the system: the repeating timer must die with the view.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate fetch outside the regular schedule.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a fetch is already pending
	}
	return nil
}

// Status returns a copy of the current sync status.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the polling schedule: one immediate fetch, then one per tick
// until stopCh closes.
func (p *Poller) loop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.fetch()
		case <-p.triggerCh:
			p.fetch()
		}
	}
}

// fetch performs a single poll. Errors are logged and reported but never
// stop the loop; an unchanged payload is dropped silently.
func (p *Poller) fetch() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	emails, err := p.fetcher.ListEmails(ctx)
	if err != nil {
		log.Printf("poll failed: %v", err)
		p.setStatus(SyncError, err)
		p.sendResult(SyncResultMsg{Err: err})
		return
	}

	p.mu.Lock()
	changed := !slices.Equal(p.snapshot, emails)
	if changed {
		p.snapshot = emails
	}
	p.mu.Unlock()

	p.setStatus(SyncIdle, nil)
	if changed {
		p.sendResult(SyncResultMsg{Emails: emails})
	}
}

// setStatus updates the observable sync status.
func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a SyncResultMsg without blocking the polling goroutine.
func (p *Poller) sendResult(msg SyncResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the UI is not draining results
	}
}

// waitForResult returns a tea.Cmd that blocks on the next result.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult re-subscribes after a SyncResultMsg has been handled.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
