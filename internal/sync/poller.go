package sync

import (
	"context"
	"errors"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/session"
)

// PollState represents the current state of the background poll.
type PollState int

const (
	PollIdle PollState = iota
	PollRunning
	PollError
)

// PollStatus holds the state of the last poll.
type PollStatus struct {
	State    PollState
	LastPoll time.Time
	Error    error
}

// PollResultMsg is a tea.Msg sent when a poll completes.
type PollResultMsg struct {
	// NewCount is the number of unread notifications not seen by the
	// previous poll.
	NewCount int
	Unread   int
	Error    error
	// AuthError is set when the session is missing or was rejected.
	AuthError string
}

// SignalMsg is a tea.Msg carrying a refresh signal published on the bus.
type SignalMsg struct {
	Signal refresh.Signal
}

// pollTimeout is the maximum time allowed for a single poll.
const pollTimeout = 30 * time.Second

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 120 * time.Second

// forwarded are the bus signals relayed to the UI.
var forwarded = []refresh.Signal{refresh.Stats, refresh.Messages, refresh.Notifications}

// Poller periodically refreshes the notification feed, asks for the header
// statistics to be re-read, and relays refresh signals to the Bubble Tea
// runtime.
type Poller struct {
	notifications *resource.Notifications
	bus           *refresh.Bus
	interval      time.Duration

	status    PollStatus
	seen      map[model.ID]bool
	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	unsubs    []func()
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller. A non-positive interval falls back to
// DefaultInterval.
func New(n *resource.Notifications, bus *refresh.Bus, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	// Until the first Start there is nothing to wait for.
	stopped := make(chan struct{})
	close(stopped)
	return &Poller{
		notifications: n,
		bus:           bus,
		interval:      interval,
		resultCh:      make(chan tea.Msg, 16),
		triggerCh:     make(chan struct{}, 1),
		stopCh:        stopped,
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and the bus
// relays, then waits on the result channel. A stopped poller can be started
// again, for example after signing back in. Each start gets its own result
// channel, so commands still waiting from before a Stop end with nil instead
// of competing for the new results.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.seen = nil
	stop := make(chan struct{})
	results := make(chan tea.Msg, 16)
	p.stopCh, p.resultCh = stop, results
	for _, sig := range forwarded {
		ch, unsub := p.bus.Subscribe(sig)
		p.unsubs = append(p.unsubs, unsub)
		go p.relay(ch, results)
	}
	p.mu.Unlock()

	go p.loop(stop, results)

	return p.waitForResult()
}

// Stop halts polling and unsubscribes from the bus.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.running = false
}

// Refresh triggers an immediate poll.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already pending.
	}
	return nil
}

// Status returns the state of the last poll.
func (p *Poller) Status() PollStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(stop <-chan struct{}, results chan<- tea.Msg) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(results)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.poll(results)
		case <-p.triggerCh:
			p.poll(results)
		}
	}
}

func (p *Poller) relay(ch <-chan refresh.Signal, results chan<- tea.Msg) {
	for sig := range ch {
		sendResult(results, SignalMsg{Signal: sig})
	}
}

// poll reloads the notification feed, counts unread entries that were not
// present before, and publishes the stats signal.
func (p *Poller) poll(results chan<- tea.Msg) {
	p.setStatus(PollRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	if err := p.notifications.Load(ctx); err != nil {
		p.setStatus(PollError, err)
		log.Printf("poll notifications: %v", err)

		msg := PollResultMsg{Error: err}
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, api.ErrUnauthorized) {
			msg.AuthError = "Session expired. Press L to sign in again."
		}
		sendResult(results, msg)
		return
	}

	items := p.notifications.Snapshot().Data

	p.mu.Lock()
	first := p.seen == nil
	seen := make(map[model.ID]bool, len(items))
	newCount := 0
	for _, n := range items {
		seen[n.ID] = true
		if !first && !n.IsRead && !p.seen[n.ID] {
			newCount++
		}
	}
	p.seen = seen
	p.mu.Unlock()

	p.bus.Publish(refresh.Stats)

	p.setStatus(PollIdle, nil)
	sendResult(results, PollResultMsg{
		NewCount: newCount,
		Unread:   p.notifications.Unread(),
	})
}

func (p *Poller) setStatus(state PollState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == PollIdle {
		p.status.LastPoll = time.Now()
	}
}

// sendResult sends msg on the result channel without blocking.
func sendResult(results chan<- tea.Msg, msg tea.Msg) {
	select {
	case results <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next message of the
// current run. It yields nil once that run is stopped.
func (p *Poller) waitForResult() tea.Cmd {
	p.mu.Lock()
	results, stop := p.resultCh, p.stopCh
	p.mu.Unlock()

	return func() tea.Msg {
		select {
		case result := <-results:
			return result
		case <-stop:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poll result
// or relayed signal. Call it after handling each one to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
