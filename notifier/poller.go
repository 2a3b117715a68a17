// Package notifier watches for orders awaiting confirmation and drives the audible alert
// shown to operators on the admin screens.
package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often pending orders are counted
const DefaultInterval = 5 * time.Second

// PendingSource counts orders in the pending state
type PendingSource interface {
	PendingCount(ctx context.Context) (int64, error)
}

// PendingSourceFunc adapts a function to PendingSource
type PendingSourceFunc func(ctx context.Context) (int64, error)

// PendingCount calls f
func (f PendingSourceFunc) PendingCount(ctx context.Context) (int64, error) {
	return f(ctx)
}

// EventKind says which way the pending set changed
type EventKind string

const (
	PendingStarted EventKind = "pending_started"
	PendingCleared EventKind = "pending_cleared"
)

// Event is emitted only when the pending set goes from empty to non-empty or back
type Event struct {
	Kind  EventKind `json:"kind"`
	Count int64     `json:"count"`
	At    time.Time `json:"at"`
}

// Observer is told about pending transitions. Observers run on the polling goroutine
// and must not call Poll.
type Observer func(ctx context.Context, ev Event)

// PollerStatus is a snapshot of the poller's view of pending orders
type PollerStatus struct {
	HasPending bool      `json:"has_pending"`
	Count      int64     `json:"count"`
	LastPollAt time.Time `json:"last_poll_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// Poller counts pending orders on a fixed interval and reports transitions
type Poller struct {
	source   PendingSource
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	pollMu sync.Mutex // serializes Poll so transitions are emitted in order

	mu         sync.RWMutex
	observers  []Observer
	hasPending bool
	count      int64
	lastPoll   time.Time
	lastErr    string
}

// NewPoller creates a poller over source. A non-positive interval means DefaultInterval.
func NewPoller(source PendingSource, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		source:   source,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Subscribe registers an observer for pending transitions
func (p *Poller) Subscribe(obs Observer) {
	p.mu.Lock()
	p.observers = append(p.observers, obs)
	p.mu.Unlock()
}

// HasPending reports whether the last successful poll found pending orders
func (p *Poller) HasPending() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasPending
}

// Status returns a snapshot of the poller state
func (p *Poller) Status() PollerStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PollerStatus{
		HasPending: p.hasPending,
		Count:      p.count,
		LastPollAt: p.lastPoll,
		LastError:  p.lastErr,
	}
}

// Poll runs one check. A failed count is logged and returned but leaves the pending
// flag untouched; observers hear about a change only on 0→n and n→0.
func (p *Poller) Poll(ctx context.Context) error {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	count, err := p.source.PendingCount(ctx)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err.Error()
		p.mu.Unlock()
		p.log.Warn("pending order poll failed", "err", err)
		return err
	}

	now := p.now()
	p.mu.Lock()
	was := p.hasPending
	p.hasPending = count > 0
	p.count = count
	p.lastPoll = now
	p.lastErr = ""
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	var ev Event
	switch {
	case !was && count > 0:
		ev = Event{Kind: PendingStarted, Count: count, At: now}
	case was && count == 0:
		ev = Event{Kind: PendingCleared, Count: 0, At: now}
	default:
		return nil
	}

	p.log.Info("pending orders changed", "kind", ev.Kind, "count", count)
	for _, obs := range observers {
		obs(ctx, ev)
	}
	return nil
}

// Run polls immediately and then on every tick until ctx is cancelled.
// Poll errors never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("pending order poller starting", "interval", p.interval.String())

	_ = p.Poll(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("pending order poller stopping")
			return nil
		case <-t.C:
			_ = p.Poll(ctx)
		}
	}
}
