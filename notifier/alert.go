package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNothingPending is returned by Resume when there is nothing to alert about
var ErrNothingPending = errors.New("no pending orders")

// AlertStatus is what the admin header shows about the alert
type AlertStatus struct {
	HasPending bool `json:"has_pending"`
	Playing    bool `json:"playing"`
	Silenced   bool `json:"silenced"`
}

// AlertController loops the alarm while orders are pending. Operators can silence it
// without clearing the pending flag and resume it by hand.
type AlertController struct {
	alarm Alarm
	log   *slog.Logger

	mu       sync.Mutex
	pending  bool
	playing  bool
	silenced bool
}

// NewAlertController loads soundURL into alarm
func NewAlertController(alarm Alarm, soundURL string, log *slog.Logger) (*AlertController, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := alarm.Load(soundURL); err != nil {
		return nil, err
	}
	return &AlertController{alarm: alarm, log: log}, nil
}

// Observe is the Observer to subscribe to a Poller
func (a *AlertController) Observe(ctx context.Context, ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Kind {
	case PendingStarted:
		a.pending = true
		a.silenced = false
		a.alarm.Rewind()
		if err := a.alarm.Play(ctx); err != nil {
			a.playing = false
			a.log.Warn("new order alert could not start", "count", ev.Count, "err", err)
			return
		}
		a.playing = true
	case PendingCleared:
		a.pending = false
		a.silenced = false
		a.playing = false
		a.alarm.Pause()
		a.alarm.Rewind()
	}
}

// Silence stops the sound but keeps the pending flag. Silencing a quiet alarm does nothing.
func (a *AlertController) Silence() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.playing {
		return
	}
	a.alarm.Pause()
	a.alarm.Rewind()
	a.playing = false
	a.silenced = true
}

// Resume starts the sound again while orders are still pending
func (a *AlertController) Resume(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.pending {
		return ErrNothingPending
	}
	if a.playing {
		return nil
	}
	if err := a.alarm.Play(ctx); err != nil {
		a.log.Warn("new order alert could not resume", "err", err)
		return err
	}
	a.playing = true
	a.silenced = false
	return nil
}

// Status returns a snapshot of the alert
func (a *AlertController) Status() AlertStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AlertStatus{HasPending: a.pending, Playing: a.playing, Silenced: a.silenced}
}
