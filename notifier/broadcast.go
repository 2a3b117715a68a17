package notifier

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoListeners is returned by Play when no admin screen is connected to hear it
var ErrNoListeners = errors.New("no connected listeners")

// Alarm commands sent to connected screens
const (
	ActionLoad   = "load"
	ActionPlay   = "play"
	ActionPause  = "pause"
	ActionRewind = "rewind"
)

// Command tells a connected screen what to do with its audio element
type Command struct {
	Action string    `json:"action"`
	URL    string    `json:"url,omitempty"`
	At     time.Time `json:"at"`
}

const subscriberBuffer = 16

// BroadcastAlarm is an Alarm whose speakers are the admin browsers subscribed to it
type BroadcastAlarm struct {
	mu      sync.Mutex
	url     string
	playing bool
	subs    map[chan Command]struct{}
	now     func() time.Time
}

// NewBroadcastAlarm creates an alarm with no listeners
func NewBroadcastAlarm() *BroadcastAlarm {
	return &BroadcastAlarm{
		subs: make(map[chan Command]struct{}),
		now:  time.Now,
	}
}

// Load sets the sound every screen should play
func (b *BroadcastAlarm) Load(url string) error {
	if url == "" {
		return errors.New("alert sound url is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	b.broadcast(Command{Action: ActionLoad, URL: url})
	return nil
}

// Play starts the loop on every connected screen
func (b *BroadcastAlarm) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return ErrNoListeners
	}
	b.playing = true
	b.broadcast(Command{Action: ActionPlay})
	return nil
}

// Pause stops the loop everywhere
func (b *BroadcastAlarm) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playing = false
	b.broadcast(Command{Action: ActionPause})
}

// Rewind moves every player back to the start of the sound
func (b *BroadcastAlarm) Rewind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broadcast(Command{Action: ActionRewind})
}

// Subscribe attaches a screen. It immediately receives the sound to load and, if the
// alarm is sounding, a play command. Call the returned func to detach.
func (b *BroadcastAlarm) Subscribe() (<-chan Command, func()) {
	ch := make(chan Command, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	if b.url != "" {
		ch <- Command{Action: ActionLoad, URL: b.url, At: b.now()}
	}
	if b.playing {
		ch <- Command{Action: ActionPlay, At: b.now()}
	}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Listeners returns the number of connected screens
func (b *BroadcastAlarm) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// broadcast must be called with b.mu held. Commands to a full subscriber buffer are dropped.
func (b *BroadcastAlarm) broadcast(cmd Command) {
	cmd.At = b.now()
	for ch := range b.subs {
		select {
		case ch <- cmd:
		default:
		}
	}
}
