package notifier

import "context"

// Alarm plays the new-order sound. Play may fail, for example when no browser is
// allowed to start audio; callers treat that as recoverable.
type Alarm interface {
	Load(url string) error
	Play(ctx context.Context) error
	Pause()
	Rewind()
}
