package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastAlarm_PlayNeedsListeners(t *testing.T) {
	alarm := NewBroadcastAlarm()
	require.NoError(t, alarm.Load("/sounds/new-order.mp3"))

	assert.ErrorIs(t, alarm.Play(context.Background()), ErrNoListeners)

	ch, unsubscribe := alarm.Subscribe()
	defer unsubscribe()

	first := <-ch
	assert.Equal(t, ActionLoad, first.Action)
	assert.Equal(t, "/sounds/new-order.mp3", first.URL)

	require.NoError(t, alarm.Play(context.Background()))
	assert.Equal(t, ActionPlay, (<-ch).Action)

	alarm.Pause()
	alarm.Rewind()
	assert.Equal(t, ActionPause, (<-ch).Action)
	assert.Equal(t, ActionRewind, (<-ch).Action)
}

func TestBroadcastAlarm_LateSubscriberJoinsPlayback(t *testing.T) {
	alarm := NewBroadcastAlarm()
	require.NoError(t, alarm.Load("/sounds/new-order.mp3"))

	_, unsubscribeFirst := alarm.Subscribe()
	defer unsubscribeFirst()
	require.NoError(t, alarm.Play(context.Background()))

	ch, unsubscribe := alarm.Subscribe()
	defer unsubscribe()
	assert.Equal(t, ActionLoad, (<-ch).Action)
	assert.Equal(t, ActionPlay, (<-ch).Action)
	assert.Equal(t, 2, alarm.Listeners())
}

func TestBroadcastAlarm_Unsubscribe(t *testing.T) {
	alarm := NewBroadcastAlarm()
	ch, unsubscribe := alarm.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, alarm.Listeners())
	assert.ErrorIs(t, alarm.Play(context.Background()), ErrNoListeners)
}

func TestBroadcastAlarm_PlayHonoursCancelledContext(t *testing.T) {
	alarm := NewBroadcastAlarm()
	_, unsubscribe := alarm.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, alarm.Play(ctx), context.Canceled)
}

func TestBroadcastAlarm_FullBufferDoesNotBlock(t *testing.T) {
	alarm := NewBroadcastAlarm()
	_, unsubscribe := alarm.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer*3; i++ {
		alarm.Rewind()
	}
}
