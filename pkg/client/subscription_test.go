package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionDeliveryOrder(t *testing.T) {
	set := newSubscriberSet()
	sub := set.subscribe(8)
	defer sub.Close()

	logger := discardLogger()
	set.publish(DeviceState{"Main.Volume": -50.0}, logger)
	set.publish(DeviceState{"Main.Volume": -49.0}, logger)
	set.publish(DeviceState{"Main.Volume": -48.0}, logger)

	for _, want := range []float64{-50.0, -49.0, -48.0} {
		state := <-sub.Updates()
		assert.Equal(t, want, state["Main.Volume"])
	}
}

func TestSubscriptionCloseUnregisters(t *testing.T) {
	set := newSubscriberSet()
	sub := set.subscribe(8)
	require.Equal(t, 1, set.len())

	sub.Close()
	assert.Equal(t, 0, set.len())

	// The channel is closed so range/receive terminates.
	_, open := <-sub.Updates()
	assert.False(t, open)

	// Closing again is harmless.
	sub.Close()
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	set := newSubscriberSet()
	slow := set.subscribe(1)
	defer slow.Close()
	fast := set.subscribe(8)
	defer fast.Close()

	logger := discardLogger()

	// The slow subscriber's buffer fills after one snapshot; further
	// publishes must drop for it without stalling delivery to others.
	done := make(chan struct{})
	go func() {
		defer close(done)
		set.publish(DeviceState{"Main.Brightness": 1}, logger)
		set.publish(DeviceState{"Main.Brightness": 2}, logger)
		set.publish(DeviceState{"Main.Brightness": 3}, logger)
	}()
	<-done

	// The slow subscriber kept the oldest snapshot it had room for.
	state := <-slow.Updates()
	assert.Equal(t, 1, state["Main.Brightness"])

	// The fast subscriber saw everything.
	for _, want := range []int{1, 2, 3} {
		state := <-fast.Updates()
		assert.Equal(t, want, state["Main.Brightness"])
	}
}

func TestSubscriptionIDsAreUnique(t *testing.T) {
	set := newSubscriberSet()
	a := set.subscribe(1)
	b := set.subscribe(1)
	defer a.Close()
	defer b.Close()

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
