package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsAreSpacedByMinimumInterval(t *testing.T) {
	const interval = 120 * time.Millisecond

	amp := newFakeAmp(t)
	host, port := amp.hostPort(t)
	c := New(Config{
		Host:              host,
		Port:              port,
		ReconnectInterval: 50 * time.Millisecond,
		CommandInterval:   interval,
		Logger:            discardLogger(),
	})
	t.Cleanup(c.Disconnect)

	require.NoError(t, c.Connect(context.Background()))
	resync := amp.nextLine(t)
	require.Equal(t, "Main?", resync.text)

	// Fire commands back to back; the client must pace the writes.
	ctx := context.Background()
	require.NoError(t, c.PowerOn(ctx))
	require.NoError(t, c.VolumeUp(ctx))
	require.NoError(t, c.VolumeDown(ctx))

	// Scheduling jitter only ever widens gaps; allow a small margin for
	// clock reads on either side of the socket.
	const margin = 20 * time.Millisecond

	prev := resync
	for _, want := range []string{"Main.Power=On", "Main.Volume+", "Main.Volume-"} {
		line := amp.nextLine(t)
		assert.Equal(t, want, line.text)
		gap := line.at.Sub(prev.at)
		assert.GreaterOrEqual(t, gap, interval-margin,
			"gap before %q too small: %v", want, gap)
		prev = line
	}
}

func TestThrottledSendAbortsOnContext(t *testing.T) {
	amp := newFakeAmp(t)
	host, port := amp.hostPort(t)
	c := New(Config{
		Host:            host,
		Port:            port,
		CommandInterval: time.Second,
		Logger:          discardLogger(),
	})
	t.Cleanup(c.Disconnect)

	require.NoError(t, c.Connect(context.Background()))
	require.Equal(t, "Main?", amp.nextLine(t).text)

	// The resync query just went out, so the next send has to wait a full
	// second. Cancel well before that.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.PowerOn(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"cancelled send must not wait out the full interval")

	// Nothing was written for the aborted command.
	select {
	case line := <-amp.lines:
		t.Fatalf("unexpected line after cancelled send: %q", line.text)
	case <-time.After(150 * time.Millisecond):
	}
}
