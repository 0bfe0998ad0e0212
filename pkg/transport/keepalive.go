package transport

import (
	"net"
	"time"
)

// Keepalive constants. The values are deliberately aggressive so a dead
// amplifier is detected within roughly half a minute.
const (
	// DefaultKeepAliveIdle is the idle time before the first probe.
	DefaultKeepAliveIdle = 1 * time.Second

	// DefaultKeepAliveInterval is the interval between probes.
	DefaultKeepAliveInterval = 10 * time.Second

	// DefaultKeepAliveCount is the number of unanswered probes before
	// the connection is declared dead.
	DefaultKeepAliveCount = 3
)

// KeepAliveConfig configures TCP keepalive for device connections.
type KeepAliveConfig struct {
	// Idle is the idle time before the first probe.
	Idle time.Duration

	// Interval is the interval between probes.
	Interval time.Duration

	// Count is the number of unanswered probes before disconnect.
	Count int
}

// DefaultKeepAliveConfig returns the default keepalive configuration.
func DefaultKeepAliveConfig() KeepAliveConfig {
	return KeepAliveConfig{
		Idle:     DefaultKeepAliveIdle,
		Interval: DefaultKeepAliveInterval,
		Count:    DefaultKeepAliveCount,
	}
}

// DetectionDelay returns the maximum time to detect a dead peer with
// this configuration: Idle + Interval * Count.
func (c KeepAliveConfig) DetectionDelay() time.Duration {
	return c.Idle + c.Interval*time.Duration(c.Count)
}

// NetConfig converts the configuration to the stdlib form used by
// net.Dialer, filling zero fields with defaults.
func (c KeepAliveConfig) NetConfig() net.KeepAliveConfig {
	if c.Idle == 0 {
		c.Idle = DefaultKeepAliveIdle
	}
	if c.Interval == 0 {
		c.Interval = DefaultKeepAliveInterval
	}
	if c.Count == 0 {
		c.Count = DefaultKeepAliveCount
	}
	return net.KeepAliveConfig{
		Enable:   true,
		Idle:     c.Idle,
		Interval: c.Interval,
		Count:    c.Count,
	}
}
