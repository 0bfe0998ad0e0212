package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	tracelog "github.com/nadtcp/nadtcp-go/pkg/log"
	"github.com/nadtcp/nadtcp-go/pkg/protocol"
	"github.com/nadtcp/nadtcp-go/pkg/transport"
)

// Defaults.
const (
	// DefaultPort is the fixed control port of the amplifier.
	DefaultPort = 30001

	// DefaultReconnectInterval is the fixed delay between connection
	// attempts. Not exponential: the amplifier is a single local device,
	// not a fleet.
	DefaultReconnectInterval = 10 * time.Second

	// DefaultConnectTimeout bounds each individual connection attempt.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultCommandInterval is the minimum spacing between outbound
	// commands, measured send-to-send.
	DefaultCommandInterval = 150 * time.Millisecond

	// readBufferSize is the receive chunk size.
	readBufferSize = 4096
)

// Config configures a Client.
type Config struct {
	// Host is the amplifier's address (required).
	Host string

	// Port is the control port (default: 30001).
	Port int

	// ReconnectInterval is the delay between connection attempts
	// (default: 10s).
	ReconnectInterval time.Duration

	// ConnectTimeout bounds each connection attempt (default: 10s).
	ConnectTimeout time.Duration

	// CommandInterval is the minimum spacing between outbound commands
	// (default: 150ms).
	CommandInterval time.Duration

	// KeepAlive is the TCP keepalive configuration. Zero fields are
	// filled with defaults tuned for prompt dead-peer detection.
	KeepAlive transport.KeepAliveConfig

	// Logger receives operational log output (default: slog.Default()).
	Logger *slog.Logger

	// Trace receives protocol trace events (default: disabled).
	Trace tracelog.Logger
}

// Client is the NAD C338 protocol client. It owns the TCP connection,
// the last-known device state, and the command throttle.
//
// All methods are safe for concurrent use.
type Client struct {
	config  Config
	address string
	logger  *slog.Logger
	trace   tracelog.Logger

	// closing suppresses auto-reconnect after Disconnect.
	closing atomic.Bool

	mu        sync.RWMutex
	conn      *transport.Conn
	connID    string
	connState ConnectionState
	state     DeviceState
	dialing   bool
	lifetime  context.Context
	cancel    context.CancelFunc

	// wg tracks the receive loop, the resync sender and any background
	// redial task.
	wg sync.WaitGroup

	// sendMu serializes outbound commands for the throttle.
	sendMu   sync.Mutex
	lastSend time.Time

	subs *subscriberSet
}

// New creates a Client. It does not connect; call Connect.
func New(config Config) *Client {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.ReconnectInterval == 0 {
		config.ReconnectInterval = DefaultReconnectInterval
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.CommandInterval == 0 {
		config.CommandInterval = DefaultCommandInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Trace == nil {
		config.Trace = tracelog.NoopLogger{}
	}

	return &Client{
		config:    config,
		address:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		logger:    config.Logger,
		trace:     config.Trace,
		connState: StateDisconnected,
		state:     DeviceState{},
		subs:      newSubscriberSet(),
	}
}

// ConnectionState returns the current connection state.
func (c *Client) ConnectionState() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connState
}

// State returns a snapshot of the last-known device state. The snapshot
// is empty when disconnected.
func (c *Client) State() DeviceState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Subscribe registers a state-change subscription with the default
// buffer. Every received chunk that changes state produces one snapshot;
// connection loss produces one empty snapshot.
func (c *Client) Subscribe() *Subscription {
	return c.subs.subscribe(DefaultSubscriptionBuffer)
}

// SubscribeBuffered registers a subscription with a custom buffer depth.
func (c *Client) SubscribeBuffered(buffer int) *Subscription {
	return c.subs.subscribe(buffer)
}

// Connect dials the amplifier, retrying at the configured interval until
// connected. It returns nil once connected, and also when Disconnect is
// called concurrently. It returns ctx.Err() if ctx is done first.
//
// Calling Connect re-enables auto-reconnect after a Disconnect. It is a
// no-op when already connected or while a (re)connect is in flight.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connState == StateConnected || c.dialing {
		c.mu.Unlock()
		return nil
	}
	c.closing.Store(false)
	lifetime, cancel := context.WithCancel(context.Background())
	c.lifetime = lifetime
	c.cancel = cancel
	c.mu.Unlock()

	return c.connectLoop(ctx, lifetime.Done())
}

// Disconnect closes the connection and suppresses auto-reconnect until
// the next Connect. It blocks until all background tasks have stopped.
func (c *Client) Disconnect() {
	c.closing.Store(true)

	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.setConnState(StateClosing, "disconnect requested")
	}
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		// The receive loop observes the close, clears device state and
		// notifies subscribers with the empty snapshot.
		conn.Close()
	}

	c.wg.Wait()
	c.setConnState(StateDisconnected, "")
}

// connectLoop dials until connected, closing is requested, stop fires,
// or ctx is done. Only one loop runs at a time.
func (c *Client) connectLoop(ctx context.Context, stop <-chan struct{}) error {
	c.mu.Lock()
	if c.dialing || c.connState == StateConnected {
		c.mu.Unlock()
		return nil
	}
	c.dialing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.dialing = false
		c.mu.Unlock()
	}()

	for {
		if c.closing.Load() {
			c.setConnState(StateDisconnected, "")
			return nil
		}
		select {
		case <-stop:
			c.setConnState(StateDisconnected, "")
			return nil
		default:
		}
		if err := ctx.Err(); err != nil {
			c.setConnState(StateDisconnected, "")
			return err
		}

		c.setConnState(StateConnecting, "")
		c.logger.Debug("connecting", "address", c.address)

		conn, err := transport.Dial(ctx, c.address, c.config.ConnectTimeout, c.config.KeepAlive)
		if err == nil {
			c.attach(conn)
			return nil
		}

		c.logger.Warn("connect failed, retrying",
			"address", c.address,
			"retry_in", c.config.ReconnectInterval,
			"error", err)

		select {
		case <-ctx.Done():
			c.setConnState(StateDisconnected, "")
			return ctx.Err()
		case <-stop:
			c.setConnState(StateDisconnected, "")
			return nil
		case <-time.After(c.config.ReconnectInterval):
		}
	}
}

// attach installs an established connection, starts the receive loop and
// kicks off the full-state resync query.
func (c *Client) attach(conn *transport.Conn) {
	id := uuid.NewString()

	c.mu.Lock()
	if c.closing.Load() {
		// Disconnect arrived while the dial was in flight. Disconnect
		// sets closing before it inspects c.conn, so discarding here
		// keeps it authoritative: the fresh connection is never
		// installed.
		c.mu.Unlock()
		conn.Close()
		c.setConnState(StateDisconnected, "")
		return
	}
	c.conn = conn
	c.connID = id
	lifetime := c.lifetime
	c.mu.Unlock()

	c.setConnState(StateConnected, "")
	c.logger.Info("connected", "address", conn.RemoteAddr())

	c.wg.Add(1)
	go c.readLoop(conn, id)

	// Resynchronize the full device state. Fire-and-forget so attach
	// (and thus the dial loop) never waits on the throttle.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Exec(lifetime, protocol.CmdMain, protocol.OpQuery, nil); err != nil {
			c.logger.Debug("state resync query failed", "error", err)
		}
	}()
}

// readLoop receives chunks, decodes complete lines and merges them into
// device state. It owns the connection's line buffer.
func (c *Client) readLoop(conn *transport.Conn, connID string) {
	defer c.wg.Done()

	var lb transport.LineBuffer
	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if lines := lb.Feed(buf[:n]); len(lines) > 0 {
				c.handleLines(lines, connID)
			}
		}
		if err != nil {
			c.handleConnectionLost(conn, err)
			return
		}
	}
}

// handleLines decodes one chunk's worth of complete lines into a state
// batch, applies the mute-clear rule, merges, and notifies subscribers
// exactly once.
func (c *Client) handleLines(lines []string, connID string) {
	// The mute-clear rule keys off the state as it was before this
	// chunk, matching the firmware's behavior.
	c.mu.RLock()
	muted := c.state[protocol.CmdMute] == true
	c.mu.RUnlock()

	batch := make(DeviceState, len(lines))
	for _, line := range lines {
		c.traceLine(tracelog.DirectionIn, line, connID)

		name, value, err := protocol.ParseLine(line)
		if err != nil {
			// A bad line is skipped; the rest of the batch still merges.
			c.logger.Warn("dropping undecodable line", "line", line, "error", err)
			c.traceDecodeError(err, line, connID)
			continue
		}
		batch[name] = value

		// Adjusting volume cancels mute in the device firmware; mirror
		// that so state doesn't report a stale mute.
		if name == protocol.CmdVolume && muted {
			batch[protocol.CmdMute] = false
		}
	}

	if len(batch) == 0 {
		return
	}

	c.mu.Lock()
	for k, v := range batch {
		c.state[k] = v
	}
	snapshot := c.state.Clone()
	c.mu.Unlock()

	c.logger.Debug("state changed", "updates", len(batch))
	c.subs.publish(snapshot, c.logger)
}

// handleConnectionLost clears device state, notifies subscribers and
// schedules a redial unless an explicit disconnect is in progress.
func (c *Client) handleConnectionLost(conn *transport.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A stale loop from a previous connection; the active one
		// already took over.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connID = ""
	c.state = DeviceState{}
	lifetime := c.lifetime
	c.mu.Unlock()

	conn.Close()

	closing := c.closing.Load()
	if closing {
		c.logger.Debug("disconnected", "address", c.address)
	} else {
		c.logger.Error("connection lost", "address", c.address, "error", err)
	}
	c.setConnState(StateDisconnected, err.Error())

	// Availability is signalled through the empty snapshot.
	c.subs.publish(DeviceState{}, c.logger)

	if closing || lifetime == nil {
		return
	}

	// Redial in the background; detecting the loss must not block on
	// the reconnect interval.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.connectLoop(lifetime, lifetime.Done()); err != nil {
			c.logger.Debug("reconnect loop stopped", "error", err)
		}
	}()
}

// Exec encodes and sends one command, enforcing the minimum send-to-send
// interval. It is the generic entry point behind the typed operations.
//
// When no connection is open, Exec is a silent no-op (the amplifier is
// simply unavailable; there is nothing to throttle or write to). Encode
// errors are returned to the caller. Transport errors are not: the
// receive loop detects the loss and drives reconnection.
func (c *Client) Exec(ctx context.Context, command string, op protocol.Operator, value any) error {
	c.mu.RLock()
	conn := c.conn
	connID := c.connID
	c.mu.RUnlock()

	if conn == nil {
		return nil
	}

	line, err := protocol.MakeCommand(command, op, value)
	if err != nil {
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if wait := c.config.CommandInterval - time.Since(c.lastSend); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := conn.WriteLine(line); err != nil {
		c.logger.Debug("command write failed", "command", line, "error", err)
		return nil
	}
	c.lastSend = time.Now()
	c.traceLine(tracelog.DirectionOut, line, connID)

	return nil
}

// setConnState transitions the connection state, logging and tracing the
// change. No-op when the state is unchanged.
func (c *Client) setConnState(state ConnectionState, reason string) {
	c.mu.Lock()
	old := c.connState
	if old == state {
		c.mu.Unlock()
		return
	}
	c.connState = state
	connID := c.connID
	c.mu.Unlock()

	c.logger.Debug("connection state changed", "old", old, "new", state)
	c.trace.Log(tracelog.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     tracelog.CategoryState,
		RemoteAddr:   c.address,
		StateChange: &tracelog.StateChangeEvent{
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

func (c *Client) traceLine(dir tracelog.Direction, line, connID string) {
	c.trace.Log(tracelog.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    dir,
		Category:     tracelog.CategoryLine,
		RemoteAddr:   c.address,
		Line:         line,
	})
}

func (c *Client) traceDecodeError(err error, line, connID string) {
	c.trace.Log(tracelog.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    tracelog.DirectionIn,
		Category:     tracelog.CategoryError,
		RemoteAddr:   c.address,
		Error: &tracelog.ErrorEventData{
			Message: err.Error(),
			Context: fmt.Sprintf("decoding line %q", line),
		},
	})
}
