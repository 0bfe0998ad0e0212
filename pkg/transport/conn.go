package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// Transport errors.
var (
	// ErrConnectionClosed indicates a write on a locally closed connection.
	ErrConnectionClosed = errors.New("connection closed")
)

// Conn is a line-oriented TCP connection to the amplifier. Writes append
// the CRLF terminator; reads return raw chunks to be fed into a
// LineBuffer by the caller's receive loop.
type Conn struct {
	conn net.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeCh   chan struct{}
}

// Dial connects to address with a bounded per-attempt timeout and TCP
// keepalive enabled. The timeout applies on top of any deadline already
// carried by ctx.
func Dial(ctx context.Context, address string, timeout time.Duration, keepAlive KeepAliveConfig) (*Conn, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dialer := &net.Dialer{
		KeepAliveConfig: keepAlive.NetConfig(),
	}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	return &Conn{
		conn:    conn,
		closeCh: make(chan struct{}),
	}, nil
}

// WriteLine sends one command line, appending the CRLF terminator.
// Thread-safe: concurrent writers are serialized.
func (c *Conn) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}

	if _, err := c.conn.Write([]byte(line + Terminator)); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// Read reads the next available chunk of raw bytes from the socket.
// It blocks until data arrives, the peer closes, or Close is called.
func (c *Conn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// Close closes the connection. It is safe to call multiple times; an
// in-flight Read unblocks with an error.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// LocalAddr returns the local address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
