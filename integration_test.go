package nadtcp_test

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nadtcp/nadtcp-go/pkg/client"
	"github.com/nadtcp/nadtcp-go/pkg/log"
	"github.com/nadtcp/nadtcp-go/pkg/protocol"
)

// ampSim is a scripted amplifier for the end-to-end test. It answers the
// full-state query with a complete status dump and echoes assignments
// back as status lines, the way the real firmware confirms commands.
type ampSim struct {
	ln    net.Listener
	conns chan net.Conn
}

func startAmpSim(t *testing.T) *ampSim {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	sim := &ampSim{ln: ln, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			sim.conns <- conn
			go sim.serve(conn)
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return sim
}

func (s *ampSim) serve(conn net.Conn) {
	defer conn.Close()

	status := map[string]string{
		"Main.Power":      "On",
		"Main.Volume":     "-50.0",
		"Main.Mute":       "Off",
		"Main.Source":     "Opt1",
		"Main.Brightness": "2",
		"Main.Model":      "C338",
	}
	order := []string{
		"Main.Power", "Main.Volume", "Main.Mute",
		"Main.Source", "Main.Brightness", "Main.Model",
	}

	reader := bufio.NewReader(conn)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line := strings.TrimSuffix(raw, "\r\n")

		switch {
		case line == "Main?":
			var reply strings.Builder
			for _, name := range order {
				reply.WriteString(name + "=" + status[name] + "\r\n")
			}
			conn.Write([]byte(reply.String()))

		case strings.Contains(line, "="):
			name, value, _ := strings.Cut(line, "=")
			if _, known := status[name]; known {
				status[name] = value
				conn.Write([]byte(name + "=" + value + "\r\n"))
			}
		}
	}
}

func (s *ampSim) hostPort(t *testing.T) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		t.Fatalf("failed to split address: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}
	return host, port
}

func waitFor(t *testing.T, sub *client.Subscription, ok func(client.DeviceState) bool) client.DeviceState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case state, open := <-sub.Updates():
			if !open {
				t.Fatal("subscription closed")
			}
			if ok(state) {
				return state
			}
		case <-deadline:
			t.Fatal("condition not reached in time")
		}
	}
}

// TestE2E_Lifecycle drives a full session against a scripted amplifier:
// connect, resynchronize, issue commands, survive a connection drop, and
// verify the protocol trace written along the way.
func TestE2E_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	sim := startAmpSim(t)
	host, port := sim.hostPort(t)

	tracePath := filepath.Join(t.TempDir(), "session.trace")
	fileTrace, err := log.NewFileLogger(tracePath)
	if err != nil {
		t.Fatalf("failed to create trace logger: %v", err)
	}

	// Capture to file and mirror into slog, the usual debugging setup.
	debug := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := client.New(client.Config{
		Host:              host,
		Port:              port,
		ReconnectInterval: 50 * time.Millisecond,
		CommandInterval:   10 * time.Millisecond,
		Trace:             log.Tee(fileTrace, log.NewSlogAdapter(debug)),
	})
	defer c.Disconnect()

	sub := c.Subscribe()
	defer sub.Close()

	// Connect and wait for the resync dump.
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	deviceConn := <-sim.conns

	state := waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdModel] == "C338"
	})
	if state[protocol.CmdPower] != true {
		t.Errorf("expected power on after resync, got %v", state[protocol.CmdPower])
	}
	if state[protocol.CmdVolume] != -50.0 {
		t.Errorf("expected volume -50.0 after resync, got %v", state[protocol.CmdVolume])
	}
	if state[protocol.CmdBrightness] != 2 {
		t.Errorf("expected brightness 2 after resync, got %v", state[protocol.CmdBrightness])
	}

	// Commands round-trip through the device echo.
	ctx := context.Background()
	if err := c.SetVolume(ctx, -42.0); err != nil {
		t.Fatalf("set volume failed: %v", err)
	}
	waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdVolume] == -42.0
	})

	if err := c.Mute(ctx); err != nil {
		t.Fatalf("mute failed: %v", err)
	}
	waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdMute] == true
	})

	// A volume confirmation while muted clears the mute flag.
	if err := c.SetVolume(ctx, -40.0); err != nil {
		t.Fatalf("set volume failed: %v", err)
	}
	state = waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdVolume] == -40.0
	})
	if state[protocol.CmdMute] != false {
		t.Errorf("expected mute cleared by volume change, got %v", state[protocol.CmdMute])
	}

	if err := c.SelectSource(ctx, "Coax2"); err != nil {
		t.Fatalf("select source failed: %v", err)
	}
	waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdSource] == "Coax2"
	})

	// Out-of-domain values are rejected locally, before the wire.
	if err := c.SetVolume(ctx, 5.0); err == nil {
		t.Error("expected error for out-of-domain volume")
	}

	// Drop the device; the client clears state and reconnects by itself.
	sim.ln.Close()
	deviceConn.Close()
	waitFor(t, sub, func(s client.DeviceState) bool {
		return len(s) == 0
	})
	if got := c.ConnectionState(); got == client.StateConnected {
		t.Errorf("still connected after device went away: %v", got)
	}

	sim2 := &ampSim{conns: make(chan net.Conn, 4)}
	sim2.ln, err = net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		t.Fatalf("failed to relisten: %v", err)
	}
	defer sim2.ln.Close()
	go func() {
		for {
			conn, err := sim2.ln.Accept()
			if err != nil {
				return
			}
			sim2.conns <- conn
			go sim2.serve(conn)
		}
	}()

	<-sim2.conns
	waitFor(t, sub, func(s client.DeviceState) bool {
		return s[protocol.CmdModel] == "C338"
	})

	// Shut down and inspect the trace.
	c.Disconnect()
	if err := fileTrace.Err(); err != nil {
		t.Fatalf("trace capture incomplete: %v", err)
	}
	if err := fileTrace.Close(); err != nil {
		t.Fatalf("failed to close trace: %v", err)
	}

	reader, err := log.NewReader(tracePath)
	if err != nil {
		t.Fatalf("failed to open trace: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read trace: %v", err)
	}

	var sawQuery, sawInbound, sawStateChange bool
	for _, ev := range events {
		switch ev.Category {
		case log.CategoryLine:
			if ev.Direction == log.DirectionOut && ev.Line == "Main?" {
				sawQuery = true
			}
			if ev.Direction == log.DirectionIn {
				sawInbound = true
			}
		case log.CategoryState:
			sawStateChange = true
		}
	}
	if !sawQuery {
		t.Error("trace is missing the outbound full-state query")
	}
	if !sawInbound {
		t.Error("trace is missing inbound lines")
	}
	if !sawStateChange {
		t.Error("trace is missing connection state changes")
	}
}
