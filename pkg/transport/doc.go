// Package transport provides the TCP transport for the NAD control
// protocol.
//
// The transport layer handles:
//   - Dialing with a bounded per-attempt timeout
//   - CRLF line buffering with NUL stripping on the receive path
//   - CRLF termination on the send path
//   - TCP keepalive tuned for prompt dead-peer detection
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   name=value text commands     │
//	├────────────────────────────────┤
//	│     CRLF line framing          │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// The device occasionally emits stray NUL bytes between lines; LineBuffer
// discards them before framing so they can never corrupt a line.
//
// There is no application-level ping: liveness relies on kernel TCP
// keepalive with an aggressive configuration (1s idle, 10s probe
// interval, 3 probes), matching the device's expectations.
package transport
