// Package client implements the NAD C338 protocol client.
//
// A Client owns one TCP connection to the amplifier and maintains the
// last-known device state as reported by the device itself. Commands are
// fire-and-forget: the device confirms every change by echoing the new
// value back as a "name=value" line, which the client merges into its
// state and fans out to subscribers.
//
// # Lifecycle
//
// Connect dials the amplifier and keeps retrying at a fixed interval
// until it succeeds or Disconnect is called. Once connected, the client
// immediately queries the full device state ("Main?") to resynchronize.
// On connection loss the device state is cleared, subscribers receive an
// empty snapshot, and a background task redials until the device comes
// back - unless Disconnect was requested.
//
// # Command Throttling
//
// The device misbehaves when commands arrive faster than about 150ms
// apart. The client enforces a minimum send-to-send interval; commands
// issued faster are delayed, never dropped.
//
// # Degraded Mode
//
// Command operations issued while no connection is open are silent
// no-ops. The integration layer observes availability purely through
// state snapshots: non-empty means reachable, empty means not.
package client
