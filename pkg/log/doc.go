// Package log provides protocol trace logging for the NAD client.
//
// A trace captures what actually happened on the wire: every line sent
// and received, connection state changes, and decode errors, each as a
// typed Event. Traces are the primary tool for diagnosing amplifier
// firmware quirks after the fact.
//
// # Loggers
//
//   - FileLogger appends CBOR-encoded events to a file.
//   - SlogAdapter mirrors events into an slog.Logger for development.
//   - NoopLogger discards everything (the default).
//   - Tee combines loggers, e.g. a file capture plus live slog output.
//
// # File Format
//
// Trace files are a concatenated stream of CBOR maps with integer keys
// (compact, schema-tagged via struct fields). Reader iterates a trace
// file back into Events, optionally filtered.
package log
