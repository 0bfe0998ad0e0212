package client

// ConnectionState represents the client's connection lifecycle state.
type ConnectionState int

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates an explicit disconnect is in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// DeviceState maps command names to their last-known typed values
// (bool, int, float64 or string, per the command table).
//
// Snapshots handed to subscribers are shared and must be treated as
// read-only.
type DeviceState map[string]any

// Clone returns an independent copy of the state.
func (s DeviceState) Clone() DeviceState {
	out := make(DeviceState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
