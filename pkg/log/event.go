package log

import "time"

// Event is one protocol trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID). Empty for
	// events that occur while no connection exists.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates line flow for line events.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the amplifier address (IP:port).
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Line is the raw protocol line, without terminator (line events).
	Line string `cbor:"6,keyasint,omitempty"`

	// StateChange describes a connection state transition (state events).
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"`

	// Error describes a failure (error events).
	Error *ErrorEventData `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of line flow.
type Direction uint8

const (
	// DirectionIn indicates a line received from the amplifier.
	DirectionIn Direction = 0
	// DirectionOut indicates a command sent to the amplifier.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLine indicates a protocol line sent or received.
	CategoryLine Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryError indicates a decode or transport error.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "LINE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	// OldState is the previous state name (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a failure.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being done, e.g. the offending line.
	Context string `cbor:"2,keyasint,omitempty"`
}
