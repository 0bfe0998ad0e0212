package protocol

import "errors"

// Protocol errors.
var (
	// ErrUnknownCommand indicates a command name that is not in the table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnsupportedOperator indicates an operator outside the command's
	// supported set.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrMissingValue indicates an assignment without a value.
	ErrMissingValue = errors.New("missing value")

	// ErrUnexpectedValue indicates a value supplied to a query, increment
	// or decrement.
	ErrUnexpectedValue = errors.New("unexpected value")

	// ErrValueOutOfDomain indicates a value outside the command's domain.
	ErrValueOutOfDomain = errors.New("value out of domain")

	// ErrMalformedValue indicates inbound value text that cannot be
	// coerced to the command's declared type.
	ErrMalformedValue = errors.New("malformed value")

	// ErrMalformedLine indicates an inbound line without a '=' separator.
	ErrMalformedLine = errors.New("malformed line")
)
