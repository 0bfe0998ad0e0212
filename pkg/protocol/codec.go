package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// MakeCommand encodes a command, an operator and an optional value into
// the wire form "<name><operator>[<value>]" (without line terminator).
//
// The value must be nil for query, increment and decrement, and non-nil
// for assignment. Boolean commands take a Go bool which is rendered via
// the Off/On table; domain-constrained commands reject values outside
// their domain.
func MakeCommand(name string, op Operator, value any) (string, error) {
	desc, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if !desc.Supports(op) {
		return "", fmt.Errorf("%w: %q does not support %s", ErrUnsupportedOperator, name, op)
	}

	if op == OpAssign && value == nil {
		return "", fmt.Errorf("%w: %q assignment needs a value", ErrMissingValue, name)
	}
	if op != OpAssign && value != nil {
		return "", fmt.Errorf("%w: operator %s takes no value", ErrUnexpectedValue, op)
	}

	if value == nil {
		return name + string(op), nil
	}

	text, err := desc.formatValue(value)
	if err != nil {
		return "", err
	}
	return name + string(op) + text, nil
}

// ParseLine decodes one inbound "<name>=<value>" line into the command
// name and its typed value.
func ParseLine(line string) (string, any, error) {
	name, text, found := strings.Cut(line, "=")
	if !found {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	desc, ok := commands[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	value, err := desc.coerceValue(text)
	if err != nil {
		return "", nil, err
	}
	return name, value, nil
}

// formatValue renders a typed value as wire text, validating it against
// the descriptor's domain.
func (d *Descriptor) formatValue(value any) (string, error) {
	if d.Type == TypeBool {
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("%w: %q wants a bool, got %T", ErrMalformedValue, d.Name, value)
		}
		idx := 0
		if b {
			idx = 1
		}
		return d.Values[idx], nil
	}

	switch v := value.(type) {
	case string:
		if len(d.Values) > 0 && !contains(d.Values, v) {
			return "", fmt.Errorf("%w: %q is not one of %v", ErrValueOutOfDomain, v, d.Values)
		}
		return v, nil

	case int:
		if d.Range != nil && !d.Range.Contains(float64(v)) {
			return "", fmt.Errorf("%w: %d not in [%d, %d)", ErrValueOutOfDomain, v, d.Range.Min, d.Range.Max)
		}
		return strconv.Itoa(v), nil

	case float64:
		if d.Range != nil && !d.Range.Contains(v) {
			return "", fmt.Errorf("%w: %v not in [%d, %d)", ErrValueOutOfDomain, v, d.Range.Min, d.Range.Max)
		}
		return formatFloat(v), nil

	default:
		return "", fmt.Errorf("%w: %q cannot take %T", ErrMalformedValue, d.Name, value)
	}
}

// coerceValue converts inbound wire text to the descriptor's Go type.
func (d *Descriptor) coerceValue(text string) (any, error) {
	switch d.Type {
	case TypeBool:
		for i, v := range d.Values {
			if v == text {
				return i == 1, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a boolean value for %q", ErrMalformedValue, text, d.Name)

	case TypeInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedValue, text, err)
		}
		return n, nil

	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedValue, text, err)
		}
		return f, nil

	default:
		return text, nil
	}
}

// formatFloat renders a float in the device dialect: integral values keep
// a trailing ".0" ("-40.0", not "-40").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
