package log

// Logger is the interface applications implement to receive protocol
// trace events. Pass nil or NoopLogger to disable tracing.
type Logger interface {
	// Log records a trace event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking stalls
	// the client's send and receive paths.
	Log(event Event)
}

// NoopLogger discards all events. Use when tracing is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Tee combines several loggers into one that hands each event to every
// target in order, e.g. a FileLogger capture plus a SlogAdapter for
// live inspection. Nil and no-op targets are dropped; a single live
// target is returned as-is.
func Tee(targets ...Logger) Logger {
	live := make(multiLogger, 0, len(targets))
	for _, target := range targets {
		if target == nil {
			continue
		}
		if _, noop := target.(NoopLogger); noop {
			continue
		}
		live = append(live, target)
	}

	switch len(live) {
	case 0:
		return NoopLogger{}
	case 1:
		return live[0]
	default:
		return live
	}
}

type multiLogger []Logger

func (m multiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = multiLogger(nil)
)
