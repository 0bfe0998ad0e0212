package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends trace events to a file as a CBOR sequence, one
// item per event, replayable with Reader. It is safe for concurrent
// use.
type FileLogger struct {
	mu   sync.Mutex
	file *os.File
	enc  *cbor.Encoder
	err  error
}

// NewFileLogger opens path for appending, creating it with mode 0644
// when missing. Reopening an earlier capture continues the sequence.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	return &FileLogger{
		file: f,
		enc:  NewEncoder(f),
	}, nil
}

// Log appends one event. Write failures never reach the client's send
// and receive paths; the first one is retained for Err.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	if err := l.enc.Encode(event); err != nil && l.err == nil {
		l.err = err
	}
}

// Err reports the first write failure, if any. Useful after Close to
// check the capture is complete.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the trace file. Further Log calls become no-ops, and
// further Close calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
