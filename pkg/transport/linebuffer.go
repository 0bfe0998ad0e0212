package transport

import "bytes"

// Terminator is the line terminator used by the device in both directions.
const Terminator = "\r\n"

// LineBuffer accumulates received byte chunks and yields complete
// CRLF-terminated lines. Stray NUL bytes are discarded before buffering,
// so a NUL can never split a terminator or corrupt a line.
//
// LineBuffer is not safe for concurrent use; it is owned by a single
// receive loop.
type LineBuffer struct {
	buf []byte
}

// Feed appends a received chunk and returns all complete lines it made
// available, without their terminators. Partial trailing data stays
// buffered for the next chunk.
func (b *LineBuffer) Feed(chunk []byte) []string {
	for _, c := range chunk {
		if c == 0 {
			continue
		}
		b.buf = append(b.buf, c)
	}

	var lines []string
	for {
		i := bytes.Index(b.buf, []byte(Terminator))
		if i < 0 {
			break
		}
		lines = append(lines, string(b.buf[:i]))
		b.buf = b.buf[i+len(Terminator):]
	}

	// Reclaim the backing array once fully drained so a long-lived
	// buffer does not pin old chunks.
	if len(b.buf) == 0 {
		b.buf = nil
	}

	return lines
}

// Pending returns the number of buffered bytes awaiting a terminator.
func (b *LineBuffer) Pending() int {
	return len(b.buf)
}

// Reset discards any buffered partial line.
func (b *LineBuffer) Reset() {
	b.buf = nil
}
