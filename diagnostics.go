package evalsession

import (
	"errors"
	"strings"
)

// diagnosticBuffer is the session-owned sink the engine writes its
// side-channel diagnostic text to. It is reset at the start of every mutating
// operation so stale text never leaks across operations, and released exactly
// once at session close.
type diagnosticBuffer struct {
	buf    strings.Builder
	closed bool
}

func (b *diagnosticBuffer) Write(p []byte) (int, error) {
	if b.closed {
		return 0, errors.New("diagnostic sink is closed")
	}
	return b.buf.Write(p)
}

func (b *diagnosticBuffer) String() string {
	return b.buf.String()
}

func (b *diagnosticBuffer) Reset() {
	b.buf.Reset()
}

// Close releases the buffer. Safe to call more than once.
func (b *diagnosticBuffer) Close() error {
	b.closed = true
	b.buf.Reset()
	return nil
}
