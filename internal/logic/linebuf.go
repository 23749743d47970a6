package logic

// LineBuffer accumulates serial bytes into lines.
//
// Bytes are stored at a write cursor that never passes LineCapacity-1: the
// bytes of an over-long line keep overwriting the final slot. A terminator
// publishes the accumulated bytes as the ready line and resets the cursor.
// Only one line is kept ready; a later terminator replaces an unread line.
//
// Not safe for concurrent use.
type LineBuffer struct {
	buf     [LineCapacity]byte
	cursor  int
	length  int
	clamped bool

	line      string
	ready     bool
	overflows int
}

// WriteByte feeds a single received byte. It never fails; the error return
// satisfies io.ByteWriter.
func (b *LineBuffer) WriteByte(c byte) error {
	if c == LineTerminator {
		b.line = string(b.buf[:b.length])
		b.ready = true
		if b.clamped {
			b.overflows++
		}
		b.cursor = 0
		b.length = 0
		b.clamped = false
		return nil
	}

	if b.cursor == LineCapacity-1 && b.length == LineCapacity {
		// The last slot is already taken; this byte replaces it.
		b.clamped = true
	}
	b.buf[b.cursor] = c
	if b.cursor+1 > b.length {
		b.length = b.cursor + 1
	}
	if b.cursor < LineCapacity-1 {
		b.cursor++
	}
	return nil
}

// Write feeds every byte of p. It implements io.Writer.
func (b *LineBuffer) Write(p []byte) (int, error) {
	for _, c := range p {
		_ = b.WriteByte(c)
	}
	return len(p), nil
}

// Ready reports whether a complete line is waiting.
func (b *LineBuffer) Ready() bool {
	return b.ready
}

// Line returns the most recent complete line and clears the ready flag.
// ok is false when no line is waiting.
func (b *LineBuffer) Line() (line string, ok bool) {
	if !b.ready {
		return "", false
	}
	b.ready = false
	line = b.line
	b.line = ""
	return line, true
}

// Pending returns a copy of the bytes of the line still being received.
func (b *LineBuffer) Pending() []byte {
	out := make([]byte, b.length)
	copy(out, b.buf[:b.length])
	return out
}

// Cursor returns the current write position.
func (b *LineBuffer) Cursor() int {
	return b.cursor
}

// Overflows returns how many completed lines were longer than the buffer.
func (b *LineBuffer) Overflows() int {
	return b.overflows
}
