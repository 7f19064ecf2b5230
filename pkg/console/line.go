package console

// LineCapacity is the longest line the operator can type.
const LineCapacity = 32

// Control bytes from the terminal.
const (
	KeyReturn    byte = '\r'
	KeyBackspace byte = 0x08
	KeyDelete    byte = 0x7f
)

// LineBuffer assembles the line being typed.
type LineBuffer struct {
	buf [LineCapacity]byte
	n   int
}

// Append adds a printable byte, reporting whether it was taken.
func (l *LineBuffer) Append(b byte) bool {
	if b < 0x20 || b > 0x7e || l.n >= LineCapacity {
		return false
	}
	l.buf[l.n] = b
	l.n++
	return true
}

// Backspace removes the last byte, reporting whether there was one.
func (l *LineBuffer) Backspace() bool {
	if l.n == 0 {
		return false
	}
	l.n--
	return true
}

// Bytes returns the line. It aliases the buffer until the next change.
func (l *LineBuffer) Bytes() []byte {
	return l.buf[:l.n]
}

// Len returns the length of the line.
func (l *LineBuffer) Len() int {
	return l.n
}

// Reset clears the line.
func (l *LineBuffer) Reset() {
	l.n = 0
}
