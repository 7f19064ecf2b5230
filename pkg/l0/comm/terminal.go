package comm

import (
	"os"

	"golang.org/x/term"
)

// Terminal is the process terminal as a raw byte stream. Keystrokes
// arrive unprocessed and line endings are not translated.
type Terminal struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// OpenTerminal switches stdin into raw mode. When stdin is not a
// terminal it is used as is.
func OpenTerminal() (*Terminal, error) {
	t := &Terminal{in: os.Stdin, out: os.Stdout}
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return t, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	t.state = state
	return t, nil
}

// Raw indicates the terminal is in raw mode.
func (t *Terminal) Raw() bool {
	return t.state != nil
}

// Read implements io.Reader.
func (t *Terminal) Read(p []byte) (int, error) {
	return t.in.Read(p)
}

// Write implements io.Writer.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(int(t.in.Fd()), state)
}
