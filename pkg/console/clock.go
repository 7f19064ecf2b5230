package console

// UptimeClock counts tenths of seconds since start. Minutes wrap at 1000.
type UptimeClock struct {
	minutes int
	seconds int
	tenths  int
}

// ClockWidth is the length of a formatted clock.
const ClockWidth = 9

// Advance adds one tenth of a second.
func (c *UptimeClock) Advance() {
	c.tenths++
	if c.tenths < 10 {
		return
	}
	c.tenths = 0
	c.seconds++
	if c.seconds < 60 {
		return
	}
	c.seconds = 0
	c.minutes++
	if c.minutes >= 1000 {
		c.minutes = 0
	}
}

// AppendTo appends the clock as MMM:SS:T0.
func (c *UptimeClock) AppendTo(buf []byte) []byte {
	return append(buf,
		byte('0'+c.minutes/100), byte('0'+c.minutes/10%10), byte('0'+c.minutes%10), ':',
		byte('0'+c.seconds/10), byte('0'+c.seconds%10), ':',
		byte('0'+c.tenths), '0')
}

// String implements fmt.Stringer.
func (c *UptimeClock) String() string {
	return string(c.AppendTo(make([]byte, 0, ClockWidth)))
}
