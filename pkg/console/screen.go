package console

import (
	"strconv"

	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// ANSI sequences
const (
	ClearScreen = "\x1b[H\x1b[2J"
	HideCursor  = "\x1b[?25l"
	ShowCursor  = "\x1b[?25h"
	ClearLine   = "\x1b[K"
)

// Layout
const (
	PromptRow      = 2
	Prompt         = "> "
	InProgress     = "(in progress)"
	trainsPerRow   = 8
	switchesPerRow = trainbus.SwitchSlots / 2
)

// TrainStatus is an entry of the speed table.
type TrainStatus struct {
	Train byte
	Speed trainbus.Speed
}

// PerfStatus holds timings in microseconds.
type PerfStatus struct {
	LoopCur  uint32
	LoopMax  uint32
	FirstCur uint32
	FirstMax uint32
	FullCur  uint32
	FullMax  uint32
}

// Status is what a frame shows.
type Status struct {
	Uptime   *UptimeClock
	Line     []byte
	Blocked  bool
	Trains   []TrainStatus
	Switches [trainbus.SwitchSlots]trainbus.SwitchState
	Sensors  *feedback.ActivityLog
	Perf     PerfStatus
}

// Screen composes status frames. The first frame clears the terminal,
// later frames overwrite it row by row.
type Screen struct {
	Title string

	drawn bool
}

// Redraw makes the next frame clear the terminal again.
func (s *Screen) Redraw() {
	s.drawn = false
}

// Compose appends a complete frame to buf.
func (s *Screen) Compose(buf []byte, st *Status) []byte {
	f := frame{buf: buf}
	if !s.drawn {
		f.buf = append(f.buf, ClearScreen...)
		s.drawn = true
	}

	f.beginRow()
	f.str(s.Title)
	if st.Uptime != nil {
		f.str("  uptime ")
		f.buf = st.Uptime.AppendTo(f.buf)
	}
	f.endRow()

	f.beginRow()
	f.str(Prompt)
	if st.Blocked {
		f.str(InProgress)
	} else {
		f.buf = append(f.buf, st.Line...)
	}
	f.endRow()

	f.beginRow()
	f.str("Trains:")
	if len(st.Trains) == 0 {
		f.str(" none")
	}
	f.endRow()
	for n := 0; n < len(st.Trains); n += trainsPerRow {
		f.beginRow()
		for i := n; i < n+trainsPerRow && i < len(st.Trains); i++ {
			f.str("  ")
			f.num(int(st.Trains[i].Train), 2)
			f.str(":")
			f.str(st.Trains[i].Speed.String())
		}
		f.endRow()
	}

	f.beginRow()
	f.str("Switches:")
	f.endRow()
	for n := 0; n < trainbus.SwitchSlots; n += switchesPerRow {
		f.beginRow()
		for slot := n; slot < n+switchesPerRow; slot++ {
			f.str("  ")
			f.num(trainbus.SwitchID(slot), 3)
			f.str(":")
			f.str(st.Switches[slot].String())
		}
		f.endRow()
	}

	f.beginRow()
	f.str("Sensors:")
	if st.Sensors != nil {
		latest := st.Sensors.LatestIndex()
		for i := 0; i < feedback.LogCapacity; i++ {
			hit, ok := st.Sensors.Slot(i)
			switch {
			case !ok:
				f.str("  -- ")
			case i == latest:
				f.str(" [")
				f.hit(hit)
				f.str("]")
			default:
				f.str("  ")
				f.hit(hit)
				f.str(" ")
			}
		}
	}
	f.endRow()

	f.beginRow()
	f.str("Loop ")
	f.micros(st.Perf.LoopCur, st.Perf.LoopMax)
	f.str("  Feedback first ")
	f.micros(st.Perf.FirstCur, st.Perf.FirstMax)
	f.str("  full ")
	f.micros(st.Perf.FullCur, st.Perf.FullMax)
	f.endRow()

	col := len(Prompt) + 1
	if !st.Blocked {
		col += len(st.Line)
	}
	f.moveTo(PromptRow, col)
	return f.buf
}

type frame struct {
	buf []byte
	row int
}

func (f *frame) moveTo(row, col int) {
	f.buf = append(f.buf, "\x1b["...)
	f.buf = strconv.AppendInt(f.buf, int64(row), 10)
	f.buf = append(f.buf, ';')
	f.buf = strconv.AppendInt(f.buf, int64(col), 10)
	f.buf = append(f.buf, 'H')
}

func (f *frame) beginRow() {
	f.row++
	f.moveTo(f.row, 1)
}

func (f *frame) endRow() {
	f.buf = append(f.buf, ClearLine...)
}

func (f *frame) str(s string) {
	f.buf = append(f.buf, s...)
}

// num appends n right aligned in width.
func (f *frame) num(n, width int) {
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		f.buf = append(f.buf, ' ')
	}
	f.buf = append(f.buf, s...)
}

func (f *frame) hit(h feedback.Hit) {
	f.buf = append(f.buf, h.Group)
	if h.Sensor < 10 {
		f.buf = append(f.buf, '0')
	}
	f.buf = strconv.AppendInt(f.buf, int64(h.Sensor), 10)
}

func (f *frame) micros(cur, max uint32) {
	f.buf = strconv.AppendUint(f.buf, uint64(cur), 10)
	f.str("us/")
	f.buf = strconv.AppendUint(f.buf, uint64(max), 10)
	f.str("us")
}
