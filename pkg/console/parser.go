package console

import (
	"fmt"

	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// Kind tells which command a line holds.
type Kind int

// Command kinds
const (
	Invalid Kind = iota
	SetSpeed
	Reverse
	Switch
	Quit
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case SetSpeed:
		return "tr"
	case Reverse:
		return "rv"
	case Switch:
		return "sw"
	case Quit:
		return "q"
	}
	return "invalid"
}

// Command is a parsed console line. Only the fields of its Kind are set.
type Command struct {
	Kind     Kind
	Train    byte
	Speed    trainbus.Speed
	Switch   int
	Straight bool
}

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c.Kind {
	case SetSpeed:
		return fmt.Sprintf("tr %d %d", c.Train, c.Speed)
	case Reverse:
		return fmt.Sprintf("rv %d", c.Train)
	case Switch:
		if c.Straight {
			return fmt.Sprintf("sw %d S", c.Switch)
		}
		return fmt.Sprintf("sw %d C", c.Switch)
	}
	return c.Kind.String()
}

// Parse parses one console line (without the terminating CR):
//
//	tr <train> <speed>   train and speed 1-2 digits, speed 0..30
//	rv <train>
//	sw <switch> <S|C>    switch 1-3 digits, 1..18 or 153..156
//	q
//
// Spaces and tabs may appear in any amount between tokens. Numbers are
// matched greedily, so a third digit where two are expected is left
// over and makes the line Invalid, as does any other mismatch.
func Parse(line []byte) Command {
	s := scanner{line: line}
	s.skipSpace()
	var cmd Command
	switch {
	case s.keyword("tr"):
		train, ok := s.number(2)
		if !ok {
			return Command{}
		}
		speed, ok := s.number(2)
		if !ok || !trainbus.Speed(speed).Valid() {
			return Command{}
		}
		cmd = Command{Kind: SetSpeed, Train: byte(train), Speed: trainbus.Speed(speed)}
	case s.keyword("rv"):
		train, ok := s.number(2)
		if !ok {
			return Command{}
		}
		cmd = Command{Kind: Reverse, Train: byte(train)}
	case s.keyword("sw"):
		id, ok := s.number(3)
		if !ok {
			return Command{}
		}
		if _, ok = trainbus.SwitchSlot(id); !ok {
			return Command{}
		}
		s.skipSpace()
		switch {
		case s.keyword("S"):
			cmd = Command{Kind: Switch, Switch: id, Straight: true}
		case s.keyword("C"):
			cmd = Command{Kind: Switch, Switch: id}
		default:
			return Command{}
		}
	case s.keyword("q"):
		cmd = Command{Kind: Quit}
	default:
		return Command{}
	}
	if !s.end() {
		return Command{}
	}
	return cmd
}

type scanner struct {
	line []byte
	pos  int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.line) && (s.line[s.pos] == ' ' || s.line[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) keyword(kw string) bool {
	if len(s.line)-s.pos < len(kw) || string(s.line[s.pos:s.pos+len(kw)]) != kw {
		return false
	}
	s.pos += len(kw)
	return true
}

// number skips leading whitespace and greedily takes 1..maxDigits digits.
func (s *scanner) number(maxDigits int) (int, bool) {
	s.skipSpace()
	val, n := 0, 0
	for n < maxDigits && s.pos < len(s.line) && s.line[s.pos] >= '0' && s.line[s.pos] <= '9' {
		val = val*10 + int(s.line[s.pos]-'0')
		s.pos++
		n++
	}
	return val, n > 0
}

func (s *scanner) end() bool {
	s.skipSpace()
	return s.pos == len(s.line)
}
