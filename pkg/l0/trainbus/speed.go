package trainbus

import "fmt"

// Speed is the speed byte of a locomotive. 0..14 drive forward,
// 16..30 drive in reverse and 15 is the direction relay toggle.
type Speed byte

// Speed values with special meanings.
const (
	SpeedStop        Speed = 0
	SpeedToggle      Speed = 15
	SpeedReverseStop Speed = 16
	MaxSpeed         Speed = 30
)

// Direction is the travel direction encoded in a Speed.
type Direction int

// Directions
const (
	Forward Direction = iota
	Reverse
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Reverse {
		return "rev"
	}
	return "fwd"
}

// Valid indicates the value can be sent as a speed.
func (s Speed) Valid() bool {
	return s <= MaxSpeed
}

// IsToggle indicates the value is the direction toggle marker.
func (s Speed) IsToggle() bool {
	return s == SpeedToggle
}

// Direction decodes the direction.
func (s Speed) Direction() Direction {
	if s >= SpeedReverseStop {
		return Reverse
	}
	return Forward
}

// Magnitude is the speed step without direction, also the index
// into deceleration tables.
func (s Speed) Magnitude() int {
	return int(s % 16)
}

// Stop returns the stop value used before reversing: 16 when the
// speed already encodes reverse, 0 otherwise.
func (s Speed) Stop() Speed {
	if s.Direction() == Reverse {
		return SpeedReverseStop
	}
	return SpeedStop
}

// String implements fmt.Stringer.
func (s Speed) String() string {
	if s.IsToggle() {
		return "tgl"
	}
	if s.Direction() == Reverse {
		return fmt.Sprintf("R%02d", s.Magnitude())
	}
	return fmt.Sprintf("F%02d", s.Magnitude())
}
