package control

import (
	"errors"

	"github.com/robotalks/trainctl/pkg/console"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// MaxTrains is the capacity of the speed table.
const MaxTrains = 99

var (
	// ErrBlocked indicates a reversal or switch hold is in progress.
	ErrBlocked = errors.New("blocked by sequence in progress")
	// ErrUnknownTrain indicates the train has no known speed.
	ErrUnknownTrain = errors.New("unknown train")
	// ErrTableFull indicates the speed table has no room for a new train.
	ErrTableFull = errors.New("speed table full")
	// ErrInvalidCommand indicates the command has no effect.
	ErrInvalidCommand = errors.New("invalid command")
)

// SpeedTable maps trains to their last commanded speed in the order
// they were first seen.
type SpeedTable struct {
	entries []console.TrainStatus
}

// Lookup finds the speed of a train.
func (t *SpeedTable) Lookup(train byte) (trainbus.Speed, bool) {
	for _, e := range t.entries {
		if e.Train == train {
			return e.Speed, true
		}
	}
	return 0, false
}

// Set records the speed of a train, adding it if new.
func (t *SpeedTable) Set(train byte, speed trainbus.Speed) error {
	for i := range t.entries {
		if t.entries[i].Train == train {
			t.entries[i].Speed = speed
			return nil
		}
	}
	if len(t.entries) >= MaxTrains {
		return ErrTableFull
	}
	t.entries = append(t.entries, console.TrainStatus{Train: train, Speed: speed})
	return nil
}

// Entries lists the table. It aliases the table until the next Set.
func (t *SpeedTable) Entries() []console.TrainStatus {
	return t.entries
}

// Len returns the number of trains.
func (t *SpeedTable) Len() int {
	return len(t.entries)
}

// Phase is the state of the reversal sequence.
type Phase int

// Reversal phases
const (
	Idle Phase = iota
	Decelerating
	Settling
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Decelerating:
		return "decelerating"
	case Settling:
		return "settling"
	}
	return "idle"
}

// Reversal is the reversal sequence, at most one system-wide.
type Reversal struct {
	Phase         Phase
	Train         byte
	OriginalSpeed trainbus.Speed
	PhaseStart    uint32
}

// SwitchHold tracks the energized solenoid, at most one system-wide.
type SwitchHold struct {
	Active bool
	Since  uint32
}
