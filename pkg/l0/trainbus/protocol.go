// Package trainbus encodes and decodes the binary train-bus protocol.
//
// Every command is one or two bytes:
//
//	speed-set         [speed, train]
//	direction-toggle  [15, train]
//	switch-straight   [33, switch]
//	switch-curved     [34, switch]
//	solenoid-release  [32]
//	feedback-poll     [133]
package trainbus

import (
	"errors"
	"fmt"
)

// Opcodes
const (
	OpToggleDirection  byte = byte(SpeedToggle)
	OpReleaseSolenoids byte = 32
	OpSwitchStraight   byte = 33
	OpSwitchCurved     byte = 34
	OpPollFeedback     byte = 133
)

var (
	// ErrUnknownOpcode indicates a byte which starts no known command.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// Command is a train-bus command.
type Command interface {
	// AppendTo appends the wire encoding to buf.
	AppendTo(buf []byte) []byte
	String() string
}

// SetSpeed sets the speed of a train.
type SetSpeed struct {
	Train byte
	Speed Speed
}

// AppendTo implements Command.
func (c SetSpeed) AppendTo(buf []byte) []byte {
	return append(buf, byte(c.Speed), c.Train)
}

func (c SetSpeed) String() string {
	return fmt.Sprintf("speed(%d, %s)", c.Train, c.Speed)
}

// ToggleDirection flips the direction relay of a stopped train.
type ToggleDirection struct {
	Train byte
}

// AppendTo implements Command.
func (c ToggleDirection) AppendTo(buf []byte) []byte {
	return append(buf, OpToggleDirection, c.Train)
}

func (c ToggleDirection) String() string {
	return fmt.Sprintf("toggle(%d)", c.Train)
}

// ThrowSwitch energizes the solenoid of a switch.
type ThrowSwitch struct {
	Switch   byte
	Straight bool
}

// AppendTo implements Command.
func (c ThrowSwitch) AppendTo(buf []byte) []byte {
	if c.Straight {
		return append(buf, OpSwitchStraight, c.Switch)
	}
	return append(buf, OpSwitchCurved, c.Switch)
}

func (c ThrowSwitch) String() string {
	if c.Straight {
		return fmt.Sprintf("switch(%d, S)", c.Switch)
	}
	return fmt.Sprintf("switch(%d, C)", c.Switch)
}

// ReleaseSolenoids de-energizes all switch solenoids.
type ReleaseSolenoids struct{}

// AppendTo implements Command.
func (ReleaseSolenoids) AppendTo(buf []byte) []byte {
	return append(buf, OpReleaseSolenoids)
}

func (ReleaseSolenoids) String() string { return "release" }

// PollFeedback requests one feedback cycle from the sensor decoders.
type PollFeedback struct{}

// AppendTo implements Command.
func (PollFeedback) AppendTo(buf []byte) []byte {
	return append(buf, OpPollFeedback)
}

func (PollFeedback) String() string { return "poll" }

// Encode encodes commands back to back.
func Encode(cmds ...Command) []byte {
	var buf []byte
	for _, cmd := range cmds {
		buf = cmd.AppendTo(buf)
	}
	return buf
}

type decodeState int

const (
	stateOpcode decodeState = iota // waiting for the first byte
	stateSpeedTrain                // speed received, waiting for train
	stateToggleTrain               // toggle received, waiting for train
	stateSwitchID                  // switch opcode received, waiting for switch id
)

// Decoder decodes commands from a byte stream one byte at a time.
type Decoder struct {
	state decodeState
	first byte
}

// Decode consumes one byte. It returns a Command once the last byte of
// a command arrives. Unknown opcodes are reported and skipped.
func (d *Decoder) Decode(b byte) (Command, error) {
	switch d.state {
	case stateSpeedTrain:
		d.state = stateOpcode
		return SetSpeed{Train: b, Speed: Speed(d.first)}, nil
	case stateToggleTrain:
		d.state = stateOpcode
		return ToggleDirection{Train: b}, nil
	case stateSwitchID:
		d.state = stateOpcode
		return ThrowSwitch{Switch: b, Straight: d.first == OpSwitchStraight}, nil
	}
	switch {
	case b == OpToggleDirection:
		d.state = stateToggleTrain
	case Speed(b).Valid():
		d.state, d.first = stateSpeedTrain, b
	case b == OpReleaseSolenoids:
		return ReleaseSolenoids{}, nil
	case b == OpSwitchStraight || b == OpSwitchCurved:
		d.state, d.first = stateSwitchID, b
	case b == OpPollFeedback:
		return PollFeedback{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, b)
	}
	return nil, nil
}

// MaxCommandLength is the length of the longest command.
const MaxCommandLength = 2

// CommandLength returns the length of the command starting with op.
// Unknown opcodes count as one byte so they can be skipped.
func CommandLength(op byte) int {
	switch {
	case op == OpToggleDirection, Speed(op).Valid(),
		op == OpSwitchStraight, op == OpSwitchCurved:
		return 2
	}
	return 1
}

// WholeCommands returns the length of the longest prefix of data made
// of complete commands.
func WholeCommands(data []byte) int {
	n := 0
	for n < len(data) {
		l := CommandLength(data[n])
		if n+l > len(data) {
			break
		}
		n += l
	}
	return n
}

// Pending indicates a command is partially received.
func (d *Decoder) Pending() bool {
	return d.state != stateOpcode
}

// Reset drops a partially received command.
func (d *Decoder) Reset() {
	d.state = stateOpcode
}

// DecodeAll decodes a complete byte sequence.
func DecodeAll(data []byte) ([]Command, error) {
	var d Decoder
	var cmds []Command
	for _, b := range data {
		cmd, err := d.Decode(b)
		if err != nil {
			return cmds, err
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if d.Pending() {
		return cmds, fmt.Errorf("truncated command")
	}
	return cmds, nil
}
