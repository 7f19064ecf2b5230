package trainbus

// SwitchSlots is the number of switches on the layout.
const SwitchSlots = 22

// Switch id ranges: 1..18 are regular switches, 153..156 belong to the
// center crossover.
const (
	FirstSwitch       = 1
	LastSwitch        = 18
	FirstCenterSwitch = 153
	LastCenterSwitch  = 156
)

// SwitchSlot maps a switch id to its table slot.
func SwitchSlot(id int) (int, bool) {
	switch {
	case id >= FirstSwitch && id <= LastSwitch:
		return id - FirstSwitch, true
	case id >= FirstCenterSwitch && id <= LastCenterSwitch:
		return id - FirstCenterSwitch + LastSwitch, true
	}
	return -1, false
}

// SwitchID maps a table slot back to the switch id.
func SwitchID(slot int) int {
	if slot < LastSwitch {
		return slot + FirstSwitch
	}
	return slot - LastSwitch + FirstCenterSwitch
}

// SwitchState is the last commanded position of a switch.
type SwitchState int

// Switch states
const (
	SwitchUnknown SwitchState = iota
	SwitchStraight
	SwitchCurved
)

// String implements fmt.Stringer.
func (s SwitchState) String() string {
	switch s {
	case SwitchStraight:
		return "S"
	case SwitchCurved:
		return "C"
	}
	return "?"
}
