package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, msg SerializableMessage) (*Typed, interface{}) {
	typed, err := TypedFrom(msg)
	require.NoError(t, err)
	typed.Sequence = 7
	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decoded.Sequence)
	out, err := decoded.Decode()
	require.NoError(t, err)
	return decoded, out
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		name    string
		msg     SerializableMessage
		command bool
	}{
		{"set speed", &TrainSetSpeed{Train: 24, Speed: 21}, true},
		{"reverse", &TrainReverse{Train: 3}, true},
		{"switch", &SwitchThrow{Switch: 153, Straight: true}, true},
		{"status query", &ConsoleStatusQuery{}, true},
		{"ok", NewCommandOK(), true},
		{"err", NewCommandErrFromMsg("blocked"), true},
		{"sensor", &SensorTriggered{Hit: &SensorHit{Group: "B", Sensor: 7}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, out := roundTrip(t, tc.msg)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, !tc.command, typed.IsEvent())
			require.Equal(t, tc.msg, out)
		})
	}
}

func TestConsoleStatusRoundTrip(t *testing.T) {
	status := &ConsoleStatus{
		Uptime:  "001:02:30",
		Blocked: true,
		Trains:  []*TrainSpeed{{Train: 24, Speed: 10}, {Train: 1, Speed: 16}},
		Switches: []*SwitchPosition{
			{Switch: 1, Position: SwitchCurved},
			{Switch: 153, Position: SwitchStraight},
		},
		Sensors: []*SensorHit{{Group: "B", Sensor: 3}},
		Perf:    &PerfCounters{LoopUs: 12, LoopMaxUs: 340, CycleUs: 9000},
	}
	_, out := roundTrip(t, &ConsoleStatusReply{Status: status})
	require.Equal(t, status, out.(*ConsoleStatusReply).Status)
}

func TestTypedErrors(t *testing.T) {
	_, err := TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)

	typed := &Typed{TypeId: GroupCustom | 0x42}
	_, err = typed.Decode()
	require.Error(t, err)
	require.IsType(t, &ErrUnknownType{}, err)
	require.Equal(t, "blocked", NewCommandErrFromMsg("blocked").Error())
}
