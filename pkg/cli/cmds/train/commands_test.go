package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

func TestParseArgs(t *testing.T) {
	msg, err := ParseSetSpeed([]string{"24", "10"})
	require.NoError(t, err)
	assert.Equal(t, &msgs.TrainSetSpeed{Train: 24, Speed: 10}, msg)

	_, err = ParseSetSpeed([]string{"24"})
	assert.Error(t, err)
	_, err = ParseSetSpeed([]string{"x", "1"})
	assert.Error(t, err)
	_, err = ParseSetSpeed([]string{"1", "300"})
	assert.Error(t, err)

	rv, err := ParseReverse([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, &msgs.TrainReverse{Train: 3}, rv)
	_, err = ParseReverse(nil)
	assert.Error(t, err)

	testCases := []struct {
		name   string
		args   []string
		expect *msgs.SwitchThrow
	}{
		{"straight", []string{"153", "S"}, &msgs.SwitchThrow{Switch: 153, Straight: true}},
		{"curved", []string{"7", "c"}, &msgs.SwitchThrow{Switch: 7}},
		{"bad position", []string{"7", "X"}, nil},
		{"missing position", []string{"7"}, nil},
		{"bad id", []string{"-1", "S"}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := ParseSwitchThrow(tc.args)
			if tc.expect == nil {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, msg)
		})
	}
}

func TestFormatStatus(t *testing.T) {
	st := &msgs.ConsoleStatus{
		Uptime:  "001:02:30",
		Blocked: true,
		Trains:  []*msgs.TrainSpeed{{Train: 24, Speed: 10}, {Train: 3, Speed: 21}},
		Switches: []*msgs.SwitchPosition{
			{Switch: 1, Position: msgs.SwitchStraight},
			{Switch: 2, Position: msgs.SwitchCurved},
			{Switch: 153},
		},
		Sensors: []*msgs.SensorHit{{Group: "B", Sensor: 7}, {Group: "B", Sensor: 3}},
		Perf:    &msgs.PerfCounters{LoopUs: 12, LoopMaxUs: 40},
	}
	assert.Equal(t,
		"uptime   001:02:30 (in progress)\n"+
			"trains   24:F10 3:R05\n"+
			"switches 1:S 2:C 153:?\n"+
			"sensors  B7 B3\n"+
			"perf     loop 12/40us first 0/0us cycle 0/0us",
		FormatStatus(st))

	assert.Equal(t,
		"uptime   000:00:00\ntrains   none\nswitches\nsensors  none",
		FormatStatus(&msgs.ConsoleStatus{Uptime: "000:00:00"}))
}
