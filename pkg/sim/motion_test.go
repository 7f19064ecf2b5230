package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMotionAdvance(t *testing.T) {
	testCases := []struct {
		name    string
		current float64
		desired float64
		accel   float64
		secs    float64
		expect  float64
		final   float64
	}{
		{name: "no accel", desired: 1, secs: 1, expect: 1, final: 1},
		{name: "no accel reverse", desired: -1, secs: 1, expect: -1, final: -1},
		{name: "before accel ends", desired: 2, accel: 1, secs: 1, expect: 0.5, final: 1},
		{name: "at accel ends", desired: 2, accel: 1, secs: 2, expect: 2, final: 2},
		{name: "after accel ends", desired: 2, accel: 1, secs: 3, expect: 4, final: 2},
		{name: "reduce speed before accel ends", current: 2, accel: 1, secs: 1, expect: 1.5, final: 1},
		{name: "reduce speed at accel ends", current: 2, accel: 1, secs: 2, expect: 2},
		{name: "reduce speed after accel ends", current: 2, accel: 1, secs: 3, expect: 2},
		{name: "reduce speed and reverse", current: 2, desired: -1, accel: 1, secs: 4, expect: 0.5, final: -1},
		{name: "no time", current: 2, accel: 1, final: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := motion{current: tc.current, desired: tc.desired, accel: tc.accel}
			require.Equal(t, tc.expect, m.advance(tc.secs))
			require.Equal(t, tc.final, m.current)
		})
	}
}
