package console

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUptimeClock(t *testing.T) {
	testCases := []struct {
		name    string
		advance int
		expect  string
	}{
		{"zero", 0, "000:00:00"},
		{"tenth", 1, "000:00:10"},
		{"second", 10, "000:01:00"},
		{"minute", 600, "001:00:00"},
		{"last before wrap", 599999, "999:59:90"},
		{"wrap", 600000, "000:00:00"},
		{"long run", 1000073, "666:47:30"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var c UptimeClock
			for i := 0; i < tc.advance; i++ {
				c.Advance()
			}
			require.Equal(t, tc.expect, c.String())
			require.Len(t, c.AppendTo(nil), ClockWidth)
		})
	}
}

func TestLineBuffer(t *testing.T) {
	var l LineBuffer
	require.False(t, l.Backspace())
	require.False(t, l.Append(KeyReturn))
	for _, b := range []byte("tr 1 2") {
		require.True(t, l.Append(b))
	}
	require.Equal(t, "tr 1 2", string(l.Bytes()))
	require.True(t, l.Backspace())
	require.Equal(t, "tr 1 ", string(l.Bytes()))
	l.Reset()
	require.Equal(t, 0, l.Len())
	for i := 0; i < LineCapacity; i++ {
		require.True(t, l.Append('x'))
	}
	require.False(t, l.Append('y'))
	require.Equal(t, LineCapacity, l.Len())
}
