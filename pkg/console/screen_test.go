package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

func TestScreenFirstFrameClears(t *testing.T) {
	s := &Screen{Title: "Train control"}
	st := &Status{Uptime: &UptimeClock{}, Line: []byte("tr 1")}
	first := string(s.Compose(nil, st))
	require.True(t, strings.HasPrefix(first, ClearScreen))
	require.Contains(t, first, "\x1b[1;1HTrain control  uptime 000:00:00"+ClearLine)
	require.Contains(t, first, "\x1b[2;1H> tr 1"+ClearLine)
	require.Contains(t, first, "Trains: none")
	require.True(t, strings.HasSuffix(first, "\x1b[2;7H"))

	second := string(s.Compose(nil, st))
	require.False(t, strings.Contains(second, ClearScreen))
	require.True(t, strings.HasPrefix(second, "\x1b[1;1H"))

	s.Redraw()
	require.True(t, strings.HasPrefix(string(s.Compose(nil, st)), ClearScreen))
}

func TestScreenContent(t *testing.T) {
	var log feedback.ActivityLog
	log.Add(feedback.Hit{Group: 'B', Sensor: 3})
	log.Add(feedback.Hit{Group: 'B', Sensor: 7})
	st := &Status{
		Blocked: true,
		Line:    []byte("ignored"),
		Trains: []TrainStatus{
			{Train: 24, Speed: 10},
			{Train: 1, Speed: 21},
		},
		Sensors: &log,
		Perf:    PerfStatus{LoopCur: 12, LoopMax: 340, FirstCur: 900, FirstMax: 1100, FullCur: 8000, FullMax: 9100},
	}
	slot, _ := trainbus.SwitchSlot(153)
	st.Switches[slot] = trainbus.SwitchStraight
	st.Switches[0] = trainbus.SwitchCurved
	out := string((&Screen{}).Compose(nil, st))
	require.Contains(t, out, "> (in progress)")
	require.NotContains(t, out, "ignored")
	require.Contains(t, out, "  24:F10   1:R05")
	require.Contains(t, out, "    1:C    2:?")
	require.Contains(t, out, "  153:S  154:?")
	require.Contains(t, out, "Sensors:  B03  [B07]  -- ")
	require.Contains(t, out, "Loop 12us/340us  Feedback first 900us/1100us  full 8000us/9100us")
	require.True(t, strings.HasSuffix(out, "\x1b[2;3H"))
}
