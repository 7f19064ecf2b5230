package control

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/console"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

type recordingRegistrar struct {
	events []fx.Message
}

func (r *recordingRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func statusEvents(events []fx.Message) []*msgs.ConsoleStatus {
	var out []*msgs.ConsoleStatus
	for _, ev := range events {
		if st, ok := ev.(*msgs.ConsoleStatus); ok {
			out = append(out, st)
		}
	}
	return out
}

func sensorEvents(events []fx.Message) []string {
	var out []string
	for _, ev := range events {
		if st, ok := ev.(*msgs.SensorTriggered); ok {
			out = append(out, st.Hit.Group+strconv.Itoa(int(st.Hit.Sensor)))
		}
	}
	return out
}

type sentCommand struct {
	tick uint32
	cmd  trainbus.Command
}

type harness struct {
	t     *testing.T
	ctx   context.Context
	clock *fx.ManualTicks
	loop  *fx.Loop
	ctl   *Controller
	con   *comm.RingChannel
	bus   *comm.RingChannel
	reg   *recordingRegistrar
	dec   trainbus.Decoder
}

func newHarness(t *testing.T, withFeedback bool) *harness {
	return newHarnessAt(t, 0, withFeedback)
}

func newHarnessAt(t *testing.T, start uint32, withFeedback bool) *harness {
	h := &harness{
		t:     t,
		ctx:   context.Background(),
		clock: fx.NewManualTicks(start),
		con:   comm.NewRingChannel(64, 1<<16),
		bus:   comm.NewRingChannel(64, 256),
		reg:   &recordingRegistrar{},
	}
	var fb comm.Channel
	if withFeedback {
		fb = h.bus
	}
	ctl, err := NewConfig().NewController(h.con, h.bus, fb)
	require.NoError(t, err)
	ctl.Registrar = h.reg
	h.ctl = ctl
	h.loop = fx.NewPollingLoop(h.clock)
	h.loop.Add(ctl)
	h.loop.Step(h.ctx)
	return h
}

// keys feeds one byte per iteration without advancing the clock.
func (h *harness) keys(s string) {
	for i := 0; i < len(s); i++ {
		h.con.Inject(s[i])
		h.loop.Step(h.ctx)
	}
}

func (h *harness) drainBus() []trainbus.Command {
	var cmds []trainbus.Command
	for _, b := range h.bus.Drain() {
		cmd, err := h.dec.Decode(b)
		require.NoError(h.t, err)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// runTo advances the clock by step until end and records the train bus.
func (h *harness) runTo(end, step uint32) []sentCommand {
	var out []sentCommand
	for h.clock.Ticks() < end {
		h.clock.Advance(step)
		h.loop.Step(h.ctx)
		for _, cmd := range h.drainBus() {
			out = append(out, sentCommand{tick: h.clock.Ticks(), cmd: cmd})
		}
	}
	return out
}

func TestReversalSequence(t *testing.T) {
	h := newHarness(t, false)
	h.keys("tr 5 5\r")
	require.Equal(t, []trainbus.Command{trainbus.SetSpeed{Train: 5, Speed: 5}}, h.drainBus())

	h.keys("rv 5\r")
	r := h.ctl.Reversal()
	assert.Equal(t, Decelerating, r.Phase)
	assert.Equal(t, trainbus.Speed(5), r.OriginalSpeed)
	assert.True(t, h.ctl.Blocked())

	// typed while decelerating, dropped.
	h.keys("rv 5\r")
	assert.Equal(t, 0, h.ctl.line.Len())

	sent := h.runTo(3000000, 10000)
	decel := uint32(500000 + 5*250000)
	assert.Equal(t, []sentCommand{
		{tick: 100000, cmd: trainbus.SetSpeed{Train: 5, Speed: 0}},
		{tick: decel, cmd: trainbus.ToggleDirection{Train: 5}},
		{tick: decel + 500000, cmd: trainbus.SetSpeed{Train: 5, Speed: 5}},
	}, sent)
	assert.Equal(t, Idle, h.ctl.Reversal().Phase)
	assert.False(t, h.ctl.Blocked())
	assert.Equal(t, []console.TrainStatus{{Train: 5, Speed: 5}}, h.ctl.Speeds())
}

func TestReversalOfReverseSpeed(t *testing.T) {
	h := newHarness(t, false)
	h.keys("tr 7 18\r")
	h.drainBus()
	h.keys("rv 7\r")
	sent := h.runTo(2000000, 10000)
	require.Len(t, sent, 3)
	assert.Equal(t, trainbus.SetSpeed{Train: 7, Speed: 16}, sent[0].cmd)
	assert.Equal(t, uint32(500000+2*250000), sent[1].tick)
	assert.Equal(t, trainbus.SetSpeed{Train: 7, Speed: 18}, sent[2].cmd)
}

func TestReverseUnknownTrain(t *testing.T) {
	h := newHarness(t, false)
	h.keys("rv 3\r")
	assert.Equal(t, Idle, h.ctl.Reversal().Phase)
	assert.False(t, h.ctl.Blocked())
	assert.Empty(t, h.runTo(1000000, 50000))
}

func TestSwitchHold(t *testing.T) {
	h := newHarness(t, false)
	h.keys("sw 153 S\r")
	assert.Equal(t, trainbus.SwitchStraight, h.ctl.Switch(153))
	assert.Equal(t, trainbus.SwitchStraight, h.ctl.switches[18])
	assert.True(t, h.ctl.Blocked())
	require.Equal(t, []trainbus.Command{trainbus.ThrowSwitch{Switch: 153, Straight: true}}, h.drainBus())

	// keystrokes are dropped while held.
	h.keys("x")
	assert.Equal(t, 0, h.ctl.line.Len())

	sent := h.runTo(1000000, 10000)
	assert.Equal(t, []sentCommand{{tick: 150000, cmd: trainbus.ReleaseSolenoids{}}}, sent)
	assert.False(t, h.ctl.Blocked())

	h.keys(" sw 1  C\r")
	assert.Equal(t, trainbus.SwitchCurved, h.ctl.Switch(1))
	assert.Equal(t, []trainbus.Command{trainbus.ThrowSwitch{Switch: 1}}, h.drainBus())
}

func TestInvalidLinesHaveNoEffect(t *testing.T) {
	h := newHarness(t, false)
	for _, line := range []string{"tr 6 93\r", "sw 32 S\r", "xx\r", "\r", "tr 1 31\r"} {
		h.keys(line)
		assert.Equal(t, 0, h.ctl.line.Len(), line)
	}
	assert.Empty(t, h.ctl.Speeds())
	assert.Empty(t, h.drainBus())
}

func TestPacing(t *testing.T) {
	h := newHarness(t, false)
	h.keys("tr 1 5\r")
	h.keys("tr 2 6\r")
	h.keys("tr 3 7\r")
	first := h.drainBus()
	assert.Equal(t, []trainbus.Command{trainbus.SetSpeed{Train: 1, Speed: 5}}, first)
	assert.Equal(t, []sentCommand{
		{tick: 100000, cmd: trainbus.SetSpeed{Train: 2, Speed: 6}},
		{tick: 200000, cmd: trainbus.SetSpeed{Train: 3, Speed: 7}},
	}, h.runTo(500000, 10000))
	assert.Equal(t, []console.TrainStatus{
		{Train: 1, Speed: 5}, {Train: 2, Speed: 6}, {Train: 3, Speed: 7},
	}, h.ctl.Speeds())
}

func TestPacingSendsWholeCommands(t *testing.T) {
	h := newHarness(t, false)
	// the 1-byte release leaves the queue at an odd offset.
	h.keys("sw 1 S\r")
	h.runTo(1000000, 10000)
	require.False(t, h.ctl.Blocked())

	count := 0
	checkSlot := func(msg string) {
		sent := h.bus.Drain()
		require.LessOrEqual(t, len(sent), 2, msg)
		for _, b := range sent {
			cmd, err := h.dec.Decode(b)
			require.NoError(t, err, msg)
			if _, ok := cmd.(trainbus.SetSpeed); ok {
				count++
			}
		}
		require.False(t, h.dec.Pending(), msg)
	}
	for round := 0; round < 10; round++ {
		for i := 0; i < 20; i++ {
			h.keys(fmt.Sprintf("tr %d %d\r", i+round, i%15))
			checkSlot(fmt.Sprintf("round %d key %d", round, i))
		}
		for slot := 0; slot < 100 && !h.ctl.trainOut.Empty(); slot++ {
			h.clock.Advance(100000)
			h.loop.Step(h.ctx)
			checkSlot(fmt.Sprintf("round %d slot %d", round, slot))
		}
		require.True(t, h.ctl.trainOut.Empty())
	}
	assert.Equal(t, 200, count)
}

func TestFeedbackPollSuppressesCommands(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, []trainbus.Command{trainbus.PollFeedback{}}, h.drainBus())
	assert.True(t, h.ctl.decoder.State().Outstanding)

	h.keys("tr 1 5\r")
	assert.Empty(t, h.runTo(200000, 10000))

	h.bus.Inject(feedback.Encode(feedback.Hit{Group: 'B', Sensor: 3}, feedback.Hit{Group: 'B', Sensor: 7})...)
	sent := h.runTo(400000, 10000)
	assert.Equal(t, []sentCommand{
		{tick: 220000, cmd: trainbus.SetSpeed{Train: 1, Speed: 5}},
		{tick: 320000, cmd: trainbus.PollFeedback{}},
	}, sent)

	perf := h.ctl.Perf()
	assert.Equal(t, uint32(210000), perf.FirstCur)
	assert.Equal(t, uint32(210000), perf.FullCur)
	assert.Equal(t, uint32(210000), perf.FullMax)
	latest, ok := h.ctl.decoder.Log.Latest()
	require.True(t, ok)
	assert.Equal(t, feedback.Hit{Group: 'B', Sensor: 7}, latest)

	assert.Equal(t, []string{"B3", "B7"}, sensorEvents(h.reg.events))
}

func TestFeedbackTimeout(t *testing.T) {
	h := newHarness(t, true)
	h.drainBus()
	sent := h.runTo(1500000, 10000)
	assert.Equal(t, []sentCommand{{tick: 1000000, cmd: trainbus.PollFeedback{}}}, sent)
}

func TestUnsolicitedFeedbackIgnored(t *testing.T) {
	h := newHarness(t, true)
	h.ctl.timing.feedback = 0
	require.Equal(t, []trainbus.Command{trainbus.PollFeedback{}}, h.drainBus())
	h.ctl.decoder.Reset()

	// a lone byte arrives with no cycle outstanding.
	h.bus.Inject(0x80)
	h.loop.Step(h.ctx)
	require.False(t, h.ctl.decoder.State().Idle())
	require.False(t, h.ctl.decoder.State().Outstanding)

	h.keys("tr 4 9\r")
	assert.Equal(t, []sentCommand{
		{tick: 100000, cmd: trainbus.SetSpeed{Train: 4, Speed: 9}},
		{tick: 200000, cmd: trainbus.PollFeedback{}},
	}, h.runTo(250000, 10000))
}

func TestRedrawLatestFrameWins(t *testing.T) {
	h := &harness{t: t, ctx: context.Background(), clock: fx.NewManualTicks(0)}
	h.con = comm.NewRingChannel(64, 32)
	h.bus = comm.NewRingChannel(64, 256)
	ctl, err := NewConfig().NewController(h.con, h.bus, nil)
	require.NoError(t, err)
	h.ctl = ctl
	h.loop = fx.NewPollingLoop(h.clock)
	h.loop.Add(ctl)
	h.loop.Step(h.ctx)

	first := string(ctl.consoleOut.Bytes())
	assert.NotEmpty(t, first)

	h.clock.Advance(50000)
	h.loop.Step(h.ctx)
	assert.Equal(t, first, string(ctl.consoleOut.Bytes()))

	h.clock.Advance(50000)
	h.loop.Step(h.ctx)
	frame := string(ctl.consoleOut.Bytes())
	assert.Equal(t, string(ctl.frame), frame)
	assert.False(t, strings.Contains(frame, console.ClearScreen))
	assert.Contains(t, frame, "uptime 000:00:10")
}

func TestRedrawAcrossWrap(t *testing.T) {
	h := newHarnessAt(t, 4294967000, false)
	assert.Equal(t, RedrawWrapFallback, h.ctl.lastRedraw)
	assert.Equal(t, "000:00:00", h.ctl.clock.String())

	h.clock.Advance(1000)
	h.loop.Step(h.ctx)
	assert.Equal(t, "000:00:00", h.ctl.clock.String())

	h.clock.Set(40000)
	h.loop.Step(h.ctx)
	assert.Equal(t, "000:00:10", h.ctl.clock.String())
	assert.Equal(t, uint32(0), h.ctl.lastRedraw)

	for tick := uint32(50000); tick < 100000; tick += 10000 {
		h.clock.Set(tick)
		h.loop.Step(h.ctx)
	}
	assert.Equal(t, "000:00:10", h.ctl.clock.String())
	h.clock.Set(100000)
	h.loop.Step(h.ctx)
	assert.Equal(t, "000:00:20", h.ctl.clock.String())
}

func TestNextRedraw(t *testing.T) {
	testCases := []struct {
		name      string
		last, now uint32
		expected  uint32
	}{
		{"rounds down", 0, 250000, 200000},
		{"exact", 100000, 200000, 200000},
		{"wrapped", 4294800000, 10, RedrawWrapFallback},
		{"after fallback", RedrawWrapFallback, 50000, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, nextRedraw(tc.last, tc.now))
		})
	}
	assert.Equal(t, uint32(4294900000), RedrawWrapFallback)
}

func TestInputEcho(t *testing.T) {
	h := newHarness(t, false)
	out := string(h.con.Drain())
	assert.True(t, strings.HasPrefix(out, console.HideCursor+console.ClearScreen+"Train Control\r\n"))

	h.keys("tr\x7f")
	assert.Equal(t, "tr\b \b", string(h.con.Drain()))
	assert.Equal(t, "t", string(h.ctl.line.Bytes()))

	h.keys("\x08\x08")
	assert.Equal(t, "\b \b", string(h.con.Drain()))
	assert.Equal(t, 0, h.ctl.line.Len())

	h.keys(strings.Repeat("a", console.LineCapacity+5))
	assert.Equal(t, strings.Repeat("a", console.LineCapacity), string(h.con.Drain()))
}

func TestQuit(t *testing.T) {
	h := newHarness(t, false)
	h.keys("tr 1 5")
	h.keys("\r")
	h.con.Drain()
	h.keys("q\r")
	assert.True(t, h.loop.Stopped())
	out := string(h.con.Drain())
	assert.True(t, strings.HasSuffix(out, console.ShowCursor+Farewell+"\r\n"), out)
}

func TestStatusEventOnRedraw(t *testing.T) {
	h := newHarness(t, false)
	require.Len(t, statusEvents(h.reg.events), 1)

	h.runTo(300000, 100000)
	assert.Len(t, statusEvents(h.reg.events), 1)

	h.keys("tr 24 10\r")
	h.runTo(400000, 100000)
	statuses := statusEvents(h.reg.events)
	require.Len(t, statuses, 2)
	require.Len(t, statuses[1].Trains, 1)
	assert.Equal(t, uint32(24), statuses[1].Trains[0].Train)
	assert.Equal(t, uint32(10), statuses[1].Trains[0].Speed)
	assert.Len(t, statuses[1].Switches, trainbus.SwitchSlots)
}
