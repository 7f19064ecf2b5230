package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/console"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

type fakeCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *fakeCommand) Msg() fx.Message { return c.msg }

func (c *fakeCommand) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

func (h *harness) remote(msg fx.Message) fx.Message {
	cmd := &fakeCommand{msg: msg}
	h.loop.PostMessage(&l1.CommandMsg{Command: cmd})
	h.loop.Step(h.ctx)
	require.NotNil(h.t, cmd.reply, "no reply for %v", msg)
	return cmd.reply
}

func TestCommandFromMsg(t *testing.T) {
	testCases := []struct {
		name     string
		msg      fx.Message
		expected console.Command
		ok       bool
	}{
		{"speed", &msgs.TrainSetSpeed{Train: 24, Speed: 10},
			console.Command{Kind: console.SetSpeed, Train: 24, Speed: 10}, true},
		{"speed out of range", &msgs.TrainSetSpeed{Train: 24, Speed: 31}, console.Command{}, true},
		{"train out of range", &msgs.TrainSetSpeed{Train: 100, Speed: 1}, console.Command{}, true},
		{"reverse", &msgs.TrainReverse{Train: 3},
			console.Command{Kind: console.Reverse, Train: 3}, true},
		{"switch", &msgs.SwitchThrow{Switch: 156, Straight: true},
			console.Command{Kind: console.Switch, Switch: 156, Straight: true}, true},
		{"switch out of range", &msgs.SwitchThrow{Switch: 32}, console.Command{}, true},
		{"other", &msgs.ConsoleStatus{}, console.Command{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := CommandFromMsg(tc.msg)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, cmd)
		})
	}
}

func TestRemoteCommands(t *testing.T) {
	h := newHarness(t, false)

	assert.IsType(t, &msgs.CommandOK{}, h.remote(&msgs.TrainSetSpeed{Train: 24, Speed: 10}))
	assert.Equal(t, []trainbus.Command{trainbus.SetSpeed{Train: 24, Speed: 10}}, h.drainBus())

	reply := h.remote(&msgs.TrainReverse{Train: 3})
	require.IsType(t, &msgs.CommandErr{}, reply)
	assert.Equal(t, ErrUnknownTrain.Error(), reply.(*msgs.CommandErr).Message)

	reply = h.remote(&msgs.SwitchThrow{Switch: 32})
	require.IsType(t, &msgs.CommandErr{}, reply)
	assert.Equal(t, ErrInvalidCommand.Error(), reply.(*msgs.CommandErr).Message)

	assert.IsType(t, &msgs.CommandOK{}, h.remote(&msgs.SwitchThrow{Switch: 2, Straight: true}))
	reply = h.remote(&msgs.TrainSetSpeed{Train: 24, Speed: 0})
	require.IsType(t, &msgs.CommandErr{}, reply)
	assert.Equal(t, ErrBlocked.Error(), reply.(*msgs.CommandErr).Message)

	reply = h.remote(&msgs.ConsoleStatusQuery{})
	require.IsType(t, &msgs.ConsoleStatusReply{}, reply)
	st := reply.(*msgs.ConsoleStatusReply).Status
	assert.True(t, st.Blocked)
	require.Len(t, st.Trains, 1)
	assert.Equal(t, &msgs.TrainSpeed{Train: 24, Speed: 10}, st.Trains[0])
	require.Len(t, st.Switches, trainbus.SwitchSlots)
	assert.Equal(t, &msgs.SwitchPosition{Switch: 2, Position: msgs.SwitchStraight}, st.Switches[1])
	assert.Equal(t, &msgs.SwitchPosition{Switch: 153, Position: msgs.SwitchUnknown}, st.Switches[18])
}

func TestRemoteLeavesOtherMessages(t *testing.T) {
	h := newHarness(t, false)
	cmd := &fakeCommand{msg: &msgs.ConsoleStatus{}}
	h.loop.PostMessage(&l1.CommandMsg{Command: cmd})
	h.loop.Step(h.ctx)
	assert.Nil(t, cmd.reply)
}
