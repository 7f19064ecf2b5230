package control

import (
	"github.com/golang/glog"

	"github.com/robotalks/trainctl/pkg/console"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

// CommandFromMsg converts a remote command into a console command.
// It returns Invalid for values the console grammar would not accept.
func CommandFromMsg(msg fx.Message) (console.Command, bool) {
	switch m := msg.(type) {
	case *msgs.TrainSetSpeed:
		if m.Train > MaxTrains || m.Speed > uint32(trainbus.MaxSpeed) {
			return console.Command{}, true
		}
		return console.Command{Kind: console.SetSpeed, Train: byte(m.Train), Speed: trainbus.Speed(m.Speed)}, true
	case *msgs.TrainReverse:
		if m.Train > MaxTrains {
			return console.Command{}, true
		}
		return console.Command{Kind: console.Reverse, Train: byte(m.Train)}, true
	case *msgs.SwitchThrow:
		if _, ok := trainbus.SwitchSlot(int(m.Switch)); !ok {
			return console.Command{}, true
		}
		return console.Command{Kind: console.Switch, Switch: int(m.Switch), Straight: m.Straight}, true
	}
	return console.Command{}, false
}

// handleRemote applies commands received by the Registrar. They pass
// the same gate as console lines.
func (c *Controller) handleRemote(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		if _, ok := cmdMsg.Command.Msg().(*msgs.ConsoleStatusQuery); ok {
			mctx.MessageTaken()
			cmdMsg.Command.Done(&msgs.ConsoleStatusReply{Status: c.Status()})
			return
		}
		cmd, ok := CommandFromMsg(cmdMsg.Command.Msg())
		if !ok {
			return
		}
		mctx.MessageTaken()
		var reply fx.Message = msgs.NewCommandOK()
		if err := c.Apply(cc, cmd); err != nil {
			reply = msgs.NewCommandErr(err)
		}
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Warningf("reply %s: %v", cmd, err)
		}
	}))
	return nil
}

func (c *Controller) publish(cc fx.ControlContext, msg fx.Message) {
	if c.Registrar == nil {
		return
	}
	if err := c.Registrar.SendEvent(cc.Context(), msg); err != nil {
		glog.V(2).Infof("publish: %v", err)
	}
}

// Status builds the ConsoleStatus event from the tables.
func (c *Controller) Status() *msgs.ConsoleStatus {
	st := &msgs.ConsoleStatus{
		Uptime:  c.clock.String(),
		Blocked: c.Blocked(),
		Perf: &msgs.PerfCounters{
			LoopUs:         c.perf.LoopCur,
			LoopMaxUs:      c.perf.LoopMax,
			FirstByteUs:    c.perf.FirstCur,
			FirstByteMaxUs: c.perf.FirstMax,
			CycleUs:        c.perf.FullCur,
			CycleMaxUs:     c.perf.FullMax,
		},
	}
	for _, e := range c.speeds.Entries() {
		st.Trains = append(st.Trains, &msgs.TrainSpeed{Train: uint32(e.Train), Speed: uint32(e.Speed)})
	}
	for slot, state := range c.switches {
		st.Switches = append(st.Switches, &msgs.SwitchPosition{
			Switch:   uint32(trainbus.SwitchID(slot)),
			Position: switchPosition(state),
		})
	}
	for _, hit := range c.decoder.Log.Recent() {
		st.Sensors = append(st.Sensors, sensorHit(hit))
	}
	return st
}

func switchPosition(s trainbus.SwitchState) uint32 {
	switch s {
	case trainbus.SwitchStraight:
		return msgs.SwitchStraight
	case trainbus.SwitchCurved:
		return msgs.SwitchCurved
	}
	return msgs.SwitchUnknown
}

func sensorHit(h feedback.Hit) *msgs.SensorHit {
	return &msgs.SensorHit{Group: string(h.Group), Sensor: uint32(h.Sensor)}
}

func sensorTriggered(h feedback.Hit) *msgs.SensorTriggered {
	return &msgs.SensorTriggered{Hit: sensorHit(h)}
}
