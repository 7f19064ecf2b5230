package control

import (
	"github.com/golang/glog"

	"github.com/robotalks/trainctl/pkg/console"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/l1"
)

// Farewell is printed after the last frame on quit.
const Farewell = "Bye."

var pollCommand = trainbus.Encode(trainbus.PollFeedback{})

// Controller is the console control loop. It owns all tables and
// sequence state and runs as ordered controllers on a polling Loop.
// Every step is bounded and never waits on a channel.
type Controller struct {
	Config   *Config
	Console  comm.Channel
	TrainBus comm.Channel
	// Feedback may be nil to run without sensor polling.
	Feedback comm.Channel
	// Registrar optionally receives status and sensor events.
	Registrar l1.Registrar

	timing     timing
	clock      console.UptimeClock
	screen     console.Screen
	view       console.Status
	line       console.LineBuffer
	speeds     SpeedTable
	switches   [trainbus.SwitchSlots]trainbus.SwitchState
	reversal   Reversal
	hold       SwitchHold
	decoder    *feedback.Decoder
	consoleOut *comm.Ring
	trainOut   *comm.Ring
	frame      []byte
	encoded    []byte
	burst      []byte

	drawn         bool
	lastRedraw    uint32
	sent          bool
	lastSend      uint32
	requestTick   uint32
	perf          console.PerfStatus
	statusChanged bool
	quitting      bool
}

// NewController creates a Controller using the config.
func (c *Config) NewController(consoleCh, trainBus, feedbackCh comm.Channel) (*Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		Config:        c,
		Console:       consoleCh,
		TrainBus:      trainBus,
		Feedback:      feedbackCh,
		timing:        c.ticks(),
		screen:        console.Screen{Title: c.Title},
		decoder:       feedback.NewDecoder(),
		consoleOut:    comm.NewRing(c.Buffers.ConsoleOut),
		trainOut:      comm.NewRing(c.Buffers.TrainOut),
		burst:         make([]byte, c.PaceBurst),
		statusChanged: true,
	}, nil
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.PreRunAt(fx.PrLvTop, fx.ControlFunc(c.start))
	loop.AddController(fx.PrLvTop, fx.ControlFunc(c.redraw))
	loop.AddController(fx.PrLvHigh,
		fx.ControlFunc(c.advanceReversal),
		fx.ControlFunc(c.advanceHold))
	loop.AddController(fx.PrLvControl,
		fx.ControlFunc(c.assembleInput),
		fx.ControlFunc(c.handleRemote))
	loop.AddController(fx.PrLvAcuate,
		fx.ControlFunc(c.pace),
		fx.ControlFunc(c.receiveFeedback),
		fx.ControlFunc(c.drainConsole))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.measure))
}

// Blocked indicates a reversal or switch hold is in progress.
func (c *Controller) Blocked() bool {
	return c.reversal.Phase != Idle || c.hold.Active
}

// Reversal returns the reversal sequence state.
func (c *Controller) Reversal() Reversal {
	return c.reversal
}

// Speeds returns the speed table.
func (c *Controller) Speeds() []console.TrainStatus {
	return c.speeds.Entries()
}

// Switch returns the last commanded state of a switch.
func (c *Controller) Switch(id int) trainbus.SwitchState {
	if slot, ok := trainbus.SwitchSlot(id); ok {
		return c.switches[slot]
	}
	return trainbus.SwitchUnknown
}

// Perf returns the performance counters.
func (c *Controller) Perf() console.PerfStatus {
	return c.perf
}

// Apply executes a command at the current tick. Sequence timers start
// here, when the protocol bytes are queued, not when they leave.
func (c *Controller) Apply(cc fx.ControlContext, cmd console.Command) error {
	if cmd.Kind == console.Invalid {
		return ErrInvalidCommand
	}
	if c.Blocked() {
		return ErrBlocked
	}
	now := cc.Tick()
	switch cmd.Kind {
	case console.SetSpeed:
		if err := c.speeds.Set(cmd.Train, cmd.Speed); err != nil {
			return err
		}
		c.send(trainbus.SetSpeed{Train: cmd.Train, Speed: cmd.Speed})
	case console.Reverse:
		speed, ok := c.speeds.Lookup(cmd.Train)
		if !ok {
			return ErrUnknownTrain
		}
		stop := speed.Stop()
		c.send(trainbus.SetSpeed{Train: cmd.Train, Speed: stop})
		c.speeds.Set(cmd.Train, stop)
		c.reversal = Reversal{
			Phase:         Decelerating,
			Train:         cmd.Train,
			OriginalSpeed: speed,
			PhaseStart:    now,
		}
	case console.Switch:
		slot, ok := trainbus.SwitchSlot(cmd.Switch)
		if !ok {
			return ErrInvalidCommand
		}
		c.switches[slot] = trainbus.SwitchCurved
		if cmd.Straight {
			c.switches[slot] = trainbus.SwitchStraight
		}
		c.send(trainbus.ThrowSwitch{Switch: byte(cmd.Switch), Straight: cmd.Straight})
		c.hold = SwitchHold{Active: true, Since: now}
	case console.Quit:
		c.quit(cc)
		return nil
	}
	c.statusChanged = true
	return nil
}

func (c *Controller) send(cmd trainbus.Command) {
	c.encoded = cmd.AppendTo(c.encoded[:0])
	// commands are queued whole or not at all.
	if c.trainOut.Free() < len(c.encoded) {
		glog.V(2).Infof("queue %s: dropped, train bus queue full", cmd)
		return
	}
	c.trainOut.Enqueue(c.encoded)
	glog.V(3).Infof("queue %s", cmd)
}

func (c *Controller) start(cc fx.ControlContext) error {
	c.screen.Redraw()
	banner := console.HideCursor + console.ClearScreen + c.Config.Title + "\r\n"
	return c.Console.Send(cc.Context(), []byte(banner))
}

// nextRedraw rounds now down to an interval boundary. Right after the
// tick counter wrapped, the boundary before the wrap is used once.
func nextRedraw(last, now uint32) uint32 {
	if now >= last || last == RedrawWrapFallback {
		return now / RedrawInterval * RedrawInterval
	}
	return RedrawWrapFallback
}

func (c *Controller) redraw(cc fx.ControlContext) error {
	if c.quitting {
		return nil
	}
	now := cc.Tick()
	if c.drawn {
		if fx.ElapsedTicks(c.lastRedraw, now) < RedrawInterval {
			return nil
		}
		c.clock.Advance()
	}
	c.drawn = true
	c.lastRedraw = nextRedraw(c.lastRedraw, now)

	c.view = console.Status{
		Uptime:   &c.clock,
		Line:     c.line.Bytes(),
		Blocked:  c.Blocked(),
		Trains:   c.speeds.Entries(),
		Switches: c.switches,
		Sensors:  &c.decoder.Log,
		Perf:     c.perf,
	}
	c.frame = c.screen.Compose(c.frame[:0], &c.view)
	// an unsent frame is stale now.
	c.consoleOut.Reset()
	if n := c.consoleOut.Enqueue(c.frame); n < len(c.frame) {
		glog.V(3).Infof("frame truncated to %d of %d bytes", n, len(c.frame))
	}

	if c.statusChanged {
		c.statusChanged = false
		c.publish(cc, c.Status())
	}
	return nil
}

func (c *Controller) advanceReversal(cc fx.ControlContext) error {
	r := &c.reversal
	elapsed := fx.ElapsedTicks(r.PhaseStart, cc.Tick())
	switch r.Phase {
	case Decelerating:
		if elapsed >= c.timing.deceleration(r.OriginalSpeed) {
			c.send(trainbus.ToggleDirection{Train: r.Train})
			r.Phase, r.PhaseStart = Settling, cc.Tick()
		}
	case Settling:
		if elapsed >= c.timing.decel[0] {
			c.send(trainbus.SetSpeed{Train: r.Train, Speed: r.OriginalSpeed})
			c.speeds.Set(r.Train, r.OriginalSpeed)
			r.Phase = Idle
			c.statusChanged = true
		}
	}
	return nil
}

func (c *Controller) advanceHold(cc fx.ControlContext) error {
	if c.hold.Active && fx.ElapsedTicks(c.hold.Since, cc.Tick()) >= c.timing.hold {
		c.send(trainbus.ReleaseSolenoids{})
		c.hold.Active = false
		c.statusChanged = true
	}
	return nil
}

func (c *Controller) assembleInput(cc fx.ControlContext) error {
	b, ok := c.Console.TryReceive()
	if !ok || c.quitting {
		return nil
	}
	if c.Blocked() {
		glog.V(3).Infof("key %#x dropped while blocked", b)
		return nil
	}
	switch b {
	case console.KeyReturn:
		cmd := console.Parse(c.line.Bytes())
		if glog.V(2) {
			glog.Infof("console %q: %s", c.line.Bytes(), cmd)
		}
		c.line.Reset()
		if err := c.Apply(cc, cmd); err != nil {
			glog.V(2).Infof("console %s: %v", cmd, err)
		}
	case console.KeyBackspace, console.KeyDelete:
		if c.line.Backspace() {
			c.consoleOut.Enqueue([]byte("\b \b"))
		}
	default:
		if c.line.Append(b) {
			c.consoleOut.EnqueueByte(b)
		}
	}
	return nil
}

func (c *Controller) pace(cc fx.ControlContext) error {
	now := cc.Tick()
	switch st := c.decoder.State(); {
	case st.Idle():
	case !st.Outstanding:
		// bytes without a poll never complete a cycle.
		glog.V(2).Infof("unsolicited feedback, cycle at %c/%d discarded", st.Group, st.Half)
		c.decoder.Reset()
	case c.timing.feedback == 0 || fx.ElapsedTicks(c.requestTick, now) < c.timing.feedback:
		return nil
	default:
		glog.V(2).Infof("feedback timeout, cycle at %c/%d abandoned", st.Group, st.Half)
		c.decoder.Reset()
	}
	if c.sent && fx.ElapsedTicks(c.lastSend, now) < c.timing.pace {
		return nil
	}
	if c.trainOut.Empty() {
		if c.Feedback != nil && c.TrainBus.TrySend(pollCommand) == len(pollCommand) {
			c.decoder.Request()
			c.requestTick = now
			c.sent, c.lastSend = true, now
		}
		return nil
	}
	burst := c.burst
	if s, ok := c.TrainBus.(comm.TxSpacer); ok {
		if free := s.TxFree(); free < len(burst) {
			burst = burst[:free]
		}
	}
	burst = burst[:trainbus.WholeCommands(burst[:c.trainOut.Peek(burst)])]
	if len(burst) == 0 {
		return nil
	}
	if n := c.TrainBus.TrySend(burst); n > 0 {
		c.trainOut.Consume(n)
		c.sent, c.lastSend = true, now
	}
	return nil
}

func (c *Controller) receiveFeedback(cc fx.ControlContext) error {
	if c.Feedback == nil {
		return nil
	}
	for i := 0; i < feedback.CycleLength; i++ {
		b, ok := c.Feedback.TryReceive()
		if !ok {
			break
		}
		outstanding := c.decoder.State().Outstanding
		r := c.decoder.Decode(b)
		if outstanding {
			us := fx.TicksToMicros(fx.ElapsedTicks(c.requestTick, cc.Now()))
			if r.FirstByte {
				c.perf.FirstCur = us
				if us > c.perf.FirstMax {
					c.perf.FirstMax = us
				}
			}
			if r.CycleDone {
				c.perf.FullCur = us
				if us > c.perf.FullMax {
					c.perf.FullMax = us
				}
			}
		}
		for _, hit := range r.Hits {
			glog.V(2).Infof("sensor %s", hit)
			c.publish(cc, sensorTriggered(hit))
			c.statusChanged = true
		}
	}
	return nil
}

func (c *Controller) drainConsole(cc fx.ControlContext) error {
	// a wrapped ring is read in two runs.
	for i := 0; i < 2; i++ {
		run := c.consoleOut.LongestRun()
		if len(run) == 0 {
			break
		}
		n := c.Console.TrySend(run)
		c.consoleOut.Consume(n)
		if n < len(run) {
			break
		}
	}
	return nil
}

func (c *Controller) measure(cc fx.ControlContext) error {
	us := fx.TicksToMicros(fx.ElapsedTicks(cc.Tick(), cc.Now()))
	c.perf.LoopCur = us
	if us > c.perf.LoopMax {
		c.perf.LoopMax = us
	}
	return nil
}

func (c *Controller) quit(cc fx.ControlContext) {
	if c.quitting {
		return
	}
	c.quitting = true
	glog.Info("quit requested")
	cc.PostRun(fx.ControlFunc(c.shutdown))
}

func (c *Controller) shutdown(cc fx.ControlContext) error {
	defer cc.Stop()
	ctx := cc.Context()
	pending := c.consoleOut.Bytes()
	c.consoleOut.Reset()
	if err := c.Console.Send(ctx, pending); err != nil {
		return err
	}
	bye := console.ClearScreen + console.ShowCursor + Farewell + "\r\n"
	if err := c.Console.Send(ctx, []byte(bye)); err != nil {
		return err
	}
	if f, ok := c.Console.(comm.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}
