// Package sim simulates a model railway layout behind the train bus so
// the controller runs without hardware.
package sim

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
	"github.com/robotalks/trainctl/pkg/l0/feedback"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// Sensor is a track sensor at a position.
type Sensor struct {
	Hit feedback.Hit
	Pos float64
}

// Name implements Object.
func (s *Sensor) Name() string {
	return "sensor/" + s.Hit.String()
}

// Layout is the simulated railway. It is the controller's train bus
// and feedback Channel and runs on the same Loop, so it is not safe
// for concurrent use.
type Layout struct {
	Config  *Config
	Track   Track
	Sensors []*Sensor

	ObjectsChangeCaster

	trains   []*Train
	switches [trainbus.SwitchSlots]trainbus.SwitchState
	decoder  trainbus.Decoder
	pending  []feedback.Hit
	feedback *comm.Ring
	changed  []Object

	now        uint32
	started    bool
	energized  bool
	energizeAt uint32
	overheated bool
	polled     bool
	pollAt     uint32
	faults     int

	delay    uint32
	solenoid uint32
}

var _ comm.Channel = (*Layout)(nil)

// NewLayout creates a Layout with sensors spaced evenly.
func NewLayout(c *Config) *Layout {
	l := &Layout{
		Config:   c,
		Track:    Track{Length: c.TrackLength},
		feedback: comm.NewRing(c.FeedbackBuffer),
		delay:    fx.DurationToTicks(c.FeedbackDelay),
		solenoid: fx.DurationToTicks(c.SolenoidLimit),
	}
	total := c.SensorsPerGroup * int(feedback.LastGroup-feedback.FirstGroup+1)
	for i := 0; i < total; i++ {
		l.Sensors = append(l.Sensors, &Sensor{
			Hit: feedback.Hit{
				Group:  feedback.FirstGroup + byte(i/c.SensorsPerGroup),
				Sensor: i%c.SensorsPerGroup + 1,
			},
			Pos: (float64(i) + 0.5) * c.TrackLength / float64(total),
		})
	}
	return l
}

// AddToLoop implements LoopAdder.
func (l *Layout) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(l.Simulate))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(l.NotifyChanges))
}

// TryReceive implements Channel, yielding feedback bytes.
func (l *Layout) TryReceive() (byte, bool) {
	return l.feedback.PopByte()
}

// TrySend implements Channel. Every byte is taken and decoded.
func (l *Layout) TrySend(data []byte) int {
	for _, b := range data {
		cmd, err := l.decoder.Decode(b)
		if err != nil {
			l.fault("byte %#x: %v", b, err)
			continue
		}
		if cmd != nil {
			l.apply(cmd)
		}
	}
	return len(data)
}

// Send implements Channel.
func (l *Layout) Send(ctx context.Context, data []byte) error {
	l.TrySend(data)
	return nil
}

// Train finds a train which has been addressed.
func (l *Layout) Train(id byte) (*Train, bool) {
	for _, t := range l.trains {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Trains lists the trains in the order first addressed.
func (l *Layout) Trains() []*Train {
	return l.trains
}

// Switch returns the thrown state of a switch.
func (l *Layout) Switch(id int) trainbus.SwitchState {
	if slot, ok := trainbus.SwitchSlot(id); ok {
		return l.switches[slot]
	}
	return trainbus.SwitchUnknown
}

// Energized indicates a solenoid is energized.
func (l *Layout) Energized() bool {
	return l.energized
}

// Faults counts the mistreatments of the layout: reversing a moving
// train, overheating a solenoid and undecodable bytes.
func (l *Layout) Faults() int {
	return l.faults
}

func (l *Layout) fault(format string, args ...interface{}) {
	l.faults++
	glog.Warningf("layout: "+format, args...)
}

func (l *Layout) train(id byte) *Train {
	if t, ok := l.Train(id); ok {
		return t
	}
	t := &Train{
		ID:     id,
		Pos:    l.Track.Normalize(float64(id) * l.Track.Length / 7),
		track:  &l.Track,
		motion: motion{accel: l.Config.Acceleration},
	}
	l.trains = append(l.trains, t)
	l.changed = append(l.changed, t)
	return t
}

func (l *Layout) apply(cmd trainbus.Command) {
	glog.V(2).Infof("layout: %s", cmd)
	switch c := cmd.(type) {
	case trainbus.SetSpeed:
		l.train(c.Train).command(c.Speed, l.Config.StepSpeed)
	case trainbus.ToggleDirection:
		t := l.train(c.Train)
		if t.Moving() {
			l.fault("train %d reversed at %.0f mm/s", t.ID, t.Velocity())
		}
		t.toggle(l.Config.StepSpeed)
	case trainbus.ThrowSwitch:
		if slot, ok := trainbus.SwitchSlot(int(c.Switch)); ok {
			l.switches[slot] = trainbus.SwitchCurved
			if c.Straight {
				l.switches[slot] = trainbus.SwitchStraight
			}
		}
		if !l.energized {
			l.energized, l.energizeAt = true, l.now
		}
	case trainbus.ReleaseSolenoids:
		l.energized, l.overheated = false, false
	case trainbus.PollFeedback:
		l.polled, l.pollAt = true, l.now
	}
}

// Simulate is a controller moving the trains.
func (l *Layout) Simulate(cc fx.ControlContext) error {
	now := cc.Tick()
	if !l.started {
		l.started, l.now = true, now
		return nil
	}
	secs := float64(fx.TicksToMicros(fx.ElapsedTicks(l.now, now))) / 1e6
	l.now = now

	for _, t := range l.trains {
		dist := t.motion.advance(secs)
		if dist == 0 {
			continue
		}
		for _, s := range l.Sensors {
			if l.Track.Passed(t.Pos, dist, s.Pos) {
				l.hit(s.Hit)
			}
		}
		t.Pos = l.Track.Normalize(t.Pos + dist)
		l.changed = append(l.changed, t)
	}

	if l.energized && !l.overheated && fx.ElapsedTicks(l.energizeAt, now) > l.solenoid {
		l.overheated = true
		l.fault("solenoid energized longer than %v", l.Config.SolenoidLimit)
	}
	if l.polled && fx.ElapsedTicks(l.pollAt, now) >= l.delay {
		l.polled = false
		l.feedback.Enqueue(feedback.Encode(l.pending...))
		l.pending = l.pending[:0]
	}
	return nil
}

func (l *Layout) hit(h feedback.Hit) {
	for _, p := range l.pending {
		if p == h {
			return
		}
	}
	l.pending = append(l.pending, h)
}

// NotifyChanges notifies moved trains.
func (l *Layout) NotifyChanges(cc fx.ControlContext) error {
	if len(l.changed) > 0 {
		l.ObjectsChanged(cc, l.changed...)
		l.changed = l.changed[:0]
	}
	return nil
}
