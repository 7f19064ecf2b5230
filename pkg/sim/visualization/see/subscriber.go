// Package see is the adapter to visualize the simulated layout in
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/sim"
)

// Adapter streams layout changes as JSON lines understood by
// github.com/robotalks/see.
type Adapter struct {
	Config *Config
	Mapper ObjectMapper
	Out    io.Writer

	layout  *sim.Layout
	initial bool
	updated map[string]sim.Object
	failed  bool
}

// NewAdapter creates the adapter.
func NewAdapter(config *Config, out io.Writer) *Adapter {
	return &Adapter{
		Config:  config,
		Mapper:  MapTrain(config.TrainRadius),
		Out:     out,
		initial: true,
	}
}

// Subscribe is a helper to subscribe the changes of the layout.
func (a *Adapter) Subscribe(layout *sim.Layout) *Adapter {
	a.layout = layout
	layout.SubscribeObjectsChange(a)
	return a
}

// ObjectsChanged implements ObjectsChangeListener.
func (a *Adapter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	if a.updated == nil {
		a.updated = make(map[string]sim.Object)
	}
	for _, obj := range objs {
		a.updated[obj.Name()] = obj
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvIdle, fx.ControlFunc(a.ReportChanges))
}

func (a *Adapter) scenery() []Message {
	msgs := []Message{{Action: ActionReset}}
	if a.layout == nil {
		return msgs
	}
	msgs = append(msgs, Message{
		Action: ActionObject,
		Object: NewObject("track", "track").At(0, 0).Radius(a.layout.Track.Radius()),
	})
	for _, s := range a.layout.Sensors {
		pose := a.layout.Track.PoseAt(s.Pos)
		msgs = append(msgs, Message{
			Action: ActionObject,
			Object: NewObject("sensor", ObjectID(s.Name())).
				At(pose.X, pose.Y).
				Radius(a.Config.TrainRadius/4).
				With(PropLabel, s.Hit.String()),
		})
	}
	return msgs
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	if a.Out == nil || a.failed {
		return nil
	}
	var msgs []Message
	if a.initial {
		msgs = a.scenery()
		a.initial = false
	}

	for _, obj := range a.updated {
		if vo, ok := obj.(VisibleObject); ok {
			for _, mapped := range a.Mapper.MapObject(vo) {
				if mapped == nil {
					continue
				}
				msgs = append(msgs, Message{
					Action: ActionObject,
					Object: mapped,
				})
			}
		}
	}
	a.updated = nil

	if len(msgs) == 0 {
		return nil
	}
	encoded, err := json.Marshal(msgs)
	if err == nil {
		_, err = a.Out.Write(append(encoded, '\n'))
	}
	if err != nil {
		a.failed = true
		glog.Warningf("see: output disabled: %v", err)
	}
	return nil
}
