package sim

import (
	"math"

	fx "github.com/robotalks/trainctl/pkg/framework"
)

// Pos2D defines the position in 2D, in millimeters.
type Pos2D struct {
	X, Y float64
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Track is a closed loop of track laid out as a circle.
// Positions along it are distances in millimeters from the origin.
type Track struct {
	Length float64
}

// Radius is the radius of the circle.
func (t Track) Radius() float64 {
	return t.Length / (2 * math.Pi)
}

// Normalize maps a distance onto [0, Length).
func (t Track) Normalize(pos float64) float64 {
	pos = math.Mod(pos, t.Length)
	if pos < 0 {
		pos += t.Length
	}
	return pos
}

// PoseAt computes the pose at a distance along the track.
func (t Track) PoseAt(pos float64) Pose2D {
	a := AngleFromRadians(t.Normalize(pos) / t.Radius())
	return Pose2D{
		Pos2D:       a.Project(t.Radius()),
		Orientation: a.AddRadians(math.Pi / 2),
	}
}

// Passed indicates whether moving from from by dist crosses mark.
// A mark exactly at the end position is passed, one at the start is not.
func (t Track) Passed(from, dist, mark float64) bool {
	if dist == 0 {
		return false
	}
	if dist < 0 {
		end := t.Normalize(from + dist)
		return t.Normalize(mark-end) < -dist
	}
	offset := t.Normalize(mark - from)
	return offset > 0 && offset <= dist
}

// Object represents an object in the layout.
type Object interface {
	fx.Named
}

// Positionable2D object maintains a 2D position.
type Positionable2D interface {
	Position2D() Pose2D
}

// ObjectsChangeListener listens for object changes.
type ObjectsChangeListener interface {
	ObjectsChanged(fx.ControlContext, ...Object)
}

// ObjectsChangeSubscriber subscribes objects change notifications.
type ObjectsChangeSubscriber interface {
	SubscribeObjectsChange(ObjectsChangeListener)
}

// ObjectsChangeCaster provides a subscriber and implements
// listener to cast notifications.
type ObjectsChangeCaster struct {
	listeners []ObjectsChangeListener
}

// SubscribeObjectsChange implements ObjectsChangeSubscriber.
func (c *ObjectsChangeCaster) SubscribeObjectsChange(ln ObjectsChangeListener) {
	c.listeners = append(c.listeners, ln)
}

// ObjectsChanged implements ObjectsChangeListener.
func (c *ObjectsChangeCaster) ObjectsChanged(cc fx.ControlContext, objs ...Object) {
	for _, ln := range c.listeners {
		ln.ObjectsChanged(cc, objs...)
	}
}
