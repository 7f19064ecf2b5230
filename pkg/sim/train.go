package sim

import (
	"fmt"
	"math"

	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// Train is a simulated locomotive on the track.
type Train struct {
	ID byte
	// Speed is the last commanded speed byte.
	Speed trainbus.Speed
	// Flipped is the state of the direction relay.
	Flipped bool
	// Pos is the distance along the track.
	Pos float64

	track  *Track
	motion motion
}

// Name implements Object.
func (t *Train) Name() string {
	return fmt.Sprintf("train/%d", t.ID)
}

// Position2D implements Positionable2D.
func (t *Train) Position2D() Pose2D {
	pose := t.track.PoseAt(t.Pos)
	if t.motion.desired < 0 || t.motion.current < 0 {
		pose.Orientation = pose.Orientation.AddRadians(math.Pi)
	}
	return pose
}

// Velocity is the current velocity in mm/s, negative when moving
// backwards along the track.
func (t *Train) Velocity() float64 {
	return t.motion.current
}

// Moving indicates the train has not come to a stop.
func (t *Train) Moving() bool {
	return t.motion.current != 0
}

// heading is 1 when the speed drives the train forward along the track.
func (t *Train) heading() float64 {
	if (t.Speed.Direction() == trainbus.Reverse) != t.Flipped {
		return -1
	}
	return 1
}

func (t *Train) command(speed trainbus.Speed, stepSpeed float64) {
	t.Speed = speed
	t.motion.desired = t.heading() * float64(speed.Magnitude()) * stepSpeed
}

func (t *Train) toggle(stepSpeed float64) {
	t.Flipped = !t.Flipped
	t.command(t.Speed, stepSpeed)
}
