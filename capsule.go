package kinematic

import (
	"fmt"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CapsuleShape is the agent's collision volume in its local frame, where
// local Y is the up axis. HalfHeight is half the distance between the
// centers of the two end spheres.
type CapsuleShape struct {
	Radius     float64
	HalfHeight float64
	Center     mgl64.Vec3
}

func (c CapsuleShape) Validate() error {
	if !(c.Radius > 0) || !(c.HalfHeight > 0) {
		return fmt.Errorf("%w: radius %v and half height %v must be positive", ErrInvalidCapsule, c.Radius, c.HalfHeight)
	}

	return nil
}

// At places the capsule at position, standing along up
func (c CapsuleShape) At(position, up mgl64.Vec3) actor.WorldCapsule {
	center := position.Add(upFrame(up).Rotate(c.Center))
	axis := up.Mul(c.HalfHeight)

	return actor.WorldCapsule{
		Top:    center.Add(axis),
		Bottom: center.Sub(axis),
		Radius: c.Radius,
	}
}
