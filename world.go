package kinematic

import (
	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// CollisionWorld is the geometry a controller moves through.
// Every query skips or reports the agent's own collider as documented; a
// failing backend answers "no hit".
type CollisionWorld interface {
	// SweepCapsule returns the first surface met when moving c along the unit
	// direction by at most maxDistance, ignoring the collider ignore.
	SweepCapsule(c actor.WorldCapsule, direction mgl64.Vec3, maxDistance float64, ignore uuid.UUID) (actor.Hit, bool)
	Raycast(origin, direction mgl64.Vec3, maxDistance float64, ignore uuid.UUID) (actor.Hit, bool)
	// OverlapCapsule appends to results[:0] every collider intersecting c,
	// possibly including the agent's own.
	OverlapCapsule(c actor.WorldCapsule, results []uuid.UUID) []uuid.UUID
	// ComputePenetration returns the unit direction and distance moving c out
	// of the collider other.
	ComputePenetration(c actor.WorldCapsule, other uuid.UUID) (mgl64.Vec3, float64, bool)
}

// ColliderSync is implemented by worlds in which the agents' own colliders
// live; controllers push their transform there after each tick.
type ColliderSync interface {
	SetTransform(id uuid.UUID, transform actor.Transform) error
}
