package kinematic

import (
	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// minMoveDistance is the movement length under which a move is dropped
const minMoveDistance = 1e-6

func (c *Controller) tryMove(dt float64) {
	c.moveSpeculatively(c.state.Velocity.Mul(dt), c.settings.MaxSpeculativeSteps, true)
}

// moveSpeculatively sweeps the capsule along movement and slides along every
// surface it meets, stopping short of each by the collision resolution
// distance. It gives up after maxSteps hits; the rest of the movement is lost.
// With affectVelocity, the velocity slides along the same surfaces.
func (c *Controller) moveSpeculatively(movement mgl64.Vec3, maxSteps int, affectVelocity bool) {
	s := &c.state

	for step := 0; step < maxSteps; step++ {
		length := movement.Len()
		if !(length >= minMoveDistance) {
			return
		}
		direction := movement.Mul(1 / length)

		hit, ok := c.world.SweepCapsule(c.capsule.At(s.Position, s.UpAxis), direction, length, c.collider)
		if !ok {
			s.Position = s.Position.Add(movement)
			return
		}

		travel := max(hit.Distance-c.settings.CollisionResolutionDistance, 0)
		s.Position = s.Position.Add(direction.Mul(travel))
		movement = movement.Sub(direction.Mul(travel))

		c.onMoveHit(hit)

		normal := c.slideNormal(hit)
		if affectVelocity {
			s.Velocity = projectOnPlane(s.Velocity, normal)
		}
		movement = projectOnPlane(movement, normal)
	}

	if movement.Len() >= minMoveDistance {
		c.logger.Debug("speculative move capped", "steps", maxSteps, "dropped", movement.Len())
	}
}

// onMoveHit lands an airborne agent on walkable ground met during a move
func (c *Controller) onMoveHit(hit actor.Hit) {
	s := &c.state
	if s.IsGrounded || s.jumping {
		return
	}

	slope := slopeAngle(hit.Normal, s.UpAxis)
	if !c.walkable(slope) {
		return
	}

	s.IsGrounded = true
	s.Ground = GroundContact{Point: hit.Point, Normal: hit.Normal, SlopeDegrees: slope}
	c.land()
}

// slideNormal is the normal a move slides along after hit. A grounded agent
// meets steep faces as walls, so sliding never lifts it off its ground.
func (c *Controller) slideNormal(hit actor.Hit) mgl64.Vec3 {
	s := &c.state
	if !s.IsGrounded {
		return hit.Normal
	}

	slope := slopeAngle(hit.Normal, s.UpAxis)
	if c.walkable(slope) || slope > 90 {
		return hit.Normal
	}

	wall := projectOnPlane(hit.Normal, s.UpAxis)
	if wall.LenSqr() < epsilon {
		return hit.Normal
	}
	return wall.Normalize()
}
