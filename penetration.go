package kinematic

import (
	"slices"

	"github.com/google/uuid"
)

// resolvePenetrations pushes the agent out of the colliders it overlaps.
// Overlaps left after MaxResolutionSteps passes wait for the next tick.
//
// Velocity is clipped one sided: only the part heading into a contact is
// removed, unlike a full projection onto the plane of the escape direction.
// Velocity already leaving the contact is kept.
func (c *Controller) resolvePenetrations() {
	s := &c.state

	for pass := 0; ; pass++ {
		capsule := c.capsule.At(s.Position, s.UpAxis)
		c.overlaps = c.world.OverlapCapsule(capsule, c.overlaps)
		c.overlaps = slices.DeleteFunc(c.overlaps, func(id uuid.UUID) bool {
			return id == c.collider
		})
		if len(c.overlaps) == 0 {
			return
		}
		if pass == c.settings.MaxResolutionSteps {
			c.logger.Debug("penetration unresolved", "steps", pass, "overlaps", len(c.overlaps))
			return
		}

		for _, other := range c.overlaps {
			direction, distance, ok := c.world.ComputePenetration(c.capsule.At(s.Position, s.UpAxis), other)
			if !ok || !(distance > 0) {
				continue
			}

			escape := direction.Mul(distance)
			// never dig into the ground being stood on
			if s.IsGrounded && s.Ground.Normal.Dot(escape) < 0 {
				escape = projectOnPlane(escape, s.Ground.Normal)
			}
			if into := s.Velocity.Dot(direction); into < 0 {
				s.Velocity = s.Velocity.Sub(direction.Mul(into))
			}

			c.moveSpeculatively(escape, 1, false)
		}
	}
}
