package scene

import (
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	// hitTolerance is the gap at which a sweep counts as touching
	hitTolerance = 1e-5

	// approachEpsilon is the closing speed under which a motion counts as sliding
	approachEpsilon = 1e-6

	maxAdvanceSteps = 32
)

// SweepCapsule moves the capsule along direction and returns the first
// collider it would touch within maxDistance. The collider ignore is skipped.
//
// A collider already touched or overlapped at the start blocks the sweep only
// if the motion goes further into it. Colliders holding the capsule's core
// segment are skipped: they are a penetration, not an obstacle.
func (s *Scene) SweepCapsule(c actor.WorldCapsule, direction mgl64.Vec3, maxDistance float64, ignore uuid.UUID) (actor.Hit, bool) {
	length := direction.Len()
	if length < 1e-12 || !(maxDistance > 0) || math.IsInf(maxDistance, 1) {
		return actor.Hit{}, false
	}
	direction = direction.Mul(1 / length)

	s.rlock()
	defer s.mu.RUnlock()

	var scratch [32]int
	bounds := c.SweptAABB(direction.Mul(maxDistance)).Expand(hitTolerance)

	best := actor.Hit{Distance: math.Inf(1)}
	found := false
	for _, i := range s.candidates(bounds, scratch[:0]) {
		collider := s.colliders[i]
		if collider.ID == ignore {
			continue
		}

		if hit, ok := sweepCollider(c, direction, maxDistance, collider); ok && hit.Distance < best.Distance {
			best, found = hit, true
		}
	}

	return best, found
}

// Raycast is a sweep of a zero radius point
func (s *Scene) Raycast(origin, direction mgl64.Vec3, maxDistance float64, ignore uuid.UUID) (actor.Hit, bool) {
	return s.SweepCapsule(actor.WorldCapsule{Top: origin, Bottom: origin}, direction, maxDistance, ignore)
}

// sweepCollider finds the time of impact by conservative advancement.
// The gap along a straight motion is convex in the distance travelled, so the
// zero of its tangent never passes the actual contact.
func sweepCollider(c actor.WorldCapsule, direction mgl64.Vec3, maxDistance float64, collider *actor.Collider) (actor.Hit, bool) {
	prox := measure(c, collider)
	if prox.inside {
		return actor.Hit{}, false
	}

	travelled := 0.0
	for i := 0; i < maxAdvanceSteps; i++ {
		approach := -direction.Dot(prox.normal)
		if approach <= approachEpsilon {
			// sliding along or moving away never closes the gap
			return actor.Hit{}, false
		}

		if prox.distance <= hitTolerance {
			return actor.Hit{
				Point:    prox.point,
				Normal:   prox.normal,
				Distance: travelled,
				Collider: collider.ID,
			}, true
		}

		next := travelled + prox.distance/approach
		if next > maxDistance {
			return actor.Hit{}, false
		}

		moved := measure(c.Translate(direction.Mul(next)), collider)
		if math.Abs(moved.distance) <= hitTolerance {
			normal := moved.normal
			if normal.LenSqr() == 0 {
				// a point landed on the surface has no direction of its own
				normal = prox.normal
			}
			return actor.Hit{Point: moved.point, Normal: normal, Distance: next, Collider: collider.ID}, true
		}
		if moved.inside {
			// numerical overshoot: the last contact estimate is the best answer
			return actor.Hit{Point: prox.point, Normal: prox.normal, Distance: travelled, Collider: collider.ID}, true
		}
		travelled, prox = next, moved
	}

	return actor.Hit{}, false
}
