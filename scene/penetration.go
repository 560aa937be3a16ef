package scene

import (
	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/epa"
	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// overlapTolerance is the depth under which shapes merely touch
const overlapTolerance = 1e-6

// OverlapCapsule appends to results[:0] the ID of every collider the capsule
// penetrates deeper than a small tolerance, including the capsule's own.
func (s *Scene) OverlapCapsule(c actor.WorldCapsule, results []uuid.UUID) []uuid.UUID {
	results = results[:0]

	s.rlock()
	defer s.mu.RUnlock()

	var scratch [32]int
	for _, i := range s.candidates(c.AABB().Expand(overlapTolerance), scratch[:0]) {
		collider := s.colliders[i]
		if _, depth, ok := s.penetrate(c, collider); ok && depth > overlapTolerance {
			results = append(results, collider.ID)
		}
	}

	return results
}

// ComputePenetration returns the unit direction and distance that move the
// capsule out of the collider other.
func (s *Scene) ComputePenetration(c actor.WorldCapsule, other uuid.UUID) (mgl64.Vec3, float64, bool) {
	s.rlock()
	defer s.mu.RUnlock()

	i, exists := s.index[other]
	if !exists {
		return mgl64.Vec3{}, 0, false
	}

	return s.penetrate(c, s.colliders[i])
}

func (s *Scene) penetrate(c actor.WorldCapsule, collider *actor.Collider) (mgl64.Vec3, float64, bool) {
	prox := measure(c, collider)
	if prox.distance >= 0 {
		return mgl64.Vec3{}, 0, false
	}

	if prox.normal.LenSqr() > 0 {
		return prox.normal, -prox.distance, true
	}

	// the core sits inside the collider and closest points give no direction
	simplex, overlapping := gjk.Intersect(c, collider)
	if !overlapping {
		return mgl64.Vec3{}, 0, false
	}
	defer gjk.SimplexPool.Put(simplex)

	penetration, err := epa.EPA(c, collider, simplex)
	if err != nil {
		s.logger.Debug("penetration depth unavailable", "collider", collider.ID, "error", err)
		return mgl64.Vec3{}, 0, false
	}

	return penetration.Normal.Mul(-1), penetration.Depth, true
}
