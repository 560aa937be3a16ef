// Package epa computes the penetration depth of two overlapping convex volumes with
// the Expanding Polytope Algorithm.
//
// EPA starts from the tetrahedron GJK leaves behind and keeps pushing the face of
// the polytope nearest to the origin outward until it lies on the boundary of the
// Minkowski difference. That face's normal and distance are the minimum translation
// that separates the two volumes.
package epa

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds polytope expansion
	MaxIterations = 32

	// ConvergenceTolerance is the minimum depth gain a new support point must bring
	ConvergenceTolerance = 0.001

	// MinFaceDistance is the distance below which a face is treated as degenerate
	MinFaceDistance = 0.0001

	// NormalSnapThreshold zeroes tiny normal components
	NormalSnapThreshold = 1e-8

	polytopeInitialCapacity = 4
)

// ErrNoConvergence is returned when the polytope keeps growing past MaxIterations
var ErrNoConvergence = errors.New("epa: no convergence")

// Penetration is the minimum translation separating A from B.
// Normal is unit length and points from A toward B; moving A by
// -Normal * Depth (or B by +Normal * Depth) ends the overlap.
type Penetration struct {
	Normal mgl64.Vec3
	Depth  float64
}

// EPA expands the GJK simplex of two overlapping volumes into their penetration.
// The simplex is only read.
func EPA(a, b actor.Convex, simplex *gjk.Simplex) (Penetration, error) {
	if simplex.Count < 4 {
		return estimateFromSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Penetration{}, err
	}

	for i := 0; i < MaxIterations && len(builder.faces) > 0; i++ {
		closestIndex := builder.FindClosestFaceIndex()
		closest := builder.faces[closestIndex]

		if closest.Distance < MinFaceDistance {
			builder.removeFace(closestIndex)
			continue
		}

		support := gjk.MinkowskiSupport(a, b, closest.Normal)
		if support.Dot(closest.Normal)-closest.Distance < ConvergenceTolerance {
			return Penetration{Normal: closest.Normal, Depth: closest.Distance}, nil
		}

		builder.AddPointAndRebuildFaces(support, closestIndex)
	}

	if face := builder.GetClosestFace(); face != nil {
		return Penetration{Normal: face.Normal, Depth: face.Distance}, fmt.Errorf("%w after %d iterations", ErrNoConvergence, MaxIterations)
	}
	return Penetration{}, fmt.Errorf("%w: polytope collapsed", ErrNoConvergence)
}

// estimateFromSimplex handles the touching case where GJK stopped before
// building a tetrahedron. The simplex point nearest the origin stands in for the
// penetration; with a single point the origins give the direction.
func estimateFromSimplex(a, b actor.Convex, simplex *gjk.Simplex) Penetration {
	if simplex.Count >= 2 {
		nearest := simplex.Points[0]
		for i := 1; i < simplex.Count; i++ {
			if simplex.Points[i].LenSqr() < nearest.LenSqr() {
				nearest = simplex.Points[i]
			}
		}

		if depth := nearest.Len(); depth > NormalSnapThreshold {
			return Penetration{Normal: nearest.Mul(1 / depth), Depth: depth}
		}
	}

	normal := b.Origin().Sub(a.Origin())
	if length := normal.Len(); length < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1 / length)
	}

	return Penetration{Normal: normal, Depth: MinFaceDistance}
}

// snapNormalToAxis zeroes components smaller than NormalSnapThreshold and
// renormalizes, so that axis aligned contacts stay exactly axis aligned.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := range normal {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1 / length)
}
