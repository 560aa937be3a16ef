// Package gjk tests two convex volumes for overlap with the Gilbert-Johnson-Keerthi
// algorithm.
//
// The Minkowski difference A - B contains the origin exactly when A and B overlap.
// GJK grows a simplex of support points of that difference toward the origin and
// stops as soon as it either encloses the origin or proves it cannot reach it.
// On overlap the final simplex is a tetrahedron, which package epa expands to get
// the penetration depth.
package gjk

import (
	"sync"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds the simplex refinement loop
const MaxIterations = 32

// Simplex holds 1 to 4 points of the Minkowski difference.
// Points[Count-1] is always the most recent support point.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(p mgl64.Vec3) {
	s.Points[s.Count] = p
	s.Count++
}

// set replaces the simplex with the given points, oldest first
func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the point of A - B furthest along direction
func MinkowskiSupport(a, b actor.Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.SupportWorld(direction).Sub(b.SupportWorld(direction.Mul(-1)))
}

// GJK reports whether a and b overlap. Touching counts as overlapping.
// The simplex is rewritten in place; on overlap it usually holds 4 points.
func GJK(a, b actor.Convex, simplex *Simplex) bool {
	direction := b.Origin().Sub(a.Origin())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		point := MinkowskiSupport(a, b, direction)

		// the furthest point cannot pass the origin: separated
		if point.Dot(direction) <= 0 {
			return false
		}

		simplex.push(point)
		if evolve(simplex, &direction) {
			return true
		}
	}

	return false
}

// Intersect runs GJK with a pooled simplex and returns it on overlap.
// The caller hands the simplex back with SimplexPool.Put once done.
func Intersect(a, b actor.Convex) (*Simplex, bool) {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()

	if !GJK(a, b, simplex) {
		SimplexPool.Put(simplex)
		return nil, false
	}

	return simplex, true
}

// evolve keeps the feature of the simplex closest to the origin and points the
// search direction at the origin from it. It returns true once the origin is enclosed.
func evolve(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b := simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = perp
	return false
}

func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c := simplex.Points[2], simplex.Points[1], simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	normal := ab.Cross(ac)

	// collinear points
	if normal.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return line(simplex, direction)
	}

	if ab.Cross(normal).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if normal.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if normal.Dot(ao) > 0 {
		*direction = normal
	} else {
		// flip the winding so the normal faces the origin
		simplex.set(b, c, a)
		*direction = normal.Mul(-1)
	}

	return false
}

// outward flips normal so that it faces away from the opposite vertex
func outward(normal, toOpposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(toOpposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}

func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c, d := simplex.Points[3], simplex.Points[2], simplex.Points[1], simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}

	return triangle(simplex, direction)
}
