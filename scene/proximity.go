package scene

import (
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// coreTolerance is the core distance under which no contact normal can be derived
	coreTolerance = 1e-9

	goldenIterations = 48
)

var invPhi = (math.Sqrt(5) - 1) / 2

// proximity is the closest approach between a capsule and a collider.
// distance is signed: negative once the two overlap. normal points from the
// collider toward the capsule and is zero when it cannot be derived.
// inside is set when the capsule's core segment enters the collider.
type proximity struct {
	distance float64
	normal   mgl64.Vec3
	point    mgl64.Vec3
	inside   bool
}

func measure(c actor.WorldCapsule, collider *actor.Collider) proximity {
	switch shape := collider.Shape.(type) {
	case *actor.Sphere:
		center := collider.Transform.Position
		return roundProximity(actor.ClosestPointOnSegment(c.Bottom, c.Top, center), center, shape.Radius, c.Radius)
	case *actor.Capsule:
		other := shape.At(collider.Transform)
		p, q := actor.ClosestPointsSegments(c.Bottom, c.Top, other.Bottom, other.Top)
		return roundProximity(p, q, other.Radius, c.Radius)
	case *actor.Box:
		return boxProximity(c, collider.Transform, shape)
	case *actor.Plane:
		return planeProximity(c, collider.Transform, shape)
	}

	return proximity{distance: math.Inf(1)}
}

// roundProximity handles shapes that are a core point or segment inflated by
// a radius: p is on the capsule core, q on the collider core.
func roundProximity(p, q mgl64.Vec3, shapeRadius, radius float64) proximity {
	delta := p.Sub(q)
	core := delta.Len()

	result := proximity{
		distance: core - shapeRadius - radius,
		inside:   core < shapeRadius,
	}
	if core < coreTolerance {
		result.point = q
		return result
	}

	result.normal = delta.Mul(1 / core)
	result.point = q.Add(result.normal.Mul(shapeRadius))

	return result
}

func planeProximity(c actor.WorldCapsule, transform actor.Transform, plane *actor.Plane) proximity {
	normal := plane.WorldNormal(transform)
	top := plane.SignedDistance(transform, c.Top)
	bottom := plane.SignedDistance(transform, c.Bottom)

	deepest, height := c.Bottom, bottom
	switch {
	case math.Abs(top-bottom) < coreTolerance:
		deepest, height = c.Top.Add(c.Bottom).Mul(0.5), (top+bottom)/2
	case top < bottom:
		deepest, height = c.Top, top
	}

	return proximity{
		distance: height - c.Radius,
		normal:   normal,
		point:    deepest.Sub(normal.Mul(height)),
		inside:   height < 0,
	}
}

// boxProximity works in box space, where the box is axis aligned and centered
func boxProximity(c actor.WorldCapsule, transform actor.Transform, box *actor.Box) proximity {
	a := transform.ToLocal(c.Bottom)
	b := transform.ToLocal(c.Top)

	// the surface itself is not inside
	shrunk := box.HalfExtents.Sub(mgl64.Vec3{coreTolerance, coreTolerance, coreTolerance})
	if segmentIntersectsBox(a, b, shrunk) {
		return proximity{distance: -c.Radius, point: transform.Position, inside: true}
	}

	squaredDistance := func(s float64) float64 {
		p := lerp(a, b, s)
		return p.Sub(box.ClosestPoint(p)).LenSqr()
	}
	p := lerp(a, b, minimizeOnUnit(squaredDistance))
	q := box.ClosestPoint(p)

	delta := p.Sub(q)
	core := delta.Len()
	if core < coreTolerance {
		return proximity{distance: -c.Radius, point: transform.ToWorld(q), inside: true}
	}

	return proximity{
		distance: core - c.Radius,
		normal:   transform.Rotation.Rotate(delta.Mul(1 / core)),
		point:    transform.ToWorld(q),
	}
}

// segmentIntersectsBox clips the segment ab against the slabs of a centered box
func segmentIntersectsBox(a, b, halfExtents mgl64.Vec3) bool {
	enter, exit := 0.0, 1.0
	d := b.Sub(a)

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if a[i] < -halfExtents[i] || a[i] > halfExtents[i] {
				return false
			}
			continue
		}

		t1 := (-halfExtents[i] - a[i]) / d[i]
		t2 := (halfExtents[i] - a[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		enter = max(enter, t1)
		exit = min(exit, t2)
		if enter > exit {
			return false
		}
	}

	return true
}

// minimizeOnUnit finds the minimum of a convex function over [0, 1] by golden
// section search
func minimizeOnUnit(f func(float64) float64) float64 {
	lo, hi := 0.0, 1.0
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := f(x1), f(x2)

	for i := 0; i < goldenIterations; i++ {
		if f1 <= f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = f(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = f(x2)
		}
	}

	// the search never samples the endpoints themselves
	best, value := (lo+hi)/2, f((lo+hi)/2)
	for _, s := range [2]float64{0, 1} {
		if v := f(s); v < value {
			best, value = s, v
		}
	}

	return best
}

func lerp(a, b mgl64.Vec3, s float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(s))
}
