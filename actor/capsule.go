package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// WorldCapsule is a capsule given by the centers of its two end spheres.
// A capsule with Top == Bottom is a sphere, and with Radius == 0 a segment.
type WorldCapsule struct {
	Top    mgl64.Vec3
	Bottom mgl64.Vec3
	Radius float64
}

// Hit describes the first surface met by a sweep or a ray
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Collider uuid.UUID
}

func (c WorldCapsule) Translate(offset mgl64.Vec3) WorldCapsule {
	return WorldCapsule{
		Top:    c.Top.Add(offset),
		Bottom: c.Bottom.Add(offset),
		Radius: c.Radius,
	}
}

func (c WorldCapsule) AABB() AABB {
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	return AABB{
		Min: mgl64.Vec3{math.Min(c.Top[0], c.Bottom[0]), math.Min(c.Top[1], c.Bottom[1]), math.Min(c.Top[2], c.Bottom[2])}.Sub(r),
		Max: mgl64.Vec3{math.Max(c.Top[0], c.Bottom[0]), math.Max(c.Top[1], c.Bottom[1]), math.Max(c.Top[2], c.Bottom[2])}.Add(r),
	}
}

// SweptAABB bounds the capsule over a straight move
func (c WorldCapsule) SweptAABB(motion mgl64.Vec3) AABB {
	return c.AABB().Union(c.Translate(motion).AABB())
}

// ClosestPoint returns the point of the core segment closest to p
func (c WorldCapsule) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return ClosestPointOnSegment(c.Bottom, c.Top, p)
}

func (c WorldCapsule) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	tip := c.Top
	if direction.Dot(c.Top.Sub(c.Bottom)) < 0 {
		tip = c.Bottom
	}
	if direction.LenSqr() < 1e-24 {
		return tip
	}
	return tip.Add(direction.Normalize().Mul(c.Radius))
}

func (c WorldCapsule) Origin() mgl64.Vec3 {
	return c.Top.Add(c.Bottom).Mul(0.5)
}

// ClosestPointOnSegment clamps the projection of p onto segment ab
func ClosestPointOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lenSqr := ab.LenSqr()
	if lenSqr < 1e-18 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/lenSqr, 0, 1)
	return a.Add(ab.Mul(t))
}

// ClosestPointsSegments returns the closest pair of points between segments
// p1q1 and p2q2 (Ericson, Real-Time Collision Detection 5.1.9).
func ClosestPointsSegments(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	const eps = 1e-12

	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = mgl64.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = mgl64.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = mgl64.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl64.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl64.Clamp((b-c)/a, 0, 1)
			}
		}
	}

	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
