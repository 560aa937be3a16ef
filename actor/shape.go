package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
	ShapeTypeCapsule
)

// planeExtent stands in for infinity in plane bounds and support points
const planeExtent = 1e4

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Support returns the furthest local point in the local direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

// ComputeAABB projects the half extents through the absolute rotation matrix,
// which bounds the rotated box without visiting its 8 corners.
func (b *Box) ComputeAABB(transform Transform) {
	r := transform.Rotation.Mat4().Mat3()

	var extent mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			extent[row] += math.Abs(r.At(row, col)) * b.HalfExtents[col]
		}
	}

	b.aabb = AABB{
		Min: transform.Position.Sub(extent),
		Max: transform.Position.Add(extent),
	}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// ClosestPoint clamps a local point onto the box volume
func (b *Box) ClosestPoint(local mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(local.X(), -b.HalfExtents.X(), b.HalfExtents.X()),
		mgl64.Clamp(local.Y(), -b.HalfExtents.Y(), b.HalfExtents.Y()),
		mgl64.Clamp(local.Z(), -b.HalfExtents.Z(), b.HalfExtents.Z()),
	}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-24 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}

// Capsule is a segment along the local Y axis swept by a sphere.
// HalfHeight is half the distance between the two sphere centers.
type Capsule struct {
	Radius     float64
	HalfHeight float64
	aabb       AABB
}

func (c *Capsule) Type() ShapeType { return ShapeTypeCapsule }

func (c *Capsule) ComputeAABB(transform Transform) {
	world := c.At(transform)
	c.aabb = world.AABB()
}

func (c *Capsule) GetAABB() AABB {
	return c.aabb
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	tip := mgl64.Vec3{0, c.HalfHeight, 0}
	if direction.Y() < 0 {
		tip = tip.Mul(-1)
	}
	if direction.LenSqr() < 1e-24 {
		return tip
	}
	return tip.Add(direction.Normalize().Mul(c.Radius))
}

// At places the capsule in world space
func (c *Capsule) At(transform Transform) WorldCapsule {
	axis := transform.Rotation.Rotate(mgl64.Vec3{0, c.HalfHeight, 0})
	return WorldCapsule{
		Top:    transform.Position.Add(axis),
		Bottom: transform.Position.Sub(axis),
		Radius: c.Radius,
	}
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

// ComputeAABB gives planes a huge box; the scene keeps them out of the broad phase anyway
func (p *Plane) ComputeAABB(transform Transform) {
	inf := mgl64.Vec3{planeExtent, planeExtent, planeExtent}
	p.aabb = AABB{Min: transform.Position.Sub(inf), Max: transform.Position.Add(inf)}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Support treats the plane as a wide slab below its surface, so that GJK
// sees a half-space-like convex volume.
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	tangent1, tangent2 := getTangentBasis(p.Normal)
	origin := p.Normal.Mul(-p.Distance)

	point := origin
	if direction.Dot(p.Normal) <= 0 {
		point = point.Sub(p.Normal.Mul(planeExtent))
	}
	if direction.Dot(tangent1) < 0 {
		point = point.Sub(tangent1.Mul(planeExtent))
	} else {
		point = point.Add(tangent1.Mul(planeExtent))
	}
	if direction.Dot(tangent2) < 0 {
		point = point.Sub(tangent2.Mul(planeExtent))
	} else {
		point = point.Add(tangent2.Mul(planeExtent))
	}

	return point
}

// WorldNormal returns the plane normal for the given transform
func (p *Plane) WorldNormal(transform Transform) mgl64.Vec3 {
	return transform.Rotation.Rotate(p.Normal).Normalize()
}

// SignedDistance returns how far a world point lies above the plane
func (p *Plane) SignedDistance(transform Transform, point mgl64.Vec3) float64 {
	return p.Normal.Dot(transform.ToLocal(point)) + p.Distance
}

// Helper to generate the tangent basis
func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
