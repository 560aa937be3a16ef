package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Convex is anything GJK can query: a world-space support mapping and a
// reference point inside the volume.
type Convex interface {
	SupportWorld(direction mgl64.Vec3) mgl64.Vec3
	Origin() mgl64.Vec3
}

// Collider is a piece of collision geometry placed in the world.
// Colliders never move on their own; kinematic agents move theirs explicitly.
type Collider struct {
	ID        uuid.UUID
	Transform Transform
	Shape     ShapeInterface
}

// NewCollider creates a collider with a fresh ID and an up to date AABB
func NewCollider(transform Transform, shape ShapeInterface) *Collider {
	c := &Collider{
		ID:    uuid.New(),
		Shape: shape,
	}
	c.SetTransform(transform)

	return c
}

// SetTransform moves the collider and refreshes its bounds
func (c *Collider) SetTransform(transform Transform) {
	c.Transform = NewTransformAt(transform.Position, transform.Rotation)
	c.Shape.ComputeAABB(c.Transform)
}

func (c *Collider) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	// 1. Direction into local space
	localDirection := c.Transform.InverseRotation.Rotate(direction)

	// 2. Local support point
	localSupport := c.Shape.Support(localDirection)

	// 3. Back to world space
	return c.Transform.ToWorld(localSupport)
}

func (c *Collider) Origin() mgl64.Vec3 {
	return c.Transform.Position
}

// IsBounded reports whether the collider has finite extent
func (c *Collider) IsBounded() bool {
	_, isPlane := c.Shape.(*Plane)
	return !isPlane
}
