package epa

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope.
// Normal points away from the origin and Distance is the origin-to-plane distance.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Edge is an undirected polytope edge, stored with A <= B
type Edge struct {
	A, B mgl64.Vec3
}

// newEdge orders the endpoints so that both windings give the same key
func newEdge(a, b mgl64.Vec3) Edge {
	if compareVec3(a, b) > 0 {
		return Edge{A: b, B: a}
	}
	return Edge{A: a, B: b}
}

// newFace builds the face (p0, p1, p2) with its normal facing away from
// inside, a point known to lie within the polytope.
func newFace(p0, p1, p2, inside mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-8 {
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = MinFaceDistance
		return face
	}
	normal = normal.Mul(1 / length)

	if normal.Dot(inside.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = max(distance, MinFaceDistance)

	return face
}

// sees reports whether point lies in front of the face
func (f *Face) sees(point mgl64.Vec3) bool {
	return point.Sub(f.Points[0]).Dot(f.Normal) > 0
}

func (f *Face) edges() [3]Edge {
	return [3]Edge{
		newEdge(f.Points[0], f.Points[1]),
		newEdge(f.Points[1], f.Points[2]),
		newEdge(f.Points[2], f.Points[0]),
	}
}

// compareVec3 orders vectors by x, then y, then z
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
