package epa

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// PolytopeBuilder owns the scratch buffers of one EPA run.
// Builders are pooled so that steady state expansion does not allocate.
type PolytopeBuilder struct {
	faces          []Face
	vertices       []mgl64.Vec3
	edges          []EdgeEntry
	visibleIndices []int
}

// EdgeEntry counts how many visible faces share an edge.
// Edges seen once bound the visible region.
type EdgeEntry struct {
	Edge
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			vertices:       make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.vertices = b.vertices[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces turns a GJK tetrahedron into four outward faces
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("epa: simplex has %d points, need 4", simplex.Count)
	}

	p := simplex.Points
	candidates := [4]Face{
		newFace(p[0], p[1], p[2], p[3]),
		newFace(p[0], p[2], p[3], p[1]),
		newFace(p[0], p[3], p[1], p[2]),
		newFace(p[1], p[3], p[2], p[0]),
	}

	for _, face := range candidates {
		if face.Distance >= MinFaceDistance {
			b.faces = append(b.faces, face)
		}
	}

	// a flat tetrahedron loses faces; keep them all rather than lose the volume
	if len(b.faces) < 3 {
		b.faces = append(b.faces[:0], candidates[:]...)
	}

	return nil
}

// FindClosestFaceIndex returns the face nearest to the origin, or -1 when empty
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	closest := -1
	for i := range b.faces {
		if closest < 0 || b.faces[i].Distance < b.faces[closest].Distance {
			closest = i
		}
	}
	return closest
}

func (b *PolytopeBuilder) GetClosestFace() *Face {
	i := b.FindClosestFaceIndex()
	if i < 0 {
		return nil
	}
	return &b.faces[i]
}

// removeFace drops a face by swapping it with the last one
func (b *PolytopeBuilder) removeFace(i int) {
	last := len(b.faces) - 1
	b.faces[i] = b.faces[last]
	b.faces = b.faces[:last]
}

// centroid averages the distinct vertices of the polytope
func (b *PolytopeBuilder) centroid() mgl64.Vec3 {
	b.vertices = b.vertices[:0]
	for i := range b.faces {
		for _, point := range b.faces[i].Points {
			if !b.hasVertex(point) {
				b.vertices = append(b.vertices, point)
			}
		}
	}

	if len(b.vertices) == 0 {
		return mgl64.Vec3{}
	}

	var sum mgl64.Vec3
	for _, v := range b.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(b.vertices)))
}

func (b *PolytopeBuilder) hasVertex(point mgl64.Vec3) bool {
	for _, v := range b.vertices {
		if v == point {
			return true
		}
	}
	return false
}

func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]
	for i := range b.faces {
		if b.faces[i].sees(support) {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// findBoundaryEdges collects the horizon of the visible faces
func (b *PolytopeBuilder) findBoundaryEdges() {
	b.edges = b.edges[:0]

	for _, faceIndex := range b.visibleIndices {
		for _, edge := range b.faces[faceIndex].edges() {
			if i := b.findEdgeIndex(edge); i >= 0 {
				b.edges[i].Count++
				continue
			}
			b.edges = append(b.edges, EdgeEntry{Edge: edge, Count: 1})
		}
	}
}

func (b *PolytopeBuilder) findEdgeIndex(edge Edge) int {
	for i := range b.edges {
		if b.edges[i].Edge == edge {
			return i
		}
	}
	return -1
}

// removeVisibleFaces deletes visible faces, highest index first so that
// swap-removal never moves a face still waiting to be deleted
func (b *PolytopeBuilder) removeVisibleFaces() {
	sort.Sort(sort.Reverse(sort.IntSlice(b.visibleIndices)))
	for _, i := range b.visibleIndices {
		b.removeFace(i)
	}
}

// AddPointAndRebuildFaces grows the polytope to include support: the faces it
// sees are removed and the horizon is stitched to it.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) {
	inside := b.centroid()

	b.findVisibleFaces(support)
	if len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = append(b.visibleIndices[:0], closestIndex)
	}

	b.findBoundaryEdges()
	b.removeVisibleFaces()

	for _, edge := range b.edges {
		if edge.Count == 1 {
			b.faces = append(b.faces, newFace(edge.A, edge.B, support, inside))
		}
	}

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: MinFaceDistance,
		})
	}
}
