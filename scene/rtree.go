package scene

import (
	"slices"

	"github.com/akmonengine/kinematic/actor"
	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

// RTree is a BroadPhase backed by an R-tree, bulk loaded on every rebuild.
// It suits scenes with colliders of very uneven sizes better than the grid.
type RTree struct {
	tree *rtreego.Rtree
}

type rtreeEntry struct {
	Entry
	rect rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

func NewRTree() *RTree {
	return &RTree{tree: rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren)}
}

func (r *RTree) Rebuild(entries []Entry) {
	spatials := make([]rtreego.Spatial, 0, len(entries))
	for _, entry := range entries {
		rect, err := toRect(entry.AABB)
		if err != nil {
			continue
		}
		spatials = append(spatials, &rtreeEntry{Entry: entry, rect: rect})
	}

	r.tree = rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren, spatials...)
}

func (r *RTree) Query(box actor.AABB, results []int) []int {
	rect, err := toRect(box)
	if err != nil {
		return results
	}

	start := len(results)
	for _, spatial := range r.tree.SearchIntersect(rect) {
		results = append(results, spatial.(*rtreeEntry).Index)
	}
	slices.Sort(results[start:])

	return results
}

// Len returns the number of indexed entries
func (r *RTree) Len() int {
	return r.tree.Size()
}

func toRect(box actor.AABB) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{box.Min.X(), box.Min.Y(), box.Min.Z()},
		rtreego.Point{box.Max.X(), box.Max.Y(), box.Max.Z()},
	)
}
