package scene

import (
	"github.com/akmonengine/kinematic/actor"
)

// Entry is a bounded collider as seen by a broad phase: its position in the
// scene and its world bounds.
type Entry struct {
	Index int
	AABB  actor.AABB
}

// BroadPhase culls colliders whose bounds cannot touch a query box.
// Rebuild is never called concurrently with Query; Query must be safe for
// concurrent use.
type BroadPhase interface {
	Rebuild(entries []Entry)
	// Query appends to results the Index of every entry overlapping box,
	// in ascending order
	Query(box actor.AABB, results []int) []int
}
