package scene

import (
	"math"
	"slices"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the positions, in the grid's entry list, of what overlaps it
type Cell struct {
	entryIndices []int
}

// SpatialGrid is a uniform grid hashed into a fixed number of buckets.
// Entries spanning more cells than there are buckets are kept aside and
// returned by every query that overlaps them.
type SpatialGrid struct {
	cellSize  float64
	cells     []Cell
	cellMask  int
	entries   []Entry
	oversized []int
}

// NewSpatialGrid creates a grid; numCells is rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].entryIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func (sg *SpatialGrid) Rebuild(entries []Entry) {
	sg.Clear()
	for _, entry := range entries {
		sg.Insert(entry)
	}
	sg.SortCells()
}

// Insert adds an entry to every cell its bounds cover
func (sg *SpatialGrid) Insert(entry Entry) {
	position := len(sg.entries)
	sg.entries = append(sg.entries, entry)

	minCell := sg.worldToCell(entry.AABB.Min)
	maxCell := sg.worldToCell(entry.AABB.Max)
	if sg.spans(minCell, maxCell) > len(sg.cells) {
		sg.oversized = append(sg.oversized, position)
		return
	}

	sg.forEachCell(minCell, maxCell, func(cell *Cell) {
		cell.entryIndices = append(cell.entryIndices, position)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].entryIndices = sg.cells[i].entryIndices[:0]
	}
	sg.entries = sg.entries[:0]
	sg.oversized = sg.oversized[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].entryIndices) > 1 {
			slices.Sort(sg.cells[i].entryIndices)
		}
	}
}

func (sg *SpatialGrid) Query(box actor.AABB, results []int) []int {
	start := len(results)

	minCell := sg.worldToCell(box.Min)
	maxCell := sg.worldToCell(box.Max)
	if sg.spans(minCell, maxCell) > len(sg.cells) {
		// cheaper to test everything than to walk that many cells
		for _, entry := range sg.entries {
			if entry.AABB.Overlaps(box) {
				results = append(results, entry.Index)
			}
		}
	} else {
		sg.forEachCell(minCell, maxCell, func(cell *Cell) {
			for _, position := range cell.entryIndices {
				if entry := sg.entries[position]; entry.AABB.Overlaps(box) {
					results = append(results, entry.Index)
				}
			}
		})
		for _, position := range sg.oversized {
			if entry := sg.entries[position]; entry.AABB.Overlaps(box) {
				results = append(results, entry.Index)
			}
		}
	}

	// an entry shows up once per shared cell
	found := results[start:]
	slices.Sort(found)
	found = slices.Compact(found)

	return results[:start+len(found)]
}

func (sg *SpatialGrid) forEachCell(minCell, maxCell CellKey, fn func(cell *Cell)) {
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(&sg.cells[sg.hashCell(CellKey{x, y, z})])
			}
		}
	}
}

// spans counts the cells between two corners, saturating instead of overflowing
func (sg *SpatialGrid) spans(minCell, maxCell CellKey) int {
	total := 1
	for _, extent := range [3]int{maxCell.X - minCell.X + 1, maxCell.Y - minCell.Y + 1, maxCell.Z - minCell.Z + 1} {
		if extent <= 0 || total > math.MaxInt32/extent {
			return math.MaxInt32
		}
		total *= extent
	}
	return total
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: cellCoord(pos.X(), sg.cellSize),
		Y: cellCoord(pos.Y(), sg.cellSize),
		Z: cellCoord(pos.Z(), sg.cellSize),
	}
}

// cellCoord floors v/size, clamped so that far away bounds cannot overflow int
func cellCoord(v, size float64) int {
	return int(mgl64.Clamp(math.Floor(v/size), -1<<30, 1<<30))
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
