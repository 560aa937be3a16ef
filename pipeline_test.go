package kinematic

import (
	"sync/atomic"
	"testing"
)

func TestTask(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		size    int
	}{
		{"no data", 4, 0},
		{"one worker", 1, 10},
		{"even split", 4, 12},
		{"uneven split", 4, 13},
		{"more workers than data", 16, 3},
		{"no workers", 0, 5},
		{"negative workers", -2, 5},
		{"chunks exhausted early", 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]int, tt.size)
			for i := range data {
				data[i] = i
			}
			visits := make([]atomic.Int32, tt.size)

			task(tt.workers, data, func(i int) {
				visits[i].Add(1)
			})

			for i := range visits {
				if n := visits[i].Load(); n != 1 {
					t.Errorf("element %d visited %d times, want 1", i, n)
				}
			}
		})
	}
}
