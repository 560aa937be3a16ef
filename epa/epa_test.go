package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

func createBox(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.Collider {
	return actor.NewCollider(actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: halfExtents})
}

func TestSnapNormalToAxis(t *testing.T) {
	tests := []struct {
		name   string
		normal mgl64.Vec3
		want   mgl64.Vec3
	}{
		{"clean axis", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"tiny noise", mgl64.Vec3{1e-10, -1, 1e-9}, mgl64.Vec3{0, -1, 0}},
		{"everything tiny", mgl64.Vec3{1e-10, 1e-10, 1e-10}, mgl64.Vec3{0, 1, 0}},
		{"diagonal kept", mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1 / math.Sqrt2, 1 / math.Sqrt2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapNormalToAxis(tt.normal); !vec3ApproxEqual(got, tt.want, 1e-12) {
				t.Errorf("snapNormalToAxis(%v) = %v, want %v", tt.normal, got, tt.want)
			}
		})
	}
}

func TestEPA(t *testing.T) {
	tests := []struct {
		name   string
		a, b   actor.Convex
		normal mgl64.Vec3
		depth  float64
	}{
		{
			name:   "stacked boxes",
			a:      createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}),
			b:      createBox(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{1, 1, 1}),
			normal: mgl64.Vec3{0, 1, 0},
			depth:  0.5,
		},
		{
			name:   "side by side boxes",
			a:      createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}),
			b:      createBox(mgl64.Vec3{-1.8, 0.2, 0}, mgl64.Vec3{1, 1, 1}),
			normal: mgl64.Vec3{-1, 0, 0},
			depth:  0.2,
		},
		{
			name:   "capsule sunk into a slab",
			a:      actor.WorldCapsule{Bottom: mgl64.Vec3{0, 0.4, 0}, Top: mgl64.Vec3{0, 1.4, 0}, Radius: 0.5},
			b:      createBox(mgl64.Vec3{}, mgl64.Vec3{5, 0.1, 5}),
			normal: mgl64.Vec3{0, -1, 0},
			depth:  0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex, ok := gjk.Intersect(tt.a, tt.b)
			if !ok {
				t.Fatal("GJK should report an overlap")
			}
			defer gjk.SimplexPool.Put(simplex)

			result, err := EPA(tt.a, tt.b, simplex)
			if err != nil {
				t.Fatalf("EPA: %v", err)
			}
			if !vec3ApproxEqual(result.Normal, tt.normal, 1e-3) {
				t.Errorf("Normal = %v, want %v", result.Normal, tt.normal)
			}
			if math.Abs(result.Depth-tt.depth) > 1e-2 {
				t.Errorf("Depth = %v, want %v", result.Depth, tt.depth)
			}
		})
	}
}

func TestEPAShortSimplex(t *testing.T) {
	a := createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	b := createBox(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 1, 1})

	t.Run("segment", func(t *testing.T) {
		simplex := &gjk.Simplex{Count: 2}
		simplex.Points[0] = mgl64.Vec3{0, 0.6, 0}
		simplex.Points[1] = mgl64.Vec3{0, 0.5, 0}

		result, err := EPA(a, b, simplex)
		if err != nil {
			t.Fatalf("EPA: %v", err)
		}
		if !vec3ApproxEqual(result.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) || math.Abs(result.Depth-0.5) > 1e-12 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("single point uses origins", func(t *testing.T) {
		simplex := &gjk.Simplex{Count: 1}

		result, err := EPA(a, b, simplex)
		if err != nil {
			t.Fatalf("EPA: %v", err)
		}
		if !vec3ApproxEqual(result.Normal, mgl64.Vec3{0, 1, 0}, 1e-12) {
			t.Errorf("Normal = %v", result.Normal)
		}
	})
}

func BenchmarkEPABoxes(b *testing.B) {
	boxA := createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	boxB := createBox(mgl64.Vec3{0.3, 1.5, 0.1}, mgl64.Vec3{1, 1, 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		simplex, ok := gjk.Intersect(boxA, boxB)
		if !ok {
			b.Fatal("expected overlap")
		}
		_, _ = EPA(boxA, boxB, simplex)
		gjk.SimplexPool.Put(simplex)
	}
}
