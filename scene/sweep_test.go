package scene

import (
	"math"
	"testing"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func TestSweepCapsule(t *testing.T) {
	tests := []struct {
		name      string
		collider  *actor.Collider
		capsule   actor.WorldCapsule
		direction mgl64.Vec3
		maxDist   float64
		wantHit   bool
		distance  float64
		normal    mgl64.Vec3
	}{
		{
			name:      "falling onto a plane",
			collider:  createGround(),
			capsule:   capsuleAt(mgl64.Vec3{0, 2, 0}),
			direction: mgl64.Vec3{0, -1, 0},
			maxDist:   5,
			wantHit:   true,
			distance:  1.5,
			normal:    mgl64.Vec3{0, 1, 0},
		},
		{
			name:      "walking on a plane",
			collider:  createGround(),
			capsule:   capsuleAt(mgl64.Vec3{0, 0.5, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   5,
		},
		{
			name:      "pressing into a plane",
			collider:  createGround(),
			capsule:   capsuleAt(mgl64.Vec3{0, 0.5, 0}),
			direction: mgl64.Vec3{1, -0.5, 0},
			maxDist:   5,
			wantHit:   true,
			distance:  0,
			normal:    mgl64.Vec3{0, 1, 0},
		},
		{
			name:      "leaving a plane",
			collider:  createGround(),
			capsule:   capsuleAt(mgl64.Vec3{0, 0.4, 0}),
			direction: mgl64.Vec3{0, 1, 0},
			maxDist:   5,
		},
		{
			name:      "toward a sphere",
			collider:  createSphere(mgl64.Vec3{5, 1.5, 0}, 1),
			capsule:   capsuleAt(mgl64.Vec3{0, 1, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   10,
			wantHit:   true,
			distance:  3.5,
			normal:    mgl64.Vec3{-1, 0, 0},
		},
		{
			name:      "toward a box",
			collider:  createBox(mgl64.Vec3{5, 1, 0}, mgl64.Vec3{1, 1, 1}),
			capsule:   capsuleAt(mgl64.Vec3{0, 1, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   10,
			wantHit:   true,
			distance:  3.5,
			normal:    mgl64.Vec3{-1, 0, 0},
		},
		{
			name:      "box out of reach",
			collider:  createBox(mgl64.Vec3{5, 1, 0}, mgl64.Vec3{1, 1, 1}),
			capsule:   capsuleAt(mgl64.Vec3{0, 1, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   3,
		},
		{
			name:      "passing beside a box",
			collider:  createBox(mgl64.Vec3{5, 1, 3}, mgl64.Vec3{1, 1, 1}),
			capsule:   capsuleAt(mgl64.Vec3{0, 1, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   10,
		},
		{
			name: "toward a capsule",
			collider: actor.NewCollider(
				actor.NewTransformAt(mgl64.Vec3{3, 1, 0}, mgl64.QuatIdent()),
				&actor.Capsule{Radius: 0.5, HalfHeight: 1},
			),
			capsule:   capsuleAt(mgl64.Vec3{0, 1, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   10,
			wantHit:   true,
			distance:  2,
			normal:    mgl64.Vec3{-1, 0, 0},
		},
		{
			name:      "starting with the core inside a box",
			collider:  createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			capsule:   capsuleAt(mgl64.Vec3{0, 0.5, 0}),
			direction: mgl64.Vec3{1, 0, 0},
			maxDist:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			id := s.Add(tt.collider)

			hit, ok := s.SweepCapsule(tt.capsule, tt.direction, tt.maxDist, uuid.Nil)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v (%+v)", ok, tt.wantHit, hit)
			}
			if !ok {
				return
			}

			if hit.Collider != id {
				t.Errorf("Collider = %v, want %v", hit.Collider, id)
			}
			if math.Abs(hit.Distance-tt.distance) > 1e-4 {
				t.Errorf("Distance = %v, want %v", hit.Distance, tt.distance)
			}
			if !vec3ApproxEqual(hit.Normal, tt.normal, 1e-4) {
				t.Errorf("Normal = %v, want %v", hit.Normal, tt.normal)
			}
		})
	}
}

func TestSweepCapsuleNearest(t *testing.T) {
	s := New()
	s.Add(createSphere(mgl64.Vec3{8, 1.5, 0}, 1))
	box := s.Add(createBox(mgl64.Vec3{5, 1, 0}, mgl64.Vec3{1, 1, 1}))

	hit, ok := s.SweepCapsule(capsuleAt(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{1, 0, 0}, 20, uuid.Nil)
	if !ok || hit.Collider != box {
		t.Fatalf("the box is closer, got %+v %v", hit, ok)
	}

	if _, ok := s.SweepCapsule(capsuleAt(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{1, 0, 0}, 20, box); !ok {
		t.Error("ignoring the box should reveal the sphere")
	}
}

func TestSweepCapsuleDegenerateInput(t *testing.T) {
	s := New()
	s.Add(createGround())
	capsule := capsuleAt(mgl64.Vec3{0, 2, 0})

	if _, ok := s.SweepCapsule(capsule, mgl64.Vec3{}, 5, uuid.Nil); ok {
		t.Error("zero direction should not hit")
	}
	if _, ok := s.SweepCapsule(capsule, mgl64.Vec3{0, -1, 0}, 0, uuid.Nil); ok {
		t.Error("zero distance should not hit")
	}
	if _, ok := s.SweepCapsule(capsule, mgl64.Vec3{0, -1, 0}, math.NaN(), uuid.Nil); ok {
		t.Error("NaN distance should not hit")
	}
}

func TestRaycast(t *testing.T) {
	ramp := actor.NewCollider(
		actor.NewTransformAt(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{0, 0, 1})),
		&actor.Box{HalfExtents: mgl64.Vec3{3, 1, 3}},
	)

	tests := []struct {
		name     string
		collider *actor.Collider
		distance float64
		normal   mgl64.Vec3
	}{
		{"plane", createGround(), 5, mgl64.Vec3{0, 1, 0}},
		{"box top", createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), 4, mgl64.Vec3{0, 1, 0}},
		{"tilted box", ramp, 5 - 1/math.Cos(math.Pi/6), mgl64.Vec3{-0.5, math.Sqrt(3) / 2, 0}},
		{"sphere", createSphere(mgl64.Vec3{}, 2), 3, mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Add(tt.collider)

			hit, ok := s.Raycast(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 10, uuid.Nil)
			if !ok {
				t.Fatal("expected a hit")
			}
			if math.Abs(hit.Distance-tt.distance) > 1e-4 {
				t.Errorf("Distance = %v, want %v", hit.Distance, tt.distance)
			}
			if !vec3ApproxEqual(hit.Normal, tt.normal, 1e-4) {
				t.Errorf("Normal = %v, want %v", hit.Normal, tt.normal)
			}
		})
	}
}

func TestRaycastBoxFaces(t *testing.T) {
	box := createBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})

	tests := []struct {
		name      string
		origin    mgl64.Vec3
		direction mgl64.Vec3
		distance  float64
		point     mgl64.Vec3
		normal    mgl64.Vec3
	}{
		{"straight down", mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 4, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"oblique onto the top", mgl64.Vec3{-1, 4, 0}, mgl64.Vec3{0.5, -1, 0}, 3 * math.Sqrt(1.25), mgl64.Vec3{0.5, 1, 0}, mgl64.Vec3{0, 1, 0}},
		{"side face", mgl64.Vec3{-5, 0.5, 0}, mgl64.Vec3{1, 0, 0}, 4, mgl64.Vec3{-1, 0.5, 0}, mgl64.Vec3{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Add(box)

			hit, ok := s.Raycast(tt.origin, tt.direction, 10, uuid.Nil)
			if !ok {
				t.Fatal("expected a hit")
			}
			if math.Abs(hit.Distance-tt.distance) > 1e-4 {
				t.Errorf("Distance = %v, want %v", hit.Distance, tt.distance)
			}
			if !vec3ApproxEqual(hit.Point, tt.point, 1e-4) {
				t.Errorf("Point = %v, want %v", hit.Point, tt.point)
			}
			if !vec3ApproxEqual(hit.Normal, tt.normal, 1e-4) {
				t.Errorf("Normal = %v, want %v", hit.Normal, tt.normal)
			}
		})
	}
}
