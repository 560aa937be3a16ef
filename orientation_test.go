package kinematic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBoundedRotationRate(t *testing.T) {
	for _, axis := range upAxes {
		t.Run(axis.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.RotationSpeed = 90

			s := newScene(createGround(axis.up))
			c := spawn(t, s, axis.up, mgl64.Vec3{}, settings)
			c.Tick(dt)

			start := c.Orientation()
			target, _ := lookRotation(start.Rotate(worldForward).Mul(-1), axis.up)
			c.MovePlanar(start.Rotate(worldForward).Mul(-1))

			maxStep := settings.RotationSpeed * dt
			ticks := 0
			for quatAngle(c.Orientation(), target) > 1e-6 && ticks < 600 {
				previous := c.Orientation()
				c.Tick(dt)
				ticks++

				if step := quatAngle(previous, c.Orientation()); step > maxStep+1e-6 {
					t.Fatalf("tick %d: turned %v degrees, more than %v", ticks, step, maxStep)
				}
				if up := c.Orientation().Rotate(worldUp); !vec3ApproxEqual(up, axis.up, 1e-9) {
					t.Fatalf("tick %d: body up %v left the up axis", ticks, up)
				}
			}

			if elapsed := float64(ticks) * dt; elapsed < 2-1e-9 {
				t.Errorf("180 degrees turned in %vs, want at least 2s", elapsed)
			}
			if ticks > 122 {
				t.Errorf("turn took %d ticks, want it done right after 2s", ticks)
			}
		})
	}
}

func TestRotationHoldsWhenIdle(t *testing.T) {
	s := newScene(createGround(worldUp))
	c := spawn(t, s, worldUp, mgl64.Vec3{}, DefaultSettings())
	c.Tick(dt)

	// a look direction without motion does not turn the agent
	c.SetPlanarMotion(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	before := c.Orientation()
	for iter := 0; iter < 30; iter++ {
		c.Tick(dt)
	}

	if quatAngle(before, c.Orientation()) > 1e-6 {
		t.Errorf("orientation changed from %v to %v", before, c.Orientation())
	}
}

func TestRotationHoldsWhileAirborne(t *testing.T) {
	c, _ := New(&scriptedWorld{}, Agent{Capsule: testCapsule, Position: mgl64.Vec3{0, 10, 0}}, DefaultSettings())
	c.MovePlanar(mgl64.Vec3{1, 0, 0})
	before := c.Orientation()

	for iter := 0; iter < 30; iter++ {
		c.Tick(dt)
	}

	if quatAngle(before, c.Orientation()) > 1e-6 {
		t.Errorf("airborne agent turned from %v to %v", before, c.Orientation())
	}
}

func TestRotationFollowsUpAxis(t *testing.T) {
	settings := DefaultSettings()
	settings.RotationSpeed = 90
	c, _ := New(&scriptedWorld{}, Agent{Capsule: testCapsule}, settings)

	up := mgl64.Vec3{1, 1, 0}.Normalize()
	if err := c.SetUpAxis(up); err != nil {
		t.Fatalf("SetUpAxis() error: %v", err)
	}

	for iter := 0; iter < 120; iter++ {
		previous := c.Orientation()
		c.Tick(dt)
		if step := quatAngle(previous, c.Orientation()); step > settings.RotationSpeed*dt+1e-6 {
			t.Fatalf("turned %v degrees in one tick", step)
		}
	}

	if got := c.Orientation().Rotate(worldUp); !vec3ApproxEqual(got, up, 1e-9) {
		t.Errorf("body up = %v, want %v", got, up)
	}
	// the heading survives the re-levelling
	if forward := c.Orientation().Rotate(worldForward); math.Abs(forward.Z()-1) > 1e-9 {
		t.Errorf("forward = %v, want it kept along z", forward)
	}
}
