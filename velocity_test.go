package kinematic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMomentumTransferOnLanding(t *testing.T) {
	heights := []struct {
		name   string
		height float64
	}{
		{"caught by the probe", 0.03},
		{"caught by the move", 0.5},
		{"long fall", 3},
	}

	for _, axis := range upAxes {
		for _, h := range heights {
			t.Run(axis.name+"/"+h.name, func(t *testing.T) {
				s := newScene(createGround(axis.up))
				c := spawn(t, s, axis.up, axis.up.Mul(h.height), DefaultSettings())
				c.state.Velocity = inFrame(axis.up, mgl64.Vec3{2, -5, 0})

				var landed []LandedEvent
				c.Events.Subscribe(LANDED, func(event Event) {
					landed = append(landed, event.(LandedEvent))
				})

				for i := 0; i < 120 && len(landed) == 0; i++ {
					c.Tick(dt)
				}

				if len(landed) != 1 {
					t.Fatalf("landed %d times, want once", len(landed))
				}
				if speed := landed[0].PlanarVelocity.Len(); math.Abs(speed-2) > 1e-9 {
					t.Errorf("planar speed at landing = %v, want 2", speed)
				}
				if got := landed[0].PlanarVelocity.Dot(axis.up); math.Abs(got) > 1e-9 {
					t.Errorf("planar velocity %v keeps a vertical part", landed[0].PlanarVelocity)
				}
				if !c.IsGrounded() {
					t.Error("agent should be grounded after landing")
				}
			})
		}
	}
}

func TestLandingOnSlopeKeepsAlongSlopeSpeed(t *testing.T) {
	s := newScene(createSlope(worldUp, 30))
	normal := createSlopeNormal(worldUp, 30)
	c := spawn(t, s, worldUp, normal.Mul(testCapsule.Radius).Sub(mgl64.Vec3{0, 0.5, 0}), DefaultSettings())
	c.state.Velocity = mgl64.Vec3{1, -3, 2}

	var landed LandedEvent
	c.Events.Subscribe(LANDED, func(event Event) {
		landed = event.(LandedEvent)
	})
	c.Tick(dt)

	alongSlope := projectOnPlane(mgl64.Vec3{1, -3, 2}, normal)
	if speed := landed.PlanarVelocity.Len(); math.Abs(speed-alongSlope.Len()) > 1e-9 {
		t.Errorf("planar speed = %v, want the along slope speed %v", speed, alongSlope.Len())
	}
	if math.Abs(landed.PlanarVelocity.Dot(worldUp)) > 1e-9 {
		t.Errorf("planar velocity %v is not flat", landed.PlanarVelocity)
	}
}

func TestGroundAcceleration(t *testing.T) {
	for _, axis := range upAxes {
		t.Run(axis.name, func(t *testing.T) {
			settings := DefaultSettings()
			s := newScene(createGround(axis.up))
			c := spawn(t, s, axis.up, mgl64.Vec3{}, settings)
			c.Tick(dt)

			direction := inFrame(axis.up, mgl64.Vec3{0, 0, 1})
			c.MovePlanar(direction)

			step := settings.GroundMoveAcceleration * dt
			previous := 0.0
			reached := -1
			for i := 0; i < 60; i++ {
				c.Tick(dt)
				speed := c.Velocity().Dot(direction)
				if speed-previous > step+1e-9 {
					t.Fatalf("tick %d: speed jumped from %v to %v, more than %v", i, previous, speed, step)
				}
				if speed > settings.MoveSpeed+1e-9 {
					t.Fatalf("tick %d: speed %v overshot %v", i, speed, settings.MoveSpeed)
				}
				if reached < 0 && math.Abs(speed-settings.MoveSpeed) < 1e-9 {
					reached = i
				}
				previous = speed
			}

			// 5 m/s at 15 m/s² takes 1/3 s
			if reached < 0 || reached > 20 {
				t.Errorf("target speed reached at tick %d, want exactly within 20 ticks", reached)
			}
		})
	}
}

func TestGroundedVelocityFollowsSlope(t *testing.T) {
	s := newScene(createSlope(worldUp, 30))
	normal := createSlopeNormal(worldUp, 30)
	c := spawn(t, s, worldUp, normal.Mul(testCapsule.Radius).Sub(mgl64.Vec3{0, 0.5, 0}), DefaultSettings())
	c.Tick(dt)

	// uphill, the slope rises toward +x
	c.MovePlanar(mgl64.Vec3{1, 0, 0})
	for iter := 0; iter < 30; iter++ {
		c.Tick(dt)
	}

	if !c.IsGrounded() {
		t.Fatal("agent should stay on a walkable slope")
	}
	if v := c.Velocity(); math.Abs(v.Dot(normal)) > 1e-9 {
		t.Errorf("velocity %v leaves the slope plane", v)
	}
	if c.Velocity().Y() <= 0 {
		t.Errorf("velocity %v should climb the slope", c.Velocity())
	}
	if speed := c.Velocity().Len(); math.Abs(speed-DefaultSettings().MoveSpeed) > 1e-9 {
		t.Errorf("speed along the slope = %v, want the walking speed", speed)
	}
}

func TestJump(t *testing.T) {
	for _, axis := range upAxes {
		t.Run(axis.name, func(t *testing.T) {
			settings := DefaultSettings()
			s := newScene(createGround(axis.up))
			c := spawn(t, s, axis.up, mgl64.Vec3{}, settings)
			capture := &eventCapture{}
			capture.subscribeAll(&c.Events)
			c.Tick(dt)

			c.Jump()
			c.Tick(dt)

			if c.IsGrounded() {
				t.Fatal("agent should leave the ground when jumping")
			}
			if rise := c.Velocity().Dot(axis.up); math.Abs(rise-settings.JumpSpeed) > 1e-9 {
				t.Errorf("upward speed = %v, want %v", rise, settings.JumpSpeed)
			}
			if capture.count(TAKEOFF_FROM_JUMP) != 1 {
				t.Fatalf("events = %v, want one jump takeoff", capture.events)
			}

			// a jump request in the air is dropped
			c.Jump()
			c.Tick(dt)
			wantRise := settings.JumpSpeed - settings.Gravity*dt
			if rise := c.Velocity().Dot(axis.up); math.Abs(rise-wantRise) > 1e-9 {
				t.Errorf("upward speed = %v, want %v", rise, wantRise)
			}
			if c.state.jumpRequested {
				t.Error("the airborne jump request should have been consumed")
			}

			for i := 0; i < 120 && !c.IsGrounded(); i++ {
				c.Tick(dt)
			}
			if !c.IsGrounded() {
				t.Fatal("agent should land after the jump")
			}
			if capture.count(LANDED) != 2 {
				t.Errorf("landed %d times, want 2", capture.count(LANDED))
			}
			if capture.count(TAKEOFF_FROM_LEDGE)+capture.count(TAKEOFF_FROM_SLOPE) != 0 {
				t.Errorf("events = %v, a jump is not a ledge or slope takeoff", capture.events)
			}
		})
	}
}
