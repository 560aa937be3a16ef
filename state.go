package kinematic

import "github.com/go-gl/mathgl/mgl64"

// Phase is the controller's locomotion state
type Phase uint8

const (
	Airborne Phase = iota
	Grounded
)

func (p Phase) String() string {
	switch p {
	case Grounded:
		return "grounded"
	default:
		return "airborne"
	}
}

// GroundContact is the surface supporting a grounded agent
type GroundContact struct {
	Point        mgl64.Vec3
	Normal       mgl64.Vec3
	SlopeDegrees float64
}

// ControllerState is everything a controller carries from one tick to the
// next. Ground is only meaningful while IsGrounded.
type ControllerState struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Orientation mgl64.Quat

	IsGrounded  bool
	WasGrounded bool
	Ground      GroundContact

	DesiredPlanarVelocity mgl64.Vec3
	DesiredLookDirection  mgl64.Vec3
	UpAxis                mgl64.Vec3

	// planarVelocity is the walking velocity before it is tilted onto the ground
	planarVelocity mgl64.Vec3
	jumpRequested  bool
	// jumping holds until the agent stops rising after a jump
	jumping bool
}

func (s ControllerState) Phase() Phase {
	if s.IsGrounded {
		return Grounded
	}
	return Airborne
}

// flatGround is the neutral contact used while no ground is known
func flatGround(up mgl64.Vec3) GroundContact {
	return GroundContact{Normal: up}
}
