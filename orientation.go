package kinematic

import "github.com/go-gl/mathgl/mgl64"

// updateRotation turns the agent toward its target by at most
// RotationSpeed * dt degrees.
func (c *Controller) updateRotation(dt float64) {
	s := &c.state
	s.Orientation = rotateTowards(s.Orientation, c.targetRotation(), c.settings.RotationSpeed*dt)
}

// targetRotation faces the desired look direction while walking on ground,
// and otherwise keeps the current heading standing upright along the up axis.
func (c *Controller) targetRotation() mgl64.Quat {
	s := &c.state

	if s.IsGrounded && s.DesiredPlanarVelocity.LenSqr() > epsilon {
		if target, ok := lookRotation(s.DesiredLookDirection, s.UpAxis); ok {
			return target
		}
	}

	if target, ok := lookRotation(s.Orientation.Rotate(worldForward), s.UpAxis); ok {
		return target
	}

	return upFrame(s.UpAxis)
}
