package kinematic

// updateVelocity applies gravity in the air, and on the ground walks the
// planar velocity toward the desired one before tilting it onto the ground.
func (c *Controller) updateVelocity(dt float64) {
	s := &c.state
	up := s.UpAxis

	jump := s.jumpRequested
	s.jumpRequested = false

	if !s.IsGrounded {
		s.Velocity = s.Velocity.Sub(up.Mul(c.settings.Gravity * dt))
		return
	}

	desired := projectOnPlane(s.DesiredPlanarVelocity, up)
	planar := projectOnPlane(s.planarVelocity, up)
	s.planarVelocity = moveTowards(planar, desired, c.settings.GroundMoveAcceleration*dt)
	s.Velocity = fromTo(up, s.Ground.Normal).Rotate(s.planarVelocity)

	if jump {
		c.jump()
	}
}

func (c *Controller) jump() {
	s := &c.state
	ground := s.Ground

	s.Velocity = s.Velocity.Add(s.UpAxis.Mul(c.settings.JumpSpeed))
	s.jumping = true
	s.IsGrounded = false
	s.Ground = flatGround(s.UpAxis)

	c.Events.emit(TakeoffFromJumpEvent{Ground: ground})
	c.logger.Debug("jumped", "speed", c.settings.JumpSpeed)
}
