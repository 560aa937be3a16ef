package kinematic

// slopeTolerance absorbs rounding when a slope sits exactly on the limit
const slopeTolerance = 1e-4

func (c *Controller) resetGround() {
	s := &c.state
	s.WasGrounded = s.IsGrounded
	s.IsGrounded = false
	s.Ground = flatGround(s.UpAxis)
}

// probeGround looks for walkable ground within the snap distance below the
// agent and snaps onto it.
func (c *Controller) probeGround() {
	s := &c.state
	up := s.UpAxis

	if s.jumping {
		if s.Velocity.Dot(up) > 0 {
			return
		}
		s.jumping = false
	}

	// raise the bottom sphere so that ground already touched is still met,
	// and reach the snap distance below the actual capsule
	lift := c.settings.CollisionResolutionDistance
	capsule := c.capsule.At(s.Position, up)
	capsule.Bottom = capsule.Bottom.Add(up.Mul(lift))

	hit, ok := c.world.SweepCapsule(capsule, up.Mul(-1), c.settings.GroundSnapDistance+lift, c.collider)
	if !ok {
		if s.WasGrounded {
			c.takeoffFromLedge()
		}
		return
	}

	contact := GroundContact{
		Point:        hit.Point,
		Normal:       hit.Normal,
		SlopeDegrees: slopeAngle(hit.Normal, up),
	}
	// the swept normal may come from an edge; a ray gives the face below
	ray, ok := c.world.Raycast(capsule.Bottom, hit.Normal.Mul(-1), c.settings.GroundSnapDistance+lift+capsule.Radius, c.collider)
	if ok && ray.Normal.LenSqr() > epsilon {
		contact.Normal = ray.Normal.Normalize()
		contact.SlopeDegrees = slopeAngle(contact.Normal, up)
	}

	switch {
	case c.walkable(contact.SlopeDegrees):
		s.IsGrounded = true
		s.Ground = contact
		s.Position = s.Position.Sub(up.Mul(hit.Distance - lift))
		if !s.WasGrounded {
			c.land()
		}
	case contact.SlopeDegrees <= 90 && s.WasGrounded:
		c.takeoffFromSlope(contact)
	}
}

func (c *Controller) walkable(slope float64) bool {
	return slope <= c.settings.SlopeAngleLimit+slopeTolerance
}

// land carries the velocity of the fall into the walking velocity
func (c *Controller) land() {
	s := &c.state
	normal := s.Ground.Normal

	alongGround := projectOnPlane(s.Velocity, normal)
	s.planarVelocity = fromTo(s.UpAxis, normal).Inverse().Rotate(alongGround)

	c.Events.emit(LandedEvent{Ground: s.Ground, PlanarVelocity: s.planarVelocity})
	c.logger.Debug("landed", "slope", s.Ground.SlopeDegrees, "speed", s.planarVelocity.Len())
}

// takeoffFromSlope damps the upward velocity of an agent losing its footing
// on ground that became too steep.
func (c *Controller) takeoffFromSlope(surface GroundContact) {
	s := &c.state
	if rise := s.Velocity.Dot(s.UpAxis); rise > 0 {
		s.Velocity = s.Velocity.Sub(s.UpAxis.Mul(rise * c.settings.SteepTakeoffDamping))
	}

	c.Events.emit(TakeoffFromSlopeEvent{Surface: surface})
	c.logger.Debug("took off from slope", "slope", surface.SlopeDegrees)
}

func (c *Controller) takeoffFromLedge() {
	c.Events.emit(TakeoffFromLedgeEvent{})
	c.logger.Debug("took off from ledge")
}
