package kinematic

import "github.com/go-gl/mathgl/mgl64"

// UpSource gives the up axis at a position, for gravity fields that change
// across the world. A zero result leaves the up axis as it is.
type UpSource interface {
	UpAt(position mgl64.Vec3) mgl64.Vec3
}

// PointGravity pulls toward Center, as on a small planet: up points from
// Center to the agent.
type PointGravity struct {
	Center mgl64.Vec3
}

func (g PointGravity) UpAt(position mgl64.Vec3) mgl64.Vec3 {
	return position.Sub(g.Center)
}

// WithUpSource makes the controller follow source at the start of every tick
func WithUpSource(source UpSource) Option {
	return func(c *Controller) {
		c.upSource = source
	}
}

// followUpSource updates the up axis from the controller's up source
func (c *Controller) followUpSource() {
	if c.upSource == nil {
		return
	}

	up, err := normalizeAxis(c.upSource.UpAt(c.state.Position))
	if err != nil {
		c.logger.Debug("up source gave no axis", "position", c.state.Position)
		return
	}
	c.state.UpAxis = up
}
