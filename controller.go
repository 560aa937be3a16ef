// Package kinematic moves capsule shaped characters through a collision world
// without a dynamics solver.
//
// Every tick a Controller probes for ground, integrates its velocity, sweeps
// the capsule along it while sliding on whatever it meets, pushes itself out
// of remaining overlaps and finally turns toward the desired look direction.
// All slope and gravity math is relative to the agent's up axis, which may
// point anywhere.
package kinematic

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/akmonengine/kinematic/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Agent is the initial placement of a controlled character
type Agent struct {
	// Collider is the agent's own collider in the world, uuid.Nil if none
	Collider uuid.UUID
	Capsule  CapsuleShape
	Position mgl64.Vec3
	// Orientation defaults to standing along UpAxis
	Orientation mgl64.Quat
	// UpAxis defaults to world up
	UpAxis mgl64.Vec3
}

type Controller struct {
	world    CollisionWorld
	collider uuid.UUID
	capsule  CapsuleShape
	settings Settings
	state    ControllerState

	// overlaps is scratch space for the penetration resolver
	overlaps []uuid.UUID
	upSource UpSource
	logger   *slog.Logger

	Events Events
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New validates the configuration and places the agent. It never returns a
// partially built controller.
func New(world CollisionWorld, agent Agent, settings Settings, options ...Option) (*Controller, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	if err := agent.Capsule.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	up := worldUp
	if agent.UpAxis != (mgl64.Vec3{}) {
		var err error
		if up, err = normalizeAxis(agent.UpAxis); err != nil {
			return nil, err
		}
	}

	orientation := upFrame(up)
	if agent.Orientation.Len() > 1e-9 {
		orientation = agent.Orientation.Normalize()
	}

	c := &Controller{
		world:    world,
		collider: agent.Collider,
		capsule:  agent.Capsule,
		settings: settings,
		state: ControllerState{
			Position:             agent.Position,
			Orientation:          orientation,
			Ground:               flatGround(up),
			DesiredLookDirection: orientation.Rotate(worldForward),
			UpAxis:               up,
		},
		overlaps: make([]uuid.UUID, 0, settings.OverlapBufferSize),
		logger:   slog.Default(),
		Events:   NewEvents(),
	}
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.With("agent", agent.Collider)

	return c, nil
}

func normalizeAxis(axis mgl64.Vec3) (mgl64.Vec3, error) {
	length := axis.Len()
	if !(length > 1e-9) || math.IsInf(length, 1) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %v", ErrInvalidUpAxis, axis)
	}
	return axis.Mul(1 / length), nil
}

// SetPlanarMotion sets the desired walking velocity to direction * MoveSpeed
// and the direction to face. A zero look direction keeps the previous one.
func (c *Controller) SetPlanarMotion(direction, lookDirection mgl64.Vec3) {
	c.state.DesiredPlanarVelocity = direction.Mul(c.settings.MoveSpeed)
	if lookDirection.LenSqr() > epsilon {
		c.state.DesiredLookDirection = lookDirection.Normalize()
	}
}

// MovePlanar walks along direction while facing it
func (c *Controller) MovePlanar(direction mgl64.Vec3) {
	c.SetPlanarMotion(direction, direction)
}

// Jump requests a jump on the next tick. It is dropped if the agent is not
// grounded by then.
func (c *Controller) Jump() {
	c.state.jumpRequested = true
}

// SetUpAxis changes the direction treated as up for gravity, slopes and facing
func (c *Controller) SetUpAxis(up mgl64.Vec3) error {
	up, err := normalizeAxis(up)
	if err != nil {
		return err
	}
	c.state.UpAxis = up

	return nil
}

// Tick advances the agent by dt seconds, pushes its collider transform to
// the world and delivers the events raised on the way.
func (c *Controller) Tick(dt float64) {
	c.step(dt)
	if err := c.commit(); err != nil {
		c.logger.Warn("collider sync failed", "error", err)
	}
	c.Events.flush()
}

func (c *Controller) step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}

	c.followUpSource()
	c.resetGround()
	c.probeGround()
	c.updateVelocity(dt)
	c.tryMove(dt)
	c.resolvePenetrations()
	c.updateRotation(dt)
}

// commit moves the agent's own collider, when the world holds it
func (c *Controller) commit() error {
	sync, ok := c.world.(ColliderSync)
	if !ok || c.collider == uuid.Nil {
		return nil
	}
	if err := sync.SetTransform(c.collider, c.ColliderTransform()); err != nil {
		return fmt.Errorf("sync collider %s: %w", c.collider, err)
	}

	return nil
}

func (c *Controller) Position() mgl64.Vec3 {
	return c.state.Position
}

func (c *Controller) Velocity() mgl64.Vec3 {
	return c.state.Velocity
}

func (c *Controller) Orientation() mgl64.Quat {
	return c.state.Orientation
}

func (c *Controller) IsGrounded() bool {
	return c.state.IsGrounded
}

// Ground returns the supporting surface; ok is false while airborne
func (c *Controller) Ground() (contact GroundContact, ok bool) {
	if !c.state.IsGrounded {
		return GroundContact{}, false
	}
	return c.state.Ground, true
}

func (c *Controller) Phase() Phase {
	return c.state.Phase()
}

func (c *Controller) UpAxis() mgl64.Vec3 {
	return c.state.UpAxis
}

// State returns a copy of the controller state
func (c *Controller) State() ControllerState {
	return c.state
}

func (c *Controller) Collider() uuid.UUID {
	return c.collider
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// Capsule is the agent's collision volume at its current position
func (c *Controller) Capsule() actor.WorldCapsule {
	return c.capsule.At(c.state.Position, c.state.UpAxis)
}

// ColliderTransform places an actor.Capsule of the agent's dimensions over
// the agent: centered on the capsule, local Y along the up axis.
func (c *Controller) ColliderTransform() actor.Transform {
	frame := upFrame(c.state.UpAxis)
	return actor.NewTransformAt(c.state.Position.Add(frame.Rotate(c.capsule.Center)), frame)
}
