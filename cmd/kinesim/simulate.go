package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/akmonengine/kinematic"
	"github.com/akmonengine/kinematic/actor"
	"github.com/akmonengine/kinematic/internal/config"
	"github.com/akmonengine/kinematic/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	gridCells    = 1024
	planetRadius = 20.0
)

var agentCapsule = kinematic.CapsuleShape{Radius: 0.4, HalfHeight: 0.5, Center: mgl64.Vec3{0, 0.9, 0}}

// buildScene lays out the level named in cfg
func buildScene(cfg config.SimulationConfig, logger *slog.Logger) *scene.Scene {
	var broadPhase scene.BroadPhase = scene.NewRTree()
	if cfg.BroadPhase == "grid" {
		broadPhase = scene.NewSpatialGrid(cfg.CellSize, gridCells)
	}
	s := scene.New(scene.WithBroadPhase(broadPhase), scene.WithLogger(logger))

	if cfg.Level == "planet" {
		s.Add(actor.NewCollider(actor.NewTransform(), &actor.Sphere{Radius: planetRadius}))
		return s
	}
	buildCourse(s)

	return s
}

// buildCourse adds flat ground, a walkable ramp, a wall closing the course
// and a slope too steep to stand on.
func buildCourse(s *scene.Scene) {
	s.Add(actor.NewCollider(actor.NewTransform(), &actor.Plane{Normal: mgl64.Vec3{0, 1, 0}}))

	// 20 degrees, its lower edge flush with the ground at x = 3.2
	ramp := actor.NewTransformAt(mgl64.Vec3{6, 0.84, 0}, mgl64.QuatRotate(mgl64.DegToRad(20), mgl64.Vec3{0, 0, 1}))
	s.Add(actor.NewCollider(ramp, &actor.Box{HalfExtents: mgl64.Vec3{3, 0.2, 2}}))

	wall := actor.NewTransformAt(mgl64.Vec3{14, 2, 0}, mgl64.QuatIdent())
	s.Add(actor.NewCollider(wall, &actor.Box{HalfExtents: mgl64.Vec3{0.25, 2, 12}}))

	steep := actor.NewTransformAt(mgl64.Vec3{0, 1.5, -6}, mgl64.QuatRotate(mgl64.DegToRad(60), mgl64.Vec3{1, 0, 0}))
	s.Add(actor.NewCollider(steep, &actor.Box{HalfExtents: mgl64.Vec3{2, 0.2, 2}}))
}

// spawnAgents places count agents in the level. On the course they line up
// along z: even agents head for the ramp and the wall, odd ones for the steep
// slope. On the planet they spread over a meridian under point gravity.
func spawnAgents(s *scene.Scene, cfg config.SimulationConfig, settings kinematic.Settings, logger *slog.Logger) (*kinematic.Group, error) {
	group := &kinematic.Group{}

	for i := 0; i < cfg.Agents; i++ {
		own := actor.NewCollider(actor.NewTransform(), &actor.Capsule{Radius: agentCapsule.Radius, HalfHeight: agentCapsule.HalfHeight})
		s.Add(own)

		agent := kinematic.Agent{
			Collider: own.ID,
			Capsule:  agentCapsule,
			Position: mgl64.Vec3{0, 0.5, float64(i) * 2},
		}
		options := []kinematic.Option{kinematic.WithLogger(logger)}
		if cfg.Level == "planet" {
			angle := mgl64.DegToRad(-80 + 160*(float64(i)+0.5)/float64(cfg.Agents))
			agent.UpAxis = mgl64.Vec3{0, math.Cos(angle), math.Sin(angle)}
			agent.Position = agent.UpAxis.Mul(planetRadius)
			options = append(options, kinematic.WithUpSource(kinematic.PointGravity{}))
		}

		controller, err := kinematic.New(s, agent, settings, options...)
		if err != nil {
			return nil, fmt.Errorf("spawn agent %d: %w", i, err)
		}

		direction := mgl64.Vec3{1, 0, 0}
		if cfg.Level == "course" && i%2 == 1 {
			direction = mgl64.Vec3{0, 0, -1}
		}
		controller.MovePlanar(direction)
		subscribe(controller, logger)

		group.Add(controller)
	}

	return group, nil
}

// steer keeps planet walkers on their parallel: the heading turns with the
// up axis so that it never points into the ground.
func steer(level string, controller *kinematic.Controller) {
	if level != "planet" {
		return
	}
	heading := controller.UpAxis().Cross(mgl64.Vec3{0, 0, 1})
	if heading.Len() < 1e-6 {
		controller.MovePlanar(mgl64.Vec3{})
		return
	}
	controller.MovePlanar(heading.Normalize())
}

func subscribe(controller *kinematic.Controller, logger *slog.Logger) {
	logger = logger.With("agent", controller.Collider())

	controller.Events.Subscribe(kinematic.LANDED, func(event kinematic.Event) {
		landed := event.(kinematic.LandedEvent)
		logger.Info("landed", "slope", landed.Ground.SlopeDegrees, "speed", landed.PlanarVelocity.Len())
	})
	controller.Events.Subscribe(kinematic.TAKEOFF_FROM_SLOPE, func(event kinematic.Event) {
		takeoff := event.(kinematic.TakeoffFromSlopeEvent)
		logger.Info("slipped off", "slope", takeoff.Surface.SlopeDegrees)
	})
	controller.Events.Subscribe(kinematic.TAKEOFF_FROM_LEDGE, func(event kinematic.Event) {
		logger.Info("walked off a ledge", "position", controller.Position())
	})
	controller.Events.Subscribe(kinematic.TAKEOFF_FROM_JUMP, func(event kinematic.Event) {
		logger.Info("jumped", "position", controller.Position())
	})
}

// simulate runs cfg.Simulation.Ticks fixed steps. Every agent jumps once after
// the first simulated second.
func simulate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*kinematic.Group, error) {
	s := buildScene(cfg.Simulation, logger)
	group, err := spawnAgents(s, cfg.Simulation, cfg.Controller, logger)
	if err != nil {
		return nil, err
	}
	group.Workers = cfg.Simulation.Workers

	dt := cfg.Simulation.TimeStep()
	logger.Info("simulation started",
		"agents", len(group.Controllers),
		"colliders", s.Len(),
		"ticks", cfg.Simulation.Ticks,
		"dt", dt,
		"level", cfg.Simulation.Level,
		"broad_phase", cfg.Simulation.BroadPhase,
	)

	for tick := 1; tick <= cfg.Simulation.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return group, err
		}
		if tick == cfg.Simulation.TickRate {
			for _, controller := range group.Controllers {
				controller.Jump()
			}
		}

		for _, controller := range group.Controllers {
			steer(cfg.Simulation.Level, controller)
		}
		if err := group.Step(dt); err != nil {
			return group, fmt.Errorf("tick %d: %w", tick, err)
		}

		report := slog.LevelDebug
		if tick%cfg.Simulation.TickRate == 0 {
			report = slog.LevelInfo
		}
		for _, controller := range group.Controllers {
			logState(ctx, logger, report, tick, controller)
		}
	}

	logger.Info("simulation finished", "seconds", math.Round(float64(cfg.Simulation.Ticks)*dt*100)/100)

	return group, nil
}

func logState(ctx context.Context, logger *slog.Logger, level slog.Level, tick int, controller *kinematic.Controller) {
	if !logger.Enabled(ctx, level) {
		return
	}
	attrs := []any{
		"tick", tick,
		"agent", controller.Collider(),
		"phase", controller.Phase(),
		"position", controller.Position(),
		"velocity", controller.Velocity(),
	}
	if ground, ok := controller.Ground(); ok {
		attrs = append(attrs, "slope", ground.SlopeDegrees)
	}
	logger.Log(ctx, level, "state", attrs...)
}
