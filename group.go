package kinematic

import (
	"errors"
	"slices"
)

const DEFAULT_WORKERS = 1

// Group steps many controllers sharing one world. All agents of a step see
// the world as it was before the step; their colliders move afterwards.
type Group struct {
	Controllers []*Controller
	Workers     int
}

func (g *Group) Add(controller *Controller) {
	g.Controllers = append(g.Controllers, controller)
}

// Remove drops a controller from the group
func (g *Group) Remove(controller *Controller) bool {
	k := slices.Index(g.Controllers, controller)
	if k == -1 {
		return false
	}
	g.Controllers = slices.Delete(g.Controllers, k, k+1)

	return true
}

// Step ticks every controller by dt, in parallel over Workers goroutines,
// then syncs colliders and delivers events in insertion order.
func (g *Group) Step(dt float64) error {
	g.Workers = max(DEFAULT_WORKERS, g.Workers)

	task(g.Workers, g.Controllers, func(controller *Controller) {
		controller.step(dt)
	})

	var errs []error
	for _, controller := range g.Controllers {
		if err := controller.commit(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, controller := range g.Controllers {
		controller.Events.flush()
	}

	return errors.Join(errs...)
}
