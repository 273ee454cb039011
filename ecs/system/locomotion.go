package system

import (
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
)

// LocomotionSystem ticks kinematic controllers once per frame. Rigid-body
// controllers are ticked by the PhysicsSystem on the fixed step.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (l *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion) {
		if loco.Controller == nil || loco.Controller.Kind() != locomotion.KindKinematic {
			return
		}
		loco.Controller.Tick(dt)
		observe(w, e, loco, dt)
	})
}
