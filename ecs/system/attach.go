package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/locomotion"
)

var (
	ErrControllerConflict = errors.New("system: entity already has a controller")
	ErrNilController      = errors.New("system: controller is nil")
)

// AttachController enables ctrl on src and adds it to e. An entity carries
// at most one controller.
func AttachController(w *ecs.World, e ecs.Entity, ctrl *locomotion.Controller, src input.Source) error {
	if !ecs.IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if ctrl == nil {
		return ErrNilController
	}
	if ecs.Has(w, e, component.LocomotionComponent.Kind()) {
		return fmt.Errorf("%w: %v", ErrControllerConflict, e)
	}
	if err := ctrl.Enable(src); err != nil {
		return fmt.Errorf("system: attach controller to %v: %w", e, err)
	}
	if err := ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{Controller: ctrl}); err != nil {
		ctrl.Disable()
		return fmt.Errorf("system: attach controller to %v: %w", e, err)
	}
	return nil
}

// DetachController disables and removes the controller on e and returns it,
// or nil when e has none.
func DetachController(w *ecs.World, e ecs.Entity) *locomotion.Controller {
	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok {
		return nil
	}
	ctrl := loco.Controller
	if ctrl != nil {
		ctrl.Disable()
	}
	ecs.Remove(w, e, component.LocomotionComponent.Kind())
	return ctrl
}
