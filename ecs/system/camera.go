package system

import (
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// CameraSystem orbits camera rigs by their Orbit input.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (c *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.CameraRigComponent.Kind(), func(_ ecs.Entity, rig *component.CameraRig) {
		rig.Turn(dt)
	})
}
