package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics/kinematic"
	"github.com/milk9111/locomotion/physics/rigid"
	"github.com/milk9111/locomotion/prefabs"
)

// Stage is a level loaded into both physics backends. The kinematic level
// hosts swept characters; the rigid world hosts dynamics characters.
type Stage struct {
	Spec      *prefabs.LevelSpec
	Layers    prefabs.LayerTable
	Kinematic *kinematic.Level
	Rigid     *rigid.World
}

// NewStage builds the ground boxes of spec into fresh backends.
func NewStage(spec *prefabs.LevelSpec) (*Stage, error) {
	if spec == nil {
		return nil, fmt.Errorf("stage: nil level spec")
	}
	layers, err := spec.LayerTable()
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}

	level, err := kinematic.NewLevel(mgl64.Vec2(spec.Bounds.Min), mgl64.Vec2(spec.Bounds.Max))
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", spec.Name, err)
	}
	world := rigid.NewWorld(mgl64.Vec3(spec.Gravity))

	for _, g := range spec.Ground {
		mask, err := layers.Mask(g.Layers)
		if err != nil {
			return nil, fmt.Errorf("stage %s ground %s: %w", spec.Name, g.Name, err)
		}
		if mask == 0 {
			mask = locomotion.Layer(0)
		}
		level.AddGround(g.X, g.Y, g.W, g.H, mask)
		world.AddGround(g.X, g.Y, g.W, g.H, mask)
	}

	return &Stage{Spec: spec, Layers: layers, Kinematic: level, Rigid: world}, nil
}

// Ground returns the sampler for controllers of kind.
func (s *Stage) Ground(kind locomotion.Kind) locomotion.GroundSampler {
	if kind == locomotion.KindRigidBody {
		return s.Rigid
	}
	return s.Kinematic
}

// NewCamera adds the orbit camera described by the stage.
func NewCamera(w *ecs.World, stage *Stage) (ecs.Entity, *component.CameraRig, error) {
	rig := &component.CameraRig{}
	if stage != nil && stage.Spec != nil {
		rig.Heading = stage.Spec.Camera.Yaw
		rig.TurnSpeed = stage.Spec.Camera.TurnSpeed
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, nil, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraRigComponent.Kind(), rig); err != nil {
		return 0, nil, fmt.Errorf("camera: add camera rig: %w", err)
	}
	return camera, rig, nil
}
