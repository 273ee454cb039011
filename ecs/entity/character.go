package entity

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
)

// NewCharacter spawns the character described by spec on stage, driven by
// actions and steered relative to camera. poller fills actions each frame
// and may be nil when something else does.
func NewCharacter(w *ecs.World, stage *Stage, spec *prefabs.CharacterSpec, camera locomotion.Camera, actions *input.ActionMap, poller input.Poller) (ecs.Entity, error) {
	if stage == nil || spec == nil {
		return 0, fmt.Errorf("character: stage and spec are required")
	}
	if actions == nil {
		return 0, fmt.Errorf("character %s: nil action map", spec.Name)
	}
	kind, err := spec.Kind()
	if err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{Name: spec.Name}); err != nil {
		return 0, fmt.Errorf("character %s: add player tag: %w", spec.Name, err)
	}
	spawn := mgl64.Vec3(spec.Spawn)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: spawn}); err != nil {
		return 0, fmt.Errorf("character %s: add transform: %w", spec.Name, err)
	}
	actions.Enable(input.ActionMove, input.ActionJump)
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Actions: actions, Poller: poller}); err != nil {
		return 0, fmt.Errorf("character %s: add input: %w", spec.Name, err)
	}

	cfg, err := spec.MovementConfig(stage.Layers)
	if err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if err := attach(w, e, stage, spec, cfg, kind, spawn, 0, camera); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// SwitchController replaces the controller on e with one of kind, keeping
// the current pose. Motion state starts fresh.
func SwitchController(w *ecs.World, e ecs.Entity, stage *Stage, spec *prefabs.CharacterSpec, kind locomotion.Kind, camera locomotion.Camera) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return fmt.Errorf("character %v: no transform", e)
	}
	pos, yaw := t.Position, t.Yaw
	cfg, err := spec.MovementConfig(stage.Layers)
	if err != nil {
		return err
	}

	prev := system.DetachController(w, e)
	removeBodies(w, e, stage)
	if err := attach(w, e, stage, spec, cfg, kind, pos, yaw, camera); err != nil {
		if prev != nil {
			// Put the previous controller kind and tuning back.
			if rerr := attach(w, e, stage, spec, prev.Config(), prev.Kind(), pos, yaw, camera); rerr != nil {
				log.Printf("character %v: restore %v controller: %v", e, prev.Kind(), rerr)
			}
			resync(w, e)
		}
		return err
	}
	resync(w, e)
	return nil
}

// resync republishes held controls; a freshly attached controller starts
// with an empty latch.
func resync(w *ecs.World, e ecs.Entity) {
	if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
		if r, ok := in.Poller.(input.Resyncer); ok {
			r.Resync()
		}
	}
}

// ApplySpec swaps the movement tuning of the controller on e. The old
// tuning is kept when spec does not validate.
func ApplySpec(w *ecs.World, e ecs.Entity, stage *Stage, spec *prefabs.CharacterSpec) error {
	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || loco.Controller == nil {
		return fmt.Errorf("character %v: no controller", e)
	}
	cfg, err := spec.MovementConfig(stage.Layers)
	if err != nil {
		return err
	}
	return loco.Controller.SetConfig(cfg)
}

// Despawn detaches the controller, removes the bodies and destroys e.
func Despawn(w *ecs.World, e ecs.Entity, stage *Stage) {
	system.DetachController(w, e)
	removeBodies(w, e, stage)
	ecs.DestroyEntity(w, e)
}

func attach(w *ecs.World, e ecs.Entity, stage *Stage, spec *prefabs.CharacterSpec, cfg locomotion.MovementConfig, kind locomotion.Kind, pos mgl64.Vec3, yaw float64, camera locomotion.Camera) error {
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok || in.Actions == nil {
		return fmt.Errorf("character %s: no input", spec.Name)
	}

	var (
		ctrl *locomotion.Controller
		err  error
	)
	switch kind {
	case locomotion.KindKinematic:
		body := stage.Kinematic.NewCapsule(pos, spec.Body.Radius, spec.Body.Height)
		body.SetYaw(yaw)
		if err := ecs.Add(w, e, component.KinematicBodyComponent.Kind(), &component.KinematicBody{Body: body}); err != nil {
			stage.Kinematic.Remove(body)
			return fmt.Errorf("character %s: add kinematic body: %w", spec.Name, err)
		}
		ctrl, err = locomotion.NewKinematicController(cfg, body, stage.Ground(kind), camera)
	case locomotion.KindRigidBody:
		body := stage.Rigid.NewBody(pos, spec.Body.Mass, spec.Body.Radius, spec.Body.Height)
		body.SetYaw(yaw)
		if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body}); err != nil {
			stage.Rigid.Remove(body)
			return fmt.Errorf("character %s: add rigid body: %w", spec.Name, err)
		}
		ctrl, err = locomotion.NewRigidBodyController(cfg, body, stage.Ground(kind), camera)
	default:
		return fmt.Errorf("character %s: unsupported controller %v", spec.Name, kind)
	}
	if err != nil {
		removeBodies(w, e, stage)
		return fmt.Errorf("character %s: %w", spec.Name, err)
	}

	if err := system.AttachController(w, e, ctrl, in.Actions); err != nil {
		removeBodies(w, e, stage)
		return err
	}
	return nil
}

func removeBodies(w *ecs.World, e ecs.Entity, stage *Stage) {
	if kb, ok := ecs.Get(w, e, component.KinematicBodyComponent.Kind()); ok {
		stage.Kinematic.Remove(kb.Body)
		ecs.Remove(w, e, component.KinematicBodyComponent.Kind())
	}
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
		stage.Rigid.Remove(rb.Body)
		ecs.Remove(w, e, component.RigidBodyComponent.Kind())
	}
}
