package system

import (
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics/rigid"
)

const (
	// DefaultFixedStep matches the usual 50 Hz physics rate.
	DefaultFixedStep = 1.0 / 50
	// maxSubSteps bounds the catch-up after a long frame.
	maxSubSteps = 5
)

// PhysicsSystem steps the rigid world on a fixed step. Rigid-body
// controllers tick right before each solver step.
type PhysicsSystem struct {
	world *rigid.World
	step  float64
	acc   float64
	steps uint64
}

func NewPhysicsSystem(world *rigid.World, step float64) *PhysicsSystem {
	if step <= 0 {
		step = DefaultFixedStep
	}
	return &PhysicsSystem{world: world, step: step}
}

func (p *PhysicsSystem) World() *rigid.World { return p.world }

func (p *PhysicsSystem) FixedStep() float64 { return p.step }

// Steps counts solver steps taken so far.
func (p *PhysicsSystem) Steps() uint64 { return p.steps }

func (p *PhysicsSystem) Update(w *ecs.World) {
	if w == nil || p.world == nil {
		return
	}

	p.acc += w.DeltaTime()
	for i := 0; i < maxSubSteps && p.acc >= p.step; i++ {
		p.acc -= p.step
		p.fixedUpdate(w)
	}
	// Drop the backlog instead of spiralling after a stall.
	if p.acc >= p.step {
		p.acc = 0
	}
}

func (p *PhysicsSystem) fixedUpdate(w *ecs.World) {
	rigidControllers := func(fn func(ecs.Entity, *component.Locomotion)) {
		ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion) {
			if loco.Controller == nil || loco.Controller.Kind() != locomotion.KindRigidBody {
				return
			}
			fn(e, loco)
		})
	}

	rigidControllers(func(_ ecs.Entity, loco *component.Locomotion) {
		loco.Controller.Tick(p.step)
	})
	p.world.Step(p.step)
	p.steps++
	rigidControllers(func(e ecs.Entity, loco *component.Locomotion) {
		observe(w, e, loco, p.step)
	})
}
