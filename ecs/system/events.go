package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

const (
	EventJumped     ecs.EventType = "jumped"
	EventLeftGround ecs.EventType = "left_ground"
	EventLanded     ecs.EventType = "landed"
)

// MotionEvent is the Data of the locomotion events.
type MotionEvent struct {
	Position         mgl64.Vec3
	VerticalVelocity float64
	// Airborne and Apex describe the flight that just ended. They are only
	// set on EventLanded.
	Airborne float64
	Apex     float64
}

// observe copies the controller's body pose into the transform, pushes
// ground transition events and updates the flight bookkeeping. dt is the
// step the controller just ran.
func observe(w *ecs.World, e ecs.Entity, loco *component.Locomotion, dt float64) {
	ctrl := loco.Controller
	if ctrl == nil {
		return
	}
	state := ctrl.Snapshot()
	body := ctrl.Body()
	pos := body.Position()

	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Position = pos
		t.Yaw = body.Yaw()
	}

	evt := MotionEvent{Position: pos, VerticalVelocity: state.VerticalVelocity}
	events := w.Events()
	if loco.Ticks > 0 {
		// A held jump lands and relaunches on the same tick, so a landing
		// is reported ahead of the jump.
		if state.Grounded && !loco.Grounded {
			landing := evt
			landing.Airborne = loco.Airborne
			landing.Apex = loco.Apex
			events.Push(ecs.Event{Type: EventLanded, Entity: e, Data: landing})
		}
		switch {
		case state.Jumped:
			events.Push(ecs.Event{Type: EventJumped, Entity: e, Data: evt})
		case !state.Grounded && loco.Grounded:
			events.Push(ecs.Event{Type: EventLeftGround, Entity: e, Data: evt})
		}
	}

	switch {
	case state.Jumped:
		loco.Apex = pos.Y()
		loco.Airborne = 0
	case state.Grounded:
		loco.Airborne = 0
	default:
		if loco.Grounded || loco.Ticks == 0 {
			loco.Apex = pos.Y()
		}
		loco.Airborne += dt
		loco.Apex = math.Max(loco.Apex, pos.Y())
	}

	loco.Grounded = state.Grounded
	loco.Phase = state.Phase
	loco.Ticks++
}
