package system

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics/kinematic"
	"github.com/milk9111/locomotion/physics/rigid"
)

const frame = 1.0 / 60.0

var fixedCamera = locomotion.CameraFunc(func() float64 { return 0 })

type countingPoller struct {
	polls int
	err   error
}

func (p *countingPoller) Poll() error {
	p.polls++
	return p.err
}

// kinematicCharacter adds a capsule standing on a floor whose top is y=0.
func kinematicCharacter(t *testing.T, w *ecs.World) (ecs.Entity, *input.ActionMap, *kinematic.Body) {
	t.Helper()
	level, err := kinematic.NewLevel(mgl64.Vec2{-20, -5}, mgl64.Vec2{20, 35})
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	level.AddGround(-20, -1, 40, 1, locomotion.Layer(0))
	body := level.NewCapsule(mgl64.Vec3{0, 1, 0}, 0.5, 2)
	ctrl, err := locomotion.NewKinematicController(locomotion.DefaultMovementConfig(), body, level, fixedCamera)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	actions := input.NewActionMap()
	actions.Enable(input.ActionMove, input.ActionJump)
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := AttachController(w, e, ctrl, actions); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return e, actions, body
}

func TestAttachController(t *testing.T) {
	w := ecs.NewWorld()
	e, actions, _ := kinematicCharacter(t, w)

	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || !loco.Controller.Enabled() {
		t.Fatalf("controller not attached and enabled")
	}
	if err := AttachController(w, e, loco.Controller, actions); !errors.Is(err, ErrControllerConflict) {
		t.Fatalf("second attach err = %v, want ErrControllerConflict", err)
	}
	if err := AttachController(w, e, nil, actions); !errors.Is(err, ErrNilController) {
		t.Fatalf("nil controller err = %v", err)
	}

	dead := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, dead)
	if err := AttachController(w, dead, loco.Controller, actions); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("dead entity err = %v", err)
	}

	ctrl := DetachController(w, e)
	if ctrl == nil || ctrl.Enabled() {
		t.Fatalf("detach did not disable controller")
	}
	if actions.Subscribers(input.ActionMove) != 0 || actions.Subscribers(input.ActionJump) != 0 {
		t.Fatalf("subscriptions left after detach")
	}
	if ecs.Has(w, e, component.LocomotionComponent.Kind()) {
		t.Fatalf("locomotion component left after detach")
	}
	if DetachController(w, e) != nil {
		t.Fatalf("second detach returned a controller")
	}
}

func TestLocomotionSystemEmitsTransitions(t *testing.T) {
	w := ecs.NewWorld()
	e, actions, body := kinematicCharacter(t, w)

	var got []ecs.Event
	sched := ecs.NewScheduler(
		NewLocomotionSystem(),
		ecs.SystemFunc(func(w *ecs.World) {
			got = append(got, w.Events().Peek()...)
		}),
	)

	sched.Update(w, frame)
	if len(got) != 0 {
		t.Fatalf("events on first tick: %v", got)
	}

	actions.Perform(input.ActionJump, mgl64.Vec2{})
	for i := 0; i < 240; i++ {
		if i == 6 {
			actions.Cancel(input.ActionJump)
		}
		sched.Update(w, frame)
		if n := len(got); n > 0 && got[n-1].Type == EventLanded {
			break
		}
	}

	if len(got) < 3 {
		t.Fatalf("events = %v", got)
	}
	if got[0].Type != EventJumped {
		t.Fatalf("first event = %s, want jumped", got[0].Type)
	}
	last := got[len(got)-1]
	if last.Type != EventLanded {
		t.Fatalf("last event = %s, want landed", last.Type)
	}
	if got[len(got)-2].Type != EventLeftGround {
		t.Fatalf("events = %v, want left_ground before landed", got)
	}
	for _, evt := range got {
		if evt.Entity != e {
			t.Fatalf("event for %v, want %v", evt.Entity, e)
		}
	}

	landed := last.Data.(MotionEvent)
	if landed.Apex < 2.5 || landed.Airborne <= 0 {
		t.Fatalf("landed = %+v", landed)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Position != body.Position() {
		t.Fatalf("transform %v, body %v", tr.Position, body.Position())
	}
	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !loco.Grounded || loco.Airborne != 0 || loco.Phase != locomotion.Grounded {
		t.Fatalf("loco after landing = %+v", loco)
	}
}

func TestHeldJumpReportsEveryLanding(t *testing.T) {
	w := ecs.NewWorld()
	e, actions, _ := kinematicCharacter(t, w)
	var got []ecs.Event
	sched := ecs.NewScheduler(
		NewLocomotionSystem(),
		ecs.SystemFunc(func(w *ecs.World) {
			got = append(got, w.Events().Peek()...)
		}),
	)
	sched.Update(w, frame)

	actions.Perform(input.ActionJump, mgl64.Vec2{})
	for i := 0; i < 180; i++ {
		sched.Update(w, frame)
	}
	actions.Cancel(input.ActionJump)
	for i := 0; i < 240; i++ {
		sched.Update(w, frame)
	}

	counts := make(map[ecs.EventType]int)
	for i, evt := range got {
		counts[evt.Type]++
		if evt.Type != EventLanded {
			continue
		}
		landed := evt.Data.(MotionEvent)
		// One default hop is about 1.3s in the air.
		if landed.Airborne <= 0 || landed.Airborne > 2 {
			t.Fatalf("landing %d airborne = %v", i, landed.Airborne)
		}
		if landed.Apex < 2.5 {
			t.Fatalf("landing %d apex = %v", i, landed.Apex)
		}
	}
	if counts[EventLanded] < 2 || counts[EventJumped] < counts[EventLanded] {
		t.Fatalf("counts = %v, want several hops", counts)
	}
	if counts[EventLanded] != counts[EventLeftGround] {
		t.Fatalf("counts = %v, want one landing per flight", counts)
	}
	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !loco.Grounded {
		t.Fatalf("still airborne after release: %+v", loco)
	}
}

func TestLocomotionSystemSkipsRigidControllers(t *testing.T) {
	w := ecs.NewWorld()
	world := rigid.NewWorld(mgl64.Vec3{0, -9.8, 0})
	world.AddGround(-20, -1, 40, 1, locomotion.Layer(0))
	body := world.NewBody(mgl64.Vec3{0, 1, 0}, 1, 0.5, 2)
	ctrl, err := locomotion.NewRigidBodyController(locomotion.DefaultMovementConfig(), body, world, fixedCamera)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	actions := input.NewActionMap()
	actions.Enable(input.ActionMove, input.ActionJump)
	e := ecs.CreateEntity(w)
	if err := AttachController(w, e, ctrl, actions); err != nil {
		t.Fatalf("attach: %v", err)
	}

	NewLocomotionSystem().Update(w)
	w.SetDeltaTime(frame)
	NewLocomotionSystem().Update(w)
	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if loco.Ticks != 0 {
		t.Fatalf("rigid controller ticked by locomotion system")
	}

	physics := NewPhysicsSystem(world, 0)
	w.SetDeltaTime(physics.FixedStep())
	physics.Update(w)
	if loco.Ticks != 1 || physics.Steps() != 1 {
		t.Fatalf("ticks = %d, steps = %d", loco.Ticks, physics.Steps())
	}
}

func TestPhysicsSystemFixedStep(t *testing.T) {
	cases := []struct {
		name   string
		frames []float64
		want   uint64
	}{
		{"exact", []float64{0.02}, 1},
		{"remainder carries", []float64{0.05, 0.015}, 3},
		{"short frames accumulate", []float64{0.005, 0.005, 0.005, 0.005, 0.005}, 1},
		{"long frame capped", []float64{1}, maxSubSteps},
		{"zero frame", []float64{0}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			p := NewPhysicsSystem(rigid.NewWorld(mgl64.Vec3{0, -9.8, 0}), 0.02)
			for _, dt := range c.frames {
				w.SetDeltaTime(dt)
				p.Update(w)
			}
			if p.Steps() != c.want {
				t.Fatalf("steps = %d, want %d", p.Steps(), c.want)
			}
		})
	}
}

func TestInputSystemPollsEverySource(t *testing.T) {
	w := ecs.NewWorld()
	ok := &countingPoller{}
	broken := &countingPoller{err: errors.New("boom")}
	for _, p := range []*countingPoller{ok, broken} {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Actions: input.NewActionMap(), Poller: p}); err != nil {
			t.Fatalf("add input: %v", err)
		}
	}
	bare := ecs.CreateEntity(w)
	if err := ecs.Add(w, bare, component.InputComponent.Kind(), &component.Input{}); err != nil {
		t.Fatalf("add input: %v", err)
	}

	sys := NewInputSystem()
	for i := 0; i < 3; i++ {
		sys.Update(w)
	}
	if ok.polls != 3 || broken.polls != 3 {
		t.Fatalf("polls = %d, %d", ok.polls, broken.polls)
	}
}

func TestCameraSystemTurns(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	rig := &component.CameraRig{Heading: 350, TurnSpeed: 90, Orbit: 1}
	if err := ecs.Add(w, e, component.CameraRigComponent.Kind(), rig); err != nil {
		t.Fatalf("add rig: %v", err)
	}

	w.SetDeltaTime(0.5)
	NewCameraSystem().Update(w)
	if rig.Yaw() < 34.999 || rig.Yaw() > 35.001 {
		t.Fatalf("yaw = %v, want 35", rig.Yaw())
	}

	rig.Orbit = 0
	NewCameraSystem().Update(w)
	if rig.Yaw() < 34.999 || rig.Yaw() > 35.001 {
		t.Fatalf("yaw moved without orbit input: %v", rig.Yaw())
	}
}

func TestTraceSystemWritesRows(t *testing.T) {
	w := ecs.NewWorld()
	_, actions, _ := kinematicCharacter(t, w)

	var buf bytes.Buffer
	trace := NewTraceSystem(&buf)
	sched := ecs.NewScheduler(NewLocomotionSystem(), trace)

	sched.Update(w, frame)
	actions.Perform(input.ActionJump, mgl64.Vec2{})
	sched.Update(w, frame)
	if err := trace.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header and 2", len(rows))
	}
	if rows[0][0] != "frame" || len(rows[0]) != len(traceHeader) {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][3] != "kinematic" || rows[1][11] != "" {
		t.Fatalf("first row = %v", rows[1])
	}
	if rows[2][9] != "jumping" || rows[2][11] != string(EventJumped) {
		t.Fatalf("jump row = %v", rows[2])
	}
}
