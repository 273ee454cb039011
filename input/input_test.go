package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newEnabledMap() *ActionMap {
	m := NewActionMap()
	m.Enable(ActionMove, ActionJump)
	return m
}

func TestActionMapDispatch(t *testing.T) {
	tests := []struct {
		name    string
		enable  bool
		publish func(m *ActionMap)
		want    []Event
	}{
		{
			name:    "perform_move",
			enable:  true,
			publish: func(m *ActionMap) { m.Perform(ActionMove, mgl64.Vec2{0.5, 1}) },
			want:    []Event{{Action: ActionMove, Phase: Performed, Value: mgl64.Vec2{0.5, 1}}},
		},
		{
			name:    "cancel_move",
			enable:  true,
			publish: func(m *ActionMap) { m.Cancel(ActionMove) },
			want:    []Event{{Action: ActionMove, Phase: Canceled}},
		},
		{
			name:    "disabled_drops",
			enable:  false,
			publish: func(m *ActionMap) { m.Perform(ActionMove, mgl64.Vec2{1, 0}) },
			want:    nil,
		},
		{
			name:    "other_action_not_delivered",
			enable:  true,
			publish: func(m *ActionMap) { m.Perform(ActionJump, mgl64.Vec2{}) },
			want:    nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewActionMap()
			if tc.enable {
				m.Enable(ActionMove, ActionJump)
			}
			var got []Event
			m.Subscribe(ActionMove, func(e Event) { got = append(got, e) })
			tc.publish(m)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d events, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("event %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	m := newEnabledMap()
	calls := 0
	sub := m.Subscribe(ActionJump, func(Event) { calls++ })
	m.Perform(ActionJump, mgl64.Vec2{})
	sub.Close()
	sub.Close()
	m.Perform(ActionJump, mgl64.Vec2{})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if n := m.Subscribers(ActionJump); n != 0 {
		t.Fatalf("subscribers = %d, want 0", n)
	}
}

func TestCloseDuringDispatchSkipsLaterHandler(t *testing.T) {
	m := newEnabledMap()
	var second Subscription
	secondCalls := 0
	m.Subscribe(ActionJump, func(Event) { second.Close() })
	second = m.Subscribe(ActionJump, func(Event) { secondCalls++ })

	m.Perform(ActionJump, mgl64.Vec2{})
	if secondCalls != 0 {
		t.Fatalf("closed handler ran %d times", secondCalls)
	}
}

func TestLatchLatestEventWins(t *testing.T) {
	m := newEnabledMap()
	var l Latch
	l.Bind(m)

	m.Perform(ActionMove, mgl64.Vec2{1, 0})
	m.Perform(ActionMove, mgl64.Vec2{0, -1})
	if got := l.Move(); got != (mgl64.Vec2{0, -1}) {
		t.Fatalf("move = %v, want [0 -1]", got)
	}

	m.Perform(ActionJump, mgl64.Vec2{})
	if !l.Jump() {
		t.Fatalf("jump not latched")
	}
	m.Cancel(ActionJump)
	if l.Jump() {
		t.Fatalf("jump still latched after cancel")
	}
}

func TestLatchCancelZeroesMoveExactly(t *testing.T) {
	values := []mgl64.Vec2{{1, 0}, {0.05, 0.02}, {-0.7, 0.7}, {1e9, -1e9}}
	for _, v := range values {
		m := newEnabledMap()
		var l Latch
		l.Bind(m)
		m.Perform(ActionMove, v)
		m.Cancel(ActionMove)
		if got := l.Move(); got != (mgl64.Vec2{}) {
			t.Fatalf("after cancel from %v move = %v, want zero", v, got)
		}
	}
}

// leakySource keeps calling handlers after Close, like a host that ignores
// unregistration.
type leakySource struct {
	handlers map[ActionID][]Handler
}

type noopSubscription struct{}

func (noopSubscription) Close() {}

func (s *leakySource) Subscribe(action ActionID, h Handler) Subscription {
	if s.handlers == nil {
		s.handlers = map[ActionID][]Handler{}
	}
	s.handlers[action] = append(s.handlers[action], h)
	return noopSubscription{}
}

func (s *leakySource) fire(evt Event) {
	for _, h := range s.handlers[evt.Action] {
		h(evt)
	}
}

func TestLatchIgnoresEventsAfterUnbind(t *testing.T) {
	src := &leakySource{}
	var l Latch
	sub := l.Bind(src)
	src.fire(Event{Action: ActionMove, Phase: Performed, Value: mgl64.Vec2{1, 1}})
	sub.Close()

	src.fire(Event{Action: ActionMove, Phase: Performed, Value: mgl64.Vec2{0, 1}})
	src.fire(Event{Action: ActionJump, Phase: Performed})

	if got := l.Move(); got != (mgl64.Vec2{1, 1}) {
		t.Fatalf("move = %v, want [1 1]", got)
	}
	if l.Jump() {
		t.Fatalf("jump latched after unbind")
	}
	if l.Bound() {
		t.Fatalf("latch still bound")
	}
}

func TestLatchRebindClosesPrevious(t *testing.T) {
	a := newEnabledMap()
	b := newEnabledMap()
	var l Latch
	l.Bind(a)
	l.Bind(b)

	if n := a.Subscribers(ActionMove); n != 0 {
		t.Fatalf("old source still has %d move subscribers", n)
	}
	a.Perform(ActionJump, mgl64.Vec2{})
	if l.Jump() {
		t.Fatalf("event from old source latched")
	}
}

func TestChangeEmitterPublishesOnlyChanges(t *testing.T) {
	m := newEnabledMap()
	var events []Event
	m.Subscribe(ActionMove, func(e Event) { events = append(events, e) })
	m.Subscribe(ActionJump, func(e Event) { events = append(events, e) })

	e := NewChangeEmitter(m)
	e.Emit(Snapshot{Move: mgl64.Vec2{1, 0}})
	e.Emit(Snapshot{Move: mgl64.Vec2{1, 0}})
	e.Emit(Snapshot{Move: mgl64.Vec2{1, 0}, Jump: true})
	e.Emit(Snapshot{})

	want := []Event{
		{Action: ActionMove, Phase: Performed, Value: mgl64.Vec2{1, 0}},
		{Action: ActionJump, Phase: Performed},
		{Action: ActionMove, Phase: Canceled},
		{Action: ActionJump, Phase: Canceled},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestScriptDriver(t *testing.T) {
	src := []byte(`
move_x = 0.0
move_y = 0.0
if tick >= 1 { move_y = 1.0 }
jump = tick == 2
`)
	m := newEnabledMap()
	var l Latch
	l.Bind(m)

	d, err := NewScriptDriver("test", src, m)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	steps := []struct {
		move mgl64.Vec2
		jump bool
	}{
		{mgl64.Vec2{}, false},
		{mgl64.Vec2{0, 1}, false},
		{mgl64.Vec2{0, 1}, true},
		{mgl64.Vec2{0, 1}, false},
	}
	for i, s := range steps {
		if err := d.Poll(); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if l.Move() != s.move || l.Jump() != s.jump {
			t.Fatalf("tick %d: move=%v jump=%v, want move=%v jump=%v", i, l.Move(), l.Jump(), s.move, s.jump)
		}
	}
	if d.Tick() != len(steps) {
		t.Fatalf("tick = %d, want %d", d.Tick(), len(steps))
	}
}

func TestScriptDriverClampsMagnitude(t *testing.T) {
	m := newEnabledMap()
	var l Latch
	l.Bind(m)
	d, err := NewScriptDriver("diag", []byte("move_x = 3.0\nmove_y = 4.0\n"), m)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := d.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	got := l.Move()
	if !got.ApproxEqual(mgl64.Vec2{0.6, 0.8}) {
		t.Fatalf("move = %v, want [0.6 0.8]", got)
	}
}

func TestScriptDriverCompileError(t *testing.T) {
	if _, err := NewScriptDriver("bad", []byte("move_x = ("), NewActionMap()); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestChangeEmitterResyncRepublishesHeld(t *testing.T) {
	m := newEnabledMap()
	var events []Event
	m.Subscribe(ActionMove, func(e Event) { events = append(events, e) })

	e := NewChangeEmitter(m)
	held := Snapshot{Move: mgl64.Vec2{0, 1}}
	e.Emit(held)
	e.Emit(held)
	e.Resync()
	e.Emit(held)

	if len(events) != 2 {
		t.Fatalf("events = %v, want the press and its republish", events)
	}
	if events[1].Phase != Performed || events[1].Value != held.Move {
		t.Fatalf("republished %+v", events[1])
	}
}
