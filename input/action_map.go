package input

import "github.com/go-gl/mathgl/mgl64"

// ActionMap is an in-memory Source. Hosts push device state into it with
// Perform and Cancel; subscribers receive the events synchronously.
// Actions start disabled and drop every event until enabled.
type ActionMap struct {
	enabled  [ActionCount]bool
	handlers [ActionCount][]*mapSubscription
	nextID   uint64
}

func NewActionMap() *ActionMap {
	return &ActionMap{}
}

type mapSubscription struct {
	id      uint64
	action  ActionID
	handler Handler
	owner   *ActionMap
	closed  bool
}

func (s *mapSubscription) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if s.owner != nil {
		s.owner.remove(s)
	}
}

// Enable starts delivering events for the given actions.
func (m *ActionMap) Enable(actions ...ActionID) {
	for _, a := range actions {
		if validAction(a) {
			m.enabled[a] = true
		}
	}
}

// Disable stops delivering events for the given actions.
func (m *ActionMap) Disable(actions ...ActionID) {
	for _, a := range actions {
		if validAction(a) {
			m.enabled[a] = false
		}
	}
}

// Enabled reports whether events for the action are delivered.
func (m *ActionMap) Enabled(action ActionID) bool {
	return validAction(action) && m.enabled[action]
}

// Subscribe registers h for the action. Subscribing to an unknown action
// returns a handle that never fires.
func (m *ActionMap) Subscribe(action ActionID, h Handler) Subscription {
	if !validAction(action) || h == nil {
		return &mapSubscription{closed: true}
	}
	m.nextID++
	sub := &mapSubscription{id: m.nextID, action: action, handler: h, owner: m}
	m.handlers[action] = append(m.handlers[action], sub)
	return sub
}

// Subscribers returns the live handler count for an action.
func (m *ActionMap) Subscribers(action ActionID) int {
	if !validAction(action) {
		return 0
	}
	return len(m.handlers[action])
}

// Perform publishes a performed event. value is ignored for buttons.
func (m *ActionMap) Perform(action ActionID, value mgl64.Vec2) {
	m.dispatch(Event{Action: action, Phase: Performed, Value: value})
}

// Cancel publishes a canceled event with a zero value.
func (m *ActionMap) Cancel(action ActionID) {
	m.dispatch(Event{Action: action, Phase: Canceled})
}

func (m *ActionMap) dispatch(evt Event) {
	if !m.Enabled(evt.Action) {
		return
	}
	// Handlers may close subscriptions while we iterate.
	subs := append([]*mapSubscription(nil), m.handlers[evt.Action]...)
	for _, sub := range subs {
		if sub.closed {
			continue
		}
		sub.handler(evt)
	}
}

func (m *ActionMap) remove(sub *mapSubscription) {
	list := m.handlers[sub.action]
	for i, s := range list {
		if s.id == sub.id {
			m.handlers[sub.action] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func validAction(a ActionID) bool {
	return a > ActionNone && a < ActionCount
}
