package input

import "github.com/go-gl/mathgl/mgl64"

// Latch keeps the most recent move vector and jump button state. Events
// overwrite it; nothing is queued. The tick reads it.
type Latch struct {
	move mgl64.Vec2
	jump bool

	binding *latchBinding
}

// Move returns the latched movement vector.
func (l *Latch) Move() mgl64.Vec2 {
	return l.move
}

// Jump reports whether the jump button is held.
func (l *Latch) Jump() bool {
	return l.jump
}

// Bound reports whether the latch is listening to a source.
func (l *Latch) Bound() bool {
	return l.binding != nil && l.binding.live
}

// Reset zeroes both fields.
func (l *Latch) Reset() {
	l.move = mgl64.Vec2{}
	l.jump = false
}

// Bind subscribes the latch to move and jump events from src. Any previous
// binding is closed first. The returned subscription detaches both handlers;
// after Close the latch ignores events even from a source that keeps
// calling stale handlers.
func (l *Latch) Bind(src Source) Subscription {
	l.Unbind()
	b := &latchBinding{live: true}
	b.subs = []Subscription{
		src.Subscribe(ActionMove, b.guard(l.onMove)),
		src.Subscribe(ActionJump, b.guard(l.onJump)),
	}
	l.binding = b
	return b
}

// Unbind closes the current binding, if any.
func (l *Latch) Unbind() {
	if l.binding != nil {
		l.binding.Close()
		l.binding = nil
	}
}

func (l *Latch) onMove(evt Event) {
	switch evt.Phase {
	case Performed:
		l.move = evt.Value
	case Canceled:
		l.move = mgl64.Vec2{}
	}
}

func (l *Latch) onJump(evt Event) {
	switch evt.Phase {
	case Performed:
		l.jump = true
	case Canceled:
		l.jump = false
	}
}

type latchBinding struct {
	live bool
	subs []Subscription
}

func (b *latchBinding) guard(h Handler) Handler {
	return func(evt Event) {
		if !b.live {
			return
		}
		h(evt)
	}
}

func (b *latchBinding) Close() {
	if !b.live {
		return
	}
	b.live = false
	for _, s := range b.subs {
		if s != nil {
			s.Close()
		}
	}
	b.subs = nil
}
