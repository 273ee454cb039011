package input

import "github.com/go-gl/mathgl/mgl64"

// Snapshot is the polled device state for one frame.
type Snapshot struct {
	Move mgl64.Vec2
	Jump bool
}

// ChangeEmitter turns per-frame snapshots into events, publishing only what
// changed since the previous snapshot. Polled devices then look like
// callback-driven input to subscribers.
type ChangeEmitter struct {
	target *ActionMap
	last   Snapshot
}

func NewChangeEmitter(target *ActionMap) *ChangeEmitter {
	return &ChangeEmitter{target: target}
}

// Emit publishes the differences between s and the previous snapshot.
func (e *ChangeEmitter) Emit(s Snapshot) {
	if e == nil || e.target == nil {
		return
	}
	if s.Move != e.last.Move {
		if s.Move == (mgl64.Vec2{}) {
			e.target.Cancel(ActionMove)
		} else {
			e.target.Perform(ActionMove, s.Move)
		}
	}
	if s.Jump != e.last.Jump {
		if s.Jump {
			e.target.Perform(ActionJump, mgl64.Vec2{})
		} else {
			e.target.Cancel(ActionJump)
		}
	}
	e.last = s
}

// Last returns the most recently emitted snapshot.
func (e *ChangeEmitter) Last() Snapshot {
	return e.last
}

// Resync forgets the previous snapshot, so the next Emit republishes every
// active control. Used after a new subscriber binds mid-press.
func (e *ChangeEmitter) Resync() {
	if e == nil {
		return
	}
	e.last = Snapshot{}
}
