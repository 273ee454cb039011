// Package input delivers movement and jump actions to gameplay code through
// scoped subscriptions.
package input

import "github.com/go-gl/mathgl/mgl64"

// ActionID identifies a logical gameplay action.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMove
	ActionJump
	ActionCount // Must be last - used for array sizing
)

func (a ActionID) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionJump:
		return "jump"
	default:
		return "none"
	}
}

// Phase is the lifecycle step an action event reports.
type Phase int

const (
	// Performed carries a new value for the action.
	Performed Phase = iota + 1
	// Canceled means the control returned to rest.
	Canceled
)

func (p Phase) String() string {
	switch p {
	case Performed:
		return "performed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Event is one action callback. Move events carry Value; button events only
// use Phase.
type Event struct {
	Action ActionID
	Phase  Phase
	Value  mgl64.Vec2
}

// Handler receives action events on the simulation thread.
type Handler func(Event)

// Subscription is a registration handle. Close is idempotent; once it
// returns the handler is never invoked again.
type Subscription interface {
	Close()
}

// Source is anything that can deliver action events to subscribers.
type Source interface {
	Subscribe(action ActionID, h Handler) Subscription
}

// Poller is a host device read once per frame.
type Poller interface {
	Poll() error
}

// Resyncer is a Poller that can republish its held state on the next poll.
type Resyncer interface {
	Resync()
}
