package locomotion

import "github.com/go-gl/mathgl/mgl64"

// VerticalPhase is the vertical motion state.
type VerticalPhase int

const (
	Grounded VerticalPhase = iota
	Falling
	// Jumping covers the tick a jump is injected and the rise that follows.
	Jumping
)

func (p VerticalPhase) String() string {
	switch p {
	case Grounded:
		return "grounded"
	case Falling:
		return "falling"
	case Jumping:
		return "jumping"
	default:
		return "unknown"
	}
}

// MotionState is owned by one controller and mutated once per tick.
type MotionState struct {
	Move             mgl64.Vec2
	VerticalVelocity float64
	Grounded         bool
	JumpRequested    bool

	Phase VerticalPhase
	// TurnVelocity is the yaw spring state in degrees per second.
	TurnVelocity float64
	// Jumped is true only on the tick a jump was injected.
	Jumped bool
	// Steered is true when the horizontal mover ran this tick.
	Steered bool
}

func airbornePhase(verticalVelocity float64) VerticalPhase {
	if verticalVelocity > 0 {
		return Jumping
	}
	return Falling
}
