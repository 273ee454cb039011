package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// JumpVelocity is the launch speed that peaks at height under constant
// gravity: sqrt(h * 2 * |g|).
func JumpVelocity(height, gravity float64) float64 {
	if height <= 0 {
		return 0
	}
	return math.Sqrt(height * 2 * math.Abs(gravity))
}

// resolveKinematicVertical advances the vertical state of a swept body for
// one tick and returns the vertical displacement to apply, including the
// seating move while grounded. The mover runs between seating and jumping,
// so the caller passes it as a hook.
func resolveKinematicVertical(s *MotionState, cfg MovementConfig, dt float64, move func()) float64 {
	s.Jumped = false
	if s.Grounded {
		s.VerticalVelocity = cfg.GroundingBias
		s.Phase = Grounded
	}

	if move != nil {
		move()
	}

	if s.Grounded && s.JumpRequested {
		s.VerticalVelocity = JumpVelocity(cfg.JumpHeight, cfg.Gravity)
		s.Jumped = true
		s.Phase = Jumping
	}

	if !s.Grounded {
		s.VerticalVelocity += cfg.Gravity * dt
		s.Phase = airbornePhase(s.VerticalVelocity)
	}
	return s.VerticalVelocity * dt
}

// jumpVelocityChange is the upward velocity change that brings vy to the
// jump speed. It is never negative.
func jumpVelocityChange(jumpSpeed, vy float64) float64 {
	return math.Max(jumpSpeed-vy, 0)
}

// extraGravity is the acceleration added on top of host gravity so an
// airborne rigid body falls at gravityScale times normal.
func extraGravity(hostGravity mgl64.Vec3, gravityScale float64) mgl64.Vec3 {
	return hostGravity.Mul(gravityScale - 1)
}
