package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Body is the part of a host body both controllers need.
type Body interface {
	Position() mgl64.Vec3
	// Yaw is the facing around the world up axis, in degrees.
	Yaw() float64
	SetYaw(degrees float64)
}

// KinematicBody is a swept body moved directly by displacement.
type KinematicBody interface {
	Body
	// Move sweeps the body by delta and returns the displacement actually
	// applied after collisions.
	Move(delta mgl64.Vec3) mgl64.Vec3
}

// ForceMode selects how AddForce scales its argument.
type ForceMode int

const (
	// Force is mass-scaled and integrated over the step.
	Force ForceMode = iota
	// Acceleration ignores mass and is integrated over the step.
	Acceleration
	// Impulse is mass-scaled and applied immediately.
	Impulse
	// VelocityChange ignores mass and is applied immediately.
	VelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case Force:
		return "force"
	case Acceleration:
		return "acceleration"
	case Impulse:
		return "impulse"
	case VelocityChange:
		return "velocity_change"
	default:
		return "unknown"
	}
}

// RigidBody is a body integrated by a dynamics solver.
type RigidBody interface {
	Body
	Velocity() mgl64.Vec3
	AddForce(f mgl64.Vec3, mode ForceMode)
	// MovePosition places the body at p before the next solver step.
	MovePosition(p mgl64.Vec3)
	// Gravity is the global gravity the solver applies.
	Gravity() mgl64.Vec3
	// FreezeRotation stops the solver from rotating the body.
	FreezeRotation()
}
