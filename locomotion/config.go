package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidConfig  = errors.New("locomotion: invalid movement config")
	ErrNilBackend     = errors.New("locomotion: backend is nil")
	ErrNilGround      = errors.New("locomotion: ground sampler is nil")
	ErrNilCamera      = errors.New("locomotion: camera is nil")
	ErrNilSource      = errors.New("locomotion: input source is nil")
	ErrAlreadyEnabled = errors.New("locomotion: controller already enabled")
)

// LayerMask selects collision layers by bit.
type LayerMask uint32

const AllLayers LayerMask = math.MaxUint32

// Layer returns the mask for a single layer index.
func Layer(index int) LayerMask {
	if index < 0 || index > 31 {
		return 0
	}
	return 1 << uint(index)
}

// Has reports whether any layer in other is also in m.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// MovementConfig is per-character tuning. Treat it as immutable once a
// controller holds it; use Controller.SetConfig to swap it.
type MovementConfig struct {
	MoveSpeed  float64
	JumpHeight float64
	// Gravity is the vertical acceleration the kinematic controller
	// integrates. The rigid-body controller uses the host gravity instead.
	Gravity float64
	// GravityScale multiplies host gravity while a rigid body is airborne.
	GravityScale   float64
	TurnSmoothTime float64
	// MaxTurnSpeed caps the yaw spring in degrees per second. Zero or less
	// means unlimited.
	MaxTurnSpeed float64

	GroundCheckRadius float64
	GroundCheckOffset mgl64.Vec3
	GroundMask        LayerMask

	// InputThreshold is the minimum stick magnitude that steers.
	InputThreshold float64
	// GroundingBias is the downward velocity a kinematic body keeps while
	// grounded so it stays seated on the surface.
	GroundingBias float64
	// AirControl lets the horizontal mover run while airborne.
	AirControl bool
}

// DefaultMovementConfig returns the stock tuning for a 2m tall character.
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		MoveSpeed:         10,
		JumpHeight:        2,
		Gravity:           -9.8,
		GravityScale:      2,
		TurnSmoothTime:    0.1,
		GroundCheckRadius: 0.2,
		GroundCheckOffset: mgl64.Vec3{0, -1, 0},
		GroundMask:        AllLayers,
		InputThreshold:    0.1,
		GroundingBias:     -2,
	}
}

// Validate reports the first out-of-range field.
func (c MovementConfig) Validate() error {
	switch {
	case !finite(c.MoveSpeed) || c.MoveSpeed < 0:
		return fmt.Errorf("%w: move speed %v must be >= 0", ErrInvalidConfig, c.MoveSpeed)
	case !finite(c.JumpHeight) || c.JumpHeight < 0:
		return fmt.Errorf("%w: jump height %v must be >= 0", ErrInvalidConfig, c.JumpHeight)
	case !finite(c.Gravity):
		return fmt.Errorf("%w: gravity %v must be finite", ErrInvalidConfig, c.Gravity)
	case !finite(c.GravityScale) || c.GravityScale < 0:
		return fmt.Errorf("%w: gravity scale %v must be >= 0", ErrInvalidConfig, c.GravityScale)
	case !finite(c.TurnSmoothTime) || c.TurnSmoothTime < 0:
		return fmt.Errorf("%w: turn smooth time %v must be >= 0", ErrInvalidConfig, c.TurnSmoothTime)
	case math.IsNaN(c.MaxTurnSpeed):
		return fmt.Errorf("%w: max turn speed is NaN", ErrInvalidConfig)
	case !finite(c.GroundCheckRadius) || c.GroundCheckRadius <= 0:
		return fmt.Errorf("%w: ground check radius %v must be > 0", ErrInvalidConfig, c.GroundCheckRadius)
	case c.GroundMask == 0:
		return fmt.Errorf("%w: ground mask selects no layers", ErrInvalidConfig)
	case !finite(c.InputThreshold) || c.InputThreshold < 0 || c.InputThreshold > 1:
		return fmt.Errorf("%w: input threshold %v must be within [0, 1]", ErrInvalidConfig, c.InputThreshold)
	case !finite(c.GroundingBias) || c.GroundingBias > 0:
		return fmt.Errorf("%w: grounding bias %v must be <= 0", ErrInvalidConfig, c.GroundingBias)
	}
	for i := 0; i < 3; i++ {
		if !finite(c.GroundCheckOffset[i]) {
			return fmt.Errorf("%w: ground check offset %v must be finite", ErrInvalidConfig, c.GroundCheckOffset)
		}
	}
	return nil
}

func (c MovementConfig) maxTurnSpeed() float64 {
	if c.MaxTurnSpeed <= 0 {
		return math.Inf(1)
	}
	return c.MaxTurnSpeed
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
