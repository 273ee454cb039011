package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
)

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldForward = mgl64.Vec3{0, 0, 1}
)

// Camera exposes the horizontal orientation of the view, in degrees.
type Camera interface {
	Yaw() float64
}

// CameraFunc adapts a function to Camera.
type CameraFunc func() float64

func (f CameraFunc) Yaw() float64 { return f() }

// Steering is the result of one horizontal mover step.
type Steering struct {
	// Yaw is the smoothed facing to apply, in degrees within [0, 360).
	Yaw float64
	// TargetYaw is the camera-relative heading the input asks for.
	TargetYaw float64
	// Delta is the horizontal displacement for this tick.
	Delta mgl64.Vec3
}

// Heading returns the unit forward vector for a yaw in degrees.
func Heading(yaw float64) mgl64.Vec3 {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), worldUp).Rotate(worldForward)
}

// TargetYaw maps stick input to a world yaw relative to the camera. X is
// strafe and Y is forward.
func TargetYaw(move mgl64.Vec2, cameraYaw float64) float64 {
	return mgl64.RadToDeg(math.Atan2(move.X(), move.Y())) + cameraYaw
}

// Steer computes the facing and displacement for one tick. ok is false when
// the input is below the threshold; turnVelocity is untouched then.
func Steer(move mgl64.Vec2, cameraYaw, currentYaw float64, turnVelocity *float64, cfg MovementConfig, dt float64) (Steering, bool) {
	if move.Len() < cfg.InputThreshold || move.Len() == 0 {
		return Steering{}, false
	}
	dir := move.Normalize()
	target := TargetYaw(dir, cameraYaw)
	current := common.NormalizeDegrees(currentYaw)
	yaw := common.SmoothDampAngle(current, target, turnVelocity, cfg.TurnSmoothTime, cfg.maxTurnSpeed(), dt)

	// Travel follows the requested heading; only the visible facing lags.
	delta := Heading(target).Normalize().Mul(cfg.MoveSpeed * dt)
	return Steering{
		Yaw:       common.NormalizeDegrees(yaw),
		TargetYaw: common.NormalizeDegrees(target),
		Delta:     delta,
	}, true
}
