package component

import "github.com/milk9111/locomotion/common"

// CameraRig is the orbit camera steering is relative to.
type CameraRig struct {
	Heading float64
	// TurnSpeed is the orbit rate at full Orbit input, in degrees per second.
	TurnSpeed float64
	// Orbit is the orbit input in [-1, 1] for this frame.
	Orbit float64
}

// Yaw satisfies locomotion.Camera.
func (c *CameraRig) Yaw() float64 {
	if c == nil {
		return 0
	}
	return c.Heading
}

// Turn advances the orbit by dt seconds.
func (c *CameraRig) Turn(dt float64) {
	if c == nil || c.Orbit == 0 {
		return
	}
	c.Heading = common.NormalizeDegrees(c.Heading + common.Clamp(c.Orbit, -1, 1)*c.TurnSpeed*dt)
}

var CameraRigComponent = NewComponent[CameraRig]()
