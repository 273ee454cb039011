package component

import "github.com/go-gl/mathgl/mgl64"

// Transform mirrors the body pose after each physics update. Systems write
// it; rendering and tracing read it.
type Transform struct {
	Position mgl64.Vec3
	// Yaw is the facing around world up, in degrees.
	Yaw float64
}

var TransformComponent = NewComponent[Transform]()
