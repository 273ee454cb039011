// Package rigid is a Chipmunk backend for the rigid-body controller. Like the
// kinematic backend the level is extruded along Z: the solver runs in the
// X/Y plane and depth is integrated by the body adapter without collision.
package rigid

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/locomotion"
)

const (
	// The solver's slop and bias are tuned for pixel-sized units, so world
	// meters are scaled up before they reach the space.
	unitsPerMeter = 100.0

	// Character shapes share a group so they never hit each other and the
	// ground query skips them.
	characterGroup uint = 1

	groundFriction = 0.8
)

// World owns the Chipmunk space, its static ground, and the bodies in it.
type World struct {
	space   *cp.Space
	gravity mgl64.Vec3
	grounds int
	bodies  []*Body
}

// NewWorld creates a space with the given gravity in m/s². Only the Y
// component reaches the solver; Z gravity is applied by the body adapter.
func NewWorld(gravity mgl64.Vec3) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(toSpace(gravity))

	log.Printf("RigidWorld: gravity=%v", gravity)

	return &World{space: space, gravity: gravity}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

// AddGround adds a static box with its lower-left corner at (x, y) meters on
// the given layers. A zero mask puts it on layer 0.
func (w *World) AddGround(x, y, width, height float64, layers locomotion.LayerMask) {
	if w == nil || width <= 0 || height <= 0 {
		return
	}
	if layers == 0 {
		layers = locomotion.Layer(0)
	}
	bb := cp.BB{
		L: x * unitsPerMeter,
		B: y * unitsPerMeter,
		R: (x + width) * unitsPerMeter,
		T: (y + height) * unitsPerMeter,
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(groundFriction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layers), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.grounds++
}

// Grounds returns the number of static boxes added.
func (w *World) Grounds() int {
	return w.grounds
}

// OverlapSphere reports whether a sphere touches ground on any layer in
// mask. The sphere is tested as a circle in the X/Y plane; character bodies
// are ignored.
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64, mask locomotion.LayerMask) bool {
	if w == nil || radius <= 0 || mask == 0 {
		return false
	}
	filter := cp.NewShapeFilter(characterGroup, cp.ALL_CATEGORIES, uint(mask))
	info := w.space.PointQueryNearest(toSpace(center), radius*unitsPerMeter, filter)
	return info != nil && info.Shape != nil
}

// Step advances the solver by dt seconds and integrates depth.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.beforeStep(dt, w.gravity.Z())
	}
	w.space.Step(dt)
	for _, b := range w.bodies {
		b.afterStep(dt)
	}
}

// Remove takes a body and its shape out of the space.
func (w *World) Remove(b *Body) {
	if w == nil || b == nil {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
}

func toSpace(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X() * unitsPerMeter, Y: v.Y() * unitsPerMeter}
}

// FromSpace converts a solver point to meters in the X/Y plane.
func FromSpace(v cp.Vector) (x, y float64) {
	return v.X / unitsPerMeter, v.Y / unitsPerMeter
}
