package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/locomotion"
)

// Body is an upright capsule driven by the solver. It satisfies
// locomotion.RigidBody.
type Body struct {
	world *World
	body  *cp.Body
	shape *cp.Shape

	// Depth state; the solver never sees Z.
	z, vz, az float64
	yaw       float64
	radius    float64
	height    float64
}

// NewBody adds a capsule of the given mass centered at pos. height is the
// full height, including both caps.
func (w *World) NewBody(pos mgl64.Vec3, mass, radius, height float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	if radius <= 0 {
		radius = 0.5
	}
	if height < 2*radius {
		height = 2 * radius
	}
	half := (height/2 - radius) * unitsPerMeter
	a := cp.Vector{X: 0, Y: -half}
	b := cp.Vector{X: 0, Y: half}
	r := radius * unitsPerMeter

	moment := cp.MomentForSegment(mass, a, b, r)
	body := cp.NewBody(mass, moment)
	body.SetPosition(toSpace(pos))
	shape := cp.NewSegment(body, a, b, r)
	shape.SetFriction(groundFriction)
	shape.SetFilter(cp.NewShapeFilter(characterGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	w.space.AddBody(body)
	w.space.AddShape(shape)

	rb := &Body{world: w, body: body, shape: shape, z: pos.Z(), radius: radius, height: height}
	w.bodies = append(w.bodies, rb)
	return rb
}

func (b *Body) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X / unitsPerMeter, p.Y / unitsPerMeter, b.z}
}

func (b *Body) Velocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X / unitsPerMeter, v.Y / unitsPerMeter, b.vz}
}

// SetVelocity replaces the linear velocity.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.body.SetVelocity(v.X()*unitsPerMeter, v.Y()*unitsPerMeter)
	b.vz = v.Z()
}

func (b *Body) Yaw() float64 { return b.yaw }

func (b *Body) SetYaw(degrees float64) { b.yaw = common.NormalizeDegrees(degrees) }

func (b *Body) Mass() float64 { return b.body.Mass() }

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) Height() float64 { return b.height }

func (b *Body) Gravity() mgl64.Vec3 { return b.world.gravity }

// MovePosition places the body; the solver resolves any overlap on the
// next step.
func (b *Body) MovePosition(p mgl64.Vec3) {
	b.body.SetPosition(toSpace(p))
	b.z = p.Z()
}

// FreezeRotation gives the body infinite inertia and stops any spin.
func (b *Body) FreezeRotation() {
	b.body.SetMoment(math.Inf(1))
	b.body.SetAngularVelocity(0)
	b.body.SetAngle(0)
}

// AddForce follows the usual engine modes: Force and Impulse are divided by
// mass, Acceleration and VelocityChange are not. Force and Acceleration are
// integrated by the next Step and then cleared.
func (b *Body) AddForce(f mgl64.Vec3, mode locomotion.ForceMode) {
	mass := b.body.Mass()
	switch mode {
	case locomotion.Force:
		b.body.ApplyForceAtLocalPoint(toSpace(f), cp.Vector{})
		b.az += f.Z() / mass
	case locomotion.Acceleration:
		b.body.ApplyForceAtLocalPoint(toSpace(f.Mul(mass)), cp.Vector{})
		b.az += f.Z()
	case locomotion.Impulse:
		b.body.ApplyImpulseAtLocalPoint(toSpace(f), cp.Vector{})
		b.vz += f.Z() / mass
	case locomotion.VelocityChange:
		b.body.ApplyImpulseAtLocalPoint(toSpace(f.Mul(mass)), cp.Vector{})
		b.vz += f.Z()
	}
}

func (b *Body) beforeStep(dt, gravityZ float64) {
	b.vz += (gravityZ + b.az) * dt
	b.az = 0
}

func (b *Body) afterStep(dt float64) {
	b.z += b.vz * dt
}
