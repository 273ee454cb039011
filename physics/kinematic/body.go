package kinematic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/solarlune/resolv"
)

// Body is an upright capsule swept as its bounding box. It satisfies
// locomotion.KinematicBody.
type Body struct {
	level  *Level
	obj    *resolv.Object
	z      float64
	yaw    float64
	radius float64
	height float64
}

// NewCapsule adds a capsule centered at pos. height is the full height,
// including both caps.
func (l *Level) NewCapsule(pos mgl64.Vec3, radius, height float64) *Body {
	if radius <= 0 {
		radius = 0.5
	}
	if height < 2*radius {
		height = 2 * radius
	}
	w, h := 2*radius*unitsPerMeter, height*unitsPerMeter
	x, y := l.toSpace(pos.X()-radius, pos.Y()-height/2)
	obj := resolv.NewObject(x, y, w, h, tagBody)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	l.space.Add(obj)

	b := &Body{level: l, obj: obj, z: pos.Z(), radius: radius, height: height}
	l.bodies = append(l.bodies, b)
	return b
}

func (b *Body) Position() mgl64.Vec3 {
	x, y := b.level.toWorld(b.obj.X+b.obj.W/2, b.obj.Y+b.obj.H/2)
	return mgl64.Vec3{x, y, b.z}
}

// Teleport places the body without collision.
func (b *Body) Teleport(pos mgl64.Vec3) {
	b.obj.X, b.obj.Y = b.level.toSpace(pos.X()-b.radius, pos.Y()-b.height/2)
	b.obj.Update()
	b.z = pos.Z()
}

func (b *Body) Yaw() float64 { return b.yaw }

func (b *Body) SetYaw(degrees float64) { b.yaw = common.NormalizeDegrees(degrees) }

func (b *Body) Radius() float64 { return b.radius }

func (b *Body) Height() float64 { return b.height }

// Move sweeps X then Y against solids and stops at first contact on each
// axis. Z is applied as is.
func (b *Body) Move(delta mgl64.Vec3) mgl64.Vec3 {
	dx := b.sweep(delta.X()*unitsPerMeter, 0)
	dy := b.sweep(0, delta.Y()*unitsPerMeter)
	b.z += delta.Z()
	return mgl64.Vec3{dx / unitsPerMeter, dy / unitsPerMeter, delta.Z()}
}

// sweep moves along one axis; exactly one of dx, dy is non-zero. resolv
// only checks the destination cells, so long moves are split into steps no
// longer than a cell or the body itself.
func (b *Body) sweep(dx, dy float64) float64 {
	limit := math.Min(cellSize, math.Min(b.obj.W, b.obj.H))
	moved := 0.0
	for rest := dx + dy; rest != 0; {
		step := common.Clamp(rest, -limit, limit)
		var got float64
		if dx != 0 {
			got = b.step(step, 0)
		} else {
			got = b.step(0, step)
		}
		moved += got
		if got != step {
			break
		}
		rest -= step
	}
	return moved
}

func (b *Body) step(dx, dy float64) float64 {
	d := dx + dy
	allowed := d
	if check := b.obj.Check(dx, dy, TagSolid); check != nil {
		for _, o := range check.ObjectsByTags(TagSolid) {
			if !b.blocks(o, dx, dy) {
				continue
			}
			contact := check.ContactWithObject(o)
			c := contact.X()
			if dy != 0 {
				c = contact.Y()
			}
			// Already touching or overlapping on the leading edge.
			if c*d < 0 {
				c = 0
			}
			if math.Abs(c) < math.Abs(allowed) {
				allowed = c
			}
		}
	}
	if dx != 0 {
		b.obj.X += allowed
	} else {
		b.obj.Y += allowed
	}
	b.obj.Update()
	return allowed
}

// blocks reports whether o lies ahead of the body within the swept range
// and overlaps it on the other axis. The cell query alone is coarser.
func (b *Body) blocks(o *resolv.Object, dx, dy float64) bool {
	x, y, w, h := b.obj.X, b.obj.Y, b.obj.W, b.obj.H
	switch {
	case dx > 0:
		return overlaps(y, h, o.Y, o.H) && o.X >= x+w-epsilon && o.X < x+w+dx
	case dx < 0:
		return overlaps(y, h, o.Y, o.H) && o.X+o.W <= x+epsilon && o.X+o.W > x+dx
	case dy > 0:
		return overlaps(x, w, o.X, o.W) && o.Y >= y+h-epsilon && o.Y < y+h+dy
	case dy < 0:
		return overlaps(x, w, o.X, o.W) && o.Y+o.H <= y+epsilon && o.Y+o.H > y+dy
	}
	return false
}

func overlaps(a, aLen, b, bLen float64) bool {
	return a < b+bLen-epsilon && b < a+aLen-epsilon
}
