// Package kinematic is a swept-box backend for the kinematic controller,
// built on a resolv space. The level is extruded along Z: geometry is laid
// out in the X/Y plane and spans every depth, so Z motion never collides.
package kinematic

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/solarlune/resolv"
)

const (
	TagSolid = "solid"
	tagBody  = "body"
	tagProbe = "probe"

	// resolv works in integer cells, so world meters are scaled up.
	unitsPerMeter = 100.0
	cellSize      = 25
	epsilon       = 1e-6
)

var ErrEmptyBounds = errors.New("kinematic: level bounds are empty")

// Level owns the resolv space and the static ground boxes in it.
type Level struct {
	space  *resolv.Space
	origin mgl64.Vec2
	size   mgl64.Vec2
	probe  *resolv.Object
	layers map[*resolv.Object]locomotion.LayerMask
	bodies []*Body
}

// NewLevel creates a level covering the rectangle [min, max] in meters.
// Objects outside it are not collided.
func NewLevel(min, max mgl64.Vec2) (*Level, error) {
	size := max.Sub(min)
	if size.X() <= 0 || size.Y() <= 0 {
		return nil, fmt.Errorf("%w: min=%v max=%v", ErrEmptyBounds, min, max)
	}
	w := int(math.Ceil(size.X() * unitsPerMeter))
	h := int(math.Ceil(size.Y() * unitsPerMeter))
	space := resolv.NewSpace(w, h, cellSize, cellSize)

	probe := resolv.NewObject(0, 0, 1, 1, tagProbe)
	space.Add(probe)

	log.Printf("KinematicLevel: space %dx%d units, cell %d", w, h, cellSize)

	return &Level{
		space:  space,
		origin: min,
		size:   size,
		probe:  probe,
		layers: make(map[*resolv.Object]locomotion.LayerMask),
	}, nil
}

// Space returns the underlying resolv space.
func (l *Level) Space() *resolv.Space {
	if l == nil {
		return nil
	}
	return l.space
}

// Bounds returns the level rectangle in meters.
func (l *Level) Bounds() (min, max mgl64.Vec2) {
	return l.origin, l.origin.Add(l.size)
}

// AddGround adds a solid box with its lower-left corner at (x, y) meters.
// A zero layer mask puts it on layer 0.
func (l *Level) AddGround(x, y, w, h float64, layers locomotion.LayerMask) {
	if l == nil || w <= 0 || h <= 0 {
		return
	}
	if layers == 0 {
		layers = locomotion.Layer(0)
	}
	rx, ry := l.toSpace(x, y)
	rw, rh := w*unitsPerMeter, h*unitsPerMeter
	obj := resolv.NewObject(rx, ry, rw, rh, TagSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, rw, rh))
	l.space.Add(obj)
	l.layers[obj] = layers
}

// Grounds returns the number of solid boxes in the level.
func (l *Level) Grounds() int {
	return len(l.layers)
}

// OverlapSphere reports whether a sphere touches ground on any layer in
// mask. The sphere is tested as a circle in the X/Y plane.
func (l *Level) OverlapSphere(center mgl64.Vec3, radius float64, mask locomotion.LayerMask) bool {
	if l == nil || radius <= 0 || mask == 0 {
		return false
	}
	cx, cy := l.toSpace(center.X(), center.Y())
	r := radius * unitsPerMeter

	l.probe.X = cx - r
	l.probe.Y = cy - r
	l.probe.W = 2 * r
	l.probe.H = 2 * r
	l.probe.Update()

	check := l.probe.Check(0, 0, TagSolid)
	if check == nil {
		return false
	}
	for _, o := range check.ObjectsByTags(TagSolid) {
		if !mask.Has(l.layers[o]) {
			continue
		}
		if circleTouchesBox(cx, cy, r, o) {
			return true
		}
	}
	return false
}

// Remove takes a body out of the level.
func (l *Level) Remove(b *Body) {
	if l == nil || b == nil {
		return
	}
	l.space.Remove(b.obj)
	for i, other := range l.bodies {
		if other == b {
			l.bodies = append(l.bodies[:i], l.bodies[i+1:]...)
			break
		}
	}
}

func (l *Level) toSpace(x, y float64) (float64, float64) {
	return (x - l.origin.X()) * unitsPerMeter, (y - l.origin.Y()) * unitsPerMeter
}

func (l *Level) toWorld(x, y float64) (float64, float64) {
	return x/unitsPerMeter + l.origin.X(), y/unitsPerMeter + l.origin.Y()
}

func circleTouchesBox(cx, cy, r float64, o *resolv.Object) bool {
	nx := math.Max(o.X, math.Min(cx, o.X+o.W))
	ny := math.Max(o.Y, math.Min(cy, o.Y+o.H))
	dx, dy := cx-nx, cy-ny
	return dx*dx+dy*dy <= r*r+epsilon
}
