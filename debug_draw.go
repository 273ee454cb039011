package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/locomotion/physics/rigid"
)

// debugDrawRigid renders the rigid solver's shapes over the side view.
func debugDrawRigid(screen *ebiten.Image, world *rigid.World, view sideView) {
	space := world.Space()
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &chipmunkDrawer{screen: screen, view: view})
}

type chipmunkDrawer struct {
	screen *ebiten.Image
	view   sideView
}

func (d *chipmunkDrawer) point(v cp.Vector) (float32, float32) {
	x, y := d.view.Project(rigid.FromSpace(v))
	return float32(x), float32(y)
}

func (d *chipmunkDrawer) length(l float64) float32 {
	x, _ := rigid.FromSpace(cp.Vector{X: l})
	return float32(x * pixelsPerMeter)
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.Color) {
	ax, ay := d.point(a)
	bx, by := d.point(b)
	vector.StrokeLine(d.screen, ax, ay, bx, by, 1, c, true)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	x, y := d.point(pos)
	vector.StrokeCircle(d.screen, x, y, d.length(radius), 1, c, true)
	// angle indicator
	d.line(pos, pos.Add(cp.Vector{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}), c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.point(pos)
	vector.FillCircle(d.screen, x, y, float32(size/2), fcolorToRGBA(fill), true)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
