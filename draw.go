package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/locomotion"
	"golang.org/x/image/colornames"
)

const (
	pixelsPerMeter = 24.0

	// Top-down inset in the upper right corner.
	topDownSize  = 220
	topDownScale = 8.0
)

var defaultGroundColor = color.NRGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xff}

// sideView projects the X/Y plane, centered on the character.
type sideView struct {
	center mgl64.Vec3
}

func newSideView(center mgl64.Vec3) sideView {
	return sideView{center: center}
}

func (v sideView) Project(x, y float64) (float64, float64) {
	return baseWidth/2 + (x-v.center.X())*pixelsPerMeter,
		baseHeight*0.6 - (y-v.center.Y())*pixelsPerMeter
}

func (g *Game) drawStage(screen *ebiten.Image, view sideView) {
	for _, ground := range g.stage.Spec.Ground {
		c := color.Color(defaultGroundColor)
		if mask, err := g.stage.Layers.Mask(ground.Layers); err == nil {
			if lc := g.stage.Spec.LayerColor(mask); lc != nil {
				c = lc
			}
		}
		x, y := view.Project(ground.X, ground.Y+ground.H)
		vector.FillRect(screen, float32(x), float32(y), float32(ground.W*pixelsPerMeter), float32(ground.H*pixelsPerMeter), c, false)
	}
}

func phaseColor(p locomotion.VerticalPhase) color.Color {
	switch p {
	case locomotion.Jumping:
		return colornames.Gold
	case locomotion.Falling:
		return colornames.Orange
	default:
		return colornames.Lightgreen
	}
}

func (g *Game) drawCharacter(screen *ebiten.Image, view sideView) {
	tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind())
	if !ok {
		return
	}

	r, h := g.spec.Body.Radius, g.spec.Body.Height
	pos := tr.Position
	c := phaseColor(loco.Phase)

	// capsule: two caps joined by the sides
	cx, top := view.Project(pos.X(), pos.Y()+h/2-r)
	_, bottom := view.Project(pos.X(), pos.Y()-h/2+r)
	pr := float32(r * pixelsPerMeter)
	vector.StrokeCircle(screen, float32(cx), float32(top), pr, 2, c, true)
	vector.StrokeCircle(screen, float32(cx), float32(bottom), pr, 2, c, true)
	vector.StrokeLine(screen, float32(cx)-pr, float32(top), float32(cx)-pr, float32(bottom), 2, c, true)
	vector.StrokeLine(screen, float32(cx)+pr, float32(top), float32(cx)+pr, float32(bottom), 2, c, true)

	// facing, projected onto X
	facing := locomotion.Heading(tr.Yaw)
	mx, my := view.Project(pos.X(), pos.Y())
	vector.StrokeLine(screen, float32(mx), float32(my), float32(mx+facing.X()*r*1.5*pixelsPerMeter), float32(my), 2, colornames.White, true)

	if !g.debug {
		return
	}
	cfg := loco.Controller.Config()
	probe := pos.Add(cfg.GroundCheckOffset)
	px, py := view.Project(probe.X(), probe.Y())
	probeColor := color.Color(colornames.Red)
	if loco.Grounded {
		probeColor = colornames.Lime
	}
	vector.StrokeCircle(screen, float32(px), float32(py), float32(cfg.GroundCheckRadius*pixelsPerMeter), 1, probeColor, true)
}

// drawTopDown shows the X/Z plane: the character, its facing and the
// camera forward.
func (g *Game) drawTopDown(screen *ebiten.Image) {
	tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	const margin = 16
	x0 := float32(baseWidth - topDownSize - margin)
	y0 := float32(margin)
	vector.FillRect(screen, x0, y0, topDownSize, topDownSize, color.NRGBA{A: 0xa0}, false)
	vector.StrokeRect(screen, x0, y0, topDownSize, topDownSize, 1, colornames.Gray, false)

	cx, cy := x0+topDownSize/2, y0+topDownSize/2
	// +X right, +Z up
	project := func(v mgl64.Vec3) (float32, float32) {
		d := v.Sub(tr.Position)
		return cx + float32(d.X()*topDownScale), cy - float32(d.Z()*topDownScale)
	}

	for _, ground := range g.stage.Spec.Ground {
		// Ground is extruded along Z, so each box is a band.
		ax, _ := project(mgl64.Vec3{ground.X, 0, 0})
		bx, _ := project(mgl64.Vec3{ground.X + ground.W, 0, 0})
		ax = max(ax, x0)
		bx = min(bx, x0+topDownSize)
		if bx > ax {
			vector.StrokeLine(screen, ax, y0+topDownSize-4, bx, y0+topDownSize-4, 3, defaultGroundColor, false)
		}
	}

	camFwd := locomotion.Heading(g.rig.Yaw()).Mul(3)
	fx, fy := project(tr.Position.Add(camFwd))
	vector.StrokeLine(screen, cx, cy, fx, fy, 1, colornames.Skyblue, true)

	facing := locomotion.Heading(tr.Yaw).Mul(1.5)
	hx, hy := project(tr.Position.Add(facing))
	vector.FillCircle(screen, cx, cy, float32(g.spec.Body.Radius*topDownScale), colornames.Lightgreen, true)
	vector.StrokeLine(screen, cx, cy, hx, hy, 2, colornames.White, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind())
	if !ok {
		return
	}
	state := loco.Controller.Snapshot()
	pos := tr.Position

	var b strings.Builder
	fmt.Fprintf(&b, "FPS %.1f  controller %s\n", ebiten.ActualFPS(), loco.Controller.Kind())
	fmt.Fprintf(&b, "pos %.2f %.2f %.2f  yaw %.1f  camera %.1f\n", pos.X(), pos.Y(), pos.Z(), tr.Yaw, g.rig.Yaw())
	fmt.Fprintf(&b, "%s  vy %.2f  airborne %.2fs\n", loco.Phase, state.VerticalVelocity, loco.Airborne)
	b.WriteString("WASD move  Space jump  Q/E orbit  Tab controller  F1 debug  Esc pause\n")
	for _, line := range g.events {
		b.WriteString("\n" + line)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, b.String(), g.face, op)
}
