package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/entity"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/input/device"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = common.BaseWidth
	baseHeight = common.BaseHeight

	// recentEvents is how many locomotion events the HUD lists.
	recentEvents = 6
)

var backgroundColor = color.NRGBA{R: 0x1c, G: 0x22, B: 0x2b, A: 0xff}

type Game struct {
	world   *ecs.World
	sched   *ecs.Scheduler
	stage   *entity.Stage
	spec    *prefabs.CharacterSpec
	specRef string

	player  ecs.Entity
	rig     *component.CameraRig
	actions *input.ActionMap

	watcher *prefabs.Watcher
	events  []string

	face    text.Face
	pauseUI *ebitenui.UI
	paused  bool
	debug   bool
	quit    bool
}

func NewGame(levelName, characterName, controller string, debug bool) (*Game, error) {
	levelSpec, err := prefabs.LoadLevelSpec(levelName)
	if err != nil {
		return nil, err
	}
	stage, err := entity.NewStage(levelSpec)
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadCharacterSpec(characterName)
	if err != nil {
		return nil, err
	}
	if controller != "" {
		spec.Controller = controller
	}

	g := &Game{
		world:   ecs.NewWorld(),
		stage:   stage,
		spec:    spec,
		specRef: characterName,
		actions: input.NewActionMap(),
		face:    text.NewGoXFace(basicfont.Face7x13),
		debug:   debug,
	}

	if _, g.rig, err = entity.NewCamera(g.world, stage); err != nil {
		return nil, err
	}
	poller := device.NewPoller(g.actions, device.DefaultBindings())
	if g.player, err = entity.NewCharacter(g.world, stage, spec, g.rig, g.actions, poller); err != nil {
		return nil, err
	}

	g.sched = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewCameraSystem(),
		system.NewLocomotionSystem(),
		system.NewPhysicsSystem(stage.Rigid, system.DefaultFixedStep),
		ecs.SystemFunc(g.collectEvents),
	)

	if w, err := prefabs.NewWatcher(prefabs.DiskDir); err != nil {
		log.Printf("playground: hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.toggleController()
	}

	g.rig.Orbit = 0
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.rig.Orbit--
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.rig.Orbit++
	}

	g.sched.Update(g.world, 1/float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	tr, ok := ecs.Get(g.world, g.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	view := newSideView(tr.Position)
	g.drawStage(screen, view)
	g.drawCharacter(screen, view)
	if g.debug {
		debugDrawRigid(screen, g.stage.Rigid, view)
	}
	g.drawTopDown(screen)
	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) controllerKind() locomotion.Kind {
	loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent.Kind())
	if !ok || loco.Controller == nil {
		return 0
	}
	return loco.Controller.Kind()
}

func (g *Game) toggleController() {
	next := locomotion.KindRigidBody
	if g.controllerKind() == locomotion.KindRigidBody {
		next = locomotion.KindKinematic
	}
	if err := entity.SwitchController(g.world, g.player, g.stage, g.spec, next, g.rig); err != nil {
		log.Printf("playground: switch to %s: %v", next, err)
		return
	}
	g.spec.Controller = next.String()
	g.pushEvent(fmt.Sprintf("controller -> %s", next))
}

func (g *Game) collectEvents(w *ecs.World) {
	for _, evt := range w.Events().Peek() {
		if evt.Entity != g.player {
			continue
		}
		line := string(evt.Type)
		if m, ok := evt.Data.(system.MotionEvent); ok && evt.Type == system.EventLanded {
			line = fmt.Sprintf("%s after %.2fs, apex %.2f", line, m.Airborne, m.Apex)
		}
		g.pushEvent(line)
	}
}

func (g *Game) pushEvent(line string) {
	g.events = append(g.events, line)
	if n := len(g.events); n > recentEvents {
		g.events = g.events[n-recentEvents:]
	}
}
