// Command locosim runs a character headless on a scripted input and writes
// one CSV row per frame.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/entity"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
)

type options struct {
	controller string
	character  string
	level      string
	script     string
	ticks      int
	dt         float64
	fixedStep  float64
	out        string
}

func main() {
	var opts options
	flag.StringVar(&opts.controller, "controller", "", "controller kind (kinematic or rigidbody); overrides the character prefab")
	flag.StringVar(&opts.character, "character", "character.yaml", "character prefab")
	flag.StringVar(&opts.level, "level", "level.yaml", "level prefab")
	flag.StringVar(&opts.script, "script", "", "tengo input script; overrides the character prefab")
	flag.IntVar(&opts.ticks, "ticks", 600, "frames to simulate")
	flag.Float64Var(&opts.dt, "dt", 1.0/60.0, "frame time in seconds")
	flag.Float64Var(&opts.fixedStep, "fixed", system.DefaultFixedStep, "rigid-body physics step in seconds")
	flag.StringVar(&opts.out, "o", "", "write the trace to this file instead of stdout")
	flag.Parse()

	out := io.Writer(os.Stdout)
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	if err := run(opts, out); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, out io.Writer) error {
	if opts.ticks < 0 || opts.dt <= 0 {
		return fmt.Errorf("locosim: ticks must be >= 0 and dt > 0")
	}

	levelSpec, err := prefabs.LoadLevelSpec(opts.level)
	if err != nil {
		return err
	}
	stage, err := entity.NewStage(levelSpec)
	if err != nil {
		return err
	}

	spec, err := prefabs.LoadCharacterSpec(opts.character)
	if err != nil {
		return err
	}
	if opts.controller != "" {
		spec.Controller = opts.controller
	}
	if opts.script != "" {
		spec.Script = opts.script
	}
	if spec.Script == "" {
		return fmt.Errorf("locosim: character %s has no input script", spec.Name)
	}

	src, err := prefabs.LoadScript(spec.Script)
	if err != nil {
		return fmt.Errorf("locosim: load script %s: %w", spec.Script, err)
	}
	actions := input.NewActionMap()
	driver, err := input.NewScriptDriver(spec.Script, src, actions)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	_, rig, err := entity.NewCamera(w, stage)
	if err != nil {
		return err
	}
	player, err := entity.NewCharacter(w, stage, spec, rig, actions, driver)
	if err != nil {
		return err
	}

	counts := make(map[ecs.EventType]int)
	trace := system.NewTraceSystem(out)
	sched := ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewCameraSystem(),
		system.NewLocomotionSystem(),
		system.NewPhysicsSystem(stage.Rigid, opts.fixedStep),
		trace,
		ecs.SystemFunc(func(w *ecs.World) {
			for _, evt := range w.Events().Peek() {
				counts[evt.Type]++
			}
		}),
	)

	for i := 0; i < opts.ticks; i++ {
		sched.Update(w, opts.dt)
		if err := trace.Err(); err != nil {
			return err
		}
	}
	if err := trace.Flush(); err != nil {
		return err
	}

	summarize(w, player, spec.Script, counts)
	return nil
}

func summarize(w *ecs.World, player ecs.Entity, script string, counts map[ecs.EventType]int) {
	loco, ok := ecs.Get(w, player, component.LocomotionComponent.Kind())
	if !ok || loco.Controller == nil {
		return
	}
	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	pos := tr.Position
	log.Printf("locosim: %s on %s for %d frames: end %.3f,%.3f,%.3f yaw %.1f %s",
		loco.Controller.Kind(), script, w.Frame(), pos.X(), pos.Y(), pos.Z(), tr.Yaw, loco.Phase)
	log.Printf("locosim: jumps=%d left_ground=%d landed=%d",
		counts[system.EventJumped], counts[system.EventLeftGround], counts[system.EventLanded])
}
