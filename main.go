package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	controller := flag.String("controller", "", "controller kind (kinematic or rigidbody); overrides the character prefab")
	character := flag.String("character", "character.yaml", "character prefab")
	levelName := flag.String("level", "level.yaml", "level prefab")
	debug := flag.Bool("debug", false, "draw solver shapes and the ground probe")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion playground")

	game, err := NewGame(*levelName, *character, *controller, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
