package main

import (
	"log"
	"path/filepath"

	"github.com/milk9111/locomotion/ecs/entity"
	"github.com/milk9111/locomotion/prefabs"
)

// reload applies edited prefabs between frames. Movement tuning is swapped
// in place; a changed controller kind rebuilds the controller.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("playground: watch: %v", err)
		}
	default:
	}

	for _, path := range g.watcher.Drain() {
		switch filepath.Base(path) {
		case filepath.Base(g.specRef):
			g.reloadCharacter()
		case "level.yaml":
			log.Printf("playground: %s changed; restart to rebuild the level", path)
		}
	}
}

func (g *Game) reloadCharacter() {
	spec, err := prefabs.LoadCharacterSpec(g.specRef)
	if err != nil {
		log.Printf("playground: reload: %v", err)
		return
	}
	kind, err := spec.Kind()
	if err != nil {
		log.Printf("playground: reload: %v", err)
		return
	}

	if kind != g.controllerKind() {
		if err := entity.SwitchController(g.world, g.player, g.stage, spec, kind, g.rig); err != nil {
			log.Printf("playground: reload: %v", err)
			return
		}
	} else if err := entity.ApplySpec(g.world, g.player, g.stage, spec); err != nil {
		log.Printf("playground: reload: keeping old tuning: %v", err)
		return
	}

	g.spec = spec
	g.pushEvent("reloaded " + spec.Name)
	log.Printf("playground: reloaded %s (%s)", spec.Name, kind)
}
