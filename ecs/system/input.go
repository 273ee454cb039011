package system

import (
	"log"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// InputSystem polls every input source once per frame, before any
// controller ticks.
type InputSystem struct {
	failing map[ecs.Entity]bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{failing: make(map[ecs.Entity]bool)}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, in *component.Input) {
		if in.Poller == nil {
			return
		}
		if err := in.Poller.Poll(); err != nil {
			// Log once per failure streak; a broken script fails every frame.
			if !i.failing[e] {
				log.Printf("InputSystem: entity %v: %v", e, err)
				i.failing[e] = true
			}
			return
		}
		delete(i.failing, e)
	})
}
