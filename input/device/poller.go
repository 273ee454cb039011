// Package device reads keyboard and gamepad state through ebiten.
package device

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/locomotion/input"
)

const stickDeadzone = 0.2

// Binding lists the keys and standard gamepad buttons for one direction or
// button.
type Binding struct {
	Keys    []ebiten.Key
	Buttons []ebiten.StandardGamepadButton
}

// Bindings maps device controls to the move and jump actions.
type Bindings struct {
	Forward, Back, Left, Right Binding
	Jump                       Binding
	Deadzone                   float64
}

// DefaultBindings is WASD/arrows plus Space, and the left stick plus the
// south face button on gamepads.
func DefaultBindings() Bindings {
	return Bindings{
		Forward: Binding{
			Keys:    []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftTop},
		},
		Back: Binding{
			Keys:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftBottom},
		},
		Left: Binding{
			Keys:    []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft},
		},
		Right: Binding{
			Keys:    []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight},
		},
		Jump: Binding{
			Keys:    []ebiten.Key{ebiten.KeySpace},
			Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
		},
		Deadzone: stickDeadzone,
	}
}

// Poller reads keyboard and gamepad state every frame and turns changes
// into performed/canceled events on an ActionMap.
type Poller struct {
	emitter  *input.ChangeEmitter
	bindings Bindings

	gamepads []ebiten.GamepadID
}

func NewPoller(target *input.ActionMap, bindings Bindings) *Poller {
	if bindings.Deadzone <= 0 {
		bindings.Deadzone = stickDeadzone
	}
	return &Poller{emitter: input.NewChangeEmitter(target), bindings: bindings}
}

// Poll must run on the ebiten Update goroutine.
func (p *Poller) Poll() error {
	if p == nil || p.emitter == nil {
		return nil
	}
	p.gamepads = ebiten.AppendGamepadIDs(p.gamepads[:0])

	var move mgl64.Vec2
	if p.held(p.bindings.Right) {
		move[0]++
	}
	if p.held(p.bindings.Left) {
		move[0]--
	}
	if p.held(p.bindings.Forward) {
		move[1]++
	}
	if p.held(p.bindings.Back) {
		move[1]--
	}
	if stick, ok := p.leftStick(); ok {
		move = stick
	}
	if l := move.Len(); l > 1 {
		move = move.Mul(1 / l)
	}

	p.emitter.Emit(input.Snapshot{Move: move, Jump: p.held(p.bindings.Jump)})
	return nil
}

// Resync republishes held controls on the next poll.
func (p *Poller) Resync() {
	if p != nil {
		p.emitter.Resync()
	}
}

func (p *Poller) held(b Binding) bool {
	for _, key := range b.Keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	for _, id := range p.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, btn := range b.Buttons {
			if ebiten.IsStandardGamepadButtonPressed(id, btn) {
				return true
			}
		}
	}
	return false
}

func (p *Poller) leftStick() (mgl64.Vec2, bool) {
	for _, id := range p.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		// Stick up is negative on standard layouts.
		y := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(x, y) > p.bindings.Deadzone {
			return mgl64.Vec2{x, y}, true
		}
	}
	return mgl64.Vec2{}, false
}
