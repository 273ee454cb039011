package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

// Globals shared with driver scripts. Scripts read tick and assign the
// outputs with '=' (not ':=').
const (
	scriptTick  = "tick"
	scriptMoveX = "move_x"
	scriptMoveY = "move_y"
	scriptJump  = "jump"
)

// ScriptDriver runs a tengo script once per poll and feeds its outputs into
// an ActionMap, standing in for a player in headless runs and replays.
type ScriptDriver struct {
	name     string
	compiled *tengo.Compiled
	emitter  *ChangeEmitter
	tick     int
}

// NewScriptDriver compiles src. name is only used in errors.
func NewScriptDriver(name string, src []byte, target *ActionMap) (*ScriptDriver, error) {
	script := tengo.NewScript(src)
	_ = script.Add(scriptTick, 0)
	_ = script.Add(scriptMoveX, 0.0)
	_ = script.Add(scriptMoveY, 0.0)
	_ = script.Add(scriptJump, false)
	script.SetImports(stdlib.GetModuleMap("math", "times"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script %s: %w", name, err)
	}
	return &ScriptDriver{
		name:     name,
		compiled: compiled,
		emitter:  NewChangeEmitter(target),
	}, nil
}

// Tick returns the number of completed polls.
func (d *ScriptDriver) Tick() int {
	return d.tick
}

// Poll runs the script for the current tick and publishes changed outputs.
func (d *ScriptDriver) Poll() error {
	if d == nil || d.compiled == nil {
		return nil
	}
	if err := d.compiled.Set(scriptTick, d.tick); err != nil {
		return fmt.Errorf("input: script %s: set tick: %w", d.name, err)
	}
	if err := d.compiled.Run(); err != nil {
		return fmt.Errorf("input: script %s tick %d: %w", d.name, d.tick, err)
	}
	d.tick++

	move := mgl64.Vec2{
		d.compiled.Get(scriptMoveX).Float(),
		d.compiled.Get(scriptMoveY).Float(),
	}
	if l := move.Len(); l > 1 {
		move = move.Mul(1 / l)
	}
	d.emitter.Emit(Snapshot{Move: move, Jump: d.compiled.Get(scriptJump).Bool()})
	return nil
}

// Resync republishes the script outputs on the next poll.
func (d *ScriptDriver) Resync() {
	if d != nil {
		d.emitter.Resync()
	}
}
