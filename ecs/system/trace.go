package system

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

var traceHeader = []string{
	"frame", "time", "entity", "controller",
	"x", "y", "z", "yaw",
	"vy", "phase", "grounded", "events",
}

// TraceSystem writes one CSV row per controlled entity per frame. It reads
// the frame's events, so it must run after the systems that push them.
type TraceSystem struct {
	w       *csv.Writer
	time    float64
	started bool
	err     error
}

func NewTraceSystem(out io.Writer) *TraceSystem {
	return &TraceSystem{w: csv.NewWriter(out)}
}

// Err returns the first write error.
func (t *TraceSystem) Err() error { return t.err }

// Flush writes buffered rows to the underlying writer.
func (t *TraceSystem) Flush() error {
	t.w.Flush()
	if t.err == nil {
		t.err = t.w.Error()
	}
	return t.err
}

func (t *TraceSystem) Update(w *ecs.World) {
	if w == nil || t.err != nil {
		return
	}
	if !t.started {
		t.write(traceHeader)
		t.started = true
	}
	t.time += w.DeltaTime()

	byEntity := make(map[ecs.Entity][]string)
	for _, evt := range w.Events().Peek() {
		byEntity[evt.Entity] = append(byEntity[evt.Entity], string(evt.Type))
	}

	type traceRow struct {
		e   ecs.Entity
		row []string
	}
	var rows []traceRow
	ecs.ForEach2(w, component.LocomotionComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion, tr *component.Transform) {
		if loco.Controller == nil {
			return
		}
		state := loco.Controller.Snapshot()
		rows = append(rows, traceRow{e, []string{
			strconv.FormatUint(w.Frame(), 10),
			formatFloat(t.time),
			e.String(),
			loco.Controller.Kind().String(),
			formatFloat(tr.Position.X()),
			formatFloat(tr.Position.Y()),
			formatFloat(tr.Position.Z()),
			formatFloat(tr.Yaw),
			formatFloat(state.VerticalVelocity),
			loco.Phase.String(),
			strconv.FormatBool(loco.Grounded),
			strings.Join(byEntity[e], ";"),
		}})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].e < rows[j].e })
	for _, r := range rows {
		t.write(r.row)
	}
}

func (t *TraceSystem) write(row []string) {
	if err := t.w.Write(row); err != nil && t.err == nil {
		t.err = fmt.Errorf("system: trace: %w", err)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
