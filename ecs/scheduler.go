package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs one frame of dt seconds. Events pushed during the frame are
// visible to later systems and dropped afterwards.
func (s *Scheduler) Update(w *World, dt float64) {
	if w == nil {
		return
	}
	w.SetDeltaTime(dt)
	for _, system := range s.systems {
		system.Update(w)
	}
	w.events.flush()
	w.frame++
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
