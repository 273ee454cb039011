package locomotion

import "github.com/go-gl/mathgl/mgl64"

type kinematicStrategy struct {
	backend KinematicBody
}

func (s *kinematicStrategy) kind() Kind { return KindKinematic }

func (s *kinematicStrategy) body() Body { return s.backend }

func (s *kinematicStrategy) prepare() {}

// tick: seat on ground, steer, jump, then fall while airborne. The vertical
// move is submitted every tick so the bias keeps the body seated and a jump
// leaves the ground on the tick it is injected.
func (s *kinematicStrategy) tick(c *Controller, dt float64) {
	dy := resolveKinematicVertical(&c.state, c.cfg, dt, func() {
		if st, ok := c.steer(dt); ok {
			s.backend.Move(st.Delta)
		}
	})
	if dy != 0 {
		s.backend.Move(mgl64.Vec3{0, dy, 0})
	}
}
