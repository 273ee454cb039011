package locomotion

type rigidStrategy struct {
	backend RigidBody
}

func (s *rigidStrategy) kind() Kind { return KindRigidBody }

func (s *rigidStrategy) body() Body { return s.backend }

func (s *rigidStrategy) prepare() {
	s.backend.FreezeRotation()
}

// tick: jump velocity change, extra airborne gravity, then steer by moving the body.
// Vertical rest on the ground is left to the solver, and residual velocity
// is never damped here.
func (s *rigidStrategy) tick(c *Controller, dt float64) {
	c.state.Jumped = false
	gravity := s.backend.Gravity()

	if c.state.Grounded && c.state.JumpRequested {
		speed := JumpVelocity(c.cfg.JumpHeight, gravity.Y())
		dv := jumpVelocityChange(speed, s.backend.Velocity().Y())
		s.backend.AddForce(worldUp.Mul(dv), VelocityChange)
		c.state.Jumped = true
	}

	if !c.state.Grounded {
		s.backend.AddForce(extraGravity(gravity, c.cfg.GravityScale), Acceleration)
	}

	if st, ok := c.steer(dt); ok {
		s.backend.MovePosition(s.backend.Position().Add(st.Delta))
	}

	c.state.VerticalVelocity = s.backend.Velocity().Y()
	switch {
	case c.state.Jumped:
		c.state.Phase = Jumping
	case c.state.Grounded:
		c.state.Phase = Grounded
	default:
		c.state.Phase = airbornePhase(c.state.VerticalVelocity)
	}
}
