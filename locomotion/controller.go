// Package locomotion moves a player character: ground contact, jump and
// gravity, and camera-relative steering over a kinematic or rigid-body host.
package locomotion

import (
	"fmt"

	"github.com/milk9111/locomotion/input"
)

// Kind names the integration strategy of a controller.
type Kind int

const (
	KindKinematic Kind = iota + 1
	KindRigidBody
)

func (k Kind) String() string {
	switch k {
	case KindKinematic:
		return "kinematic"
	case KindRigidBody:
		return "rigidbody"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "kinematic":
		return KindKinematic, nil
	case "rigidbody":
		return KindRigidBody, nil
	}
	return 0, fmt.Errorf("locomotion: unknown controller kind %q", s)
}

// strategy is the per-variant part of a tick. It owns the backend.
type strategy interface {
	kind() Kind
	body() Body
	prepare()
	tick(c *Controller, dt float64)
}

// Controller runs the locomotion pipeline for one character: sample ground,
// update vertical state, steer, submit to the backend.
type Controller struct {
	cfg      MovementConfig
	state    MotionState
	strategy strategy

	ground GroundSampler
	anchor Anchor
	camera Camera

	latch   input.Latch
	sub     input.Subscription
	enabled bool
}

// Option customizes a controller at construction.
type Option func(*Controller)

// WithGroundAnchor replaces the default anchor, which is the body position
// plus MovementConfig.GroundCheckOffset.
func WithGroundAnchor(a Anchor) Option {
	return func(c *Controller) {
		if a != nil {
			c.anchor = a
		}
	}
}

// NewKinematicController drives a swept body by displacement each frame.
func NewKinematicController(cfg MovementConfig, body KinematicBody, ground GroundSampler, camera Camera, opts ...Option) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBackend
	}
	return newController(cfg, &kinematicStrategy{backend: body}, ground, camera, opts)
}

// NewRigidBodyController drives a dynamics body with forces each physics
// step. Rotation on the body is frozen.
func NewRigidBodyController(cfg MovementConfig, body RigidBody, ground GroundSampler, camera Camera, opts ...Option) (*Controller, error) {
	if body == nil {
		return nil, ErrNilBackend
	}
	return newController(cfg, &rigidStrategy{backend: body}, ground, camera, opts)
}

func newController(cfg MovementConfig, s strategy, ground GroundSampler, camera Camera, opts []Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ground == nil {
		return nil, ErrNilGround
	}
	if camera == nil {
		return nil, ErrNilCamera
	}
	c := &Controller{
		cfg:      cfg,
		strategy: s,
		ground:   ground,
		camera:   camera,
	}
	for _, opt := range opts {
		opt(c)
	}
	s.prepare()
	return c, nil
}

func (c *Controller) Kind() Kind { return c.strategy.kind() }

func (c *Controller) Config() MovementConfig { return c.cfg }

// SetConfig swaps tuning between ticks. The old config is kept on error.
func (c *Controller) SetConfig(cfg MovementConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// Body returns the backend body.
func (c *Controller) Body() Body { return c.strategy.body() }

// Snapshot returns a copy of the motion state.
func (c *Controller) Snapshot() MotionState { return c.state }

func (c *Controller) Enabled() bool { return c.enabled }

// Enable subscribes the controller to src. It must be paired with Disable.
func (c *Controller) Enable(src input.Source) error {
	if src == nil {
		return ErrNilSource
	}
	if c.enabled {
		return ErrAlreadyEnabled
	}
	c.sub = c.latch.Bind(src)
	c.enabled = true
	return nil
}

// Disable drops the input subscription. No event reaches the controller
// after it returns. The latched input is cleared.
func (c *Controller) Disable() {
	if !c.enabled {
		return
	}
	c.sub.Close()
	c.sub = nil
	c.latch.Unbind()
	c.latch.Reset()
	c.enabled = false
}

// Tick advances one frame (kinematic) or one physics step (rigid body).
// It does nothing while disabled.
func (c *Controller) Tick(dt float64) {
	if !c.enabled || dt <= 0 {
		return
	}
	c.state.Move = c.latch.Move()
	c.state.JumpRequested = c.latch.Jump()
	c.state.Grounded = c.sampleGround()
	c.strategy.tick(c, dt)
}

// GroundAnchor returns the point the ground check samples from.
func (c *Controller) GroundAnchor() Anchor {
	if c.anchor != nil {
		return c.anchor
	}
	return OffsetAnchor(c.strategy.body(), c.cfg.GroundCheckOffset)
}

func (c *Controller) sampleGround() bool {
	return SampleGround(c.ground, c.GroundAnchor(), c.cfg.GroundCheckRadius, c.cfg.GroundMask)
}

// steer runs the horizontal mover and applies the facing. It returns the
// displacement to submit, if any.
func (c *Controller) steer(dt float64) (Steering, bool) {
	c.state.Steered = false
	if !c.state.Grounded && !c.cfg.AirControl {
		return Steering{}, false
	}
	body := c.strategy.body()
	st, ok := Steer(c.state.Move, c.camera.Yaw(), body.Yaw(), &c.state.TurnVelocity, c.cfg, dt)
	if !ok {
		return Steering{}, false
	}
	body.SetYaw(st.Yaw)
	c.state.Steered = true
	return st, true
}
