package locomotion

import (
	"fmt"

	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/go-gl/mathgl/mgl64"
)

// Controller is the per-character locomotion state machine. It is stepped once
// per frame with Tick and is not safe for concurrent use.
type Controller struct {
	cfg Config

	moveEnabled bool
	// velocity is the persisted move direction. Its vertical component is
	// integrator state and is only written by the vertical stage.
	velocity mgl64.Vec3
	pitch    float64
	body     mgl64.Quat

	stance     Stance
	collider   Collider
	transition *stanceTransition
}

// New creates a standing controller facing +Z with movement enabled.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}
	return &Controller{
		cfg:         cfg,
		moveEnabled: true,
		body:        mgl64.QuatIdent(),
		stance:      StanceStanding,
		collider:    cfg.Profile(StanceStanding),
	}, nil
}

// Tick runs one frame: velocity planning, look, jump, crouch and vertical
// integration, in that order.
func (c *Controller) Tick(f Frame) Output {
	out := Output{}
	if c.moveEnabled {
		c.planVelocity(f.Input)
		c.updateLook(f.Input)
		if c.cfg.CanJump {
			out.Jumped = c.handleJump(f)
		}
		if c.cfg.CanCrouch {
			c.handleCrouch(f)
		}
		out.Displacement = c.integrate(f)
	}

	// A started transition runs to completion even while movement is disabled.
	if c.transition != nil {
		out.StanceChanged = c.stepTransition(f.DeltaTime)
	}

	out.BodyRotation = c.body
	out.CameraRotation = kinematic.Pitch(c.pitch)
	out.Collider = c.collider
	out.Velocity = c.velocity
	out.Stance = c.stance
	out.Transitioning = c.transition != nil
	return out
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) MoveEnabled() bool {
	return c.moveEnabled
}

// SetMoveEnabled gates every stage of Tick.
func (c *Controller) SetMoveEnabled(enabled bool) {
	c.moveEnabled = enabled
}

func (c *Controller) Stance() Stance {
	return c.stance
}

// Transitioning reports whether a stance transition is in flight.
func (c *Controller) Transitioning() bool {
	return c.transition != nil
}

func (c *Controller) Velocity() mgl64.Vec3 {
	return c.velocity
}

// Pitch returns the camera pitch in degrees. Positive looks down.
func (c *Controller) Pitch() float64 {
	return c.pitch
}

func (c *Controller) BodyRotation() mgl64.Quat {
	return c.body
}

func (c *Controller) Collider() Collider {
	return c.collider
}

// SetHeading replaces the body orientation with a yaw of degrees. It is meant
// for placing a character at spawn, not for per-frame steering.
func (c *Controller) SetHeading(degrees float64) {
	c.body = kinematic.Yaw(degrees)
}

// SetPitch replaces the camera pitch, clamped to the configured look limits.
func (c *Controller) SetPitch(degrees float64) {
	c.pitch = mgl64.Clamp(degrees, -c.cfg.UpperLookLimit, c.cfg.LowerLookLimit)
}
