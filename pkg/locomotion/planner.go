package locomotion

import "github.com/cbodonnell/stride/pkg/kinematic"

// Speed returns the horizontal speed for the current stance and sprint input.
// Crouching takes precedence over sprinting.
func (c *Controller) Speed(sprintHeld bool) float64 {
	if c.stance == StanceCrouching {
		return c.cfg.CrouchSpeed
	}
	if c.cfg.CanSprint && sprintHeld {
		return c.cfg.SprintSpeed
	}
	return c.cfg.WalkSpeed
}

// planVelocity overwrites the horizontal velocity from the movement axes,
// expressed in the body's current basis.
func (c *Controller) planVelocity(in Input) {
	speed := c.Speed(in.Sprint)
	forward, right := kinematic.Basis(c.body)
	horizontal := forward.Mul(speed * in.Forward).Add(right.Mul(speed * in.Right))

	c.velocity[0] = horizontal.X()
	c.velocity[2] = horizontal.Z()
}
