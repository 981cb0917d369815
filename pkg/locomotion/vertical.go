package locomotion

import (
	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/go-gl/mathgl/mgl64"
)

// groundedResetThreshold is the downward speed below which a grounded body has
// its vertical velocity zeroed.
const groundedResetThreshold = -1.0

// handleJump applies the jump impulse on the frame jump was pressed while grounded.
func (c *Controller) handleJump(f Frame) bool {
	if !f.Input.Jump || !f.Grounded {
		return false
	}
	c.velocity[1] = c.cfg.JumpForce
	return true
}

// integrate applies gravity or the ground reset and returns the displacement
// request for this frame.
func (c *Controller) integrate(f Frame) mgl64.Vec3 {
	if !f.Grounded {
		c.velocity[1] = kinematic.FinalVelocity(c.velocity[1], f.DeltaTime, -c.cfg.Gravity)
	}
	if f.Grounded && c.velocity[1] < groundedResetThreshold {
		c.velocity[1] = 0
	}
	return c.velocity.Mul(f.DeltaTime)
}
