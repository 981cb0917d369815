package locomotion

import (
	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/go-gl/mathgl/mgl64"
)

// updateLook integrates look deltas. Pitch is clamped to
// [-UpperLookLimit, LowerLookLimit]; yaw is folded into the body rotation.
func (c *Controller) updateLook(in Input) {
	c.pitch -= in.LookY * c.cfg.LookSpeedY
	c.pitch = mgl64.Clamp(c.pitch, -c.cfg.UpperLookLimit, c.cfg.LowerLookLimit)

	if in.LookX != 0 {
		c.body = c.body.Mul(kinematic.Yaw(in.LookX * c.cfg.LookSpeedX)).Normalize()
	}
}
