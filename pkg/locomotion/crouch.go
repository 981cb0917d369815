package locomotion

import "github.com/cbodonnell/stride/pkg/kinematic"

// stanceTransition is an in-flight crouch or stand animation. It is stepped
// once per tick until elapsed reaches duration, then snaps to the target.
type stanceTransition struct {
	from, to Collider
	target   Stance
	elapsed  float64
	duration float64
}

// handleCrouch starts a transition when crouch was pressed on the ground and
// none is running. Standing up is refused while the headroom probe hits.
func (c *Controller) handleCrouch(f Frame) {
	if !f.Input.Crouch || !f.Grounded || c.transition != nil {
		return
	}
	if c.stance == StanceCrouching && f.Probe != nil && f.Probe.HeadroomBlocked(c.cfg.HeadroomProbeDistance) {
		return
	}

	target := c.stance.Opposite()
	c.transition = &stanceTransition{
		from:     c.collider,
		to:       c.cfg.Profile(target),
		target:   target,
		duration: c.cfg.TimeToCrouch,
	}
}

// stepTransition advances the running transition by one frame and reports
// whether it completed.
func (c *Controller) stepTransition(deltaTime float64) bool {
	t := c.transition
	if t.elapsed < t.duration {
		fraction := t.elapsed / t.duration
		c.collider = Collider{
			Height: kinematic.Lerp(t.from.Height, t.to.Height, fraction),
			Center: kinematic.LerpVec3(t.from.Center, t.to.Center, fraction),
		}
		t.elapsed += deltaTime
		return false
	}

	c.collider = t.to
	c.stance = t.target
	c.transition = nil
	return true
}
