package game

import (
	"fmt"

	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/config"
	"github.com/cbodonnell/stride/pkg/input"
	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Character ties a locomotion controller to a body in the level and the input
// source that drives it.
type Character struct {
	ID uuid.UUID
	// Name is the save slot of the character. Unnamed characters are not persisted.
	Name string

	controller *locomotion.Controller
	body       *collisions.Body
	sampler    input.Sampler
	logger     *log.Logger

	last locomotion.Output
}

func NewCharacter(controller *locomotion.Controller, body *collisions.Body, sampler input.Sampler) (*Character, error) {
	if controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if body == nil {
		return nil, fmt.Errorf("body is required")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}

	id := uuid.New()
	return &Character{
		ID:         id,
		controller: controller,
		body:       body,
		sampler:    sampler,
		logger:     log.Default().With(log.Fields{"character": id.String()}),
	}, nil
}

// Spawn builds a character at the level spawn point from cfg.
func Spawn(level *collisions.Level, cfg *config.Config, sampler input.Sampler) (*Character, error) {
	controller, err := locomotion.New(cfg.Locomotion)
	if err != nil {
		return nil, err
	}
	controller.SetHeading(cfg.Body.Heading)

	body, err := collisions.NewBody(level, collisions.BodyOptions{
		Position:         level.Spawn,
		Radius:           cfg.Body.Radius,
		CameraOffset:     cfg.Body.CameraOffset,
		Collider:         controller.Collider(),
		StandingCollider: cfg.Locomotion.Profile(locomotion.StanceStanding),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body: %v", err)
	}
	body.Rotation = controller.BodyRotation()

	return NewCharacter(controller, body, sampler)
}

// Tick samples input, steps the controller and moves the body.
func (c *Character) Tick(deltaTime float64) {
	in := c.sampler.Sample()
	out := c.controller.Tick(locomotion.Frame{
		Input:     in,
		DeltaTime: deltaTime,
		Grounded:  c.body.Grounded(),
		Probe:     c.body,
	})

	c.body.Apply(out)
	grounded := c.body.Move(out.Displacement)
	c.last = out

	if out.Jumped {
		c.logger.Debug("Jumped from %v", c.body.Position)
	}
	if out.StanceChanged {
		c.logger.Debug("Stance changed to %s", out.Stance)
	}
	c.logger.Trace("Tick position=%v velocity=%v grounded=%t stance=%s", c.body.Position, out.Velocity, grounded, out.Stance)
}

// SetMoveEnabled gates movement, look, jump and crouch for this character.
func (c *Character) SetMoveEnabled(enabled bool) {
	c.controller.SetMoveEnabled(enabled)
}

func (c *Character) Controller() *locomotion.Controller {
	return c.controller
}

func (c *Character) Body() *collisions.Body {
	return c.body
}

// LastOutput returns the controller output of the most recent tick.
func (c *Character) LastOutput() locomotion.Output {
	return c.last
}

func (c *Character) State() state.CharacterState {
	return state.CharacterState{
		ID:            c.ID,
		Name:          c.Name,
		Position:      c.body.Position,
		Velocity:      c.controller.Velocity(),
		Heading:       kinematic.Heading(c.body.Rotation),
		Pitch:         c.controller.Pitch(),
		Stance:        c.controller.Stance(),
		Transitioning: c.controller.Transitioning(),
		Grounded:      c.body.Grounded(),
		Collider:      c.body.Collider(),
	}
}

// Restore places the character at a saved position and orientation.
func (c *Character) Restore(saved *models.Character) {
	c.body.Teleport(mgl64.Vec3{saved.X, saved.Y, saved.Z})
	c.controller.SetHeading(saved.Heading)
	c.controller.SetPitch(saved.Pitch)
	c.body.Rotation = c.controller.BodyRotation()
	c.body.CameraRotation = kinematic.Pitch(c.controller.Pitch())
	c.logger.Info("Restored %s at %v", c.Name, c.body.Position)
}

// Remove takes the character's body out of the level.
func (c *Character) Remove() {
	c.body.Remove()
}
