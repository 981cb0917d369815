package locomotion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid locomotion config")

// Config holds the tunables of a Controller. It is fixed once the controller
// is created.
type Config struct {
	CanSprint bool `yaml:"can_sprint"`
	CanJump   bool `yaml:"can_jump"`
	CanCrouch bool `yaml:"can_crouch"`

	WalkSpeed   float64 `yaml:"walk_speed"`
	CrouchSpeed float64 `yaml:"crouch_speed"`
	SprintSpeed float64 `yaml:"sprint_speed"`

	// Look sensitivities are degrees per unit of look delta.
	LookSpeedX float64 `yaml:"look_speed_x"`
	LookSpeedY float64 `yaml:"look_speed_y"`
	// Pitch is clamped to [-UpperLookLimit, LowerLookLimit] degrees.
	UpperLookLimit float64 `yaml:"upper_look_limit"`
	LowerLookLimit float64 `yaml:"lower_look_limit"`

	JumpForce float64 `yaml:"jump_force"`
	Gravity   float64 `yaml:"gravity"`

	CrouchHeight    float64    `yaml:"crouch_height"`
	StandHeight     float64    `yaml:"stand_height"`
	CrouchingCenter mgl64.Vec3 `yaml:"crouching_center"`
	StandingCenter  mgl64.Vec3 `yaml:"standing_center"`
	// TimeToCrouch is the duration in seconds of a stance transition.
	TimeToCrouch float64 `yaml:"time_to_crouch"`
	// HeadroomProbeDistance is how far above the camera the stand-up check looks.
	HeadroomProbeDistance float64 `yaml:"headroom_probe_distance"`
}

// DefaultConfig returns the stock tuning for a human-sized character.
func DefaultConfig() Config {
	return Config{
		CanSprint: true,
		CanJump:   true,
		CanCrouch: true,

		WalkSpeed:   3.0,
		CrouchSpeed: 1.5,
		SprintSpeed: 6.0,

		LookSpeedX:     2.0,
		LookSpeedY:     2.0,
		UpperLookLimit: 80.0,
		LowerLookLimit: 80.0,

		JumpForce: 8.0,
		Gravity:   30.0,

		CrouchHeight:          0.5,
		StandHeight:           2.0,
		CrouchingCenter:       mgl64.Vec3{0, 0.5, 0},
		StandingCenter:        mgl64.Vec3{0, 0, 0},
		TimeToCrouch:          0.25,
		HeadroomProbeDistance: 1.0,
	}
}

// Validate checks the tunables against their allowed ranges.
func (c Config) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"walk_speed", c.WalkSpeed},
		{"crouch_speed", c.CrouchSpeed},
		{"sprint_speed", c.SprintSpeed},
		{"jump_force", c.JumpForce},
		{"gravity", c.Gravity},
		{"crouch_height", c.CrouchHeight},
		{"stand_height", c.StandHeight},
		{"time_to_crouch", c.TimeToCrouch},
		{"headroom_probe_distance", c.HeadroomProbeDistance},
	}
	for _, v := range nonNegative {
		if v.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, v.name, v.value)
		}
	}

	ranged := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"look_speed_x", c.LookSpeedX, 1, 10},
		{"look_speed_y", c.LookSpeedY, 1, 10},
		{"upper_look_limit", c.UpperLookLimit, 1, 180},
		{"lower_look_limit", c.LowerLookLimit, 1, 180},
	}
	for _, v := range ranged {
		if v.value < v.min || v.value > v.max {
			return fmt.Errorf("%w: %s must be within [%v, %v], got %v", ErrInvalidConfig, v.name, v.min, v.max, v.value)
		}
	}

	return nil
}

// Profile returns the collider geometry of a stance.
func (c Config) Profile(stance Stance) Collider {
	if stance == StanceCrouching {
		return Collider{Height: c.CrouchHeight, Center: c.CrouchingCenter}
	}
	return Collider{Height: c.StandHeight, Center: c.StandingCenter}
}
