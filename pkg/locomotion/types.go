package locomotion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Stance uint8

const (
	StanceStanding Stance = iota
	StanceCrouching
)

func (s Stance) String() string {
	switch s {
	case StanceStanding:
		return "standing"
	case StanceCrouching:
		return "crouching"
	}
	return "unknown"
}

func (s Stance) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stance) UnmarshalText(text []byte) error {
	switch string(text) {
	case "standing":
		*s = StanceStanding
	case "crouching":
		*s = StanceCrouching
	default:
		return fmt.Errorf("unknown stance %q", text)
	}
	return nil
}

// Opposite returns the stance a transition out of s ends in.
func (s Stance) Opposite() Stance {
	if s == StanceCrouching {
		return StanceStanding
	}
	return StanceCrouching
}

// Input is one frame of sampled input. The zero value means no input.
type Input struct {
	// Forward and Right are movement axes in [-1, 1].
	Forward float64
	Right   float64
	// LookX is the horizontal look delta, positive to the right.
	// LookY is the vertical look delta, positive upward.
	LookX float64
	LookY float64

	// Sprint is held; Jump and Crouch were pressed this frame.
	Sprint bool
	Jump   bool
	Crouch bool
}

// Collider is the body collider geometry that stance transitions animate.
// Center is relative to the body origin.
type Collider struct {
	Height float64
	Center mgl64.Vec3
}

// HeadroomProbe reports whether something solid sits within distance above the
// camera. It is only consulted when a crouching character tries to stand.
type HeadroomProbe interface {
	HeadroomBlocked(distance float64) bool
}

// Frame is everything the controller reads from the host for one tick.
type Frame struct {
	Input     Input
	DeltaTime float64
	// Grounded is the result reported by the host mover on the previous move.
	Grounded bool
	// Probe may be nil, in which case standing up is never obstructed.
	Probe HeadroomProbe
}

// Output is the pose and movement request the host applies after a tick.
type Output struct {
	// BodyRotation is the world rotation of the body (yaw only).
	BodyRotation mgl64.Quat
	// CameraRotation is the local rotation of the camera relative to the body (pitch only).
	CameraRotation mgl64.Quat
	Collider       Collider
	// Displacement is velocity * delta time, to be resolved by the host mover.
	Displacement mgl64.Vec3
	Velocity     mgl64.Vec3

	Stance        Stance
	Transitioning bool
	// Jumped is set on the tick a jump impulse was applied.
	Jumped bool
	// StanceChanged is set on the tick a transition completed.
	StanceChanged bool
}
