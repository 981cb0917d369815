package state

import (
	"context"

	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// CharacterState is a read-only view of a character after a tick.
type CharacterState struct {
	ID uuid.UUID `json:"id"`
	// Name identifies the character across sessions. Unnamed characters are
	// not persisted.
	Name          string              `json:"name,omitempty"`
	Position      mgl64.Vec3          `json:"position"`
	Velocity      mgl64.Vec3          `json:"velocity"`
	Heading       float64             `json:"heading"`
	Pitch         float64             `json:"pitch"`
	Stance        locomotion.Stance   `json:"stance"`
	Transitioning bool                `json:"transitioning"`
	Grounded      bool                `json:"grounded"`
	Collider      locomotion.Collider `json:"collider"`
}

// GameState is every character after the same tick.
type GameState struct {
	Timestamp  int64            `json:"timestamp"`
	Tick       uint64           `json:"tick"`
	Characters []CharacterState `json:"characters"`
}

// StateManager provides shared access to the game state.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the current game state.
	Get(ctx context.Context) (*GameState, error)
	// Set sets the current game state.
	Set(ctx context.Context, gameState *GameState) error
}
