package state

import (
	"context"
	"fmt"
	"sync"
)

type InMemoryStateManager struct {
	lock      sync.RWMutex
	gameState *GameState
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		gameState: &GameState{},
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (*GameState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.gameState.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, gameState *GameState) error {
	if gameState == nil {
		return fmt.Errorf("game state is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.gameState = gameState.Copy()
	return nil
}

// Copy returns a deep copy of the game state.
func (s *GameState) Copy() *GameState {
	return &GameState{
		Timestamp:  s.Timestamp,
		Tick:       s.Tick,
		Characters: append([]CharacterState(nil), s.Characters...),
	}
}

// Named returns the named characters in the state.
func (s *GameState) Named() []CharacterState {
	named := make([]CharacterState, 0, len(s.Characters))
	for _, c := range s.Characters {
		if c.Name != "" {
			named = append(named, c)
		}
	}
	return named
}
