package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/cbodonnell/stride/pkg/workers"
	"github.com/google/uuid"
)

type GameManager struct {
	level                  *collisions.Level
	stateManager           state.StateManager
	saveCharacterStateChan chan<- workers.SaveCharacterStateRequest
	gameLoopInterval       time.Duration

	mu         sync.RWMutex
	characters []*Character
	tick       uint64
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Level *collisions.Level
	// StateManager, if set, receives the game state after every tick.
	StateManager state.StateManager
	// SaveCharacterStateChan, if set, receives the final state of named
	// characters as they leave the game.
	SaveCharacterStateChan chan<- workers.SaveCharacterStateRequest
	GameLoopInterval       time.Duration
}

func NewGameManager(opts NewGameManagerOptions) (*GameManager, error) {
	if opts.Level == nil {
		return nil, fmt.Errorf("level is required")
	}
	if opts.GameLoopInterval <= 0 {
		return nil, fmt.Errorf("game loop interval must be positive, got %v", opts.GameLoopInterval)
	}
	return &GameManager{
		level:                  opts.Level,
		stateManager:           opts.StateManager,
		saveCharacterStateChan: opts.SaveCharacterStateChan,
		gameLoopInterval:       opts.GameLoopInterval,
	}, nil
}

func (gm *GameManager) Level() *collisions.Level {
	return gm.level
}

// Add registers a character. Characters are ticked in the order they were added.
func (gm *GameManager) Add(c *Character) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.characters = append(gm.characters, c)
	log.Debug("Character %s added", c.ID)
}

// Remove unregisters a character and takes its body out of the level.
func (gm *GameManager) Remove(id uuid.UUID) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	for i, c := range gm.characters {
		if c.ID != id {
			continue
		}
		gm.requestSave(c)
		c.Remove()
		gm.characters = append(gm.characters[:i], gm.characters[i+1:]...)
		log.Debug("Character %s removed", id)
		return true
	}
	return false
}

func (gm *GameManager) Characters() []*Character {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return append([]*Character(nil), gm.characters...)
}

// Ticks returns the number of ticks run so far.
func (gm *GameManager) Ticks() uint64 {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.tick
}

// Tick runs one iteration of the game loop.
func (gm *GameManager) Tick(deltaTime float64) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	for _, c := range gm.characters {
		c.Tick(deltaTime)
	}
	gm.tick++

	if gm.stateManager == nil {
		return
	}
	if err := gm.stateManager.Set(context.Background(), gm.snapshot()); err != nil {
		log.Error("Failed to set game state: %v", err)
	}
}

// Snapshot returns the state of every character.
func (gm *GameManager) Snapshot() *state.GameState {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.snapshot()
}

func (gm *GameManager) snapshot() *state.GameState {
	gameState := &state.GameState{
		Timestamp:  time.Now().UnixMilli(),
		Tick:       gm.tick,
		Characters: make([]state.CharacterState, 0, len(gm.characters)),
	}
	for _, c := range gm.characters {
		gameState.Characters = append(gameState.Characters, c.State())
	}
	return gameState
}

// requestSave sends the state of a named character to the save worker.
func (gm *GameManager) requestSave(c *Character) {
	if gm.saveCharacterStateChan == nil || c.Name == "" {
		return
	}
	saveRequest := workers.SaveCharacterStateRequest{
		Timestamp:      time.Now().UnixMilli(),
		CharacterState: c.State(),
	}
	select {
	case gm.saveCharacterStateChan <- saveRequest:
	default:
		log.Warn("Save queue is full, dropping save of %s", c.Name)
	}
}

// Run steps the game n times with a fixed delta time.
func (gm *GameManager) Run(n int, deltaTime float64) {
	for i := 0; i < n; i++ {
		gm.Tick(deltaTime)
	}
}

// Start runs the game loop until ctx is done.
func (gm *GameManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	deltaTime := gm.gameLoopInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.Tick(deltaTime)
		}
	}
}

// Stop saves named characters and removes every character from the level.
func (gm *GameManager) Stop() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	for _, c := range gm.characters {
		gm.requestSave(c)
		c.Remove()
	}
	gm.characters = nil
}
