package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/repositories"
	"github.com/cbodonnell/stride/pkg/state"
)

type SaveGameStateWorker struct {
	repository             repositories.Repository
	saveCharacterStateChan <-chan SaveCharacterStateRequest
	stateManager           state.StateManager
	interval               time.Duration
}

type NewSaveGameStateWorkerOptions struct {
	Repository             repositories.Repository
	SaveCharacterStateChan <-chan SaveCharacterStateRequest
	StateManager           state.StateManager
	Interval               time.Duration
}

type SaveCharacterStateRequest struct {
	Timestamp      int64
	CharacterState state.CharacterState
}

// NewSaveGameStateWorker creates a new SaveGameStateWorker.
// The worker processes save requests from the game loop and
// periodically saves the game state to the repository.
func NewSaveGameStateWorker(opts NewSaveGameStateWorkerOptions) *SaveGameStateWorker {
	return &SaveGameStateWorker{
		repository:             opts.Repository,
		saveCharacterStateChan: opts.SaveCharacterStateChan,
		stateManager:           opts.StateManager,
		interval:               opts.Interval,
	}
}

// Start runs until ctx is done. Save requests already queued when ctx is done
// are still written, using a fresh context.
func (w *SaveGameStateWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain(context.Background())
			return
		case saveRequest := <-w.saveCharacterStateChan:
			w.saveCharacterState(ctx, saveRequest)
		case t := <-ticker.C:
			gameState, err := w.stateManager.Get(ctx)
			if err != nil {
				log.Error("Failed to get current game state: %v", err)
				continue
			}
			gameState.Timestamp = t.UnixMilli()
			w.saveGameState(ctx, gameState)
		}
	}
}

func (w *SaveGameStateWorker) drain(ctx context.Context) {
	for {
		select {
		case saveRequest := <-w.saveCharacterStateChan:
			w.saveCharacterState(ctx, saveRequest)
		default:
			return
		}
	}
}

func (w *SaveGameStateWorker) saveCharacterState(ctx context.Context, saveRequest SaveCharacterStateRequest) {
	err := w.repository.SaveCharacterState(ctx, saveRequest.Timestamp, saveRequest.CharacterState)
	if err != nil {
		log.Error("Failed to save character state: %v", err)
		return
	}
	log.Debug("Saved character %s", saveRequest.CharacterState.Name)
}

func (w *SaveGameStateWorker) saveGameState(ctx context.Context, gameState *state.GameState) {
	err := w.repository.SaveGameState(ctx, gameState)
	if err != nil {
		log.Error("Failed to save game state: %v", err)
	}
}
