package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/stride/client/game"
	"github.com/cbodonnell/stride/client/input"
	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/config"
	pkggame "github.com/cbodonnell/stride/pkg/game"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/repositories"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/cbodonnell/stride/pkg/version"
	"github.com/cbodonnell/stride/pkg/workers"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	logLevel := flag.String("log-level", "", "Log level (overrides the config file)")
	debug := flag.Bool("debug", false, "Show the debug overlay")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
		cfg = loaded
	}
	if *logLevel != "" {
		parsedLogLevel, err := log.ParseLogLevel(*logLevel)
		if err != nil {
			panic(fmt.Sprintf("Failed to parse log level: %v", err))
		}
		cfg.Logging.Level = parsedLogLevel
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, cfg.Logging.Level)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", cfg.Logging.Level)

	log.Info("Starting stride version %s", version.Get())

	keys, err := input.ParseBindings(cfg.Bindings)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse key bindings: %v", err))
	}
	sampler := input.NewSampler(keys)

	level, err := collisions.NewLevel(cfg.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to create level: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repository repositories.Repository
	stateManager := state.NewInMemoryStateManager()
	var saveCharacterStateChan chan workers.SaveCharacterStateRequest
	workerDone := make(chan struct{})
	if cfg.Persistence.Enabled() {
		saveCharacterStateChan = make(chan workers.SaveCharacterStateRequest, 16)
		repository, err = repositories.NewRepository(ctx, cfg.Persistence.Driver, cfg.Persistence.DSN)
		if err != nil {
			panic(fmt.Sprintf("Failed to open repository: %v", err))
		}
		defer repository.Close(context.Background())

		saveGameStateWorker := workers.NewSaveGameStateWorker(workers.NewSaveGameStateWorkerOptions{
			Repository:             repository,
			SaveCharacterStateChan: saveCharacterStateChan,
			StateManager:           stateManager,
			Interval:               cfg.Persistence.SaveInterval,
		})
		go func() {
			saveGameStateWorker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	gameManager, err := pkggame.NewGameManager(pkggame.NewGameManagerOptions{
		Level:                  level,
		StateManager:           stateManager,
		SaveCharacterStateChan: saveCharacterStateChan,
		GameLoopInterval:       cfg.Loop.TickInterval(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game manager: %v", err))
	}

	player, err := pkggame.Spawn(level, cfg, sampler)
	if err != nil {
		panic(fmt.Sprintf("Failed to spawn player: %v", err))
	}
	if repository != nil {
		player.Name = cfg.Persistence.Slot
		saved, err := repository.LoadCharacterState(ctx, player.Name)
		switch {
		case err == nil:
			player.Restore(saved)
		case repositories.IsNotFound(err):
			log.Info("No saved state for %s, starting at spawn", player.Name)
		default:
			panic(fmt.Sprintf("Failed to load saved state: %v", err))
		}
	}
	gameManager.Add(player)

	g, err := game.NewGame(game.NewGameOptions{
		Debug:       *debug,
		GameManager: gameManager,
		Player:      player,
		Sampler:     sampler,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	ebiten.SetTPS(cfg.Loop.TPS)
	ebiten.SetWindowSize(game.DefaultScreenWidth, game.DefaultScreenHeight)
	ebiten.SetWindowTitle("Stride")
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}

	log.Info("Stopping game manager")
	gameManager.Stop()
	cancel()
	<-workerDone
}
