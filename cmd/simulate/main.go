package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/config"
	"github.com/cbodonnell/stride/pkg/game"
	"github.com/cbodonnell/stride/pkg/input"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/queue"
	"github.com/cbodonnell/stride/pkg/trace"
	"github.com/cbodonnell/stride/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	scriptPath := flag.String("script", "", "Path to an input script")
	logLevel := flag.String("log-level", "", "Log level (overrides the config file)")
	deltaTime := flag.Float64("dt", 0, "Seconds per tick (defaults to 1/tps from the config)")
	settle := flag.Int("settle", 30, "Idle ticks to run after the script ends")
	tracePath := flag.String("trace", "", "Write a zstd-compressed JSON trace of every tick to this file")
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

	log.Info("Starting simulation version %s", version.Get())

	if *scriptPath == "" {
		panic("-script is required")
	}
	inputs, err := readScript(*scriptPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to read script: %v", err))
	}
	sampler := input.NewScriptSampler(queue.NewInMemoryQueue[locomotion.Input](len(inputs)))
	if err := sampler.Push(inputs...); err != nil {
		panic(fmt.Sprintf("Failed to queue script: %v", err))
	}

	dt := *deltaTime
	if dt <= 0 {
		dt = cfg.Loop.DeltaTime()
	}

	level, err := collisions.NewLevel(cfg.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to create level: %v", err))
	}
	gameManager, err := game.NewGameManager(game.NewGameManagerOptions{
		Level:            level,
		GameLoopInterval: cfg.Loop.TickInterval(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game manager: %v", err))
	}
	player, err := game.Spawn(level, cfg, sampler)
	if err != nil {
		panic(fmt.Sprintf("Failed to spawn player: %v", err))
	}
	gameManager.Add(player)
	defer gameManager.Stop()

	var traceWriter *trace.Writer
	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			panic(fmt.Sprintf("Failed to create trace file: %v", err))
		}
		defer f.Close()
		traceWriter, err = trace.NewWriter(f)
		if err != nil {
			panic(fmt.Sprintf("Failed to create trace writer: %v", err))
		}
		defer func() {
			if err := traceWriter.Close(); err != nil {
				log.Error("Failed to close trace: %v", err)
			}
		}()
	}

	log.Info("Running %d scripted ticks and %d settle ticks at dt=%v", len(inputs), *settle, dt)
	total := len(inputs) + *settle
	for i := 0; i < total; i++ {
		gameManager.Tick(dt)
		if traceWriter != nil {
			if err := traceWriter.Write(gameManager.Snapshot()); err != nil {
				panic(fmt.Sprintf("Failed to write trace: %v", err))
			}
		}
		state := player.State()
		log.Debug("tick=%d position=%0.3f,%0.3f,%0.3f velocity=%0.3f,%0.3f,%0.3f stance=%s grounded=%t",
			i,
			state.Position.X(), state.Position.Y(), state.Position.Z(),
			state.Velocity.X(), state.Velocity.Y(), state.Velocity.Z(),
			state.Stance, state.Grounded,
		)
	}

	state := player.State()
	log.Info("Finished after %d ticks (%0.2fs)", gameManager.Ticks(), float64(gameManager.Ticks())*dt)
	log.Info("Start %v", level.Spawn)
	log.Info("End %v heading=%0.1f pitch=%0.1f stance=%s grounded=%t", state.Position, state.Heading, state.Pitch, state.Stance, state.Grounded)
}

func readScript(path string) ([]locomotion.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return input.ParseScript(f)
}
