package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cbodonnell/stride/pkg/collisions"
	"github.com/cbodonnell/stride/pkg/input"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/log"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging     LoggingConfig          `yaml:"logging"`
	Loop        LoopConfig             `yaml:"loop"`
	Locomotion  locomotion.Config      `yaml:"locomotion"`
	Body        BodyConfig             `yaml:"body"`
	Bindings    input.Bindings         `yaml:"bindings"`
	Level       collisions.LevelConfig `yaml:"level"`
	Persistence PersistenceConfig      `yaml:"persistence"`
}

type LoggingConfig struct {
	Level log.LogLevel `yaml:"level"`
}

type LoopConfig struct {
	// TPS is the number of ticks per second.
	TPS int `yaml:"tps"`
}

// TickInterval returns the duration of one tick.
func (l LoopConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(l.TPS)
}

// DeltaTime returns the duration of one tick in seconds.
func (l LoopConfig) DeltaTime() float64 {
	return 1.0 / float64(l.TPS)
}

// PersistenceConfig controls saving the player between sessions. An empty
// driver disables persistence.
type PersistenceConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `yaml:"dsn"`
	// Slot is the name the player is saved under.
	Slot         string        `yaml:"slot"`
	SaveInterval time.Duration `yaml:"save_interval"`
}

func (p PersistenceConfig) Enabled() bool {
	return p.Driver != ""
}

type BodyConfig struct {
	Radius       float64    `yaml:"radius"`
	CameraOffset mgl64.Vec3 `yaml:"camera_offset"`
	// Heading is the initial yaw in degrees.
	Heading float64 `yaml:"heading"`
}

func Default() *Config {
	return &Config{
		Logging:    LoggingConfig{Level: log.LogLevelInfo},
		Loop:       LoopConfig{TPS: 60},
		Locomotion: locomotion.DefaultConfig(),
		Body: BodyConfig{
			Radius:       0.3,
			CameraOffset: mgl64.Vec3{0, 0.6, 0},
		},
		Bindings: input.DefaultBindings(),
		Level:    collisions.DefaultLevelConfig(),
		Persistence: PersistenceConfig{
			Slot:         "player",
			SaveInterval: 10 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Loop.TPS <= 0 {
		return fmt.Errorf("loop.tps must be positive, got %d", c.Loop.TPS)
	}
	if c.Body.Radius <= 0 {
		return fmt.Errorf("body.radius must be positive, got %v", c.Body.Radius)
	}
	if c.Bindings.MouseScale <= 0 {
		return fmt.Errorf("bindings.mouse_scale must be positive, got %v", c.Bindings.MouseScale)
	}
	if c.Persistence.Enabled() {
		switch c.Persistence.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("persistence.driver must be sqlite or postgres, got %q", c.Persistence.Driver)
		}
		if c.Persistence.DSN == "" {
			return fmt.Errorf("persistence.dsn is required")
		}
		if c.Persistence.Slot == "" {
			return fmt.Errorf("persistence.slot is required")
		}
		if c.Persistence.SaveInterval <= 0 {
			return fmt.Errorf("persistence.save_interval must be positive, got %v", c.Persistence.SaveInterval)
		}
	}
	if err := c.Locomotion.Validate(); err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}
	return nil
}
