package repositories

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository interface {
	Close(ctx context.Context) error
	// SaveGameState saves every named character in the game state.
	SaveGameState(ctx context.Context, gameState *state.GameState) error
	SaveCharacterState(ctx context.Context, timestamp int64, characterState state.CharacterState) error
	LoadCharacterState(ctx context.Context, name string) (*models.Character, error)
}

// NewRepository opens a repository for driver.
func NewRepository(ctx context.Context, driver string, dsn string) (Repository, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteRepository(ctx, dsn)
	case DriverPostgres:
		return NewPostgresRepository(ctx, dsn)
	}
	return nil, fmt.Errorf("unknown repository driver %q", driver)
}

// readMigrations returns the schema migrations in the order they apply.
func readMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	statements := make([]string, 0, len(names))
	for _, name := range names {
		b, err := migrations.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", name, err)
		}
		statements = append(statements, string(b))
	}
	return statements, nil
}

func characterModel(timestamp int64, s state.CharacterState) models.Character {
	return models.Character{
		Name:      s.Name,
		Timestamp: timestamp,
		X:         s.Position.X(),
		Y:         s.Position.Y(),
		Z:         s.Position.Z(),
		Heading:   s.Heading,
		Pitch:     s.Pitch,
	}
}
