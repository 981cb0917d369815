package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepository(t *testing.T, repository Repository) {
	ctx := context.Background()

	_, err := repository.LoadCharacterState(ctx, "player")
	assert.True(t, IsNotFound(err), "got %v", err)

	player := state.CharacterState{ID: uuid.New(), Name: "player", Position: mgl64.Vec3{16, 1, 8}, Heading: 90, Pitch: -10}
	require.NoError(t, repository.SaveCharacterState(ctx, 100, player))

	got, err := repository.LoadCharacterState(ctx, "player")
	require.NoError(t, err)
	assert.Equal(t, &models.Character{Name: "player", Timestamp: 100, X: 16, Y: 1, Z: 8, Heading: 90, Pitch: -10}, got)

	assert.Error(t, repository.SaveCharacterState(ctx, 100, state.CharacterState{ID: uuid.New()}))

	player.Position = mgl64.Vec3{20, 2, 21}
	gameState := &state.GameState{
		Timestamp:  200,
		Characters: []state.CharacterState{player, {ID: uuid.New()}},
	}
	require.NoError(t, repository.SaveGameState(ctx, gameState))

	got, err = repository.LoadCharacterState(ctx, "player")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Timestamp)
	assert.Equal(t, 20.0, got.X)
	assert.Equal(t, 21.0, got.Z)
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stride.db")
	repository, err := NewRepository(ctx, DriverSQLite, path)
	require.NoError(t, err)
	defer repository.Close(ctx)

	testRepository(t, repository)

	// migrations are safe to run against an existing database
	reopened, err := NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)
	got, err := reopened.LoadCharacterState(ctx, "player")
	require.NoError(t, err)
	assert.Equal(t, "player", got.Name)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("STRIDE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STRIDE_TEST_DATABASE_URL is not set")
	}
	ctx := context.Background()
	repository, err := NewRepository(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	defer repository.Close(ctx)

	_, err = repository.(*PostgresRepository).conn.Exec(ctx, "DELETE FROM characters WHERE name = 'player'")
	require.NoError(t, err)
	testRepository(t, repository)
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository(context.Background(), "mongo", "")
	assert.Error(t, err)
}

func TestReadMigrations(t *testing.T) {
	statements, err := readMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, statements)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS characters")
}

func TestIsNotFound(t *testing.T) {
	err := &ErrNotFound{Name: "player"}
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", err)))
	assert.False(t, IsNotFound(fmt.Errorf("load: %v", err)))
	assert.Equal(t, `character "player" not found`, err.Error())
}
