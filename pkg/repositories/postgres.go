package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/stride/pkg/log"
	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to connStr and applies the schema.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	statements, err := readMigrations()
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for i, migration := range statements {
		if _, err := conn.Exec(ctx, migration); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

const upsertCharacter = `
INSERT INTO characters (name, timestamp, x, y, z, heading, pitch) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (name) DO UPDATE SET timestamp = $2, x = $3, y = $4, z = $5, heading = $6, pitch = $7;
`

func (r *PostgresRepository) SaveGameState(ctx context.Context, gameState *state.GameState) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, characterState := range gameState.Named() {
		c := characterModel(gameState.Timestamp, characterState)
		_, err = tx.Exec(ctx, upsertCharacter, c.Name, c.Timestamp, c.X, c.Y, c.Z, c.Heading, c.Pitch)
		if err != nil {
			return fmt.Errorf("failed to insert character: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) SaveCharacterState(ctx context.Context, timestamp int64, characterState state.CharacterState) error {
	if characterState.Name == "" {
		return fmt.Errorf("character %s has no name", characterState.ID)
	}
	c := characterModel(timestamp, characterState)
	_, err := r.conn.Exec(ctx, upsertCharacter, c.Name, c.Timestamp, c.X, c.Y, c.Z, c.Heading, c.Pitch)
	if err != nil {
		return fmt.Errorf("failed to insert character: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadCharacterState(ctx context.Context, name string) (*models.Character, error) {
	q := `
	SELECT name, timestamp, x, y, z, heading, pitch FROM characters WHERE name = $1;
	`
	c := &models.Character{}
	if err := r.conn.QueryRow(ctx, q, name).Scan(&c.Name, &c.Timestamp, &c.X, &c.Y, &c.Z, &c.Heading, &c.Pitch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{Name: name}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return c, nil
}
