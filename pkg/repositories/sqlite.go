package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cbodonnell/stride/pkg/repositories/models"
	"github.com/cbodonnell/stride/pkg/state"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	statements, err := readMigrations()
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range statements {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveGameState(ctx context.Context, gameState *state.GameState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, characterState := range gameState.Named() {
		if err := r.saveCharacter(ctx, tx, characterModel(gameState.Timestamp, characterState)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) SaveCharacterState(ctx context.Context, timestamp int64, characterState state.CharacterState) error {
	if characterState.Name == "" {
		return fmt.Errorf("character %s has no name", characterState.ID)
	}
	return r.saveCharacter(ctx, r.db, characterModel(timestamp, characterState))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteRepository) saveCharacter(ctx context.Context, db execer, c models.Character) error {
	q := `
	INSERT OR REPLACE INTO characters (name, timestamp, x, y, z, heading, pitch)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	_, err := db.ExecContext(ctx, q, c.Name, c.Timestamp, c.X, c.Y, c.Z, c.Heading, c.Pitch)
	if err != nil {
		return fmt.Errorf("failed to insert character: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadCharacterState(ctx context.Context, name string) (*models.Character, error) {
	q := `
	SELECT name, timestamp, x, y, z, heading, pitch FROM characters WHERE name = ?;
	`
	c := &models.Character{}
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.Name, &c.Timestamp, &c.X, &c.Y, &c.Z, &c.Heading, &c.Pitch); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{Name: name}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return c, nil
}
