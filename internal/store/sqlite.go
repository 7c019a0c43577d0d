package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/minhvu/taleforge/internal/models"
)

// ErrSaveNotFound is returned by GetSave for an unknown id.
var ErrSaveNotFound = errors.New("save not found")

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	conn *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens or creates the database at path and bootstraps the schema.
func Open(path string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.bootstrap(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) bootstrap() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		game_state TEXT NOT NULL,
		world_settings TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_timestamp ON saves(timestamp);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type saveRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Timestamp     string `db:"timestamp"`
	GameState     string `db:"game_state"`
	WorldSettings string `db:"world_settings"`
}

// AddOrUpdateSave upserts one record by id in a single statement.
func (s *SQLiteStore) AddOrUpdateSave(ctx context.Context, save models.SaveFile) error {
	gsJSON, err := json.Marshal(save.GameState)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	wsJSON, err := json.Marshal(save.WorldSettings)
	if err != nil {
		return fmt.Errorf("marshal world settings: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `INSERT INTO saves
		(id, name, timestamp, game_state, world_settings)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			timestamp = excluded.timestamp,
			game_state = excluded.game_state,
			world_settings = excluded.world_settings`,
		save.ID, save.Name, save.Timestamp, string(gsJSON), string(wsJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert save %s: %w", save.ID, err)
	}
	return nil
}

// GetSave fetches one record by id.
func (s *SQLiteStore) GetSave(ctx context.Context, id string) (models.SaveFile, error) {
	var row saveRow
	err := s.conn.GetContext(ctx, &row,
		"SELECT id, name, timestamp, game_state, world_settings FROM saves WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SaveFile{}, ErrSaveNotFound
	}
	if err != nil {
		return models.SaveFile{}, fmt.Errorf("get save %s: %w", id, err)
	}
	return row.toSaveFile()
}

// GetAllSaves returns every record, newest first with id as tie-break.
func (s *SQLiteStore) GetAllSaves(ctx context.Context) ([]models.SaveFile, error) {
	var rows []saveRow
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT id, name, timestamp, game_state, world_settings FROM saves ORDER BY timestamp DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}

	saves := make([]models.SaveFile, 0, len(rows))
	for _, row := range rows {
		save, err := row.toSaveFile()
		if err != nil {
			return nil, err
		}
		saves = append(saves, save)
	}
	return saves, nil
}

// DeleteSave removes a record; absent ids are a no-op.
func (s *SQLiteStore) DeleteSave(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", id, err)
	}
	return nil
}

// GetMeta returns the metadata value for key, "" when unset.
func (s *SQLiteStore) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.GetContext(ctx, &value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, nil
}

// SetMeta stores a metadata key-value pair.
func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

func (r saveRow) toSaveFile() (models.SaveFile, error) {
	save := models.SaveFile{
		ID:        r.ID,
		Name:      r.Name,
		Timestamp: r.Timestamp,
	}
	if err := json.Unmarshal([]byte(r.GameState), &save.GameState); err != nil {
		return models.SaveFile{}, fmt.Errorf("decode game state of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.WorldSettings), &save.WorldSettings); err != nil {
		return models.SaveFile{}, fmt.Errorf("decode world settings of %s: %w", r.ID, err)
	}
	return save, nil
}
