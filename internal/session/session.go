// Package session coordinates the live game: it owns the in-memory state,
// routes every mutation through one surface, and mediates between hydration
// and the persistence store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minhvu/taleforge/internal/hydrate"
	"github.com/minhvu/taleforge/internal/ident"
	"github.com/minhvu/taleforge/internal/models"
	"github.com/minhvu/taleforge/internal/store"
)

// ErrInvalidSave is returned when a save record is missing its game state.
var ErrInvalidSave = errors.New("invalid save file")

// ErrNoActiveGame is returned by operations that need a running game.
var ErrNoActiveGame = errors.New("no active game")

// Session holds the current game and world settings. The game state is nil
// between sessions; world settings always exist in hydrated form.
type Session struct {
	store store.Store

	GameState     *models.GameState
	WorldSettings models.WorldSettings
}

// New returns a session with no active game and default world settings.
func New(st store.Store) *Session {
	return &Session{
		store:         st,
		WorldSettings: hydrate.WorldSettings(models.WorldSettings{}),
	}
}

// Active reports whether a game is in progress.
func (s *Session) Active() bool {
	return s.GameState != nil
}

// CreateWorld hydrates a freshly authored world, makes it the active game
// and persists it immediately.
func (s *Session) CreateWorld(ctx context.Context, gs models.GameState, ws models.WorldSettings) error {
	hydratedWS := hydrate.WorldSettings(ws)
	hydratedGS := hydrate.GameState(gs, hydratedWS)

	s.GameState = &hydratedGS
	s.WorldSettings = hydratedWS

	if err := s.SaveGame(ctx); err != nil {
		return err
	}
	log.Info().Str("title", hydratedGS.Title).Msg("World created")
	return nil
}

// SaveGame writes the active game to the store. The persisted copy never
// carries turn history; history exists only for in-session revert and is
// the main source of save bloat. A state saved for the first time gets a
// save id, which is written back so the next save updates the same record.
func (s *Session) SaveGame(ctx context.Context) error {
	if s.GameState == nil {
		return ErrNoActiveGame
	}

	saveID := s.GameState.SaveID
	if saveID == "" {
		saveID = ident.New("save")
	}

	gs := cloneState(*s.GameState)
	gs.SaveID = saveID
	gs.History = []models.GameState{}

	save := models.SaveFile{
		ID:            saveID,
		Name:          s.GameState.Title,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		GameState:     &gs,
		WorldSettings: &s.WorldSettings,
	}

	if err := s.store.AddOrUpdateSave(ctx, save); err != nil {
		log.Error().Err(err).Str("id", saveID).Msg("Failed to save game")
		return fmt.Errorf("save game: %w", err)
	}

	s.GameState.SaveID = saveID
	return nil
}

// LoadGame replaces the live state with a stored record. The record is
// validated before anything is touched: a save without a game state is
// rejected and the current session stays intact. Both halves are
// re-hydrated on the way in, which absorbs schema drift in old save files.
func (s *Session) LoadGame(save models.SaveFile) error {
	if save.GameState == nil {
		return fmt.Errorf("%w: %s has no game state", ErrInvalidSave, save.ID)
	}

	var ws models.WorldSettings
	if save.WorldSettings != nil {
		ws = *save.WorldSettings
	}
	hydratedWS := hydrate.WorldSettings(ws)

	gs := *save.GameState
	gs.SaveID = save.ID
	hydratedGS := hydrate.GameState(gs, hydratedWS)

	s.GameState = &hydratedGS
	s.WorldSettings = hydratedWS
	log.Info().Str("id", save.ID).Str("name", save.Name).Msg("Game loaded")
	return nil
}

// DeleteGame removes a save record. Deleting the active game's record also
// ends the session.
func (s *Session) DeleteGame(ctx context.Context, id string) error {
	if err := s.store.DeleteSave(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete save")
		return fmt.Errorf("delete save: %w", err)
	}
	if s.GameState != nil && s.GameState.SaveID == id {
		s.GameState = nil
	}
	return nil
}

// EndSession drops the live game without touching the store.
func (s *Session) EndSession() {
	s.GameState = nil
}

// ListSaves enumerates every stored record, newest first.
func (s *Session) ListSaves(ctx context.Context) ([]models.SaveFile, error) {
	saves, err := s.store.GetAllSaves(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list saves")
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return saves, nil
}

// ImportResult summarizes a batch import. Imported+Failed can be less than
// the number of selected files only if the final upsert failed as a whole.
type ImportResult struct {
	Imported int
	Failed   int
}

// ImportSaves merges externally supplied save files into the store. Every
// file is read and parsed concurrently and judged on its own: one corrupt
// file never sinks its siblings. Valid records are upserted only after all
// parses have settled, so the store never reflects a half-merged batch.
func (s *Session) ImportSaves(ctx context.Context, paths []string) (ImportResult, error) {
	if len(paths) == 0 {
		return ImportResult{}, nil
	}

	type parsed struct {
		save models.SaveFile
		err  error
	}
	results := make([]parsed, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			save, err := readSaveFile(path)
			results[i] = parsed{save: save, err: err}
		}(i, path)
	}
	wg.Wait()

	var res ImportResult
	valid := make([]models.SaveFile, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			log.Warn().Err(r.err).Str("file", paths[i]).Msg("Skipping save file")
			res.Failed++
			continue
		}
		valid = append(valid, r.save)
	}

	for _, save := range valid {
		if err := s.store.AddOrUpdateSave(ctx, save); err != nil {
			log.Error().Err(err).Str("id", save.ID).Msg("Failed to merge save")
			return res, fmt.Errorf("merge save %s: %w", save.ID, err)
		}
		res.Imported++
	}
	return res, nil
}

// readSaveFile parses and validates one uploaded save. A record must carry
// an id, a name, a game state and world settings to be accepted.
func readSaveFile(path string) (models.SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.SaveFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	var save models.SaveFile
	if err := json.Unmarshal(data, &save); err != nil {
		return models.SaveFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if save.ID == "" || save.Name == "" || save.GameState == nil || save.WorldSettings == nil {
		return models.SaveFile{}, fmt.Errorf("%w: %s", ErrInvalidSave, path)
	}
	return save, nil
}
