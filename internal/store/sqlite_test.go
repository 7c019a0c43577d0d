package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minhvu/taleforge/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSave(id, name, ts string) models.SaveFile {
	return models.SaveFile{
		ID:        id,
		Name:      name,
		Timestamp: ts,
		GameState: &models.GameState{
			SaveID: id,
			Title:  name,
			Turns:  []models.Turn{{ID: "turn_1", Story: "The wind howls."}},
		},
		WorldSettings: &models.WorldSettings{Genre: "Wuxia"},
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	save := testSave("save_1", "The Haunted Pass", "2026-01-02T15:04:05Z")
	require.NoError(t, s.AddOrUpdateSave(ctx, save))

	got, err := s.GetSave(ctx, "save_1")
	require.NoError(t, err)
	require.Equal(t, save.Name, got.Name)
	require.Equal(t, save.Timestamp, got.Timestamp)
	require.NotNil(t, got.GameState)
	require.Equal(t, "The wind howls.", got.GameState.Turns[0].Story)
	require.NotNil(t, got.WorldSettings)
	require.Equal(t, "Wuxia", got.WorldSettings.Genre)
}

func TestUpsertReplacesRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_1", "First", "2026-01-01T00:00:00Z")))
	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_1", "Second", "2026-01-02T00:00:00Z")))

	saves, err := s.GetAllSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)
	require.Equal(t, "Second", saves[0].Name)
}

func TestGetSaveNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSave(context.Background(), "save_missing")
	require.ErrorIs(t, err, ErrSaveNotFound)
}

func TestGetAllSavesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_b", "Old", "2026-01-01T00:00:00Z")))
	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_c", "New", "2026-01-03T00:00:00Z")))
	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_a", "Tied", "2026-01-01T00:00:00Z")))

	saves, err := s.GetAllSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 3)

	// Newest first, id breaks ties.
	require.Equal(t, "save_c", saves[0].ID)
	require.Equal(t, "save_a", saves[1].ID)
	require.Equal(t, "save_b", saves[2].ID)
}

func TestDeleteSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddOrUpdateSave(ctx, testSave("save_1", "One", "2026-01-01T00:00:00Z")))
	require.NoError(t, s.DeleteSave(ctx, "save_1"))

	saves, err := s.GetAllSaves(ctx)
	require.NoError(t, err)
	require.Empty(t, saves)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteSave(ctx, "save_1"))
}

func TestMetaRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	val, err := s.GetMeta(ctx, "unset")
	require.NoError(t, err)
	require.Equal(t, "", val)

	require.NoError(t, s.SetMeta(ctx, "k", "v1"))
	require.NoError(t, s.SetMeta(ctx, "k", "v2"))

	val, err = s.GetMeta(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", val)
}
