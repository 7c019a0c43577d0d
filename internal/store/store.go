// Package store persists save files in a local SQLite database.
package store

import (
	"context"

	"github.com/minhvu/taleforge/internal/models"
)

// Store is the save-file persistence surface. Implementations must make
// AddOrUpdateSave atomic per record: a reader never observes a partially
// written save.
type Store interface {
	// AddOrUpdateSave upserts a record by its id.
	AddOrUpdateSave(ctx context.Context, save models.SaveFile) error
	// GetSave returns the record with the given id, or ErrSaveNotFound.
	GetSave(ctx context.Context, id string) (models.SaveFile, error)
	// GetAllSaves returns every record, newest timestamp first, id as
	// tie-break.
	GetAllSaves(ctx context.Context) ([]models.SaveFile, error)
	// DeleteSave removes the record if present. Deleting an absent id is
	// a no-op, not an error.
	DeleteSave(ctx context.Context, id string) error
	// GetMeta returns the metadata value for key, or "" when unset.
	GetMeta(ctx context.Context, key string) (string, error)
	// SetMeta stores a metadata key-value pair.
	SetMeta(ctx context.Context, key, value string) error
	Close() error
}
