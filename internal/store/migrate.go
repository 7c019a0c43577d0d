package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/minhvu/taleforge/internal/models"
)

// MigrationMarker is the meta key recording that the legacy flat-file save
// list has been folded into the database. Its value is the literal "true".
const MigrationMarker = "legacy_migrated"

// MigrateLegacy performs the one-time import of the legacy flat-list save
// file (the pre-database format: a single JSON array of save records) into
// the store. The marker is only written after every record has been
// upserted, so a partial failure is retried on the next launch. Once the
// marker is present the whole routine is a no-op. A missing legacy file
// counts as a completed migration.
//
// Returns the number of records migrated.
func MigrateLegacy(ctx context.Context, s Store, legacyPath string) (int, error) {
	done, err := s.GetMeta(ctx, MigrationMarker)
	if err != nil {
		return 0, fmt.Errorf("read migration marker: %w", err)
	}
	if done == "true" {
		return 0, nil
	}

	migrated := 0
	data, err := os.ReadFile(legacyPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Nothing to migrate.
	case err != nil:
		return 0, fmt.Errorf("read legacy saves: %w", err)
	default:
		var saves []models.SaveFile
		if err := json.Unmarshal(data, &saves); err != nil {
			return 0, fmt.Errorf("parse legacy saves: %w", err)
		}
		for _, save := range saves {
			if err := s.AddOrUpdateSave(ctx, save); err != nil {
				return migrated, fmt.Errorf("migrate save %s: %w", save.ID, err)
			}
			migrated++
		}
	}

	if err := s.SetMeta(ctx, MigrationMarker, "true"); err != nil {
		return migrated, fmt.Errorf("write migration marker: %w", err)
	}
	if migrated > 0 {
		log.Info().Int("count", migrated).Str("path", legacyPath).Msg("Migrated legacy saves")
	}
	return migrated, nil
}
