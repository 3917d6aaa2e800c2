package repository

import (
	"context"
	"fmt"

	"riobot/config"
	"riobot/database"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// stateDocumentName keys the document row in the database backends
const stateDocumentName = "riobot"

// OpenPersister opens the backend selected by cfg.StateBackend. The postgres
// backend is migrated before use.
func OpenPersister(ctx context.Context, cfg *config.Config) (interfaces.Persister, error) {
	log.WithField("backend", cfg.StateBackend).Info("Opening state backend")

	switch cfg.StateBackend {
	case config.BackendFile:
		return NewFilePersister(cfg.StatePath), nil

	case config.BackendSQLite:
		return NewSQLitePersister(ctx, cfg.StatePath, stateDocumentName)

	case config.BackendPostgres:
		url := cfg.GetDatabaseURL()
		if err := database.MigrateUp(url); err != nil {
			return nil, fmt.Errorf("failed to migrate state database: %w", err)
		}
		db, err := database.NewConnection(ctx, url)
		if err != nil {
			return nil, err
		}
		return NewPostgresPersister(db, stateDocumentName), nil

	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
