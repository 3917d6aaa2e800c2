package repository

import (
	"context"
	"errors"
	"fmt"

	"riobot/database"
	"riobot/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// historyDepth is how many snapshots are kept in state_document_history
const historyDepth = 10

// PostgresPersister stores the document as a JSONB row keyed by name
type PostgresPersister struct {
	db   *database.DB
	name string
}

var _ interfaces.Persister = (*PostgresPersister)(nil)

// NewPostgresPersister wraps an open connection pool
func NewPostgresPersister(db *database.DB, name string) *PostgresPersister {
	return &PostgresPersister{db: db, name: name}
}

// Load returns nil when no row exists for this document name
func (p *PostgresPersister) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.db.QueryRow(ctx,
		`SELECT document FROM state_documents WHERE name = $1`, p.name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state document: %w", err)
	}
	return data, nil
}

// Save upserts the document unless the stored version is already newer, and
// appends it to the history table
func (p *PostgresPersister) Save(ctx context.Context, version int64, data []byte) error {
	return p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO state_documents (name, version, document, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO UPDATE
			SET version = EXCLUDED.version, document = EXCLUDED.document, updated_at = NOW()
			WHERE state_documents.version < EXCLUDED.version`,
			p.name, version, data,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert state document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			log.WithFields(log.Fields{
				"name":    p.name,
				"version": version,
			}).Warn("Stored state document is newer; skipping save")
			return nil
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO state_document_history (name, version, document)
			VALUES ($1, $2, $3)
			ON CONFLICT (name, version) DO NOTHING`,
			p.name, version, data,
		); err != nil {
			return fmt.Errorf("failed to record state history: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM state_document_history
			WHERE name = $1 AND version <= $2`,
			p.name, version-historyDepth,
		); err != nil {
			return fmt.Errorf("failed to prune state history: %w", err)
		}
		return nil
	})
}

// Close closes the pool
func (p *PostgresPersister) Close() error {
	p.db.Close()
	return nil
}
