package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"riobot/domain/interfaces"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS state_documents (
	name       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	document   BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLitePersister stores the document in a local SQLite database
type SQLitePersister struct {
	db   *sql.DB
	name string
}

var _ interfaces.Persister = (*SQLitePersister)(nil)

// NewSQLitePersister opens (creating if needed) the database at path
func NewSQLitePersister(ctx context.Context, path, name string) (*SQLitePersister, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one writer; the store already serializes saves
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLitePersister{db: db, name: name}, nil
}

// Load returns nil when no row exists for this document name
func (p *SQLitePersister) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT document FROM state_documents WHERE name = ?`, p.name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state document: %w", err)
	}
	return data, nil
}

// Save upserts the document unless the stored version is already newer
func (p *SQLitePersister) Save(ctx context.Context, version int64, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO state_documents (name, version, document, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET version = excluded.version, document = excluded.document, updated_at = CURRENT_TIMESTAMP
		WHERE state_documents.version < excluded.version`,
		p.name, version, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save state document: %w", err)
	}
	return nil
}

// Close closes the database
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}
