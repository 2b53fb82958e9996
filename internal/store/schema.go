package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion must be bumped with every change to schema.sql. There are no
// migrations: a mismatching database is rebuilt by re-ingesting.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open when the database was created by a
// different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ensureSchema creates the tables on an empty database and otherwise checks
// the recorded version.
func (s *Store) ensureSchema(ctx context.Context) error {
	version, err := s.recordedVersion(ctx)
	if err != nil {
		return err
	}
	switch version {
	case 0:
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
				return fmt.Errorf("record schema version: %w", err)
			}
			return nil
		})
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("%w: %s has version %d, this build expects %d; remove it and re-ingest",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

// recordedVersion returns 0 when the schema_version table does not exist.
func (s *Store) recordedVersion(ctx context.Context) (int, error) {
	var tables int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables); err != nil {
		return 0, fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s has an empty schema_version table", ErrSchemaMismatch, s.path)
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
