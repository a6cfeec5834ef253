package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitPostgresSchema creates the matrix_cache table and its lookup
// index on a Postgres database if they don't already exist.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS matrix_cache (
			origin_lat BIGINT NOT NULL,
			origin_lon BIGINT NOT NULL,
			dest_lat BIGINT NOT NULL,
			dest_lon BIGINT NOT NULL,
			distance_meters INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			PRIMARY KEY (origin_lat, origin_lon, dest_lat, dest_lon)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matrix_cache_origin
		ON matrix_cache(origin_lat, origin_lon);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// InitSQLiteSchema creates the matrix_cache table and its lookup
// index on a SQLite database if they don't already exist.
func InitSQLiteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS matrix_cache (
			origin_lat INTEGER NOT NULL,
			origin_lon INTEGER NOT NULL,
			dest_lat INTEGER NOT NULL,
			dest_lon INTEGER NOT NULL,
			distance_meters INTEGER NOT NULL,
			duration_seconds INTEGER NOT NULL,
			PRIMARY KEY (origin_lat, origin_lon, dest_lat, dest_lon)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matrix_cache_origin
		ON matrix_cache(origin_lat, origin_lon);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
