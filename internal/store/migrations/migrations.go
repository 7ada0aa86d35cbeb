// Package migrations manages the local database schema, tracking applied
// versions in a schema_migrations table so Run is idempotent.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type migration struct {
	version int
	stmt    string
}

var all = []migration{
	{1, createKillmails},
	{2, createReports},
}

const createSchemaMigrations = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

const createKillmails = `
	CREATE TABLE IF NOT EXISTS killmails (
		id INTEGER PRIMARY KEY,
		hash TEXT NOT NULL,
		victim_character_id INTEGER NOT NULL,
		victim_corporation_id INTEGER NOT NULL,
		final_blow_character_id INTEGER NOT NULL,
		ship_type_id INTEGER NOT NULL,
		solar_system_id INTEGER NOT NULL,
		attacker_count INTEGER NOT NULL,
		value REAL NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_killmails_victim ON killmails (victim_character_id);
	CREATE INDEX IF NOT EXISTS idx_killmails_final_blow ON killmails (final_blow_character_id);
	CREATE INDEX IF NOT EXISTS idx_killmails_occurred_at ON killmails (occurred_at)`

const createReports = `
	CREATE TABLE IF NOT EXISTS reports (
		subject_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		score REAL NOT NULL,
		kills INTEGER NOT NULL,
		losses INTEGER NOT NULL,
		isk_destroyed REAL NOT NULL,
		isk_lost REAL NOT NULL,
		efficiency REAL NOT NULL,
		danger_ratio REAL NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (subject_id, kind)
	)`

// Run applies all pending migrations in order.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	log := zap.S().Named("migrations")
	for _, m := range all {
		if applied[m.version] {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		log.Infow("applied migration", "version", m.version)
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		return err
	}
	return tx.Commit()
}
