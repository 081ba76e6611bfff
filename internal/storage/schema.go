package storage

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is the version this build expects.
// v1: branches + aliases tables
// v2: previous_branch table
// v3: lookup indexes on branches and aliases
const currentSchemaVersion = 3

// runMigrations brings the database from its stored version to the current
// one. Each migration is additive and committed together with its version
// bump, so a crash leaves either the old or the new version fully applied.
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("database schema is up to date", "version", version)
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d",
			version, currentSchemaVersion)
	}

	db.logger.Info("migrating database schema",
		"from_version", version, "to_version", currentSchemaVersion)

	if version < 1 {
		if err := db.migrateToV1(); err != nil {
			return fmt.Errorf("migration to v1 failed: %w", err)
		}
	}
	if version < 2 {
		if err := db.migrateToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}
	if version < 3 {
		if err := db.migrateToV3(); err != nil {
			return fmt.Errorf("migration to v3 failed: %w", err)
		}
	}

	return nil
}

// getSchemaVersion reads the stored schema version; 0 means a fresh database
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// setSchemaVersion replaces the stored schema version inside tx
func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// migrateToV1 creates the base tables: schema_version, branches, aliases
func (db *DB) migrateToV1() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS branches (
				id INTEGER PRIMARY KEY,
				repo_path TEXT NOT NULL,
				branch_name TEXT NOT NULL,
				switch_count INTEGER NOT NULL DEFAULT 1 CHECK(switch_count >= 1),
				last_used INTEGER NOT NULL,
				UNIQUE(repo_path, branch_name)
			)
		`); err != nil {
			return fmt.Errorf("failed to create branches table: %w", err)
		}

		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS aliases (
				repo_path TEXT NOT NULL,
				alias TEXT NOT NULL,
				branch_name TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				PRIMARY KEY (repo_path, alias)
			)
		`); err != nil {
			return fmt.Errorf("failed to create aliases table: %w", err)
		}

		return setSchemaVersion(tx, 1)
	})
}

// migrateToV2 adds the previous_branch pointer table
func (db *DB) migrateToV2() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS previous_branch (
				repo_path TEXT PRIMARY KEY,
				branch_name TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			)
		`); err != nil {
			return fmt.Errorf("failed to create previous_branch table: %w", err)
		}

		return setSchemaVersion(tx, 2)
	})
}

// migrateToV3 adds lookup indexes for repo-scoped queries
func (db *DB) migrateToV3() error {
	return db.WithTx(func(tx *sql.Tx) error {
		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_branches_repo_path ON branches(repo_path)",
			"CREATE INDEX IF NOT EXISTS idx_branches_last_used ON branches(last_used)",
			"CREATE INDEX IF NOT EXISTS idx_aliases_branch ON aliases(repo_path, branch_name)",
		}
		for _, indexSQL := range indexes {
			if _, err := tx.Exec(indexSQL); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return setSchemaVersion(tx, 3)
	})
}
