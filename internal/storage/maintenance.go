package storage

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// GetStats summarizes the whole database
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{DBPath: db.dbPath}

	err := db.QueryRow("SELECT COALESCE(SUM(switch_count), 0) FROM branches").
		Scan(&stats.TotalSwitches)
	if err != nil {
		return nil, fmt.Errorf("failed to count switches: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM branches").Scan(&stats.UniqueBranches)
	if err != nil {
		return nil, fmt.Errorf("failed to count branches: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT repo_path) FROM branches").Scan(&stats.UniqueRepos)
	if err != nil {
		return nil, fmt.Errorf("failed to count repositories: %w", err)
	}

	return stats, nil
}

// CleanupOlderThan deletes usage records not touched within the given age and
// returns how many rows were removed. Aliases and previous pointers are
// untouched: they are explicit user state, not derived history.
func (db *DB) CleanupOlderThan(age time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-age).Unix()

	res, err := db.Exec("DELETE FROM branches WHERE last_used < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old records: %w", err)
	}
	return res.RowsAffected()
}

// CleanupMissing deletes usage records in one repository whose branches are
// not in the live branch list, and returns how many rows were removed
func (db *DB) CleanupMissing(repoPath string, liveBranches []string) (int64, error) {
	if len(liveBranches) == 0 {
		// An empty live list means the caller could not enumerate branches;
		// deleting everything on that basis would be destructive.
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(liveBranches))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(liveBranches)+1)
	args = append(args, repoPath)
	for _, b := range liveBranches {
		args = append(args, b)
	}

	res, err := db.Exec(
		"DELETE FROM branches WHERE repo_path = ? AND branch_name NOT IN ("+placeholders+")",
		args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale records: %w", err)
	}
	return res.RowsAffected()
}

// Optimize runs VACUUM and ANALYZE
func (db *DB) Optimize() error {
	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := db.Exec("ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}
	return nil
}

// FileSize returns the database file size in bytes
func (db *DB) FileSize() (int64, error) {
	info, err := os.Stat(db.dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat database file: %w", err)
	}
	return info.Size(), nil
}

// SchemaVersion exposes the stored schema version for diagnostics
func (db *DB) SchemaVersion() (int, error) {
	return db.getSchemaVersion()
}
