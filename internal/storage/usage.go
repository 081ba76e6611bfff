package storage

import (
	"fmt"
	"time"
)

// UsageRepository provides access to the branches usage table
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// RecordCheckout creates a usage record with switch_count=1 or atomically
// increments the existing one. The upsert runs as a single statement, so two
// concurrent invocations never lose an increment.
func (r *UsageRepository) RecordCheckout(repoPath, branchName string, now time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO branches (repo_path, branch_name, switch_count, last_used)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(repo_path, branch_name) DO UPDATE SET
			switch_count = switch_count + 1,
			last_used = excluded.last_used
	`, repoPath, branchName, now.Unix())

	if err != nil {
		return fmt.Errorf("failed to record checkout: %w", err)
	}
	return nil
}

// ListByRepo returns all usage records for one repository, most recent first
func (r *UsageRepository) ListByRepo(repoPath string) ([]BranchRecord, error) {
	rows, err := r.db.Query(`
		SELECT repo_path, branch_name, switch_count, last_used
		FROM branches
		WHERE repo_path = ?
		ORDER BY last_used DESC
	`, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	return scanBranchRecords(rows)
}

// ListAll returns usage records across every repository, most recent first
func (r *UsageRepository) ListAll() ([]BranchRecord, error) {
	rows, err := r.db.Query(`
		SELECT repo_path, branch_name, switch_count, last_used
		FROM branches
		ORDER BY last_used DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records: %w", err)
	}
	defer rows.Close()

	return scanBranchRecords(rows)
}

// Get returns the usage record for one branch, or nil if none exists
func (r *UsageRepository) Get(repoPath, branchName string) (*BranchRecord, error) {
	var rec BranchRecord
	err := r.db.QueryRow(`
		SELECT repo_path, branch_name, switch_count, last_used
		FROM branches
		WHERE repo_path = ? AND branch_name = ?
	`, repoPath, branchName).Scan(&rec.RepoPath, &rec.BranchName, &rec.SwitchCount, &rec.LastUsed)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}
	return &rec, nil
}

func scanBranchRecords(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]BranchRecord, error) {
	var records []BranchRecord
	for rows.Next() {
		var rec BranchRecord
		if err := rows.Scan(&rec.RepoPath, &rec.BranchName, &rec.SwitchCount, &rec.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage records: %w", err)
	}
	return records, nil
}
