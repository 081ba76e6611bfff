package storage

import (
	"fmt"
	"time"
)

// PreviousRepository provides access to the previous_branch pointer table
type PreviousRepository struct {
	db *DB
}

// NewPreviousRepository creates a new previous-branch repository
func NewPreviousRepository(db *DB) *PreviousRepository {
	return &PreviousRepository{db: db}
}

// Save atomically replaces the previous-branch pointer for the repository.
// Concurrent writers resolve to last-writer-wins on the whole row.
func (r *PreviousRepository) Save(repoPath, branchName string, now time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO previous_branch (repo_path, branch_name, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(repo_path) DO UPDATE SET
			branch_name = excluded.branch_name,
			updated_at = excluded.updated_at
	`, repoPath, branchName, now.Unix())

	if err != nil {
		return fmt.Errorf("failed to save previous branch: %w", err)
	}
	return nil
}

// Get returns the previous-branch pointer, or nil if none is recorded
func (r *PreviousRepository) Get(repoPath string) (*PreviousBranch, error) {
	var p PreviousBranch
	err := r.db.QueryRow(`
		SELECT repo_path, branch_name, updated_at
		FROM previous_branch
		WHERE repo_path = ?
	`, repoPath).Scan(&p.RepoPath, &p.BranchName, &p.UpdatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous branch: %w", err)
	}
	return &p, nil
}
