package storage

import (
	"fmt"
	"time"
)

// AliasRepository provides CRUD access to the aliases table.
// Aliases are an explicit user contract: the resolver reads them but the
// resolution algorithm never creates, rewrites, or removes them.
type AliasRepository struct {
	db *DB
}

// NewAliasRepository creates a new alias repository
func NewAliasRepository(db *DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// Set creates or replaces an alias for the repository
func (r *AliasRepository) Set(repoPath, aliasName, branchName string, now time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO aliases (repo_path, alias, branch_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(repo_path, alias) DO UPDATE SET
			branch_name = excluded.branch_name,
			created_at = excluded.created_at
	`, repoPath, aliasName, branchName, now.Unix())

	if err != nil {
		return fmt.Errorf("failed to set alias: %w", err)
	}
	return nil
}

// Get returns the alias, or nil if it does not exist in this repository
func (r *AliasRepository) Get(repoPath, aliasName string) (*Alias, error) {
	var a Alias
	err := r.db.QueryRow(`
		SELECT repo_path, alias, branch_name, created_at
		FROM aliases
		WHERE repo_path = ? AND alias = ?
	`, repoPath, aliasName).Scan(&a.RepoPath, &a.AliasName, &a.BranchName, &a.CreatedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}
	return &a, nil
}

// Remove deletes an alias; removing a nonexistent alias is not an error
func (r *AliasRepository) Remove(repoPath, aliasName string) error {
	_, err := r.db.Exec(`
		DELETE FROM aliases WHERE repo_path = ? AND alias = ?
	`, repoPath, aliasName)

	if err != nil {
		return fmt.Errorf("failed to remove alias: %w", err)
	}
	return nil
}

// ListByRepo returns all aliases for one repository, sorted by alias name
func (r *AliasRepository) ListByRepo(repoPath string) ([]Alias, error) {
	rows, err := r.db.Query(`
		SELECT repo_path, alias, branch_name, created_at
		FROM aliases
		WHERE repo_path = ?
		ORDER BY alias
	`, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	var aliases []Alias
	for rows.Next() {
		var a Alias
		if err := rows.Scan(&a.RepoPath, &a.AliasName, &a.BranchName, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aliases: %w", err)
	}
	return aliases, nil
}

// ForBranch returns the alias names pointing at a branch, sorted
func (r *AliasRepository) ForBranch(repoPath, branchName string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT alias
		FROM aliases
		WHERE repo_path = ? AND branch_name = ?
		ORDER BY alias
	`, repoPath, branchName)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases for branch: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan alias name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alias names: %w", err)
	}
	return names, nil
}
