package storage

import "time"

// Store bundles the repositories behind the read/write surface the resolver
// consumes
type Store struct {
	db       *DB
	usage    *UsageRepository
	aliases  *AliasRepository
	previous *PreviousRepository
}

// NewStore creates a store facade over an open database
func NewStore(db *DB) *Store {
	return &Store{
		db:       db,
		usage:    NewUsageRepository(db),
		aliases:  NewAliasRepository(db),
		previous: NewPreviousRepository(db),
	}
}

// DB returns the underlying database handle
func (s *Store) DB() *DB {
	return s.db
}

// Usage returns the usage repository
func (s *Store) Usage() *UsageRepository {
	return s.usage
}

// Aliases returns the alias repository
func (s *Store) Aliases() *AliasRepository {
	return s.aliases
}

// Previous returns the previous-branch repository
func (s *Store) Previous() *PreviousRepository {
	return s.previous
}

// UsageRecords returns every usage record for the repository
func (s *Store) UsageRecords(repoPath string) ([]BranchRecord, error) {
	return s.usage.ListByRepo(repoPath)
}

// GetAlias returns the alias, or nil if not defined
func (s *Store) GetAlias(repoPath, aliasName string) (*Alias, error) {
	return s.aliases.Get(repoPath, aliasName)
}

// GetPrevious returns the previous-branch pointer, or nil
func (s *Store) GetPrevious(repoPath string) (*PreviousBranch, error) {
	return s.previous.Get(repoPath)
}

// RecordCheckout upserts a usage record for the branch
func (s *Store) RecordCheckout(repoPath, branchName string, now time.Time) error {
	return s.usage.RecordCheckout(repoPath, branchName, now)
}

// SavePrevious replaces the previous-branch pointer for the repository
func (s *Store) SavePrevious(repoPath, branchName string, now time.Time) error {
	return s.previous.Save(repoPath, branchName, now)
}
