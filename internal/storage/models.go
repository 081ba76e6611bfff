package storage

// BranchRecord is one usage record per (repository, branch) pair.
// Timestamps are Unix seconds.
type BranchRecord struct {
	RepoPath    string `json:"repoPath"`
	BranchName  string `json:"branchName"`
	SwitchCount int64  `json:"switchCount"`
	LastUsed    int64  `json:"lastUsed"`
}

// Alias is a user-defined shortcut for a branch, scoped to one repository
type Alias struct {
	RepoPath   string `json:"repoPath"`
	AliasName  string `json:"alias"`
	BranchName string `json:"branchName"`
	CreatedAt  int64  `json:"createdAt"`
}

// PreviousBranch records the branch that was checked out immediately before
// the current one, one row per repository
type PreviousBranch struct {
	RepoPath   string `json:"repoPath"`
	BranchName string `json:"branchName"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// Stats summarizes the whole database
type Stats struct {
	TotalSwitches  int64  `json:"totalSwitches"`
	UniqueBranches int64  `json:"uniqueBranches"`
	UniqueRepos    int64  `json:"uniqueRepos"`
	DBPath         string `json:"dbPath"`
}
