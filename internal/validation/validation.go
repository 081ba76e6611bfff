// Package validation enforces input limits before anything reaches git or the store.
package validation

import (
	"path/filepath"
	"strings"

	"ggo/internal/errors"
)

const (
	// MaxBranchNameLength is git's effective ref name limit
	MaxBranchNameLength = 255

	// MaxPatternLength bounds search patterns
	MaxPatternLength = 255

	// MaxAliasLength bounds alias names
	MaxAliasLength = 50

	// MaxRepoPathLength bounds repository paths
	MaxRepoPathLength = 4096
)

// reservedAliases are names that collide with the CLI surface
var reservedAliases = map[string]bool{
	"stats":   true,
	"alias":   true,
	"list":    true,
	"remove":  true,
	"cleanup": true,
	"export":  true,
	"import":  true,
	"help":    true,
}

// ValidateBranchName checks a branch name against git ref naming rules
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New(errors.InvalidBranchName, "branch name cannot be empty", nil)
	}
	if len(name) > MaxBranchNameLength {
		return errors.New(errors.InvalidBranchName, "branch name too long", nil)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return errors.New(errors.InvalidBranchName, "branch name contains control characters", nil)
	}
	if strings.HasPrefix(name, "-") {
		return errors.New(errors.InvalidBranchName, "branch name cannot start with '-'", nil)
	}
	if strings.HasPrefix(name, ".") {
		return errors.New(errors.InvalidBranchName, "branch name cannot start with '.'", nil)
	}
	if strings.Contains(name, "..") {
		return errors.New(errors.InvalidBranchName, "branch name cannot contain '..'", nil)
	}
	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".") {
		return errors.New(errors.InvalidBranchName, "branch name cannot end with '/' or '.'", nil)
	}
	if strings.Contains(name, "//") {
		return errors.New(errors.InvalidBranchName, "branch name cannot contain '//'", nil)
	}
	if strings.Contains(name, " ") {
		return errors.New(errors.InvalidBranchName, "branch name cannot contain spaces", nil)
	}
	if strings.Contains(name, "@{") {
		return errors.New(errors.InvalidBranchName, "branch name cannot contain '@{'", nil)
	}
	if strings.ContainsAny(name, "~^:?*[") {
		return errors.New(errors.InvalidBranchName, "branch name cannot contain git revision syntax characters", nil)
	}
	return nil
}

// ValidatePattern checks a search pattern. Empty patterns are legal and match everything.
func ValidatePattern(pattern string) error {
	if len(pattern) > MaxPatternLength {
		return errors.New(errors.InvalidPattern, "search pattern too long", nil)
	}
	if strings.ContainsRune(pattern, '\x00') {
		return errors.New(errors.InvalidPattern, "search pattern contains null bytes", nil)
	}
	return nil
}

// ValidateAliasName checks an alias name. Stricter than branch names: aliases
// are typed as the first CLI argument, so they must not look like flags or
// collide with subcommands.
func ValidateAliasName(alias string) error {
	if alias == "" {
		return errors.New(errors.InvalidAlias, "alias name cannot be empty", nil)
	}
	if len(alias) > MaxAliasLength {
		return errors.New(errors.InvalidAlias, "alias name too long", nil)
	}
	if strings.HasPrefix(alias, "-") {
		return errors.New(errors.InvalidAlias, "alias name cannot start with '-'", nil)
	}
	if reservedAliases[alias] {
		return errors.New(errors.InvalidAlias, "alias name '"+alias+"' is reserved", nil)
	}
	for _, r := range alias {
		if !isAliasRune(r) {
			return errors.New(errors.InvalidAlias,
				"alias name must contain only alphanumeric characters, dash, or underscore", nil)
		}
	}
	return nil
}

// ValidateRepoPath checks a repository identity path
func ValidateRepoPath(path string) error {
	if path == "" {
		return errors.New(errors.NotARepository, "repository path cannot be empty", nil)
	}
	if len(path) > MaxRepoPathLength {
		return errors.New(errors.NotARepository, "repository path too long", nil)
	}
	if strings.ContainsRune(path, '\x00') {
		return errors.New(errors.NotARepository, "repository path contains null bytes", nil)
	}
	if !filepath.IsAbs(path) {
		return errors.New(errors.NotARepository, "repository path must be absolute", nil)
	}
	return nil
}

func isAliasRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
