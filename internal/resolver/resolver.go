// Package resolver turns a user pattern into a branch selection by combining
// alias lookup, pattern matching, and frecency ranking, then finalizes the
// selection with durable side effects.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ggo/internal/errors"
	"ggo/internal/frecency"
	"ggo/internal/matcher"
	"ggo/internal/storage"
)

// PreviousSentinel is the reserved pattern meaning "the branch I was on
// before the last switch"
const PreviousSentinel = "-"

// Git is the version-control surface the resolver needs
type Git interface {
	ListBranches(ctx context.Context) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
	Checkout(ctx context.Context, branchName string) error
}

// Store is the persistence surface the resolver needs
type Store interface {
	UsageRecords(repoPath string) ([]storage.BranchRecord, error)
	GetAlias(repoPath, aliasName string) (*storage.Alias, error)
	GetPrevious(repoPath string) (*storage.PreviousBranch, error)
	RecordCheckout(repoPath, branchName string, now time.Time) error
	SavePrevious(repoPath, branchName string, now time.Time) error
}

// Params carries the tunable scoring values. Zero values are replaced with
// the documented defaults.
type Params struct {
	HalfLifeSeconds     float64
	FrecencyWeight      float64
	AutoSelectThreshold float64
}

// Default scoring values
const (
	DefaultFrecencyWeight      = 10.0
	DefaultAutoSelectThreshold = 2.0
)

func (p Params) withDefaults() Params {
	if p.HalfLifeSeconds <= 0 {
		p.HalfLifeSeconds = frecency.DefaultHalfLifeSeconds
	}
	if p.FrecencyWeight <= 0 {
		p.FrecencyWeight = DefaultFrecencyWeight
	}
	if p.AutoSelectThreshold <= 0 {
		p.AutoSelectThreshold = DefaultAutoSelectThreshold
	}
	return p
}

// Options selects matching behavior for one resolve call
type Options struct {
	Fuzzy      bool
	IgnoreCase bool
}

// Candidate is one ranked branch with its score breakdown
type Candidate struct {
	BranchName    string
	MatchQuality  float64
	FrecencyScore float64
	Combined      float64
}

// Resolution is the outcome of Resolve. Either AutoSelected is true and
// Branch holds the winner, or Candidates holds the ranked list awaiting an
// external choice.
type Resolution struct {
	AutoSelected bool
	Branch       string
	Candidates   []Candidate
}

// FinalizeResult reports a completed switch. Warnings carry usage-tracking
// failures that did not prevent the checkout itself.
type FinalizeResult struct {
	Branch   string
	Previous string
	Warnings []string
}

// Resolver resolves patterns against one repository
type Resolver struct {
	repoPath string
	git      Git
	store    Store
	params   Params
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a resolver for the repository at repoPath
func New(repoPath string, git Git, store Store, params Params, logger *slog.Logger) *Resolver {
	return &Resolver{
		repoPath: repoPath,
		git:      git,
		store:    store,
		params:   params.withDefaults(),
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve maps a pattern to a branch selection. Resolution order: the
// previous-branch sentinel, then exact alias, then matching with frecency
// ranking. No durable state changes here; Finalize performs the writes.
func (r *Resolver) Resolve(ctx context.Context, pattern string, opts Options) (*Resolution, error) {
	branches, err := r.git.ListBranches(ctx)
	if err != nil {
		return nil, err
	}

	if pattern == PreviousSentinel {
		return r.resolvePrevious(branches)
	}

	if res, err := r.resolveAlias(pattern, branches); res != nil || err != nil {
		return res, err
	}

	return r.resolveMatch(pattern, branches, opts)
}

func (r *Resolver) resolvePrevious(branches []string) (*Resolution, error) {
	prev, err := r.store.GetPrevious(r.repoPath)
	if err != nil {
		r.logger.Warn("failed to read previous branch", "error", err)
		prev = nil
	}
	if prev == nil {
		return nil, errors.New(errors.NoPrevious,
			"no previous branch recorded for this repository", nil)
	}
	if !contains(branches, prev.BranchName) {
		return nil, errors.New(errors.StalePrevious,
			fmt.Sprintf("previous branch %q no longer exists", prev.BranchName), nil)
	}
	return &Resolution{AutoSelected: true, Branch: prev.BranchName}, nil
}

// resolveAlias returns (nil, nil) when no alias matches and the pattern
// should fall through to matching. A stale alias is a hard failure: aliases
// are an explicit user contract and must not silently degrade to fuzzy
// matching.
func (r *Resolver) resolveAlias(pattern string, branches []string) (*Resolution, error) {
	alias, err := r.store.GetAlias(r.repoPath, pattern)
	if err != nil {
		r.logger.Warn("failed to read alias, falling back to matching",
			"alias", pattern, "error", err)
		return nil, nil
	}
	if alias == nil {
		return nil, nil
	}
	if !contains(branches, alias.BranchName) {
		return nil, errors.New(errors.StaleAlias,
			fmt.Sprintf("alias %q points at %q, which no longer exists",
				pattern, alias.BranchName), nil)
	}

	r.logger.Debug("alias resolved", "alias", pattern, "branch", alias.BranchName)
	return &Resolution{AutoSelected: true, Branch: alias.BranchName}, nil
}

func (r *Resolver) resolveMatch(pattern string, branches []string, opts Options) (*Resolution, error) {
	matches := matcher.Match(pattern, branches, matcher.Options{
		Fuzzy:      opts.Fuzzy,
		IgnoreCase: opts.IgnoreCase,
	})
	if len(matches) == 0 {
		return nil, errors.New(errors.NoMatch,
			fmt.Sprintf("no branch matches %q", pattern), nil).
			WithDetails(map[string]interface{}{
				"pattern":  pattern,
				"branches": branches,
			})
	}

	candidates := r.rank(matches)

	if len(candidates) == 1 || r.clearWinner(candidates) {
		return &Resolution{AutoSelected: true, Branch: candidates[0].BranchName,
			Candidates: candidates}, nil
	}
	return &Resolution{Candidates: candidates}, nil
}

// rank combines match quality with weighted frecency. A store read failure
// degrades to matching without history rather than failing the command.
func (r *Resolver) rank(matches []matcher.ScoredMatch) []Candidate {
	records, err := r.store.UsageRecords(r.repoPath)
	if err != nil {
		r.logger.Warn("failed to load usage records, ranking without frecency",
			"error", err)
		records = nil
	}

	scores := make(map[string]float64, len(records))
	now := r.now()
	for i := range records {
		rec := records[i]
		scores[rec.BranchName] = frecency.Score(&rec, now, r.params.HalfLifeSeconds)
	}

	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		fs := scores[m.BranchName]
		candidates = append(candidates, Candidate{
			BranchName:    m.BranchName,
			MatchQuality:  m.Quality,
			FrecencyScore: fs,
			Combined:      m.Quality + fs*r.params.FrecencyWeight,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Combined != candidates[j].Combined {
			return candidates[i].Combined > candidates[j].Combined
		}
		return candidates[i].BranchName < candidates[j].BranchName
	})
	return candidates
}

// clearWinner reports whether the top candidate leads the runner-up by the
// auto-select threshold. A non-positive runner-up score cannot anchor a
// ratio, so the top candidate wins outright.
func (r *Resolver) clearWinner(candidates []Candidate) bool {
	if len(candidates) < 2 {
		return true
	}
	second := candidates[1].Combined
	if second <= 0 {
		return true
	}
	return candidates[0].Combined >= r.params.AutoSelectThreshold*second
}

// Finalize performs the actual switch to branchName, which came from either
// an auto-selected resolution or the user's interactive choice. The branch
// is re-validated against a fresh branch list first; all store writes happen
// strictly after the checkout succeeds, so a failed checkout never leaves a
// pointer at a branch that was not the prior HEAD.
func (r *Resolver) Finalize(ctx context.Context, branchName string) (*FinalizeResult, error) {
	branches, err := r.git.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	if !contains(branches, branchName) {
		return nil, errors.New(errors.BranchVanished,
			fmt.Sprintf("branch %q no longer exists", branchName), nil)
	}

	current, err := r.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.git.Checkout(ctx, branchName); err != nil {
		return nil, err
	}

	result := &FinalizeResult{Branch: branchName, Previous: current}
	now := r.now()

	// Switching to the already-current branch must not clobber the
	// previous pointer, or "-" would stop going anywhere
	if branchName != current {
		if err := r.store.SavePrevious(r.repoPath, current, now); err != nil {
			r.logger.Warn("failed to save previous branch", "error", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not record previous branch: %v", err))
		}
	}

	if err := r.store.RecordCheckout(r.repoPath, branchName, now); err != nil {
		r.logger.Warn("failed to record checkout", "error", err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("could not record branch usage: %v", err))
	}

	return result, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
