package resolver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ggo/internal/errors"
	"ggo/internal/slogutil"
	"ggo/internal/storage"
)

type fakeGit struct {
	branches    []string
	current     string
	checkoutErr error
	checkedOut  []string
}

func (g *fakeGit) ListBranches(ctx context.Context) ([]string, error) {
	return g.branches, nil
}

func (g *fakeGit) CurrentBranch(ctx context.Context) (string, error) {
	return g.current, nil
}

func (g *fakeGit) Checkout(ctx context.Context, branchName string) error {
	if g.checkoutErr != nil {
		return g.checkoutErr
	}
	g.checkedOut = append(g.checkedOut, branchName)
	g.current = branchName
	return nil
}

type fakeStore struct {
	records  []storage.BranchRecord
	aliases  map[string]string
	previous string

	readErr  error
	writeErr error

	recordedCheckouts []string
	savedPrevious     []string
}

func (s *fakeStore) UsageRecords(repoPath string) ([]storage.BranchRecord, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.records, nil
}

func (s *fakeStore) GetAlias(repoPath, aliasName string) (*storage.Alias, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	target, ok := s.aliases[aliasName]
	if !ok {
		return nil, nil
	}
	return &storage.Alias{RepoPath: repoPath, AliasName: aliasName, BranchName: target}, nil
}

func (s *fakeStore) GetPrevious(repoPath string) (*storage.PreviousBranch, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.previous == "" {
		return nil, nil
	}
	return &storage.PreviousBranch{RepoPath: repoPath, BranchName: s.previous}, nil
}

func (s *fakeStore) RecordCheckout(repoPath, branchName string, now time.Time) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.recordedCheckouts = append(s.recordedCheckouts, branchName)
	return nil
}

func (s *fakeStore) SavePrevious(repoPath, branchName string, now time.Time) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.savedPrevious = append(s.savedPrevious, branchName)
	s.previous = branchName
	return nil
}

func newTestResolver(git *fakeGit, store *fakeStore) *Resolver {
	r := New("/repo", git, store, Params{}, slogutil.NewDiscardLogger())
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	return r
}

func TestResolveAliasWins(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "master", "feature/m"}}
	// Heavy frecency on a competing branch must not matter: the alias is
	// an explicit contract
	store := &fakeStore{
		aliases: map[string]string{"m": "master"},
		records: []storage.BranchRecord{
			{BranchName: "feature/m", SwitchCount: 100, LastUsed: 1700000000},
		},
	}
	r := newTestResolver(git, store)

	res, err := r.Resolve(context.Background(), "m", Options{Fuzzy: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.AutoSelected || res.Branch != "master" {
		t.Errorf("Expected alias to auto-select master, got %+v", res)
	}
}

func TestResolveStaleAliasHardFailure(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "mango"}}
	store := &fakeStore{aliases: map[string]string{"m": "deleted-branch"}}
	r := newTestResolver(git, store)

	// "m" would fuzzy-match both branches, but the stale alias must fail
	// instead of degrading to matching
	_, err := r.Resolve(context.Background(), "m", Options{Fuzzy: true})
	if err == nil {
		t.Fatal("Expected stale alias error, got nil")
	}
	if errors.CodeOf(err) != errors.StaleAlias {
		t.Errorf("Expected STALE_ALIAS, got %s", errors.CodeOf(err))
	}
}

func TestResolvePreviousSentinel(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "develop"}}
	store := &fakeStore{previous: "develop"}
	r := newTestResolver(git, store)

	res, err := r.Resolve(context.Background(), PreviousSentinel, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.AutoSelected || res.Branch != "develop" {
		t.Errorf("Expected previous branch develop, got %+v", res)
	}
}

func TestResolveNoPrevious(t *testing.T) {
	git := &fakeGit{branches: []string{"main"}}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	_, err := r.Resolve(context.Background(), PreviousSentinel, Options{})
	if errors.CodeOf(err) != errors.NoPrevious {
		t.Errorf("Expected NO_PREVIOUS, got %v", err)
	}
}

func TestResolveStalePrevious(t *testing.T) {
	git := &fakeGit{branches: []string{"main"}}
	store := &fakeStore{previous: "deleted-branch"}
	r := newTestResolver(git, store)

	_, err := r.Resolve(context.Background(), PreviousSentinel, Options{})
	if errors.CodeOf(err) != errors.StalePrevious {
		t.Errorf("Expected STALE_PREVIOUS, got %v", err)
	}
}

func TestResolveNoMatch(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "develop"}}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	_, err := r.Resolve(context.Background(), "xyz", Options{Fuzzy: true})
	if errors.CodeOf(err) != errors.NoMatch {
		t.Errorf("Expected NO_MATCH, got %v", err)
	}
}

func TestResolveSingleCandidateAutoSelects(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "feature/auth"}}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	res, err := r.Resolve(context.Background(), "auth", Options{Fuzzy: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.AutoSelected || res.Branch != "feature/auth" {
		t.Errorf("Expected feature/auth auto-selected, got %+v", res)
	}
}

func TestResolveFrecencyDominates(t *testing.T) {
	git := &fakeGit{branches: []string{"feature/auth-v1", "feature/auth-v2"}}
	// v2 used heavily and recently: weighted frecency should produce a
	// clear winner despite near-identical match quality
	store := &fakeStore{
		records: []storage.BranchRecord{
			{BranchName: "feature/auth-v2", SwitchCount: 50, LastUsed: 1700000000},
		},
	}
	r := newTestResolver(git, store)

	res, err := r.Resolve(context.Background(), "auth", Options{Fuzzy: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.AutoSelected || res.Branch != "feature/auth-v2" {
		t.Errorf("Expected frecency to auto-select feature/auth-v2, got %+v", res)
	}
}

func TestResolveAmbiguousReturnsCandidates(t *testing.T) {
	git := &fakeGit{branches: []string{"feature/auth-v1", "feature/auth-v2"}}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	res, err := r.Resolve(context.Background(), "auth", Options{Fuzzy: true})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.AutoSelected {
		t.Fatalf("Expected awaiting choice, got auto-select of %s", res.Branch)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(res.Candidates))
	}
}

func TestResolveStoreReadFailureDegrades(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "feature/auth"}}
	store := &fakeStore{readErr: fmt.Errorf("database locked")}
	r := newTestResolver(git, store)

	// Read failures degrade to matching without history, not a hard error
	res, err := r.Resolve(context.Background(), "auth", Options{Fuzzy: true})
	if err != nil {
		t.Fatalf("Expected degraded resolve to succeed, got %v", err)
	}
	if !res.AutoSelected || res.Branch != "feature/auth" {
		t.Errorf("Expected feature/auth, got %+v", res)
	}
}

func TestClearWinnerThreshold(t *testing.T) {
	r := newTestResolver(&fakeGit{}, &fakeStore{})

	// Top at least twice the runner-up auto-selects
	if !r.clearWinner([]Candidate{{Combined: 10}, {Combined: 4}}) {
		t.Error("Expected [10, 4] to auto-select")
	}
	if r.clearWinner([]Candidate{{Combined: 10}, {Combined: 6}}) {
		t.Error("Expected [10, 6] to await user choice")
	}
	// Boundary: exactly 2x qualifies
	if !r.clearWinner([]Candidate{{Combined: 10}, {Combined: 5}}) {
		t.Error("Expected [10, 5] to auto-select")
	}
	// A scoreless runner-up cannot anchor a ratio
	if !r.clearWinner([]Candidate{{Combined: 10}, {Combined: 0}}) {
		t.Error("Expected [10, 0] to auto-select")
	}
}

func TestFinalizeOrdering(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "develop"}, current: "main"}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	result, err := r.Finalize(context.Background(), "develop")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if result.Branch != "develop" || result.Previous != "main" {
		t.Errorf("Expected develop with previous main, got %+v", result)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}

	if len(store.savedPrevious) != 1 || store.savedPrevious[0] != "main" {
		t.Errorf("Expected previous pointer at main, got %v", store.savedPrevious)
	}
	if len(store.recordedCheckouts) != 1 || store.recordedCheckouts[0] != "develop" {
		t.Errorf("Expected checkout recorded for develop, got %v", store.recordedCheckouts)
	}
}

func TestFinalizePingPong(t *testing.T) {
	git := &fakeGit{branches: []string{"branch-a", "branch-b"}, current: "branch-a"}
	store := &fakeStore{}
	r := newTestResolver(git, store)
	ctx := context.Background()

	// checkout B, then "previous" twice: A, then back to B
	if _, err := r.Finalize(ctx, "branch-b"); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	res, err := r.Resolve(ctx, PreviousSentinel, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Branch != "branch-a" {
		t.Fatalf("Expected previous to resolve to branch-a, got %s", res.Branch)
	}
	if _, err := r.Finalize(ctx, res.Branch); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	res, err = r.Resolve(ctx, PreviousSentinel, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Branch != "branch-b" {
		t.Errorf("Expected ping-pong back to branch-b, got %s", res.Branch)
	}
}

func TestFinalizeSelfSwitchKeepsPrevious(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "develop"}, current: "main"}
	store := &fakeStore{previous: "develop"}
	r := newTestResolver(git, store)

	result, err := r.Finalize(context.Background(), "main")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	// The pointer must survive a self-switch, but usage is still tracked
	if len(store.savedPrevious) != 0 {
		t.Errorf("Expected previous pointer untouched, got writes %v", store.savedPrevious)
	}
	if store.previous != "develop" {
		t.Errorf("Expected previous to stay develop, got %s", store.previous)
	}
	if len(store.recordedCheckouts) != 1 {
		t.Errorf("Expected self-switch usage recorded, got %v", store.recordedCheckouts)
	}
	if result.Branch != "main" {
		t.Errorf("Expected branch main, got %s", result.Branch)
	}
}

func TestFinalizeBranchVanished(t *testing.T) {
	git := &fakeGit{branches: []string{"main"}, current: "main"}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	_, err := r.Finalize(context.Background(), "deleted-branch")
	if errors.CodeOf(err) != errors.BranchVanished {
		t.Errorf("Expected BRANCH_VANISHED, got %v", err)
	}
	if len(store.savedPrevious) != 0 || len(store.recordedCheckouts) != 0 {
		t.Error("Expected no store writes after vanished branch")
	}
}

func TestFinalizeCheckoutFailureWritesNothing(t *testing.T) {
	git := &fakeGit{
		branches:    []string{"main", "develop"},
		current:     "main",
		checkoutErr: errors.New(errors.CheckoutFailed, "uncommitted changes", nil),
	}
	store := &fakeStore{}
	r := newTestResolver(git, store)

	_, err := r.Finalize(context.Background(), "develop")
	if errors.CodeOf(err) != errors.CheckoutFailed {
		t.Errorf("Expected CHECKOUT_FAILED, got %v", err)
	}
	if len(store.savedPrevious) != 0 || len(store.recordedCheckouts) != 0 {
		t.Error("Expected no store writes after failed checkout")
	}
}

func TestFinalizeStoreWriteFailureIsWarning(t *testing.T) {
	git := &fakeGit{branches: []string{"main", "develop"}, current: "main"}
	store := &fakeStore{writeErr: fmt.Errorf("disk full")}
	r := newTestResolver(git, store)

	// The switch itself succeeded, so tracking failures are warnings
	result, err := r.Finalize(context.Background(), "develop")
	if err != nil {
		t.Fatalf("Expected finalize to succeed despite store failure, got %v", err)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Expected 2 warnings (pointer and usage), got %v", result.Warnings)
	}
	if len(git.checkedOut) != 1 || git.checkedOut[0] != "develop" {
		t.Errorf("Expected checkout of develop, got %v", git.checkedOut)
	}
}
