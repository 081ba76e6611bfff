package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"ggo/internal/errors"
)

// initTestRepo creates a real git repository with an initial commit and the
// given branches
func initTestRepo(t *testing.T, branches ...string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")

	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	run("add", "file.txt")
	run("commit", "-m", "initial")

	for _, branch := range branches {
		run("branch", branch)
	}
	return dir
}

func TestDiscoverRoot(t *testing.T) {
	dir := initTestRepo(t)
	ctx := context.Background()

	// From the root itself
	root, err := DiscoverRoot(ctx, dir)
	if err != nil {
		t.Fatalf("DiscoverRoot failed: %v", err)
	}
	if root == "" {
		t.Fatal("Expected non-empty root")
	}

	// From a subdirectory
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	subRoot, err := DiscoverRoot(ctx, sub)
	if err != nil {
		t.Fatalf("DiscoverRoot from subdir failed: %v", err)
	}
	if subRoot != root {
		t.Errorf("Expected same root from subdir, got %q vs %q", subRoot, root)
	}
}

func TestDiscoverRootNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	_, err := DiscoverRoot(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("Expected error outside a repository")
	}
	if errors.CodeOf(err) != errors.NotARepository {
		t.Errorf("Expected NOT_A_REPOSITORY, got %s", errors.CodeOf(err))
	}
}

func TestListBranchesAndCurrent(t *testing.T) {
	dir := initTestRepo(t, "develop", "feature/auth")
	ctx := context.Background()
	client := NewClient(dir)

	branches, err := client.ListBranches(ctx)
	if err != nil {
		t.Fatalf("ListBranches failed: %v", err)
	}
	want := map[string]bool{"main": true, "develop": true, "feature/auth": true}
	if len(branches) != len(want) {
		t.Fatalf("Expected %d branches, got %v", len(want), branches)
	}
	for _, b := range branches {
		if !want[b] {
			t.Errorf("Unexpected branch %q", b)
		}
	}

	current, err := client.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if current != "main" {
		t.Errorf("Expected current branch main, got %q", current)
	}
}

func TestCheckout(t *testing.T) {
	dir := initTestRepo(t, "develop")
	ctx := context.Background()
	client := NewClient(dir)

	if err := client.Checkout(ctx, "develop"); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	current, err := client.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if current != "develop" {
		t.Errorf("Expected current branch develop, got %q", current)
	}
}

func TestCheckoutMissingBranch(t *testing.T) {
	dir := initTestRepo(t)
	client := NewClient(dir)

	err := client.Checkout(context.Background(), "no-such-branch")
	if err == nil {
		t.Fatal("Expected checkout of missing branch to fail")
	}
	if errors.CodeOf(err) != errors.CheckoutFailed {
		t.Errorf("Expected CHECKOUT_FAILED, got %s", errors.CodeOf(err))
	}
}
