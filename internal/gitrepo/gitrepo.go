// Package gitrepo adapts the git command line for branch listing, inspection,
// and checkout.
package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ggo/internal/errors"
)

// Client runs git commands rooted at one repository
type Client struct {
	repoRoot string
}

// NewClient creates a client for the repository rooted at repoRoot
func NewClient(repoRoot string) *Client {
	return &Client{repoRoot: repoRoot}
}

// Root returns the repository root
func (c *Client) Root() string {
	return c.repoRoot
}

// DiscoverRoot resolves the repository root containing dir. The root is the
// repository identity every store row is keyed on, so it must be canonical.
func DiscoverRoot(ctx context.Context, dir string) (string, error) {
	out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.New(errors.NotARepository,
			fmt.Sprintf("not inside a git repository: %s", dir), err)
	}
	return out, nil
}

// ListBranches returns every local branch name, as git reports them
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	out, err := runGit(ctx, c.repoRoot,
		"for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to list branches", err)
	}

	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CurrentBranch returns the checked-out branch name. A detached HEAD has no
// branch name and is reported as an error.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := runGit(ctx, c.repoRoot, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", errors.New(errors.InternalError,
			"failed to read current branch (detached HEAD?)", err)
	}
	return out, nil
}

// Checkout switches the working tree to the branch
func (c *Client) Checkout(ctx context.Context, branchName string) error {
	cmd := exec.CommandContext(ctx, "git", "checkout", branchName)
	cmd.Dir = c.repoRoot

	// git writes the refusal reason (uncommitted changes, conflicts) to
	// stderr, which CombinedOutput preserves for the error message
	output, err := cmd.CombinedOutput()
	if err != nil {
		reason := strings.TrimSpace(string(output))
		if reason == "" {
			reason = err.Error()
		}
		return errors.New(errors.CheckoutFailed,
			fmt.Sprintf("git checkout %s failed", branchName), err).
			WithDetails(reason)
	}
	return nil
}

// runGit executes one git command and returns its trimmed stdout
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
