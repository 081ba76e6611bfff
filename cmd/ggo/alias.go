package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ggo/internal/errors"
	"ggo/internal/validation"
)

var (
	aliasListFlag   bool
	aliasRemoveFlag string
)

var aliasCmd = &cobra.Command{
	Use:   "alias [name] [branch]",
	Short: "Manage branch aliases for this repository",
	Long: `Pin a short name to a branch. An alias always wins over fuzzy matching
and frecency, so "ggo m" with an alias m -> master goes to master no matter
what else matches.

Examples:
  ggo alias m master        Create or retarget alias "m"
  ggo alias --list          Show aliases for this repository
  ggo alias --remove m      Delete alias "m"`,
	Args: cobra.MaximumNArgs(2),
	Run:  runAlias,
}

func init() {
	aliasCmd.Flags().BoolVar(&aliasListFlag, "list", false, "List aliases for this repository")
	aliasCmd.Flags().StringVar(&aliasRemoveFlag, "remove", "", "Remove an alias")
	rootCmd.AddCommand(aliasCmd)
}

func runAlias(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	a := mustSetup(ctx)
	defer a.close()

	switch {
	case aliasListFlag:
		listAliases(a)
	case aliasRemoveFlag != "":
		removeAlias(a, aliasRemoveFlag)
	case len(args) == 2:
		setAlias(ctx, a, args[0], args[1])
	default:
		_ = cmd.Help()
		os.Exit(1)
	}
}

func setAlias(ctx context.Context, a *app, name, branch string) {
	if err := validation.ValidateAliasName(name); err != nil {
		fatal(err)
	}
	if err := validation.ValidateBranchName(branch); err != nil {
		fatal(err)
	}

	// Refuse to alias a branch that does not exist; a typo here would
	// produce a stale alias on first use
	branches, err := a.git.ListBranches(ctx)
	if err != nil {
		fatal(err)
	}
	found := false
	for _, b := range branches {
		if b == branch {
			found = true
			break
		}
	}
	if !found {
		fatal(errors.New(errors.InvalidBranchName,
			fmt.Sprintf("branch %q does not exist in this repository", branch), nil))
	}

	if err := a.store.Aliases().Set(a.repoRoot, name, branch, time.Now()); err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to save alias", err))
	}
	fmt.Printf("Alias '%s' -> '%s'\n", name, branch)
}

func removeAlias(a *app, name string) {
	existing, err := a.store.Aliases().Get(a.repoRoot, name)
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to look up alias", err))
	}
	if existing == nil {
		fmt.Fprintf(os.Stderr, "No alias '%s' in this repository.\n", name)
		os.Exit(1)
	}

	if err := a.store.Aliases().Remove(a.repoRoot, name); err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to remove alias", err))
	}
	fmt.Printf("Removed alias '%s'\n", name)
}

func listAliases(a *app) {
	aliases, err := a.store.Aliases().ListByRepo(a.repoRoot)
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to list aliases", err))
	}
	if len(aliases) == 0 {
		fmt.Println("No aliases defined for this repository.")
		return
	}
	for _, al := range aliases {
		fmt.Printf("%-20s -> %s\n", al.AliasName, al.BranchName)
	}
}
