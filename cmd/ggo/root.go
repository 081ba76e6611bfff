package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ggo/internal/errors"
	"ggo/internal/resolver"
	"ggo/internal/validation"
	"ggo/internal/version"
)

var (
	rootList        bool
	rootInteractive bool
	rootNoFuzzy     bool
	rootIgnoreCase  bool
)

var rootCmd = &cobra.Command{
	Use:   "ggo [pattern]",
	Short: "ggo - frecency-aware git branch switching",
	Long: `ggo switches git branches by fuzzy pattern, ranked by how often and how
recently you used each branch. Aliases pin a short name to a branch, and
"-" jumps back to the branch you came from.

Examples:
  ggo auth          Switch to the best branch matching "auth"
  ggo -             Switch back to the previous branch
  ggo --list ""     List every branch with its score
  ggo -i auth       Always prompt, even with a clear winner`,
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	Run:     runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("ggo version {{.Version}}\n")
	rootCmd.Flags().BoolVar(&rootList, "list", false, "List matching branches without switching")
	rootCmd.Flags().BoolVarP(&rootInteractive, "interactive", "i", false, "Always prompt for a choice")
	rootCmd.Flags().BoolVar(&rootNoFuzzy, "no-fuzzy", false, "Require the pattern as an exact substring")
	rootCmd.Flags().BoolVarP(&rootIgnoreCase, "ignore-case", "c", false, "Match case-insensitively")
}

func runRoot(cmd *cobra.Command, args []string) {
	if len(args) == 0 && !rootList {
		_ = cmd.Help()
		return
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	if pattern != resolver.PreviousSentinel {
		if err := validation.ValidatePattern(pattern); err != nil {
			fatal(err)
		}
	}

	ctx := context.Background()
	a := mustSetup(ctx)
	defer a.close()

	opts := resolver.Options{
		Fuzzy:      a.cfg.Behavior.DefaultFuzzy && !rootNoFuzzy,
		IgnoreCase: a.cfg.Behavior.DefaultIgnoreCase || rootIgnoreCase,
	}

	r := a.resolver()
	res, err := r.Resolve(ctx, pattern, opts)
	if err != nil {
		fatal(err)
	}

	if rootList {
		printCandidates(res)
		return
	}

	branch := res.Branch
	if !res.AutoSelected || (rootInteractive && len(res.Candidates) > 1) {
		branch, err = promptChoice(res.Candidates)
		if err != nil {
			if errors.CodeOf(err) == errors.UserCancelled {
				fmt.Fprintln(os.Stderr, "Cancelled.")
				os.Exit(1)
			}
			fatal(err)
		}
	}

	result, err := r.Finalize(ctx, branch)
	if err != nil {
		fatal(err)
	}

	if result.Previous != "" && result.Previous != result.Branch {
		fmt.Printf("Switched to branch '%s' (was '%s')\n", result.Branch, result.Previous)
	} else {
		fmt.Printf("Switched to branch '%s'\n", result.Branch)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

// printCandidates renders the ranked list without switching
func printCandidates(res *resolver.Resolution) {
	candidates := res.Candidates
	if len(candidates) == 0 && res.Branch != "" {
		// Alias and previous-sentinel resolutions carry no candidate list
		fmt.Println(res.Branch)
		return
	}

	for _, c := range candidates {
		fmt.Printf("%-40s  score %8.1f\n", c.BranchName, c.Combined)
	}
}
