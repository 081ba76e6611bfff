package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ggo/internal/errors"
)

var (
	cleanupOlderThanDays int
	cleanupMissing       bool
	cleanupOptimize      bool
	cleanupSize          bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune stale usage records",
	Long: `Remove usage history that no longer helps ranking: records for branches
that were deleted, or records untouched for a long time.

Examples:
  ggo cleanup --missing           Drop records for branches deleted from this repo
  ggo cleanup --older-than 90     Drop records unused for 90 days
  ggo cleanup --optimize          Compact the database file
  ggo cleanup --size              Show the database file size`,
	Run: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupOlderThanDays, "older-than", 0,
		"Remove records not used within this many days")
	cleanupCmd.Flags().BoolVar(&cleanupMissing, "missing", false,
		"Remove records for branches that no longer exist in this repository")
	cleanupCmd.Flags().BoolVar(&cleanupOptimize, "optimize", false,
		"Vacuum and analyze the database")
	cleanupCmd.Flags().BoolVar(&cleanupSize, "size", false,
		"Print the database file path and size")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	a := mustSetup(ctx)
	defer a.close()

	ran := false

	if cleanupOlderThanDays > 0 {
		ran = true
		age := time.Duration(cleanupOlderThanDays) * 24 * time.Hour
		removed, err := a.db.CleanupOlderThan(age, time.Now())
		if err != nil {
			fatal(errors.New(errors.StoreUnavailable, "failed to prune old records", err))
		}
		fmt.Printf("Removed %d records older than %d days.\n", removed, cleanupOlderThanDays)
	}

	if cleanupMissing {
		ran = true
		branches, err := a.git.ListBranches(ctx)
		if err != nil {
			fatal(err)
		}
		removed, err := a.db.CleanupMissing(a.repoRoot, branches)
		if err != nil {
			fatal(errors.New(errors.StoreUnavailable, "failed to prune missing branches", err))
		}
		fmt.Printf("Removed %d records for deleted branches.\n", removed)
	}

	if cleanupOptimize {
		ran = true
		if err := a.db.Optimize(); err != nil {
			fatal(errors.New(errors.StoreUnavailable, "failed to optimize database", err))
		}
		fmt.Println("Database optimized.")
	}

	if cleanupSize {
		ran = true
		size, err := a.db.FileSize()
		if err != nil {
			fatal(errors.New(errors.StoreUnavailable, "failed to stat database", err))
		}
		fmt.Printf("%s: %d bytes\n", a.db.Path(), size)
	}

	if !ran {
		_ = cmd.Help()
	}
}
