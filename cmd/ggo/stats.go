package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ggo/internal/errors"
	"ggo/internal/frecency"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show branch usage statistics",
	Long: `Show global usage totals and the top branches of this repository
ranked by frecency.`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of branches to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	a := mustSetup(ctx)
	defer a.close()

	stats, err := a.db.GetStats()
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to read statistics", err))
	}

	fmt.Printf("Database: %s\n", stats.DBPath)
	fmt.Printf("Total switches: %d across %d branches in %d repositories\n\n",
		stats.TotalSwitches, stats.UniqueBranches, stats.UniqueRepos)

	records, err := a.store.Usage().ListByRepo(a.repoRoot)
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to read usage records", err))
	}
	if len(records) == 0 {
		fmt.Println("No branch usage recorded for this repository yet.")
		return
	}

	now := time.Now()
	ranked := frecency.Rank(records, now, a.cfg.HalfLifeSeconds())
	if len(ranked) > statsLimit {
		ranked = ranked[:statsLimit]
	}

	fmt.Printf("Top branches in %s:\n", a.repoRoot)
	for _, r := range ranked {
		fmt.Printf("  %-40s  %6.2f  %4d switches  last %s\n",
			r.Record.BranchName, r.Score, r.Record.SwitchCount,
			frecency.FormatRelativeTime(r.Record.LastUsed, now))
	}
}
