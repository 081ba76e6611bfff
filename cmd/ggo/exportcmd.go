package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ggo/internal/config"
	"ggo/internal/errors"
	"ggo/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export usage history, aliases, and previous pointers",
	Long: `Write the whole database as a gzip-compressed JSON archive, suitable for
moving to another machine with "ggo import". Writes to stdout when no file
is given.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported archive into the local database",
	Long: `Merge an archive produced by "ggo export". Switch counts add up, the
newer last-used timestamp wins, and the archive's aliases and previous
pointers replace local ones.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// openStoreOnly opens the database without requiring a git repository;
// export and import operate on the whole store
func openStoreOnly() *app {
	a := mustSetupBare()

	dataDir, err := config.DataDir()
	if err != nil {
		fatal(fmt.Errorf("failed to resolve data directory: %w", err))
	}
	db, err := storage.Open(dataDir, a.logger)
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "failed to open usage database", err))
	}
	a.db = db
	a.store = storage.NewStore(db)
	return a
}

func runExport(cmd *cobra.Command, args []string) {
	a := openStoreOnly()
	defer a.close()

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			fatal(fmt.Errorf("failed to create export file: %w", err))
		}
		defer f.Close()
		out = f
	}

	if err := a.db.Export(out, time.Now()); err != nil {
		fatal(errors.New(errors.StoreUnavailable, "export failed", err))
	}
	if len(args) == 1 {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", args[0])
	}
}

func runImport(cmd *cobra.Command, args []string) {
	a := openStoreOnly()
	defer a.close()

	f, err := os.Open(args[0])
	if err != nil {
		fatal(fmt.Errorf("failed to open archive: %w", err))
	}
	defer f.Close()

	result, err := a.db.Import(f)
	if err != nil {
		fatal(errors.New(errors.StoreUnavailable, "import failed", err))
	}
	fmt.Printf("Imported %d usage records, %d aliases, %d previous pointers.\n",
		result.Branches, result.Aliases, result.Previous)
}
