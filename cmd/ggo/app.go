package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"ggo/internal/config"
	"ggo/internal/errors"
	"ggo/internal/gitrepo"
	"ggo/internal/resolver"
	"ggo/internal/slogutil"
	"ggo/internal/storage"
	"ggo/internal/validation"
)

// app bundles everything an invocation needs: configuration, logging, the
// store, and the repository the process is running inside
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logFile  *os.File
	db       *storage.DB
	store    *storage.Store
	git      *gitrepo.Client
	repoRoot string
}

// mustSetup builds the full app or exits. Every subcommand that touches the
// store or the repository goes through here.
func mustSetup(ctx context.Context) *app {
	a := mustSetupBare()

	cwd, err := os.Getwd()
	if err != nil {
		fatal(fmt.Errorf("failed to get working directory: %w", err))
	}

	root, err := gitrepo.DiscoverRoot(ctx, cwd)
	if err != nil {
		fatal(err)
	}
	if err := validation.ValidateRepoPath(root); err != nil {
		fatal(err)
	}
	a.git = gitrepo.NewClient(root)
	a.repoRoot = root

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

// mustSetupBare loads config and logging only, for subcommands that do not
// need a repository
func mustSetupBare() *app {
	cfg, err := config.Load()
	if err != nil {
		fatal(fmt.Errorf("failed to load configuration: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	logger, logFile := newLogger(cfg)
	logger = logger.With("invocation", shortID())

	return &app{cfg: cfg, logger: logger, logFile: logFile}
}

// newLogger builds the invocation logger: stderr by default, or an append-only
// file in the data dir when logging.file is configured. A file that cannot be
// opened falls back to stderr rather than failing the command.
func newLogger(cfg *config.Config) (*slog.Logger, *os.File) {
	level := slogutil.LevelFromString(cfg.Logging.Level)

	if cfg.Logging.File != "" {
		path := cfg.Logging.File
		if !filepath.IsAbs(path) {
			if dir, err := config.DataDir(); err == nil {
				path = filepath.Join(dir, path)
			}
		}
		if logger, f, err := slogutil.NewFileLogger(path, level); err == nil {
			return logger, f
		}
	}

	return slogutil.NewCLILogger(level), nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// resolver builds the resolver with the configured scoring parameters
func (a *app) resolver() *resolver.Resolver {
	return resolver.New(a.repoRoot, a.git, a.store, resolver.Params{
		HalfLifeSeconds:     a.cfg.HalfLifeSeconds(),
		FrecencyWeight:      a.cfg.Scoring.FrecencyWeight,
		AutoSelectThreshold: a.cfg.Scoring.AutoSelectThreshold,
	}, a.logger)
}

// shortID returns a compact per-invocation identifier for log correlation
func shortID() string {
	return uuid.NewString()[:8]
}

// fatal prints an error with any suggested fixes and exits
func fatal(err error) {
	if ge, ok := err.(*errors.GgoError); ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", ge.Message)
		if ge.Details != nil {
			if s, ok := ge.Details.(string); ok && s != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", s)
			}
		}
		for _, fix := range ge.SuggestedFixes {
			fmt.Fprintf(os.Stderr, "  try: %s  (%s)\n", fix.Command, fix.Description)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
