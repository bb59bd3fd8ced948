// Package commands provides the meld CLI subcommands. Each pipeline stage
// (harvest, process, curate, deposit) is one subcommand reading its inputs
// from and writing its outputs to the project cache.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/cache"
	"github.com/softmeta/meld/config"
	"github.com/softmeta/meld/vocabulary"
)

// Cache artifact names shared by the stage commands.
const (
	stageHarvest = "harvest"
	stageProcess = "process"
	stageCurate  = "curate"

	mergedName  = "merged"
	curatedName = "curated"
)

// NewRootCmd builds the meld root command with all stage subcommands
// attached.
func NewRootCmd(version, buildTime string) *cobra.Command {
	var (
		projectDir string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "meld",
		Short: "Software metadata harvesting and merging pipeline",
		Long: `Meld collects software metadata from configured sources, merges it
into a single provenance-tracked document, and publishes the curated
result.

The pipeline runs in four stages, each cached under .meld/:

  harvest  run each configured harvester and cache its document
  process  merge the harvested documents by source priority
  curate   apply curation decisions to the merged document
  deposit  publish the curated document to its target`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&projectDir, "path", ".", "Project directory to operate on")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newHarvestCmd(&projectDir),
		newProcessCmd(&projectDir),
		newCurateCmd(&projectDir),
		newDepositCmd(&projectDir),
		newExportCmd(&projectDir),
		newCleanCmd(&projectDir),
		newVersionCmd(version, buildTime),
	)

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// runEnv bundles the resolved per-run environment the stage commands share.
type runEnv struct {
	projectDir string
	cfg        *config.Config
	store      *cache.Store
	vocab      *vocabulary.Snapshot
	logger     *slog.Logger
}

// newRunEnv resolves the project directory, loads the layered config and
// registers any project-specific vocabularies on top of the built-ins.
func newRunEnv(projectDir string) (*runEnv, error) {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	logger := slog.Default()
	cfg, err := config.NewLoader(logger).Load(absDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	vocab, err := loadVocabulary(cfg, absDir)
	if err != nil {
		return nil, err
	}

	return &runEnv{
		projectDir: absDir,
		cfg:        cfg,
		store:      cache.NewStore(absDir, logger),
		vocab:      vocab,
		logger:     logger,
	}, nil
}

// loadVocabulary builds the run's vocabulary snapshot: the built-in chain
// plus any context documents named in the config.
func loadVocabulary(cfg *config.Config, projectDir string) (*vocabulary.Snapshot, error) {
	registry := vocabulary.NewRegistry()
	for prefix, path := range cfg.Vocabularies {
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading vocabulary %s: %w", prefix, err)
		}
		src, err := vocabulary.ParseSource(prefix, data)
		if err != nil {
			return nil, fmt.Errorf("parsing vocabulary %s: %w", prefix, err)
		}
		if err := registry.Register(prefix, src); err != nil {
			return nil, err
		}
	}
	return registry.Snapshot(), nil
}

func newVersionCmd(version, buildTime string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meld version %s (build: %s)\n", version, buildTime)
		},
	}
}
