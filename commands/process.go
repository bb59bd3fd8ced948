package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/merge"
)

func newProcessCmd(projectDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Merge the harvested documents into one provenance-tracked document",
		Long: `Process loads the cached harvest documents, merges them by source
priority, and caches the merged document and its provenance ledger
under .meld/process/. Sources with no cached document are skipped with
a warning; the merge fails only if every source is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			return runProcess(cmd, env)
		},
	}
	return cmd
}

func runProcess(cmd *cobra.Command, env *runEnv) error {
	var inputs []merge.Input
	for _, name := range env.cfg.Harvest.Sources {
		doc, err := env.store.LoadDocument(stageHarvest, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				env.logger.Warn("no cached document for source, skipping",
					slog.String("source", name))
				inputs = append(inputs, merge.Input{Source: name})
				continue
			}
			return err
		}
		inputs = append(inputs, merge.Input{Doc: doc, Source: name})
	}

	opts := merge.Options{
		Priority:   env.cfg.Priority(),
		Repeatable: env.cfg.Merge.Repeatable,
		MatchKeys:  env.cfg.Merge.MatchKeys,
	}

	doc, ledger, report, err := merge.Merge(inputs, opts, env.logger)
	if err != nil {
		return fmt.Errorf("merging harvested documents: %w", err)
	}

	if err := env.store.SaveDocument(stageProcess, mergedName, doc); err != nil {
		return err
	}
	if err := env.store.SaveLedger(stageProcess, ledger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d sources", len(report.Merged))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", len(report.Skipped))
		for _, skipped := range report.Skipped {
			env.logger.Warn("source skipped",
				slog.String("source", skipped.Source), slog.String("reason", skipped.Reason))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
