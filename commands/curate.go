package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/plugin"
)

func newCurateCmd(projectDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Apply curation decisions to the merged document",
		Long: `Curate loads the merged document and its provenance ledger, runs the
configured curator plugin, and caches the curated document under
.meld/curate/. The default curator accepts the merge winners as-is;
configured promotions replace a winner with a recorded alternative.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			return runCurate(cmd, env)
		},
	}
	return cmd
}

func runCurate(cmd *cobra.Command, env *runEnv) error {
	name := env.cfg.Curate.Plugin
	curator, err := plugin.Curators.Get(name)
	if err != nil {
		return err
	}

	doc, err := env.store.LoadDocument(stageProcess, mergedName)
	if err != nil {
		return fmt.Errorf("no merged document (run process first): %w", err)
	}
	ledger, err := env.store.LoadLedger(stageProcess)
	if err != nil {
		return fmt.Errorf("no provenance ledger (run process first): %w", err)
	}

	pctx := &plugin.Context{
		ProjectDir: env.projectDir,
		Options:    optionsAny(env.cfg.Curate.Options),
		Logger:     env.logger.With(slog.String("curator", name)),
		Store:      env.store,
		Vocabulary: doc.Vocabulary(),
	}

	curated, err := curator.Curate(cmd.Context(), pctx, doc, ledger)
	if err != nil {
		return fmt.Errorf("curator %s: %w", name, err)
	}

	if err := env.store.SaveDocument(stageCurate, curatedName, curated); err != nil {
		return err
	}
	if err := env.store.SaveLedger(stageCurate, ledger); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Curated document cached")
	return nil
}
