package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/plugin"
)

func newHarvestCmd(projectDir *string) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run the configured harvesters and cache their documents",
		Long: `Harvest runs each harvester named in harvest.sources and caches the
document it produces under .meld/harvest/. A failing harvester aborts
the run unless --keep-going is set, in which case it is logged and the
remaining harvesters still run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			return runHarvest(cmd, env, keepGoing)
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue past failing harvesters")
	return cmd
}

func runHarvest(cmd *cobra.Command, env *runEnv, keepGoing bool) error {
	harvested := 0
	for _, name := range env.cfg.Harvest.Sources {
		harvester, err := plugin.Harvesters.Get(name)
		if err != nil {
			return err
		}

		pctx := &plugin.Context{
			ProjectDir: env.projectDir,
			Options:    optionsAny(env.cfg.Harvest.Options[name]),
			Logger:     env.logger.With(slog.String("harvester", name)),
			Store:      env.store,
			Vocabulary: env.vocab,
		}

		doc, err := harvester.Harvest(cmd.Context(), pctx)
		if err != nil {
			if keepGoing {
				env.logger.Warn("harvester failed",
					slog.String("harvester", name), slog.String("error", err.Error()))
				continue
			}
			return fmt.Errorf("harvester %s: %w", name, err)
		}
		if err := env.store.SaveDocument(stageHarvest, name, doc); err != nil {
			return err
		}
		env.logger.Info("harvested", slog.String("source", name))
		harvested++
	}

	if harvested == 0 {
		return fmt.Errorf("no harvester produced a document")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Harvested %d of %d sources\n", harvested, len(env.cfg.Harvest.Sources))
	return nil
}

// optionsAny widens a typed config subtree to the plugin option map.
func optionsAny(opts map[string]any) map[string]any {
	if opts == nil {
		return map[string]any{}
	}
	return opts
}
