package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/plugin"
)

func newDepositCmd(projectDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Publish the curated document to the configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			return runDeposit(cmd, env)
		},
	}
	return cmd
}

func runDeposit(cmd *cobra.Command, env *runEnv) error {
	name := env.cfg.Deposit.Target
	depositor, err := plugin.Depositors.Get(name)
	if err != nil {
		return err
	}

	doc, err := env.store.LoadDocument(stageCurate, curatedName)
	if err != nil {
		return fmt.Errorf("no curated document (run curate first): %w", err)
	}

	pctx := &plugin.Context{
		ProjectDir: env.projectDir,
		Options:    optionsAny(env.cfg.Deposit.Options),
		Logger:     env.logger.With(slog.String("depositor", name)),
		Store:      env.store,
		Vocabulary: doc.Vocabulary(),
	}

	if err := depositor.Deposit(cmd.Context(), pctx, doc); err != nil {
		return fmt.Errorf("depositor %s: %w", name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deposited via %s\n", name)
	return nil
}
