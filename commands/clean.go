package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the project's cached pipeline artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			if err := env.store.Purge(); err != nil {
				return fmt.Errorf("purging cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", env.store.Dir())
			return nil
		},
	}
}
