package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/softmeta/meld/export"
)

func newExportCmd(projectDir *string) *cobra.Command {
	var (
		formatName string
		output     string
		stage      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a cached document as RDF",
		Long: `Export serializes a cached document to Turtle, N-Triples or JSON-LD.
By default the curated document is exported; --stage process selects
the merged document instead. Output goes to stdout unless --output
names a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newRunEnv(*projectDir)
			if err != nil {
				return err
			}
			return runExport(cmd, env, formatName, output, stage)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", string(export.FormatJSONLD),
		fmt.Sprintf("Output format (%v)", export.FormatNames()))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&stage, "stage", stageCurate, "Cache stage to export (process, curate)")
	return cmd
}

func runExport(cmd *cobra.Command, env *runEnv, formatName, output, stage string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	name := curatedName
	if stage == stageProcess {
		name = mergedName
	} else if stage != stageCurate {
		return fmt.Errorf("unknown stage %q (use process or curate)", stage)
	}

	doc, err := env.store.LoadDocument(stage, name)
	if err != nil {
		return fmt.Errorf("no cached %s document: %w", stage, err)
	}

	data, err := export.NewExporter(doc).Export(format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", format, output)
	return nil
}
