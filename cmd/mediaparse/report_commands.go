package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mediaparse/internal/report"
)

func newSummaryCommand(_ *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "summary <parsed.json>",
		Short:       "Show per-type and per-domain totals for a parsed document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.Load(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return report.RenderSummary(out, report.Summarize(doc), tableStyle(out))
		},
	}
}

func newExportCommand(_ *commandContext) *cobra.Command {
	var interest bool

	cmd := &cobra.Command{
		Use:         "export <parsed.json>",
		Short:       "Write media items from a parsed document as CSV",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.Load(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			return report.WriteCSV(cmd.OutOrStdout(), doc, interest)
		},
	}

	cmd.Flags().BoolVar(&interest, "interest", false, "Export interest items instead of download items")
	return cmd
}
