package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediaparse/internal/enrichment"
	"mediaparse/internal/logging"
	"mediaparse/internal/parser"
	"mediaparse/internal/services"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var noWikidata bool

	cmd := &cobra.Command{
		Use:   "parse <input.json> <output.json>",
		Short: "Extract media items from a posts export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := services.WithRunID(cmd.Context(), runID)
			logger.Info("parse run starting",
				logging.String(logging.FieldRunID, runID),
				logging.String("config", ctx.configPath),
				logging.Bool("wikidata", cfg.Wikidata.Enabled && !noWikidata))

			var opts []parser.Option
			if cfg.Wikidata.Enabled && !noWikidata {
				enricher, err := enrichment.NewFromConfig(cfg, logger)
				if err != nil {
					return err
				}
				if err := enricher.Init(runCtx); err != nil {
					return err
				}
				defer enricher.Shutdown(context.WithoutCancel(runCtx))
				opts = append(opts, parser.WithEnricher(enricher))
			}

			p, err := parser.New(cfg, logger, opts...)
			if err != nil {
				return err
			}
			stats, err := p.ParseFile(runCtx, args[0], args[1])
			if err != nil {
				hint := "rerun to resume; cached lookups are kept"
				if services.IsFatal(err) {
					hint = "fix the input file or configuration and rerun"
				}
				attrs := []logging.Attr{logging.Error(err), logging.String(logging.FieldErrorHint, hint)}
				if stage, ok := services.StageOf(err); ok {
					attrs = append(attrs, logging.String(logging.FieldStage, stage))
				}
				logging.ErrorWithContext(logging.WithContext(runCtx, logger), "parse run failed", "parse_failed", attrs...)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d posts: %d media items, %d interest items, %d skipped\n",
				stats.TweetsProcessed, stats.TotalMediaItems, stats.MediaInterestItems, stats.TweetsSkipped)
			if stats.WikidataEnhanced > 0 {
				fmt.Fprintf(out, "Wikidata enhanced %d items\n", stats.WikidataEnhanced)
			}
			fmt.Fprintf(out, "Wrote %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWikidata, "no-wikidata", false, "Skip Wikidata enrichment even when enabled in config")
	return cmd
}
