package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"doctech-be/internal/bootstrap"
	"doctech-be/internal/config"
	"doctech-be/internal/pkg/logger"
	"doctech-be/pkg/ai/router"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	var page int
	var describe bool

	cmd := &cobra.Command{
		Use:   "query <utterance>",
		Short: "Classify one utterance and print the navigation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return errors.New("--page must be >= 1")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg := config.Load()
			r, err := bootstrap.NewRouter(ctx, cfg, logger.NewConsoleLogger())
			if err != nil {
				return err
			}

			color.Cyan("🔎 %q (current page %d)\n", args[0], page)

			record, err := r.Execute(ctx, args[0], router.ViewerContext{CurrentPage: page})
			if err != nil {
				color.Red("✗ %v", err)
				return err
			}
			if err := printRecord(record); err != nil {
				return err
			}

			if describe {
				return printDescriptions(ctx, r, args[0])
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page currently shown in the viewer")
	cmd.Flags().BoolVar(&describe, "describe", false, "also run the figure and document description extractors")
	return cmd
}

func printRecord(record *router.Record) error {
	if record.NonDeterm {
		color.Yellow("⚠ non_determ: the server would answer with the generic error")
	}
	color.Green("intent: %s", record.Intent())

	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("render record: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}

func printDescriptions(ctx context.Context, r *router.Router, utterance string) error {
	fig, err := r.ExtractFigureDescription(ctx, utterance)
	if err != nil {
		return fmt.Errorf("figure description: %w", err)
	}
	doc, err := r.ExtractDocumentDescription(ctx, utterance)
	if err != nil {
		return fmt.Errorf("document description: %w", err)
	}

	color.Magenta("figure description:   %s", fig)
	color.Magenta("document description: %s", doc)
	return nil
}
