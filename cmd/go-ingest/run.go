package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go-ingest/internal/infra/observability"
)

const cliTrigger = "cli"

func getRunCmd() *cobra.Command {
	var cities, entities []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs one ingestion and prints the per-table results",
		Long: `Runs the pipeline once. Without --cities the configured app.ingest.cities are
used, without --entities every stage runs: cities, airports (with city_airports),
populations, weathers and flights.`,
		Example: `  go-ingest run --cities Berlin,Hamburg
  go-ingest run --entities weathers,flights`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), getConfig())
			if err != nil {
				return err
			}
			defer a.close()

			response, runErr := a.pipeline.RunEntities(cmd.Context(), "", cities, entities)
			observability.RecordPipelineRun(cliTrigger, runErr)

			out, err := json.MarshalIndent(response, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&cities, "cities", nil, "comma separated city names")
	cmd.Flags().StringSliceVar(&entities, "entities", nil, "comma separated stages to run")
	return cmd
}
