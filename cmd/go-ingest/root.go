package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-ingest/configs"
	"go-ingest/pkg/log"
)

var (
	cfgFile string
	cfg     *configs.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "go-ingest",
		Short: "go-ingest synchronizes city, airport, population, weather and flight data",
		Long: `go-ingest pulls cities (API Ninjas), airports and arrivals (AeroDataBox) and
forecasts (OpenWeatherMap), normalizes them into relational tables and appends
only the rows whose composite key is not stored yet.

Configuration is read from configs/application.yml, or the file named by
--config or PROPERTIES_FILE_PATH. Every value accepts ${ENV:default} placeholders.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				if err := os.Setenv("PROPERTIES_FILE_PATH", cfgFile); err != nil {
					return err
				}
			}

			loaded, err := configs.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = loaded
			log.SetLevel(cfg.LogLevel)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "properties file (default: configs/application.yml)")

	rootCmd.AddCommand(getServeCmd())
	rootCmd.AddCommand(getRunCmd())
	rootCmd.AddCommand(getMigrateCmd())
	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *configs.Config {
	return cfg
}
