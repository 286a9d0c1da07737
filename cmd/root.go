// Package cmd contains the CLI commands of the veille service.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"veille-strategique/config"
	"veille-strategique/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "veille",
	Short: "Telecom regulatory monitoring pipeline",
	Long: `veille collects telecom news, enriches them with keyword quadrants,
importance and alerts, scores their sentiment and computes the digital
presence index (SPDI) of tracked personalities.

Example usage:
  veille serve                                  # HTTP API and scheduler
  veille collect --type critique --recency day  # one collection run
  veille enrich --id <uuid>                     # enrich one article
  veille sentiment --limit 200                  # sentiment sweep
  veille spdi                                   # SPDI of every tracked actor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() error {
	// .env необязателен
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logger.New(cfg.Log)
	slog.SetDefault(log)
	return nil
}
