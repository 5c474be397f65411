package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var logger *zap.Logger

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plantctl",
		Short: "plantctl manages the plant reference dataset",
		Long: `plantctl is the offline companion to the plant lookup service. It batch
enriches candidate records against the GBIF backbone, backfills missing
imagery, and emits alias index snapshots for inspection.

Subcommands:
  enrich   resolve taxonomy for candidate records and upsert them
  images   fetch photos for records that have none
  aliases  emit a sharded alias index snapshot

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (PLANTDB_*)
  3. Built-in defaults

Environment Variables:
  PLANTDB_PLANT_TABLE          DynamoDB table name
  PLANTDB_UNSPLASH_ACCESS_KEY  Unsplash API access key
  PLANTDB_GBIF_BASE_URL        GBIF API base URL
  PLANTDB_LOG_LEVEL            Log level (debug/info/warn/error)`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.SetEnvPrefix("PLANTDB")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			var err error
			if viper.GetString("log-level") == "debug" {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug/info/warn/error)")

	rootCmd.AddCommand(getEnrichCmd())
	rootCmd.AddCommand(getImagesCmd())
	rootCmd.AddCommand(getAliasesCmd())

	return rootCmd
}
