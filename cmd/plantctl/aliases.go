package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"plantdb/application/ports"
	"plantdb/domain/plant"
	"plantdb/infrastructure/persistence/memory"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func getAliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Emits a sharded alias index snapshot",
		Long: `Builds the alias index for a candidate file offline and writes it out as
a sharded snapshot: a map from shard key (first letter of the alias, "_"
for non-letter tokens) to alias token to canonical ids.

The snapshot is an inspection and debugging artifact. The serving path
maintains its index live on every write and never reads this file.

Examples:
  plantctl aliases --input candidates.ndjson
  plantctl aliases --input candidates.ndjson --output aliases.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := viper.GetString("input")
			output := viper.GetString("output")
			ctx := context.Background()

			candidates, err := readCandidates(input)
			if err != nil {
				return err
			}

			store := memory.NewPlantStore(1)
			for _, rec := range candidates {
				rec.ID = plant.Slugify(rec.ScientificName)
				if rec.ID == "" {
					rec.ID = plant.DefaultSlug
				}
				rec.Aliases = plant.FallbackAliases(rec.ScientificName, rec.Aliases)
				if err := store.Put(ctx, rec, ports.IndexUpdate{Insert: rec.Aliases}); err != nil {
					return fmt.Errorf("indexing %q failed: %w", rec.ScientificName, err)
				}
			}

			snapshot := store.Snapshot()
			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Println(string(data))
			} else {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write snapshot: %w", err)
				}
				logger.Info("Snapshot written",
					zap.String("output", output),
					zap.Int("records", len(candidates)),
					zap.Int("shards", len(snapshot)),
				)
			}
			return nil
		},
	}

	cmd.Flags().String("input", "", "newline-delimited JSON file of candidate records (required)")
	cmd.Flags().String("output", "", "snapshot destination (defaults to stdout)")
	cmd.MarkFlagRequired("input")
	return cmd
}
