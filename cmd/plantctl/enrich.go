package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"plantdb/application/services"
	"plantdb/domain/plant"
	"plantdb/infrastructure/config"
	"plantdb/infrastructure/di"
	"plantdb/infrastructure/enrichment/gbif"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func getEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Resolves taxonomy for candidate records and upserts them",
		Long: `Enriches candidate plant records against the GBIF species backbone and
upserts the result through the lookup service.

This command:
  1. Reads newline-delimited JSON records from the input file
  2. Matches each scientific name against GBIF, refining by usage key
  3. Merges the resolved taxonomy into the candidate record
  4. Upserts the record, rebuilding its alias index entries

Calls to GBIF are paced with a fixed delay to stay under upstream rate
limits.

Examples:
  plantctl enrich --input candidates.ndjson
  plantctl enrich --input candidates.ndjson --delay 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := viper.GetString("input")
			delay := viper.GetDuration("delay")
			ctx := context.Background()

			candidates, err := readCandidates(input)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				logger.Info("No candidates to enrich", zap.String("input", input))
				return nil
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			container, err := di.InitializeContainer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize container: %w", err)
			}
			taxonomy := gbif.NewClient(gbif.Config{BaseURL: cfg.GBIFBaseURL}, logger)

			logger.Info("Starting enrichment",
				zap.Int("candidates", len(candidates)),
				zap.Duration("delay", delay),
			)

			bar := pb.StartNew(len(candidates))
			var enriched, unmatched, failed int
			for _, rec := range candidates {
				if err := enrichOne(ctx, taxonomy, rec); err != nil {
					logger.Warn("Enrichment failed, storing candidate as-is",
						zap.String("scientificName", rec.ScientificName),
						zap.Error(err),
					)
					failed++
				} else if rec.Genus == "" {
					unmatched++
				} else {
					enriched++
				}

				if _, err := container.Service.Create(ctx, rec); err != nil {
					return fmt.Errorf("upsert of %q failed: %w", rec.ScientificName, err)
				}

				bar.Increment()
				time.Sleep(delay)
			}
			bar.Finish()

			logger.Info("Enrichment complete",
				zap.Int("enriched", enriched),
				zap.Int("unmatched", unmatched),
				zap.Int("failed", failed),
			)
			return nil
		},
	}

	cmd.Flags().String("input", "", "newline-delimited JSON file of candidate records (required)")
	cmd.Flags().Duration("delay", 500*time.Millisecond, "pause between GBIF calls")
	cmd.MarkFlagRequired("input")
	return cmd
}

func enrichOne(ctx context.Context, taxonomy *gbif.Client, rec *plant.Record) error {
	match, found, err := taxonomy.Match(ctx, rec.ScientificName)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	detail, _, err := taxonomy.Detail(ctx, match.UsageKey)
	if err != nil {
		return err
	}

	services.MergeTaxonomy(rec, match, detail)

	// Resolved names become aliases so the record stays findable under
	// whatever spelling the backbone knows it by.
	names := []string{match.CanonicalName, match.ScientificName}
	if detail != nil {
		names = append(names, detail.CanonicalName, detail.ScientificName)
	}
	rec.Aliases = services.MergeAliases(rec.Aliases, "", names...)
	return nil
}

func readCandidates(path string) ([]*plant.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var out []*plant.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec plant.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
