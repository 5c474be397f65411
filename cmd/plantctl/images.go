package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"plantdb/application/ports"
	"plantdb/application/services"
	"plantdb/domain/plant"
	"plantdb/infrastructure/config"
	"plantdb/infrastructure/di"
	"plantdb/infrastructure/enrichment/unsplash"
	"plantdb/pkg/utils"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func getImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Fetches photos for records that have none",
		Long: `Backfills imagery for stored records via the Unsplash search API.

This command:
  1. Reads record ids from the input file (one id per line, JSON-quoted
     or bare)
  2. Fetches each record; records that already carry images are skipped
  3. Searches Unsplash for the scientific name and stores the normalized
     results

Unsplash calls are paced with a fixed delay; transient failures are
retried by the client before a record is skipped.

Examples:
  plantctl images --input ids.txt
  PLANTDB_UNSPLASH_ACCESS_KEY=... plantctl images --input ids.txt --delay 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := viper.GetString("input")
			delay := viper.GetDuration("delay")
			ctx := context.Background()

			ids, err := readIDs(input)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				logger.Info("No ids to backfill", zap.String("input", input))
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
			images := unsplash.NewClient(unsplash.Config{
				AccessKey: cfg.UnsplashAPIKey,
				BaseURL:   cfg.UnsplashBaseURL,
			}, logger)

			bar := pb.StartNew(len(ids))
			var filled, skipped, failed int
			for _, id := range ids {
				outcome, err := backfillOne(ctx, container.PlantRepo, images, id, cfg.MaxImages)
				switch {
				case err != nil:
					logger.Warn("Image backfill failed", zap.String("id", id), zap.Error(err))
					failed++
				case outcome:
					filled++
				default:
					skipped++
				}
				bar.Increment()
				time.Sleep(delay)
			}
			bar.Finish()

			logger.Info("Image backfill complete",
				zap.Int("filled", filled),
				zap.Int("skipped", skipped),
				zap.Int("failed", failed),
			)
			return nil
		},
	}

	cmd.Flags().String("input", "", "file of record ids, one per line (required)")
	cmd.Flags().Duration("delay", time.Second, "pause between Unsplash calls")
	cmd.MarkFlagRequired("input")
	return cmd
}

func backfillOne(ctx context.Context, repo ports.PlantRepository, images ports.ImageProvider, id string, maxImages int) (bool, error) {
	rec, found, err := repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("record not found")
	}
	if len(rec.Images) > 0 {
		return false, nil
	}

	results, err := images.Search(ctx, fmt.Sprintf("%q plant", rec.ScientificName))
	if err != nil {
		return false, err
	}
	normalized := services.NormalizeImages(results, maxImages)
	if len(normalized) == 0 {
		return false, nil
	}

	rec.Images = normalized
	rec.UpdatedAt = utils.NowRFC3339()
	if err := repo.Put(ctx, rec, ports.IndexUpdate{}); err != nil {
		return false, err
	}
	return true, nil
}

func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.Trim(strings.TrimSpace(scanner.Text()), `"`)
		if id == "" {
			continue
		}
		out = append(out, plant.StripKeyPrefix(id))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
