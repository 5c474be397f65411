package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"plantdb/application/ports"
	"plantdb/domain/plant"
	apperrors "plantdb/pkg/errors"
	"plantdb/pkg/utils"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	cardCacheTTL     = 10 * time.Minute
	hydrationWorkers = 8
)

// LookupOptions tunes the read path.
type LookupOptions struct {
	MaxSearchResults int
	MaxImages        int
}

// LookupService resolves free-text queries to canonical records and keeps
// the alias index consistent with every record mutation. It is the only
// write path to the store; handlers and the offline tooling both go through
// it.
type LookupService struct {
	repo      ports.PlantRepository
	index     ports.AliasIndex
	generator ports.AttributeGenerator
	images    ports.ImageProvider
	events    ports.EventPublisher
	cards     *gocache.Cache
	opts      LookupOptions
	logger    *zap.Logger
}

// NewLookupService creates a new LookupService. generator, images and events
// may be nil; the corresponding feature degrades per the failure policy.
func NewLookupService(
	repo ports.PlantRepository,
	index ports.AliasIndex,
	generator ports.AttributeGenerator,
	images ports.ImageProvider,
	events ports.EventPublisher,
	opts LookupOptions,
	logger *zap.Logger,
) *LookupService {
	if opts.MaxSearchResults <= 0 {
		opts.MaxSearchResults = 50
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = 5
	}
	return &LookupService{
		repo:      repo,
		index:     index,
		generator: generator,
		images:    images,
		events:    events,
		cards:     gocache.New(cardCacheTTL, 2*cardCacheTTL),
		opts:      opts,
		logger:    logger,
	}
}

// Search resolves an alias prefix to cards ordered by popularity descending,
// capped at MaxSearchResults. Too-short prefixes yield an empty list, never
// an error.
func (s *LookupService) Search(ctx context.Context, prefix string) ([]plant.Card, error) {
	ids, err := s.index.LookupByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []plant.Card{}, nil
	}

	cards := make([]plant.Card, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrationWorkers)
	for i, id := range ids {
		if cached, ok := s.cards.Get(id); ok {
			cards[i] = cached.(plant.Card)
			found[i] = true
			continue
		}
		i, id := i, id
		g.Go(func() error {
			rec, ok, err := s.repo.Get(gctx, id)
			if err != nil {
				return err
			}
			if !ok {
				// A dangling index entry; skip it rather than failing
				// the whole search.
				s.logger.Warn("Alias entry points at missing record", zap.String("id", id))
				return nil
			}
			card := rec.ToCard()
			s.cards.SetDefault(id, card)
			cards[i] = card
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]plant.Card, 0, len(cards))
	for i, ok := range found {
		if ok {
			result = append(result, cards[i])
		}
	}

	sort.SliceStable(result, func(a, b int) bool {
		return result[a].Popularity > result[b].Popularity
	})
	if len(result) > s.opts.MaxSearchResults {
		result = result[:s.opts.MaxSearchResults]
	}
	return result, nil
}

// Get fetches a record by id. A record without images triggers the lazy
// image backfill, persisted before returning; backfill failure degrades to
// the stored record.
func (s *LookupService) Get(ctx context.Context, id string) (*plant.Record, error) {
	rec, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("plant")
	}

	if len(rec.Images) == 0 && s.images != nil {
		s.backfillImages(ctx, rec)
	}
	return rec, nil
}

// backfillImages fetches imagery from the fallback provider and persists it.
// Every failure is logged and swallowed; the read proceeds with the record
// as stored.
func (s *LookupService) backfillImages(ctx context.Context, rec *plant.Record) {
	imgs, err := s.images.Search(ctx, imageQuery(rec))
	if err != nil {
		s.logger.Warn("Image backfill failed",
			zap.String("id", rec.ID),
			zap.Error(err),
		)
		return
	}
	imgs = NormalizeImages(imgs, s.opts.MaxImages)
	if len(imgs) == 0 {
		return
	}

	rec.Images = imgs
	rec.UpdatedAt = utils.NowRFC3339()
	if err := s.repo.Put(ctx, rec, ports.IndexUpdate{}); err != nil {
		s.logger.Warn("Failed to persist backfilled images",
			zap.String("id", rec.ID),
			zap.Error(err),
		)
		return
	}
	s.cards.Delete(rec.ID)
}

// imageQuery builds the image search query from the scientific name and the
// first known alias.
func imageQuery(rec *plant.Record) string {
	parts := []string{rec.ScientificName}
	if len(rec.Aliases) > 0 {
		parts = append(parts, rec.Aliases[0])
	}
	return fmt.Sprintf("%q plant", strings.Join(parts, `" "`))
}

// Create derives the canonical id, stamps timestamps, stores the record and
// indexes its aliases in one transactional write. A collision with an
// existing record keeps that record's createdAt and replaces the rest.
func (s *LookupService) Create(ctx context.Context, input *plant.Record) (*plant.Record, error) {
	if strings.TrimSpace(input.ScientificName) == "" {
		return nil, apperrors.NewValidationError("scientificName is required")
	}

	id := plant.Slugify(plant.StripKeyPrefix(input.ID))
	if id == "" {
		id = plant.Slugify(input.ScientificName)
	}
	if id == "" {
		id = plant.DefaultSlug
	}

	rec := *input
	rec.ID = id
	rec.Aliases = plant.FallbackAliases(rec.ScientificName,
		append(append([]string{}, rec.Aliases...), rec.Genus, rec.Species))
	rec.Images = NormalizeImages(rec.Images, s.opts.MaxImages)

	now := utils.NowRFC3339()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	update := ports.IndexUpdate{Insert: rec.Aliases}
	eventType := ports.EventPlantCreated

	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		// Same normalized name: later write wins, original createdAt
		// survives and stale aliases are retracted.
		rec.CreatedAt = existing.CreatedAt
		update.Remove = existing.Aliases
		eventType = ports.EventPlantUpdated
	}

	if err := s.repo.Put(ctx, &rec, update); err != nil {
		return nil, err
	}
	s.cards.Delete(id)
	s.publish(ctx, eventType, &rec)

	s.logger.Info("Plant record written",
		zap.String("id", rec.ID),
		zap.String("scientificName", rec.ScientificName),
		zap.Int("aliases", len(rec.Aliases)),
	)
	return &rec, nil
}

// Update merges the patch onto the existing record and replaces record plus
// alias entries atomically. The id never changes; unset patch fields retain
// the stored values. A missing record reports not-found.
func (s *LookupService) Update(ctx context.Context, id string, patch *plant.Record) (*plant.Record, error) {
	id = plant.StripKeyPrefix(id)
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("plant")
	}

	merged := mergePatch(existing, patch)
	merged.ID = id
	merged.Aliases = plant.FallbackAliases(merged.ScientificName,
		append(append([]string{}, merged.Aliases...), merged.Genus, merged.Species))
	merged.Images = NormalizeImages(merged.Images, s.opts.MaxImages)
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = utils.NowRFC3339()

	err = s.repo.Put(ctx, merged, ports.IndexUpdate{
		Remove: existing.Aliases,
		Insert: merged.Aliases,
	})
	if err != nil {
		return nil, err
	}
	s.cards.Delete(id)
	s.publish(ctx, ports.EventPlantUpdated, merged)

	s.logger.Info("Plant record updated", zap.String("id", id))
	return merged, nil
}

// Delete removes a record and retracts every alias entry pointing at it.
// Deleting a nonexistent id returns false, not an error.
func (s *LookupService) Delete(ctx context.Context, id string) (bool, error) {
	id = plant.StripKeyPrefix(id)
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	found, err := s.repo.Delete(ctx, id, ports.IndexUpdate{Remove: existing.Aliases})
	if err != nil {
		return false, err
	}
	if found {
		s.cards.Delete(id)
		s.publish(ctx, ports.EventPlantDeleted, existing)
		s.logger.Info("Plant record deleted", zap.String("id", id))
	}
	return found, nil
}

// Generate asks the generative provider to synthesize a record for a bare
// name query. The result is not persisted. Unlike other provider calls, a
// failure here is surfaced: there is no partial data to fall back to.
func (s *LookupService) Generate(ctx context.Context, query string) (*plant.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	if s.generator == nil {
		return nil, apperrors.NewExternalError("generator", fmt.Errorf("no generative provider configured"))
	}

	rec, err := s.generator.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	if rec == nil || strings.TrimSpace(rec.ScientificName) == "" {
		return nil, apperrors.NewNotFoundError("plant")
	}

	rec.ID = plant.Slugify(rec.ScientificName)
	if rec.ID == "" {
		rec.ID = plant.DefaultSlug
	}
	rec.Aliases = MergeAliases(rec.Aliases, "", rec.Genus, rec.Species)
	return rec, nil
}

// mergePatch overlays patch onto existing: set fields override, unset fields
// (zero strings, nil slices and pointers) retain the stored values.
func mergePatch(existing, patch *plant.Record) *plant.Record {
	merged := *existing
	if patch == nil {
		return &merged
	}

	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&merged.ScientificName, patch.ScientificName)
	overlay(&merged.Kingdom, patch.Kingdom)
	overlay(&merged.Phylum, patch.Phylum)
	overlay(&merged.Class, patch.Class)
	overlay(&merged.Order, patch.Order)
	overlay(&merged.Family, patch.Family)
	overlay(&merged.Genus, patch.Genus)
	overlay(&merged.Species, patch.Species)

	if patch.Aliases != nil {
		merged.Aliases = patch.Aliases
	}
	if patch.Watering != nil {
		merged.Watering = patch.Watering
	}
	if patch.Light != nil {
		merged.Light = patch.Light
	}
	if patch.Humidity != nil {
		merged.Humidity = patch.Humidity
	}
	if patch.Temperature != nil {
		merged.Temperature = patch.Temperature
	}
	if patch.Popularity != nil {
		merged.Popularity = patch.Popularity
	}
	if patch.Soil != nil {
		merged.Soil = patch.Soil
	}
	if patch.Attributes != nil {
		merged.Attributes = patch.Attributes
	}
	if patch.Images != nil {
		merged.Images = patch.Images
	}
	return &merged
}

// publish reports a mutation to the event bus; failures are logged only.
func (s *LookupService) publish(ctx context.Context, eventType string, rec *plant.Record) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, ports.MutationEvent{
		EventID:        uuid.New().String(),
		Type:           eventType,
		ID:             rec.ID,
		ScientificName: rec.ScientificName,
		OccurredAt:     utils.NowRFC3339(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish mutation event",
			zap.String("type", eventType),
			zap.String("id", rec.ID),
			zap.Error(err),
		)
	}
}
