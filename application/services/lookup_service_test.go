package services

import (
	"context"
	"fmt"
	"testing"

	"plantdb/application/ports"
	"plantdb/domain/plant"
	"plantdb/infrastructure/persistence/memory"
	apperrors "plantdb/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubGenerator returns a fixed record or error.
type stubGenerator struct {
	record *plant.Record
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, query string) (*plant.Record, error) {
	return g.record, g.err
}

// stubImages returns fixed search results.
type stubImages struct {
	images []plant.Image
	err    error
	calls  int
}

func (p *stubImages) Search(ctx context.Context, query string) ([]plant.Image, error) {
	p.calls++
	return p.images, p.err
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []ports.MutationEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, e ports.MutationEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newService(t *testing.T, gen ports.AttributeGenerator, img ports.ImageProvider) (*LookupService, *memory.PlantStore, *recordingPublisher) {
	t.Helper()
	store := memory.NewPlantStore(3)
	pub := &recordingPublisher{}
	svc := NewLookupService(store, store, gen, img, pub, LookupOptions{
		MaxSearchResults: 50,
		MaxImages:        5,
	}, zap.NewNop())
	return svc, store, pub
}

func TestCreateIndexesAliases(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t, nil, nil)

	rec, err := svc.Create(ctx, &plant.Record{
		ScientificName: "Ficus lyrata",
		Aliases:        []string{"Fiddle Leaf Fig"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ficus_lyrata", rec.ID)
	assert.NotEmpty(t, rec.CreatedAt)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Contains(t, rec.Aliases, "fiddle leaf fig")
	assert.Contains(t, rec.Aliases, "ficus", "genus token derived as fallback alias")

	ids, err := store.LookupByPrefix(ctx, "fiddle")
	require.NoError(t, err)
	assert.Equal(t, []string{"ficus_lyrata"}, ids)

	require.Len(t, pub.events, 1)
	assert.Equal(t, ports.EventPlantCreated, pub.events[0].Type)
}

func TestCreateRejectsMissingScientificName(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)
	_, err := svc.Create(context.Background(), &plant.Record{Aliases: []string{"x"}})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateCollisionPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, nil, nil)

	first, err := svc.Create(ctx, &plant.Record{ScientificName: "Ficus lyrata"})
	require.NoError(t, err)

	second, err := svc.Create(ctx, &plant.Record{
		ScientificName: "ficus-LYRATA",
		Family:         "Moraceae",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same normalized name collides")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Moraceae", second.Family, "later write wins")
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)
	_, err := svc.Get(context.Background(), "nonexistent_id")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetBackfillsImagesLazily(t *testing.T) {
	ctx := context.Background()
	img := &stubImages{images: []plant.Image{
		{Small: "https://img/s", Regular: "https://img/r", Author: "someone"},
		{Small: "", Regular: "https://img/r2"},
	}}
	svc, store, _ := newService(t, nil, img)

	created, err := svc.Create(ctx, &plant.Record{ScientificName: "Ficus lyrata"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1, "incomplete descriptors dropped")
	assert.Equal(t, "https://img/s", got.Images[0].Small)

	// Backfill persisted: a second read must not hit the provider again.
	stored, ok, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Images, 1)

	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, img.calls)
}

func TestGetSkipsBackfillWhenImagesPresent(t *testing.T) {
	ctx := context.Background()
	img := &stubImages{images: []plant.Image{{Small: "s", Regular: "r"}}}
	svc, _, _ := newService(t, nil, img)

	created, err := svc.Create(ctx, &plant.Record{
		ScientificName: "Ficus lyrata",
		Images:         []plant.Image{{Small: "curated_s", Regular: "curated_r"}},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "curated_s", got.Images[0].Small)
	assert.Zero(t, img.calls)
}

func TestGetDegradesWhenImageProviderFails(t *testing.T) {
	ctx := context.Background()
	img := &stubImages{err: fmt.Errorf("boom")}
	svc, _, _ := newService(t, nil, img)

	created, err := svc.Create(ctx, &plant.Record{ScientificName: "Ficus lyrata"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestUpdateReplacesAliases(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t, nil, nil)

	created, err := svc.Create(ctx, &plant.Record{
		ScientificName: "Ficus lyrata",
		Aliases:        []string{"old alias one", "old alias two"},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &plant.Record{Aliases: []string{"brand new alias"}})
	require.NoError(t, err)

	for _, gone := range []string{"old alias one", "old alias two"} {
		ids, err := store.LookupByPrefix(ctx, gone)
		require.NoError(t, err)
		assert.Empty(t, ids, "stale alias %q must not survive", gone)
	}
	ids, err := store.LookupByPrefix(ctx, "brand")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids)
}

func TestUpdateRetainsUnsetFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, nil, nil)

	created, err := svc.Create(ctx, &plant.Record{
		ScientificName: "Ficus lyrata",
		Family:         "Moraceae",
		Watering:       &plant.Metric[int]{Value: 4, Confidence: 0.8},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &plant.Record{
		Light: &plant.Metric[int]{Value: 7, Confidence: 0.6},
	})
	require.NoError(t, err)

	assert.Equal(t, "Moraceae", updated.Family)
	assert.Equal(t, 4, updated.Watering.Value)
	assert.Equal(t, 7, updated.Light.Value)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)
	_, err := svc.Update(context.Background(), "missing", &plant.Record{Family: "x"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteRetractsAliases(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t, nil, nil)

	created, err := svc.Create(ctx, &plant.Record{
		ScientificName: "Ficus lyrata",
		Aliases:        []string{"fiddle leaf fig"},
	})
	require.NoError(t, err)

	found, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	ids, err := store.LookupByPrefix(ctx, "fiddle")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Derived tokens go too.
	ids, err = store.LookupByPrefix(ctx, "ficus")
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.Equal(t, ports.EventPlantDeleted, pub.events[len(pub.events)-1].Type)
}

func TestDeleteMissingReturnsFalse(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)
	found, err := svc.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearchOrdersByPopularityAndCaps(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, nil, nil)

	for i, pop := range []int{10, 90, 50} {
		_, err := svc.Create(ctx, &plant.Record{
			ScientificName: fmt.Sprintf("Popular plantus %d", i),
			Aliases:        []string{fmt.Sprintf("popcheck plant %d", i)},
			Popularity:     &plant.Metric[int]{Value: pop, Confidence: 1},
		})
		require.NoError(t, err)
	}

	cards, err := svc.Search(ctx, "popcheck")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, 90, cards[0].Popularity)
	assert.Equal(t, 50, cards[1].Popularity)
	assert.Equal(t, 10, cards[2].Popularity)
}

func TestSearchCapsResults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPlantStore(3)
	svc := NewLookupService(store, store, nil, nil, nil, LookupOptions{
		MaxSearchResults: 50,
		MaxImages:        5,
	}, zap.NewNop())

	for i := 0; i < 60; i++ {
		_, err := svc.Create(ctx, &plant.Record{
			ScientificName: fmt.Sprintf("Capped plantus v%d", i),
			Aliases:        []string{fmt.Sprintf("capcheck %d", i)},
		})
		require.NoError(t, err)
	}

	cards, err := svc.Search(ctx, "capcheck")
	require.NoError(t, err)
	assert.Len(t, cards, 50)
}

func TestSearchShortPrefixReturnsEmpty(t *testing.T) {
	svc, _, _ := newService(t, nil, nil)
	cards, err := svc.Search(context.Background(), "fi")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestGenerateReturnsSynthesizedRecordWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{record: &plant.Record{
		ScientificName: "Monstera deliciosa",
		Genus:          "Monstera",
		Species:        "deliciosa",
		Aliases:        []string{"Swiss Cheese Plant"},
		Watering:       &plant.Metric[int]{Value: 6, Confidence: 0.8},
	}}
	svc, store, _ := newService(t, gen, nil)

	rec, err := svc.Generate(ctx, "monstera")
	require.NoError(t, err)
	assert.Equal(t, "monstera_deliciosa", rec.ID)
	assert.Contains(t, rec.Aliases, "Swiss Cheese Plant")
	assert.Contains(t, rec.Aliases, "Monstera")

	_, ok, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, ok, "generate must not persist")
}

func TestGenerateFailureIsSurfaced(t *testing.T) {
	gen := &stubGenerator{err: apperrors.NewExternalError("bedrock", fmt.Errorf("malformed JSON"))}
	svc, _, _ := newService(t, gen, nil)

	_, err := svc.Generate(context.Background(), "monstera")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestGenerateEmptyResultIsNotFound(t *testing.T) {
	gen := &stubGenerator{record: &plant.Record{}}
	svc, _, _ := newService(t, gen, nil)

	_, err := svc.Generate(context.Background(), "monstera")
	assert.True(t, apperrors.IsNotFound(err))
}
