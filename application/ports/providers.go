package ports

import (
	"context"

	"plantdb/domain/plant"
)

// TaxonomyResult is the common shape of taxonomy-match and taxonomy-detail
// responses from the biodiversity backbone.
type TaxonomyResult struct {
	UsageKey       int64
	ScientificName string
	CanonicalName  string
	Kingdom        string
	Phylum         string
	Class          string
	Order          string
	Family         string
	Genus          string
	Species        string
}

// TaxonomyProvider resolves scientific names against a taxonomy backbone.
type TaxonomyProvider interface {
	// Match resolves a free-text scientific name. A no-match outcome is
	// reported through the found flag.
	Match(ctx context.Context, scientificName string) (*TaxonomyResult, bool, error)

	// Detail refines a match by its usage key.
	Detail(ctx context.Context, usageKey int64) (*TaxonomyResult, bool, error)
}

// AttributeGenerator synthesizes a full record from a bare name query.
// Malformed provider output is surfaced as an error, there is no partial
// data to degrade to on this path.
type AttributeGenerator interface {
	Generate(ctx context.Context, query string) (*plant.Record, error)
}

// ImageProvider searches a stock-photo backend for plant imagery. Results
// are normalized descriptors; entries missing required URLs are already
// discarded by the implementation.
type ImageProvider interface {
	Search(ctx context.Context, query string) ([]plant.Image, error)
}

// MutationEvent reports a record write to downstream consumers. EventID is
// unique per publication so consumers can deduplicate redeliveries.
type MutationEvent struct {
	EventID        string `json:"eventId"`
	Type           string `json:"type"`
	ID             string `json:"id"`
	ScientificName string `json:"scientificName"`
	OccurredAt     string `json:"occurredAt"`
}

// Mutation event types.
const (
	EventPlantCreated = "plant.created"
	EventPlantUpdated = "plant.updated"
	EventPlantDeleted = "plant.deleted"
)

// EventPublisher publishes record-mutation events. Publish failures are a
// logging concern, not a caller fault.
type EventPublisher interface {
	Publish(ctx context.Context, event MutationEvent) error
}
