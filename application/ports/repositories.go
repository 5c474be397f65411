package ports

import (
	"context"

	"plantdb/domain/plant"
)

// PlantRepository defines the interface for canonical record persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type PlantRepository interface {
	// Get retrieves a record by its canonical id. A missing record is
	// reported through the found flag, not an error.
	Get(ctx context.Context, id string) (*plant.Record, bool, error)

	// Put stores a record under record.ID with full-replace semantics and
	// atomically applies the given alias index mutations. CreatedAt is
	// preserved by the caller when the record already exists.
	Put(ctx context.Context, record *plant.Record, index IndexUpdate) error

	// Delete removes a record and retracts its alias index entries in the
	// same operation. Returns whether a record existed and was removed.
	Delete(ctx context.Context, id string, index IndexUpdate) (bool, error)
}

// IndexUpdate describes the alias index mutations that accompany a record
// write. Removals are applied before insertions, so an alias present in both
// sets survives the write.
type IndexUpdate struct {
	// Remove lists alias tokens whose entries for the record must go away.
	Remove []string

	// Insert lists alias tokens to associate with the record. Re-inserting
	// an existing (id, token) pair is a no-op.
	Insert []string
}

// AliasIndex resolves lowercased alias tokens to canonical record ids.
type AliasIndex interface {
	// LookupByPrefix returns every canonical id whose alias set contains a
	// token starting with the lowercased prefix. Prefixes below the
	// configured minimum length and blank prefixes yield an empty set,
	// never an error.
	LookupByPrefix(ctx context.Context, prefix string) ([]string, error)
}
