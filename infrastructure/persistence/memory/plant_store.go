package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"plantdb/application/ports"
	"plantdb/domain/plant"
)

// DefaultShardKey collects alias tokens that do not start with an ASCII
// letter.
const DefaultShardKey = "_"

// PlantStore provides an in-memory implementation of ports.PlantRepository
// and ports.AliasIndex, used by local development and tests. The alias index
// is sharded by the first letter of the alias token to bound per-shard map
// size; sharding does not change lookup semantics.
type PlantStore struct {
	mu              sync.RWMutex
	records         map[string]plant.Record
	shards          map[string]map[string]map[string]struct{} // shard -> alias -> set of ids
	minPrefixLength int
}

// NewPlantStore creates a new in-memory plant store
func NewPlantStore(minPrefixLength int) *PlantStore {
	return &PlantStore{
		records:         make(map[string]plant.Record),
		shards:          make(map[string]map[string]map[string]struct{}),
		minPrefixLength: minPrefixLength,
	}
}

func shardKey(alias string) string {
	if alias == "" {
		return DefaultShardKey
	}
	if c := alias[0]; c >= 'a' && c <= 'z' {
		return string(c)
	}
	return DefaultShardKey
}

// Get retrieves a record by id
func (s *PlantStore) Get(ctx context.Context, id string) (*plant.Record, bool, error) {
	id = plant.StripKeyPrefix(id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}
	cp := rec
	return &cp, true, nil
}

// Put stores a record and applies the alias index mutations atomically under
// the store lock.
func (s *PlantStore) Put(ctx context.Context, record *plant.Record, index ports.IndexUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = *record
	for _, alias := range index.Remove {
		s.deindexLocked(record.ID, alias)
	}
	for _, alias := range index.Insert {
		s.indexLocked(record.ID, alias)
	}
	return nil
}

// Delete removes a record and its alias entries
func (s *PlantStore) Delete(ctx context.Context, id string, index ports.IndexUpdate) (bool, error) {
	id = plant.StripKeyPrefix(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	for _, alias := range index.Remove {
		s.deindexLocked(id, alias)
	}
	return true, nil
}

// LookupByPrefix returns the ids of all records with an alias starting with
// the lowercased prefix. Blank and too-short prefixes yield an empty set.
func (s *PlantStore) LookupByPrefix(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < s.minPrefixLength {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	shard := s.shards[shardKey(prefix)]
	seen := make(map[string]struct{})
	var ids []string
	for alias, targets := range shard {
		if !strings.HasPrefix(alias, prefix) {
			continue
		}
		for id := range targets {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *PlantStore) indexLocked(id, alias string) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		return
	}
	key := shardKey(alias)
	shard, ok := s.shards[key]
	if !ok {
		shard = make(map[string]map[string]struct{})
		s.shards[key] = shard
	}
	targets, ok := shard[alias]
	if !ok {
		targets = make(map[string]struct{})
		shard[alias] = targets
	}
	targets[id] = struct{}{}
}

func (s *PlantStore) deindexLocked(id, alias string) {
	alias = strings.ToLower(strings.TrimSpace(alias))
	shard, ok := s.shards[shardKey(alias)]
	if !ok {
		return
	}
	targets, ok := shard[alias]
	if !ok {
		return
	}
	delete(targets, id)
	if len(targets) == 0 {
		delete(shard, alias)
	}
}

// Snapshot returns the alias shard map as shard -> alias -> sorted target
// ids, for the offline alias snapshot emitted by plantctl.
func (s *PlantStore) Snapshot() map[string]map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string][]string, len(s.shards))
	for key, shard := range s.shards {
		aliases := make(map[string][]string, len(shard))
		for alias, targets := range shard {
			ids := make([]string, 0, len(targets))
			for id := range targets {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			aliases[alias] = ids
		}
		out[key] = aliases
	}
	return out
}
