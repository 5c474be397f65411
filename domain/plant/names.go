package plant

import (
	"strings"
	"sync"

	"github.com/gnames/gnparser"
)

// Parser instances keep compiled grammar state, so they are pooled rather
// than rebuilt per call.
var parserPool = sync.Pool{
	New: func() any {
		return gnparser.New(gnparser.NewConfig())
	},
}

// CanonicalTokens parses a scientific name and returns its lowercased
// canonical epithets (genus, species, infraspecies). These serve as fallback
// aliases so a record stays findable even when no common name is known.
// Unparseable names, surrogates and hybrids yield nil.
func CanonicalTokens(name string) []string {
	gnp := parserPool.Get().(gnparser.GNparser)
	defer parserPool.Put(gnp)

	p := gnp.ParseName(name)
	if !p.Parsed || p.Canonical == nil || p.Surrogate != nil || p.Hybrid != nil {
		return nil
	}
	return strings.Fields(strings.ToLower(p.Canonical.Simple))
}

// FallbackAliases returns the record's aliases extended with genus/species
// tokens derived from the scientific name, normalized and deduplicated.
func FallbackAliases(scientificName string, aliases []string) []string {
	merged := make([]string, 0, len(aliases)+3)
	merged = append(merged, aliases...)
	merged = append(merged, CanonicalTokens(scientificName)...)
	return NormalizeAliases(merged)
}
