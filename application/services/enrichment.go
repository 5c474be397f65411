package services

import (
	"strings"

	"plantdb/application/ports"
	"plantdb/domain/plant"
)

// The merge rules in this file are deliberately asymmetric: taxonomy fields
// trust the provider (detail response over match response over whatever the
// caller supplied), while Metric-typed attributes never overwrite an
// existing curated value and only fill gaps.

// MergeTaxonomy applies taxonomy-match and taxonomy-detail responses to a
// record, field by field. The detail response wins over the match response;
// the record's own value survives only when neither provider returned one.
// Either result may be nil.
func MergeTaxonomy(base *plant.Record, match, detail *ports.TaxonomyResult) {
	pick := func(current string, fromMatch, fromDetail string) string {
		if fromDetail != "" {
			return fromDetail
		}
		if fromMatch != "" {
			return fromMatch
		}
		return current
	}

	var m, d ports.TaxonomyResult
	if match != nil {
		m = *match
	}
	if detail != nil {
		d = *detail
	}

	if canonical := pick("", m.CanonicalName, d.CanonicalName); canonical != "" {
		base.ScientificName = canonical
	}
	base.Kingdom = pick(base.Kingdom, m.Kingdom, d.Kingdom)
	base.Phylum = pick(base.Phylum, m.Phylum, d.Phylum)
	base.Class = pick(base.Class, m.Class, d.Class)
	base.Order = pick(base.Order, m.Order, d.Order)
	base.Family = pick(base.Family, m.Family, d.Family)
	base.Genus = pick(base.Genus, m.Genus, d.Genus)
	base.Species = pick(base.Species, m.Species, d.Species)
}

// MergeGenerated fills gaps in base from a generated enrichment record.
// Metric-typed attributes are taken from the enrichment only when base has
// no value; an existing curated value is never overwritten. Aliases are
// unioned. Both taxonomy strings and free-form attributes follow the same
// fill-gaps rule.
func MergeGenerated(base, enrichment *plant.Record) {
	if enrichment == nil {
		return
	}

	fillStr := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fillStr(&base.ScientificName, enrichment.ScientificName)
	fillStr(&base.Kingdom, enrichment.Kingdom)
	fillStr(&base.Phylum, enrichment.Phylum)
	fillStr(&base.Class, enrichment.Class)
	fillStr(&base.Order, enrichment.Order)
	fillStr(&base.Family, enrichment.Family)
	fillStr(&base.Genus, enrichment.Genus)
	fillStr(&base.Species, enrichment.Species)

	if base.Watering == nil {
		base.Watering = enrichment.Watering
	}
	if base.Light == nil {
		base.Light = enrichment.Light
	}
	if base.Humidity == nil {
		base.Humidity = enrichment.Humidity
	}
	if base.Temperature == nil {
		base.Temperature = enrichment.Temperature
	}
	if base.Popularity == nil {
		base.Popularity = enrichment.Popularity
	}
	if base.Soil == nil {
		base.Soil = enrichment.Soil
	}

	if enrichment.Attributes != nil {
		if base.Attributes == nil {
			base.Attributes = &plant.Attributes{}
		}
		fillStr(&base.Attributes.Toxicity, enrichment.Attributes.Toxicity)
		fillStr(&base.Attributes.Origin, enrichment.Attributes.Origin)
		fillStr(&base.Attributes.NativeHeight, enrichment.Attributes.NativeHeight)
		fillStr(&base.Attributes.LeafSize, enrichment.Attributes.LeafSize)
		fillStr(&base.Attributes.GrowthRate, enrichment.Attributes.GrowthRate)
		fillStr(&base.Attributes.MaintenanceLevel, enrichment.Attributes.MaintenanceLevel)
		fillStr(&base.Attributes.AirPurifying, enrichment.Attributes.AirPurifying)
		fillStr(&base.Attributes.PetFriendly, enrichment.Attributes.PetFriendly)
	}

	base.Aliases = MergeAliases(base.Aliases, strings.Join(enrichment.Aliases, ","), enrichment.Genus, enrichment.Species)
}

// MergeAliases unions alias sources: the existing aliases, a comma-separated
// alias string from an enrichment payload, and the enrichment's genus and
// species tokens. Duplicates are dropped case-insensitively; the first-seen
// casing of each unique token is preserved.
func MergeAliases(existing []string, commaSeparated string, extra ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(alias string) {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return
		}
		key := strings.ToLower(alias)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, alias)
	}

	for _, a := range existing {
		add(a)
	}
	for _, a := range strings.Split(commaSeparated, ",") {
		add(a)
	}
	for _, a := range extra {
		add(a)
	}
	return out
}

// NormalizeImages drops descriptors missing a required URL and caps the
// result length.
func NormalizeImages(images []plant.Image, maxImages int) []plant.Image {
	out := make([]plant.Image, 0, len(images))
	for _, img := range images {
		if img.Small == "" || img.Regular == "" {
			continue
		}
		out = append(out, img)
		if len(out) == maxImages {
			break
		}
	}
	return out
}
