package plant

import (
	"strings"
)

// KeyPrefix marks canonical record partition keys in the store.
// A record for Monstera deliciosa lives under "PLANT#monstera_deliciosa".
const KeyPrefix = "PLANT#"

// SoilType enumerates the soil classes the generative provider may return.
type SoilType string

const (
	SoilLoamy  SoilType = "loamy"
	SoilClay   SoilType = "clay"
	SoilSandy  SoilType = "sandy"
	SoilPeaty  SoilType = "peaty"
	SoilSaline SoilType = "saline"
	SoilChalky SoilType = "chalky"
	SoilSilty  SoilType = "silty"
)

// Metric pairs a measured or generated value with the provider's confidence
// in it, on a 0.0-1.0 scale.
type Metric[T any] struct {
	Value      T       `json:"value" dynamodbav:"value"`
	Confidence float64 `json:"confidence" dynamodbav:"confidence"`
}

// Attributes holds free-form care attributes. All fields are optional; any
// stored record validates against this permissive shape.
type Attributes struct {
	Toxicity         string `json:"toxicity,omitempty" dynamodbav:"toxicity,omitempty"`
	Origin           string `json:"origin,omitempty" dynamodbav:"origin,omitempty"`
	NativeHeight     string `json:"nativeHeight,omitempty" dynamodbav:"nativeHeight,omitempty"`
	LeafSize         string `json:"leafSize,omitempty" dynamodbav:"leafSize,omitempty"`
	GrowthRate       string `json:"growthRate,omitempty" dynamodbav:"growthRate,omitempty"`
	MaintenanceLevel string `json:"maintenanceLevel,omitempty" dynamodbav:"maintenanceLevel,omitempty"`
	AirPurifying     string `json:"airPurifying,omitempty" dynamodbav:"airPurifying,omitempty"`
	PetFriendly      string `json:"petFriendly,omitempty" dynamodbav:"petFriendly,omitempty"`
}

// Image is one normalized image descriptor. Small and Regular are required;
// entries missing either are discarded before they reach a record.
type Image struct {
	Small   string `json:"small" dynamodbav:"small"`
	Regular string `json:"regular" dynamodbav:"regular"`
	Alt     string `json:"alt,omitempty" dynamodbav:"alt,omitempty"`
	Author  string `json:"author,omitempty" dynamodbav:"author,omitempty"`
	Source  string `json:"source,omitempty" dynamodbav:"source,omitempty"`
}

// Record is the canonical entity for one taxon. ID is derived from the
// scientific name by Slugify and is immutable once assigned.
type Record struct {
	ID             string `json:"id" dynamodbav:"-"`
	ScientificName string `json:"scientificName" dynamodbav:"ScientificName"`

	Kingdom string `json:"kingdom,omitempty" dynamodbav:"Kingdom,omitempty"`
	Phylum  string `json:"phylum,omitempty" dynamodbav:"Phylum,omitempty"`
	Class   string `json:"class,omitempty" dynamodbav:"Class,omitempty"`
	Order   string `json:"order,omitempty" dynamodbav:"Order,omitempty"`
	Family  string `json:"family,omitempty" dynamodbav:"Family,omitempty"`
	Genus   string `json:"genus,omitempty" dynamodbav:"Genus,omitempty"`
	Species string `json:"species,omitempty" dynamodbav:"Species,omitempty"`

	Aliases []string `json:"aliases" dynamodbav:"Aliases"`

	Watering    *Metric[int]      `json:"watering,omitempty" dynamodbav:"Watering,omitempty"`
	Light       *Metric[int]      `json:"light,omitempty" dynamodbav:"Light,omitempty"`
	Humidity    *Metric[int]      `json:"humidity,omitempty" dynamodbav:"Humidity,omitempty"`
	Temperature *Metric[string]   `json:"temperature,omitempty" dynamodbav:"Temperature,omitempty"`
	Popularity  *Metric[int]      `json:"popularity,omitempty" dynamodbav:"Popularity,omitempty"`
	Soil        *Metric[SoilType] `json:"soil,omitempty" dynamodbav:"Soil,omitempty"`

	Attributes *Attributes `json:"attributes,omitempty" dynamodbav:"Attributes,omitempty"`
	Images     []Image     `json:"images,omitempty" dynamodbav:"Images,omitempty"`

	CreatedAt string `json:"createdAt" dynamodbav:"CreatedAt"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"UpdatedAt"`
}

// Card is the lightweight search projection of a record.
type Card struct {
	ID             string `json:"id"`
	ScientificName string `json:"scientificName"`
	Thumbnail      string `json:"thumbnail,omitempty"`

	// Popularity orders search results; missing popularity sorts last.
	Popularity int `json:"-"`
}

// ToCard projects a record onto its search card.
func (r *Record) ToCard() Card {
	c := Card{ID: r.ID, ScientificName: r.ScientificName}
	if len(r.Images) > 0 {
		c.Thumbnail = r.Images[0].Small
	}
	if r.Popularity != nil {
		c.Popularity = r.Popularity.Value
	}
	return c
}

// Key returns the record's partition key.
func (r *Record) Key() string {
	return KeyPrefix + r.ID
}

// StripKeyPrefix removes a leading "PLANT#" marker, if present, so callers
// may pass either a bare id or a full partition key.
func StripKeyPrefix(id string) string {
	return strings.TrimPrefix(id, KeyPrefix)
}

// NormalizeAliases lowercases and trims aliases, dropping empties and
// case-insensitive duplicates. The first-seen casing decides the stored form,
// which after lowercasing is the first occurrence itself.
func NormalizeAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
