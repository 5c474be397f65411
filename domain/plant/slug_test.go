package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Monstera deliciosa", "monstera_deliciosa"},
		{"already slugged", "monstera_deliciosa", "monstera_deliciosa"},
		{"hyphenated", "monstera-deliciosa", "monstera_deliciosa"},
		{"surrounding whitespace", "  MONSTERA   DELICIOSA  ", "monstera_deliciosa"},
		{"symbol runs collapse", "ficus!!@@lyrata", "ficus_lyrata"},
		{"digits kept", "Sansevieria trifasciata 'Laurentii 2'", "sansevieria_trifasciata_laurentii_2"},
		{"empty", "", ""},
		{"all symbols", "!!!---***", ""},
		{"unicode stripped", "bromélia", "brom_lia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Monstera deliciosa",
		"  Ficus   lyrata!!",
		"épipremnum aureum",
		"",
		"a-b-c",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "Slugify must be idempotent for %q", in)
	}
}

func TestSlugifyDeterministicAcrossSpellings(t *testing.T) {
	want := Slugify("Monstera Deliciosa")
	assert.Equal(t, want, Slugify("monstera-deliciosa"))
	assert.Equal(t, want, Slugify("  MONSTERA   DELICIOSA  "))
}
