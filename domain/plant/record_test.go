package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAliases(t *testing.T) {
	got := NormalizeAliases([]string{"Fiddle Leaf Fig", "  ", "fiddle leaf fig", "Banjo Fig", ""})
	assert.Equal(t, []string{"fiddle leaf fig", "banjo fig"}, got)
}

func TestStripKeyPrefix(t *testing.T) {
	assert.Equal(t, "ficus_lyrata", StripKeyPrefix("PLANT#ficus_lyrata"))
	assert.Equal(t, "ficus_lyrata", StripKeyPrefix("ficus_lyrata"))
}

func TestToCard(t *testing.T) {
	rec := Record{
		ID:             "ficus_lyrata",
		ScientificName: "Ficus lyrata",
		Popularity:     &Metric[int]{Value: 72, Confidence: 0.8},
		Images: []Image{
			{Small: "https://img/s1", Regular: "https://img/r1"},
			{Small: "https://img/s2", Regular: "https://img/r2"},
		},
	}
	card := rec.ToCard()
	assert.Equal(t, "ficus_lyrata", card.ID)
	assert.Equal(t, "Ficus lyrata", card.ScientificName)
	assert.Equal(t, "https://img/s1", card.Thumbnail)
	assert.Equal(t, 72, card.Popularity)
}

func TestToCardMissingPopularityAndImages(t *testing.T) {
	rec := Record{ID: "x", ScientificName: "X"}
	card := rec.ToCard()
	assert.Empty(t, card.Thumbnail)
	assert.Zero(t, card.Popularity)
}

func TestFallbackAliases(t *testing.T) {
	got := FallbackAliases("Ficus lyrata", []string{"Fiddle Leaf Fig"})
	assert.Contains(t, got, "fiddle leaf fig")
	assert.Contains(t, got, "ficus")
	assert.Contains(t, got, "lyrata")
}
