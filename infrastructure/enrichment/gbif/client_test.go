package gbif

import (
	"context"
	"net/http"
	"testing"

	apperrors "plantdb/pkg/errors"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(Config{BaseURL: "https://gbif.test/v1"}, zap.NewNop())
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestMatch(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/match",
		httpmock.NewStringResponder(http.StatusOK, `{
			"usageKey": 2868241,
			"matchType": "EXACT",
			"scientificName": "Ficus lyrata Warb.",
			"canonicalName": "Ficus lyrata",
			"kingdom": "Plantae",
			"family": "Moraceae",
			"genus": "Ficus",
			"species": "Ficus lyrata"
		}`))

	result, found, err := c.Match(context.Background(), "Ficus lyrata")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2868241), result.UsageKey)
	assert.Equal(t, "Ficus lyrata", result.CanonicalName)
	assert.Equal(t, "Moraceae", result.Family)
}

func TestMatchNone(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/match",
		httpmock.NewStringResponder(http.StatusOK, `{"matchType": "NONE", "confidence": 100}`))

	result, found, err := c.Match(context.Background(), "not a plant at all")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, result)
}

func TestDetail(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/2868241",
		httpmock.NewStringResponder(http.StatusOK, `{
			"key": 2868241,
			"scientificName": "Ficus lyrata Warb.",
			"canonicalName": "Ficus lyrata",
			"kingdom": "Plantae",
			"phylum": "Tracheophyta",
			"class": "Magnoliopsida",
			"order": "Rosales",
			"family": "Moraceae",
			"genus": "Ficus",
			"species": "Ficus lyrata"
		}`))

	result, found, err := c.Detail(context.Background(), 2868241)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2868241), result.UsageKey)
	assert.Equal(t, "Tracheophyta", result.Phylum)
	assert.Equal(t, "Rosales", result.Order)
}

func TestDetailNotFound(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/999",
		httpmock.NewStringResponder(http.StatusNotFound, `{}`))

	result, found, err := c.Detail(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, result)
}

func TestMatchServerError(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/match",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `{}`))

	_, _, err := c.Match(context.Background(), "Ficus lyrata")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestMatchUsesCache(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, "https://gbif.test/v1/species/match",
		httpmock.NewStringResponder(http.StatusOK, `{"usageKey": 1, "matchType": "EXACT", "canonicalName": "Ficus lyrata"}`))

	_, _, err := c.Match(context.Background(), "Ficus lyrata")
	require.NoError(t, err)
	_, found, err := c.Match(context.Background(), "Ficus lyrata")
	require.NoError(t, err)
	assert.True(t, found)

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
