package pexels

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

func newTestClient(t *testing.T, apiKey string) *Client {
	t.Helper()
	c := NewClient(Config{APIKey: apiKey, BaseURL: "https://pexels.test/v1"}, zap.NewNop())
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, "test-key")

	httpmock.RegisterResponder(http.MethodGet, "https://pexels.test/v1/search",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "test-key", req.Header.Get("Authorization"))
			assert.Equal(t, "landscape", req.URL.Query().Get("orientation"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"photos": [
					{
						"url": "https://pexels.test/photo/1",
						"photographer": "Jane Doe",
						"alt": "A fiddle leaf fig",
						"src": {"medium": "https://img.test/1-m.jpg", "large": "https://img.test/1-l.jpg"}
					},
					{
						"url": "https://pexels.test/photo/2",
						"photographer": "John Roe",
						"alt": "",
						"src": {"medium": "https://img.test/2-m.jpg", "large": "https://img.test/2-l.jpg"}
					}
				]
			}`), nil
		})

	images, err := c.Search(context.Background(), "fiddle leaf fig plant")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.test/1-m.jpg", images[0].Small)
	assert.Equal(t, "https://img.test/1-l.jpg", images[0].Regular)
	assert.Equal(t, "Jane Doe", images[0].Author)
	assert.Equal(t, "https://pexels.test/photo/1", images[0].Source)
}

func TestSearchWithoutKey(t *testing.T) {
	c := newTestClient(t, "")

	images, err := c.Search(context.Background(), "monstera plant")
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestSearchRateLimited(t *testing.T) {
	c := newTestClient(t, "test-key")

	httpmock.RegisterResponder(http.MethodGet, "https://pexels.test/v1/search",
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{}`))

	_, err := c.Search(context.Background(), "monstera plant")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
