package unsplash

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

func newTestClient(t *testing.T, accessKey string) *Client {
	t.Helper()
	c := NewClient(Config{AccessKey: accessKey, BaseURL: "https://unsplash.test"}, zap.NewNop())
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, "test-access-key")

	httpmock.RegisterResponder(http.MethodGet, "https://unsplash.test/search/photos",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "test-access-key", q.Get("client_id"))
			assert.Equal(t, "high", q.Get("content_filter"))
			return httpmock.NewStringResponse(http.StatusOK, `{
				"results": [
					{
						"alt_description": "green monstera leaves",
						"urls": {"small": "https://img.test/1-s.jpg", "regular": "https://img.test/1-r.jpg"},
						"user": {"name": "Jane Doe"},
						"links": {"html": "https://unsplash.test/photos/1"}
					}
				]
			}`), nil
		})

	images, err := c.Search(context.Background(), "monstera deliciosa plant")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.test/1-s.jpg", images[0].Small)
	assert.Equal(t, "https://img.test/1-r.jpg", images[0].Regular)
	assert.Equal(t, "green monstera leaves", images[0].Alt)
	assert.Equal(t, "Jane Doe", images[0].Author)
	assert.Equal(t, "https://unsplash.test/photos/1", images[0].Source)
}

func TestSearchWithoutKey(t *testing.T) {
	c := newTestClient(t, "")

	_, err := c.Search(context.Background(), "monstera plant")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestSearchRetriesThenSucceeds(t *testing.T) {
	c := newTestClient(t, "test-access-key")

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, "https://unsplash.test/search/photos",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusServiceUnavailable, `{}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"results": []}`), nil
		})

	images, err := c.Search(context.Background(), "monstera plant")
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 2, calls)
}
