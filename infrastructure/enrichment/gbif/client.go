// Package gbif resolves scientific names against the GBIF species backbone.
package gbif

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"plantdb/application/ports"
	apperrors "plantdb/pkg/errors"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Config holds GBIF client configuration
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.gbif.org/v1",
		Timeout:  15 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}

// Client implements ports.TaxonomyProvider against the GBIF species API.
// Responses are cached; backbone data changes rarely and the batch tooling
// revisits the same names often.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *zap.Logger
}

// NewClient creates a new GBIF client
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		cache:      gocache.New(config.CacheTTL, 2*config.CacheTTL),
		logger:     logger,
	}
}

// taxonResponse is the shared shape of /species/match and /species/{key}
type taxonResponse struct {
	UsageKey       int64  `json:"usageKey"`
	Key            int64  `json:"key"`
	MatchType      string `json:"matchType"`
	ScientificName string `json:"scientificName"`
	CanonicalName  string `json:"canonicalName"`
	Kingdom        string `json:"kingdom"`
	Phylum         string `json:"phylum"`
	Class          string `json:"class"`
	Order          string `json:"order"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	Species        string `json:"species"`
}

func (t *taxonResponse) toResult() *ports.TaxonomyResult {
	usageKey := t.UsageKey
	if usageKey == 0 {
		usageKey = t.Key
	}
	return &ports.TaxonomyResult{
		UsageKey:       usageKey,
		ScientificName: t.ScientificName,
		CanonicalName:  t.CanonicalName,
		Kingdom:        t.Kingdom,
		Phylum:         t.Phylum,
		Class:          t.Class,
		Order:          t.Order,
		Family:         t.Family,
		Genus:          t.Genus,
		Species:        t.Species,
	}
}

// Match resolves a free-text scientific name via /species/match. A NONE
// match type is a no-match outcome, not an error.
func (c *Client) Match(ctx context.Context, scientificName string) (*ports.TaxonomyResult, bool, error) {
	endpoint := fmt.Sprintf("%s/species/match?name=%s",
		c.config.BaseURL, url.QueryEscape(scientificName))

	var taxon taxonResponse
	if err := c.getJSON(ctx, endpoint, &taxon); err != nil {
		return nil, false, err
	}
	if taxon.MatchType == "" || taxon.MatchType == "NONE" {
		c.logger.Debug("No GBIF match", zap.String("name", scientificName))
		return nil, false, nil
	}
	return taxon.toResult(), true, nil
}

// Detail refines a match via /species/{usageKey}
func (c *Client) Detail(ctx context.Context, usageKey int64) (*ports.TaxonomyResult, bool, error) {
	endpoint := fmt.Sprintf("%s/species/%d", c.config.BaseURL, usageKey)

	var taxon taxonResponse
	if err := c.getJSON(ctx, endpoint, &taxon); err != nil {
		appErr := apperrors.GetAppError(err)
		if appErr != nil && appErr.HTTPStatus == http.StatusBadGateway && appErr.Details["status"] == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return taxon.toResult(), true, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	if cached, ok := c.cache.Get(endpoint); ok {
		return json.Unmarshal(cached.([]byte), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewExternalError("gbif", err)
	}
	req.Header.Set("User-Agent", "plantdb/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("gbif", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewExternalError("gbif",
			fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithDetails(map[string]interface{}{"status": resp.StatusCode})
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return apperrors.NewExternalError("gbif", fmt.Errorf("malformed payload: %w", err))
	}
	c.cache.SetDefault(endpoint, []byte(buf))
	return json.Unmarshal(buf, v)
}
