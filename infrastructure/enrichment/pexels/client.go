// Package pexels provides plant photo search backed by the Pexels API.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"plantdb/domain/plant"
	apperrors "plantdb/pkg/errors"

	"go.uber.org/zap"
)

const perPage = 5

// Config holds Pexels client settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.pexels.com/v1",
		Timeout: 10 * time.Second,
	}
}

// Client implements ports.ImageProvider against Pexels
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Pexels client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	Photos []struct {
		URL          string `json:"url"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Medium string `json:"medium"`
			Large  string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns landscape photos for the query. A missing API key degrades
// to an empty result so lookups keep working without image enrichment.
func (c *Client) Search(ctx context.Context, query string) ([]plant.Image, error) {
	if c.apiKey == "" {
		c.logger.Warn("Pexels API key not configured, skipping image search")
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&orientation=landscape&per_page=%d",
		c.baseURL, url.QueryEscape(query), perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("pexels", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("pexels", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError("pexels",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.NewExternalError("pexels", err)
	}

	images := make([]plant.Image, 0, len(body.Photos))
	for _, p := range body.Photos {
		images = append(images, plant.Image{
			Small:   p.Src.Medium,
			Regular: p.Src.Large,
			Alt:     p.Alt,
			Author:  p.Photographer,
			Source:  p.URL,
		})
	}

	c.logger.Debug("Pexels search completed",
		zap.String("query", query),
		zap.Int("count", len(images)),
	)
	return images, nil
}
