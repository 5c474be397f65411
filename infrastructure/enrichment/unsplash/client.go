// Package unsplash provides plant photo search backed by the Unsplash API.
package unsplash

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

const (
	perPage    = 10
	maxRetries = 3
	retryDelay = 2 * time.Second
)

// Config holds Unsplash client settings
type Config struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.unsplash.com",
		Timeout: 10 * time.Second,
	}
}

// Client implements ports.ImageProvider against Unsplash
type Client struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Unsplash client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		accessKey:  cfg.AccessKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	Results []struct {
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Small   string `json:"small"`
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"results"`
}

// Search returns photos for the query, retrying transient failures.
func (c *Client) Search(ctx context.Context, query string) ([]plant.Image, error) {
	if c.accessKey == "" {
		return nil, apperrors.NewExternalError("unsplash",
			fmt.Errorf("access key not configured"))
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=%d&content_filter=high&client_id=%s",
		c.baseURL, url.QueryEscape(query), perPage, url.QueryEscape(c.accessKey))

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		images, err := c.search(ctx, endpoint)
		if err == nil {
			c.logger.Debug("Unsplash search completed",
				zap.String("query", query),
				zap.Int("count", len(images)),
			)
			return images, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("Unsplash search attempt failed",
			zap.String("query", query),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxRetries {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, apperrors.NewExternalError("unsplash", ctx.Err())
			}
		}
	}
	return nil, apperrors.NewExternalError("unsplash", lastErr)
}

func (c *Client) search(ctx context.Context, endpoint string) ([]plant.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	images := make([]plant.Image, 0, len(body.Results))
	for _, r := range body.Results {
		images = append(images, plant.Image{
			Small:   r.URLs.Small,
			Regular: r.URLs.Regular,
			Alt:     r.AltDescription,
			Author:  r.User.Name,
			Source:  r.Links.HTML,
		})
	}
	return images, nil
}
