// Package geocode resolves street addresses to coordinates through a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
)

type Point struct {
	Latitude  float64
	Longitude float64
}

// Geocoder returns nil when an address cannot be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) *Point
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

func NewClient(cfg config.GeocodingConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode never fails the caller; lookup errors are logged and yield nil.
func (c *Client) Geocode(ctx context.Context, address string) *Point {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil
	}

	p, err := c.lookup(ctx, address)
	if err != nil {
		c.logger.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return nil
	}
	return p
}

func (c *Client) lookup(ctx context.Context, address string) (*Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no match")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("lon: %w", err)
	}
	return &Point{Latitude: lat, Longitude: lon}, nil
}

// FullAddress joins the non-empty address parts for a lookup.
func FullAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
