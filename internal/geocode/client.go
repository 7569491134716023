// Package geocode provides a best-effort reverse-geocoding client for a
// Nominatim-compatible HTTP API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 3 * time.Second

// Client calls a Nominatim-style /reverse endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode resolves coordinates to an address. Errors are
// expected and non-fatal; callers fall back to whatever address text
// they already hold.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	return body.DisplayName, nil
}
