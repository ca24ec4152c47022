package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var ErrNotConfigured = errors.New("openweather: api key not configured")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Condition returns the lower-cased main condition ("rain", "clear", ...)
// currently reported for city.
func (c *Client) Condition(ctx context.Context, city string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openweather: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || len(result.Weather) == 0 {
		return "", fmt.Errorf("openweather: status %d: %s", resp.StatusCode, result.Message)
	}

	return strings.ToLower(result.Weather[0].Main), nil
}
