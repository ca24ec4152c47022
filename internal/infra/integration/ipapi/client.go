package ipapi

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultIPLookupURL  = "https://api.ipify.org"
	DefaultGeoLookupURL = "https://ipapi.co"
)

// Client resolves the public address of the caller and its city.
type Client struct {
	ipLookupURL  string
	geoLookupURL string
	httpClient   *http.Client
}

func NewClient(ipLookupURL, geoLookupURL string) *Client {
	if ipLookupURL == "" {
		ipLookupURL = DefaultIPLookupURL
	}
	if geoLookupURL == "" {
		geoLookupURL = DefaultGeoLookupURL
	}
	return &Client{
		ipLookupURL:  ipLookupURL,
		geoLookupURL: strings.TrimRight(geoLookupURL, "/"),
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublicIP asks the lookup service for the address it sees.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.ipLookupURL)
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(body)
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("ip lookup returned %q", ip)
	}
	return ip, nil
}

// City returns the approximate city of ip.
func (c *Client) City(ctx context.Context, ip string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/city/", c.geoLookupURL, ip))
	if err != nil {
		return "", err
	}
	city := strings.TrimSpace(body)
	if city == "" || strings.EqualFold(city, "undefined") {
		return "", fmt.Errorf("no city for %s", ip)
	}
	return city, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "bizdev-chatbot/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup %s: status %d", url, resp.StatusCode)
	}
	return string(body), nil
}
