// Package tool provides thin HTTP clients for the external travel data
// APIs (weather forecasts, place search, flight search). Handlers fold the
// returned data into their prompts; a tool failure degrades the prompt, it
// never fails the handler.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Options holds overrides shared by all tool clients.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultRequestTimeout}
}

// getJSON performs a GET with the given query parameters and decodes the
// JSON response body.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}
