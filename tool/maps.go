package tool

import (
	"context"
	"net/http"
	"net/url"
)

const defaultMapsBaseURL = "https://maps.googleapis.com/maps/api"

// MapsClient searches for places and points of interest.
type MapsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewMapsClient builds a client for the maps API.
func NewMapsClient(apiKey string, optFns ...func(o *Options)) *MapsClient {
	opts := Options{BaseURL: defaultMapsBaseURL, HTTPClient: defaultHTTPClient()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &MapsClient{apiKey: apiKey, baseURL: opts.BaseURL, httpClient: opts.HTTPClient}
}

// Search runs a free-text place search.
func (c *MapsClient) Search(ctx context.Context, query string) (map[string]any, error) {
	params := url.Values{
		"key":   {c.apiKey},
		"query": {query},
	}
	return getJSON(ctx, c.httpClient, c.baseURL+"/place/textsearch/json", params)
}
