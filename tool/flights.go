package tool

import (
	"context"
	"net/http"
	"net/url"
)

const defaultFlightsBaseURL = "https://api.aviationstack.com/v1"

// FlightsClient searches scheduled flights.
type FlightsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewFlightsClient builds a client for the flight data API.
func NewFlightsClient(apiKey string, optFns ...func(o *Options)) *FlightsClient {
	opts := Options{BaseURL: defaultFlightsBaseURL, HTTPClient: defaultHTTPClient()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FlightsClient{apiKey: apiKey, baseURL: opts.BaseURL, httpClient: opts.HTTPClient}
}

// Search lists flights between two IATA airport codes on a date (YYYY-MM-DD,
// optional).
func (c *FlightsClient) Search(ctx context.Context, origin, destination, date string) (map[string]any, error) {
	params := url.Values{
		"access_key": {c.apiKey},
		"dep_iata":   {origin},
		"arr_iata":   {destination},
	}
	if date != "" {
		params.Set("flight_date", date)
	}
	return getJSON(ctx, c.httpClient, c.baseURL+"/flights", params)
}
