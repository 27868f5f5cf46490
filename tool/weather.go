package tool

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const defaultWeatherBaseURL = "https://api.weatherapi.com/v1"

// WeatherClient fetches forecasts for travel destinations.
type WeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherClient builds a client for the weather API.
func NewWeatherClient(apiKey string, optFns ...func(o *Options)) *WeatherClient {
	opts := Options{BaseURL: defaultWeatherBaseURL, HTTPClient: defaultHTTPClient()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WeatherClient{apiKey: apiKey, baseURL: opts.BaseURL, httpClient: opts.HTTPClient}
}

// Forecast returns the forecast for a location. Date defaults to today when
// empty; the API expects YYYY-MM-DD.
func (c *WeatherClient) Forecast(ctx context.Context, location, date string) (map[string]any, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	params := url.Values{
		"key": {c.apiKey},
		"q":   {location},
		"dt":  {date},
		"aqi": {"no"},
	}
	return getJSON(ctx, c.httpClient, c.baseURL+"/forecast.json", params)
}
