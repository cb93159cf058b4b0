// Package weather fetches current conditions for a shipment's receiver city
// from the OpenWeatherMap API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
)

// Client resolves a city name to coordinates and fetches its current
// weather. Lookups are two API calls: geocoding, then conditions.
type Client struct {
	apiKey     string
	httpClient *http.Client
	geocodeURL string
	weatherURL string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		geocodeURL: "http://api.openweathermap.org/geo/1.0/direct",
		weatherURL: "https://api.openweathermap.org/data/2.5/weather",
		logger:     logger,
		metrics:    metrics,
	}
}

// CurrentByCity returns the current weather for a city. Temperatures are
// metric.
func (c *Client) CurrentByCity(ctx context.Context, city string) (domain.Weather, error) {
	start := time.Now()
	w, err := c.currentByCity(ctx, city)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Weather{}, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return w, nil
}

func (c *Client) currentByCity(ctx context.Context, city string) (domain.Weather, error) {
	lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return domain.Weather{}, err
	}

	params := url.Values{
		"lat":   {fmt.Sprintf("%f", lat)},
		"lon":   {fmt.Sprintf("%f", lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var resp weatherResponse
	if err := c.doRequest(ctx, c.weatherURL+"?"+params.Encode(), &resp); err != nil {
		return domain.Weather{}, err
	}

	w := domain.Weather{}
	temp := resp.Main.Temp
	w.Temp = &temp
	if len(resp.Weather) > 0 {
		w.Description = resp.Weather[0].Description
	}
	return w, nil
}

// geocode resolves a city name to coordinates using the first match.
func (c *Client) geocode(ctx context.Context, city string) (lat, lon float64, err error) {
	params := url.Values{
		"q":     {city},
		"limit": {"1"},
		"appid": {c.apiKey},
	}

	var results []geocodeResult
	if err := c.doRequest(ctx, c.geocodeURL+"?"+params.Encode(), &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no coordinates found for %s", city)
	}
	return results[0].Lat, results[0].Lon, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// OpenWeatherMap API response types.

type geocodeResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}
