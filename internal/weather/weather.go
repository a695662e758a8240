// Package weather fetches current conditions from the OpenWeather API.
//
// The lookup is strictly best-effort: one request, a 5 second timeout, no
// retry, no caching. Every failure mode — transport error, timeout,
// non-2xx status, malformed body — collapses into ErrUnavailable so the
// dashboard can degrade to "no weather panel" instead of failing the
// whole render. The cause is logged, never surfaced to the user.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable is returned for every failed lookup. Callers treat it as
// "no data available", not as an error worth propagating.
var ErrUnavailable = errors.New("weather: no data available")

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	requestTimeout = 5 * time.Second

	// countryCode narrows the city query, mirroring the city-switcher
	// list which is Nepali cities only.
	countryCode = "NP"
)

// Snapshot is the view of current conditions the dashboard renders.
type Snapshot struct {
	City        string `json:"city"`
	Temp        int    `json:"temp"`        // metric, rounded to nearest degree
	Description string `json:"description"` // human-readable, title-cased
	Humidity    int    `json:"humidity"`    // percentage
	Condition   string `json:"condition"`   // lowercase keyword, e.g. "clouds"
}

// Client calls the OpenWeather current-conditions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a weather client. The API key comes from the environment;
// an empty key isn't rejected here — the first lookup will fail with a
// 401 and degrade like any other failure.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// NewWithBaseURL creates a client pointed at a custom endpoint. Tests use
// this with an httptest.Server.
func NewWithBaseURL(apiKey, baseURL string, logger *slog.Logger) *Client {
	c := New(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// openWeatherResponse mirrors just the fields we read from the API's
// much larger response body.
type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Current returns a snapshot of current conditions for the given city,
// or ErrUnavailable if anything at all goes wrong.
func (c *Client) Current(ctx context.Context, city string) (*Snapshot, error) {
	snapshot, err := c.fetch(ctx, city)
	if err != nil {
		// One log line per failed lookup, with the real cause. The
		// caller only ever sees ErrUnavailable.
		c.logger.Warn("weather lookup failed",
			slog.String("city", city),
			slog.String("error", err.Error()),
		)
		return nil, ErrUnavailable
	}
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, city string) (*Snapshot, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", city, countryCode))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OpenWeather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenWeather returned status %d", resp.StatusCode)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(body.Weather) == 0 {
		return nil, fmt.Errorf("response has no weather entries")
	}

	return &Snapshot{
		City:        city,
		Temp:        int(math.Round(body.Main.Temp)),
		Description: titleCase(body.Weather[0].Description),
		Humidity:    body.Main.Humidity,
		Condition:   strings.ToLower(body.Weather[0].Main),
	}, nil
}

// titleCase upper-cases the first letter of each space-separated word.
// OpenWeather descriptions are plain lowercase ASCII ("scattered clouds"),
// so a simple split is all the title-casing this needs.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
