package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-records/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap v2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

const maxBodyBytes = 1 << 20

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider builds a provider calling baseURL (DefaultOpenWeatherBaseURL
// when empty). The zero Resilience performs a single attempt per lookup.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string, res Resilience) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: res.httpConfig(client),
		circuit: newCircuitBreaker("openweather", res.CircuitBreaker),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Lookup fetches the current weather for city in metric units.
func (p *OpenWeatherProvider) Lookup(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrLookupFailed)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s/weather?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		if isTimeout(err) {
			return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrTimeout, err)
		}
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return weather.Reading{}, fmt.Errorf("%w: %q (status %d)", weather.ErrCityNotFound, city, resp.StatusCode)
	default:
		return weather.Reading{}, fmt.Errorf("%w: unexpected status %d", weather.ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrTimeout, err)
		}
		return weather.Reading{}, fmt.Errorf("%w: read body: %v", weather.ErrLookupFailed, err)
	}

	reading, err := decodeOpenWeather(body)
	if err != nil {
		return weather.Reading{}, err
	}
	reading.City = city
	return reading, nil
}

type openWeatherPayload struct {
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func decodeOpenWeather(body []byte) (weather.Reading, error) {
	var payload openWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return weather.Reading{}, fmt.Errorf("%w: invalid json at offset %d", weather.ErrMalformedResponse, syntaxErr.Offset)
		}
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	if payload.Main == nil || payload.Main.Temp == nil {
		return weather.Reading{}, fmt.Errorf("%w: main.temp missing", weather.ErrMalformedResponse)
	}
	if len(payload.Weather) == 0 {
		return weather.Reading{}, fmt.Errorf("%w: weather list empty", weather.ErrMalformedResponse)
	}
	first := payload.Weather[0]
	if first.Description == "" {
		return weather.Reading{}, fmt.Errorf("%w: weather[0].description missing", weather.ErrMalformedResponse)
	}

	return weather.Reading{
		Temperature: *payload.Main.Temp,
		Description: first.Description,
		Icon:        first.Icon,
	}, nil
}
