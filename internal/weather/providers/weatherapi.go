package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-records/internal/weather"
)

// DefaultWeatherAPIBaseURL is the WeatherAPI.com v1 API root.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// weatherAPINoLocation is the error code WeatherAPI.com uses for an unknown q.
const weatherAPINoLocation = 1006

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string, res Resilience) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: res.httpConfig(client),
		circuit: newCircuitBreaker("weatherapi", res.CircuitBreaker),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Lookup(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("%w: weatherapi api key is not configured", weather.ErrLookupFailed)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", city)

		u := fmt.Sprintf("%s/current.json?%s", p.baseURL, values.Encode())
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

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrTimeout, err)
		}
		return weather.Reading{}, fmt.Errorf("%w: read body: %v", weather.ErrLookupFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		// WeatherAPI.com reports an unknown location as 400 with code 1006.
		var apiErr struct {
			Error struct {
				Code int `json:"code"`
			} `json:"error"`
		}
		if resp.StatusCode == http.StatusNotFound ||
			(json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Code == weatherAPINoLocation) {
			return weather.Reading{}, fmt.Errorf("%w: %q (status %d)", weather.ErrCityNotFound, city, resp.StatusCode)
		}
		return weather.Reading{}, fmt.Errorf("%w: unexpected status %d", weather.ErrLookupFailed, resp.StatusCode)
	}

	var payload struct {
		Current *struct {
			TempC     *float64 `json:"temp_c"`
			Condition struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Reading{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.Current == nil || payload.Current.TempC == nil {
		return weather.Reading{}, fmt.Errorf("%w: current.temp_c missing", weather.ErrMalformedResponse)
	}
	if payload.Current.Condition.Text == "" {
		return weather.Reading{}, fmt.Errorf("%w: current.condition.text missing", weather.ErrMalformedResponse)
	}

	return weather.Reading{
		City:        city,
		Temperature: *payload.Current.TempC,
		Description: strings.ToLower(payload.Current.Condition.Text),
		Icon:        payload.Current.Condition.Icon,
	}, nil
}
