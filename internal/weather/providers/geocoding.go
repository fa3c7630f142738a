package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultGeocodingBaseURL is the public Open-Meteo geocoding host.
const DefaultGeocodingBaseURL = "https://geocoding-api.open-meteo.com"

// OpenMeteoGeocoder implements weather.Geocoder against the Open-Meteo search API.
type OpenMeteoGeocoder struct {
	endpoint
}

func NewOpenMeteoGeocoder(cfg HTTPClientConfig, baseURL string) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingBaseURL
	}
	return &OpenMeteoGeocoder{
		endpoint: newEndpoint("openmeteo-geocoding", strings.TrimRight(baseURL, "/"), cfg),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

func (g *OpenMeteoGeocoder) Resolve(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []weather.Place{}, nil
	}
	if limit < 1 {
		limit = 1
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", strconv.Itoa(limit))

		u := fmt.Sprintf("%s/v1/search?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, g.endpoint, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			CountryCode string  `json:"country_code"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Timezone    string  `json:"timezone"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode geocoding response: %v", weather.ErrLookupFailed, err)
	}

	places := make([]weather.Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		if len(places) == limit {
			break
		}
		places = append(places, weather.Place{
			Name:        r.Name,
			CountryCode: strings.ToLower(r.CountryCode),
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Timezone:    r.Timezone,
		})
	}
	return places, nil
}
