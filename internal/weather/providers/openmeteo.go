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

// DefaultForecastBaseURL is the public Open-Meteo forecast host.
const DefaultForecastBaseURL = "https://api.open-meteo.com"

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature",
		"precipitation", "rain", "snowfall", "weather_code",
		"wind_speed_10m", "wind_direction_10m",
	}
	hourlyFields = []string{"temperature_2m", "precipitation_probability", "weather_code", "rain", "snowfall"}
	dailyFields  = []string{"weather_code", "temperature_2m_max", "temperature_2m_min"}
)

// OpenMeteoForecaster implements weather.ForecastFetcher for Open-Meteo.
// Current, hourly and daily blocks come from one request so all three share
// a fetch instant.
type OpenMeteoForecaster struct {
	endpoint
}

func NewOpenMeteoForecaster(cfg HTTPClientConfig, baseURL string) *OpenMeteoForecaster {
	if baseURL == "" {
		baseURL = DefaultForecastBaseURL
	}
	return &OpenMeteoForecaster{
		endpoint: newEndpoint("openmeteo-forecast", strings.TrimRight(baseURL, "/"), cfg),
	}
}

func (p *OpenMeteoForecaster) Name() string {
	return p.name
}

func (p *OpenMeteoForecaster) FetchForecast(ctx context.Context, lat, lon float64, timezone string) (weather.RawForecast, error) {
	if timezone == "" {
		timezone = "auto"
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("current", strings.Join(currentFields, ","))
		values.Set("hourly", strings.Join(hourlyFields, ","))
		values.Set("daily", strings.Join(dailyFields, ","))
		values.Set("timezone", timezone)

		u := fmt.Sprintf("%s/v1/forecast?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.endpoint, buildRequest)
	if err != nil {
		return weather.RawForecast{}, fmt.Errorf("%w: %w", weather.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	var payload weather.RawForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.RawForecast{}, fmt.Errorf("%w: decode forecast response: %v", weather.ErrMalformedResponse, err)
	}
	return payload, nil
}
