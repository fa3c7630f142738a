package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder on the Google Geocoding API.
// Google returns a single best match without timezone or country code, so
// forecasts for these places use timezone "auto".
type GoogleGeocoder struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder sets the package-wide API key used by kelvins/geocoder.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{lookup: geocoder.Geocoding}, nil
}

func (g *GoogleGeocoder) Name() string {
	return "google-geocoding"
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []weather.Place{}, nil
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	// The library call takes no context, so run it aside and honor ctx here.
	done := make(chan result, 1)
	go func() {
		loc, err := g.lookup(geocoder.Address{City: query})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", weather.ErrLookupFailed, ctx.Err())
	case r := <-done:
		if isNoResults(r.err) {
			return []weather.Place{}, nil
		}
		if r.err != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrLookupFailed, r.err)
		}
		if r.loc.Latitude == 0 && r.loc.Longitude == 0 {
			return []weather.Place{}, nil
		}
		return []weather.Place{{
			Name:      query,
			Latitude:  r.loc.Latitude,
			Longitude: r.loc.Longitude,
		}}, nil
	}
}

// kelvins/geocoder reports ZERO_RESULTS as a plain error.
func isNoResults(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no results found") || strings.Contains(msg, "zero_results")
}
