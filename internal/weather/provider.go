package weather

import (
	"context"
	"fmt"
)

// Geocoder resolves free text to ranked place candidates.
type Geocoder interface {
	Name() string
	// Resolve returns up to limit candidates in the service's relevance
	// order. Blank queries return an empty slice without a network call.
	Resolve(ctx context.Context, query string, limit int) ([]Place, error)
}

// ForecastFetcher retrieves current, hourly and daily data in one call.
type ForecastFetcher interface {
	Name() string
	// FetchForecast uses "auto" when timezone is empty.
	FetchForecast(ctx context.Context, lat, lon float64, timezone string) (RawForecast, error)
}

// ResolveOne returns the best match for query, or ErrLocationNotFound.
func ResolveOne(ctx context.Context, g Geocoder, query string) (Place, error) {
	places, err := g.Resolve(ctx, query, 1)
	if err != nil {
		return Place{}, err
	}
	if len(places) == 0 {
		return Place{}, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}
	return places[0], nil
}
