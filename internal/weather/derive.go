package weather

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DailyWindowSize is the number of days in the multi-day view.
const DailyWindowSize = 8

// Forecast timestamps are local ISO-8601 without an offset.
var hourLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func hourOf(ts string) (int, bool) {
	for _, layout := range hourLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}

// CurrentHourIndex returns the index of the first hourly entry whose hour
// of day equals now's, or 0 when none matches.
//
// The series is scanned linearly; it is short and not guaranteed to be
// strictly sorted across DST edges.
func CurrentHourIndex(h HourlySeries, now time.Time) int {
	want := now.Hour()
	for i, ts := range h.Time {
		if hour, ok := hourOf(ts); ok && hour == want {
			return i
		}
	}
	return 0
}

// HourlyWindow returns the hourly rows from the current hour onward.
//
// The window is meant to end at 11 PM, but the upstream stop condition
// ("hour > 23") can never hold for 0-23 hours, so it runs to the end of
// the series. Kept that way until product decides on midnight semantics.
func HourlyWindow(h HourlySeries, now time.Time) []HourPoint {
	if len(h.Time) == 0 {
		return []HourPoint{}
	}

	start := CurrentHourIndex(h, now)
	points := make([]HourPoint, 0, len(h.Time)-start)
	for i := start; i < len(h.Time); i++ {
		points = append(points, HourPoint{
			Time:                     h.Time[i],
			Temperature:              at(h.Temperature, i),
			WeatherCode:              at(h.WeatherCode, i),
			PrecipitationProbability: at(h.PrecipitationProbability, i),
			Rain:                     at(h.Rain, i),
		})
	}
	return points
}

// DailyWindow returns the first DailyWindowSize days in original order.
func DailyWindow(d DailySeries) []DayPoint {
	n := min(len(d.Time), DailyWindowSize)
	points := make([]DayPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, DayPoint{
			Date:        d.Time[i],
			WeatherCode: at(d.WeatherCode, i),
			TempMax:     at(d.TempMax, i),
			TempMin:     at(d.TempMin, i),
		})
	}
	return points
}

// ChanceOfRain is the precipitation probability for the current hour.
func ChanceOfRain(h HourlySeries, now time.Time) int {
	return at(h.PrecipitationProbability, CurrentHourIndex(h, now))
}

func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}

// Validate checks that every block is present and that parallel sequences
// line up.
func (r RawForecast) Validate() error {
	if r.Current == nil {
		return fmt.Errorf("%w: missing current block", ErrMalformedResponse)
	}
	if r.Hourly == nil {
		return fmt.Errorf("%w: missing hourly block", ErrMalformedResponse)
	}
	if r.Daily == nil {
		return fmt.Errorf("%w: missing daily block", ErrMalformedResponse)
	}

	h := r.Hourly
	if err := sameLength("hourly", len(h.Time), map[string]int{
		"temperature_2m":            len(h.Temperature),
		"precipitation_probability": len(h.PrecipitationProbability),
		"weather_code":              len(h.WeatherCode),
		"rain":                      len(h.Rain),
		"snowfall":                  len(h.Snowfall),
	}); err != nil {
		return err
	}

	d := r.Daily
	return sameLength("daily", len(d.Time), map[string]int{
		"weather_code":       len(d.WeatherCode),
		"temperature_2m_max": len(d.TempMax),
		"temperature_2m_min": len(d.TempMin),
	})
}

func sameLength(block string, want int, fields map[string]int) error {
	for name, got := range fields {
		if got != want {
			return fmt.Errorf("%w: %s.%s has %d entries, time has %d", ErrMalformedResponse, block, name, got, want)
		}
	}
	return nil
}

// NewSnapshot validates raw and assembles an immutable ForecastSnapshot.
func NewSnapshot(place Place, raw RawForecast, fetchedAt time.Time) (ForecastSnapshot, error) {
	if err := raw.Validate(); err != nil {
		return ForecastSnapshot{}, err
	}

	tz := raw.Timezone
	if tz == "" {
		tz = place.Timezone
	}

	return ForecastSnapshot{
		ID:               uuid.NewString(),
		Place:            place,
		Timezone:         tz,
		UTCOffsetSeconds: raw.UTCOffsetSeconds,
		Current:          *raw.Current,
		Hourly:           *raw.Hourly,
		Daily:            *raw.Daily,
		FetchedAt:        fetchedAt.UTC(),
	}, nil
}
