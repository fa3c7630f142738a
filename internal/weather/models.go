package weather

import (
	"strings"
	"time"
)

// Place is a resolved geocoding result.
// Timezone is empty when the geocoder did not report one.
type Place struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"countryCode"` // ISO-3166 alpha-2, lowercased
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone,omitempty"`
}

// Label is the suggestion text shown for a place, e.g. "Rajshahi, BD".
func (p Place) Label() string {
	if p.CountryCode == "" {
		return p.Name
	}
	return p.Name + ", " + strings.ToUpper(p.CountryCode)
}

// CurrentConditions mirrors the forecast provider's "current" block.
type CurrentConditions struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity    int     `json:"relative_humidity_2m"`
	Precipitation       float64 `json:"precipitation"`
	Rain                float64 `json:"rain"`
	Snowfall            float64 `json:"snowfall"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed           float64 `json:"wind_speed_10m"`
	WindDirection       int     `json:"wind_direction_10m"`
}

// HourlySeries holds parallel sequences indexed by Time.
// Index i in every sequence describes the same instant.
type HourlySeries struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	PrecipitationProbability []int     `json:"precipitation_probability"`
	WeatherCode              []int     `json:"weather_code"`
	Rain                     []float64 `json:"rain"`
	Snowfall                 []float64 `json:"snowfall"`
}

// DailySeries holds parallel sequences indexed by Time, one entry per day.
type DailySeries struct {
	Time        []string  `json:"time"`
	WeatherCode []int     `json:"weather_code"`
	TempMax     []float64 `json:"temperature_2m_max"`
	TempMin     []float64 `json:"temperature_2m_min"`
}

// RawForecast is the decoded forecast payload before validation.
// Missing blocks stay nil so Validate can report them.
type RawForecast struct {
	Latitude         float64            `json:"latitude"`
	Longitude        float64            `json:"longitude"`
	Timezone         string             `json:"timezone"`
	UTCOffsetSeconds int                `json:"utc_offset_seconds"`
	Current          *CurrentConditions `json:"current"`
	Hourly           *HourlySeries      `json:"hourly"`
	Daily            *DailySeries       `json:"daily"`
}

// ForecastSnapshot is one consistent set of current/hourly/daily data
// fetched in a single round trip. It is never mutated after creation.
type ForecastSnapshot struct {
	ID               string            `json:"id"`
	Place            Place             `json:"place"`
	Timezone         string            `json:"timezone"`
	UTCOffsetSeconds int               `json:"utcOffsetSeconds"`
	Current          CurrentConditions `json:"current"`
	Hourly           HourlySeries      `json:"hourly"`
	Daily            DailySeries       `json:"daily"`
	FetchedAt        time.Time         `json:"fetchedAt"` // always UTC
}

// Location returns the fixed zone the forecast timestamps are expressed in.
func (s ForecastSnapshot) Location() *time.Location {
	return time.FixedZone(s.Timezone, s.UTCOffsetSeconds)
}

// HourPoint is one row of the hourly view.
type HourPoint struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	WeatherCode              int     `json:"weatherCode"`
	PrecipitationProbability int     `json:"precipitationProbability"`
	Rain                     float64 `json:"rain"`
}

// DayPoint is one row of the 8-day view.
type DayPoint struct {
	Date        string  `json:"date"`
	WeatherCode int     `json:"weatherCode"`
	TempMax     float64 `json:"tempMax"`
	TempMin     float64 `json:"tempMin"`
}
