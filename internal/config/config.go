package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Geocoder backends.
const (
	GeocoderOpenMeteo = "openmeteo"
	GeocoderGoogle    = "google"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// DefaultLocation is loaded on startup.
	DefaultLocation string `validate:"required"`

	// RefreshInterval controls how often the displayed forecast is re-fetched.
	RefreshInterval time.Duration `validate:"gt=0"`
	// ClockInterval controls how often the displayed clock advances.
	ClockInterval time.Duration `validate:"gt=0"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	SuggestionLimit int           `validate:"min=1,max=100"`
	SuggestionDelay time.Duration `validate:"gte=0"` // blur grace delay

	Geocoder             string `validate:"oneof=openmeteo google"`
	GoogleGeocoderAPIKey string `validate:"required_if=Geocoder google"`
	GeocodingBaseURL     string `validate:"required,url"`
	ForecastBaseURL      string `validate:"required,url"`

	// Outbound pacing per provider (0 = unlimited).
	OutboundRPS   float64 `validate:"gte=0"`
	OutboundBurst int     `validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DefaultLocation = getenvDefault("DEFAULT_LOCATION", "Rajshahi")

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "60s"); err != nil {
		return nil, err
	}
	if cfg.ClockInterval, err = getenvDuration("CLOCK_INTERVAL", "1s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SuggestionDelay, err = getenvDuration("SUGGESTION_BLUR_DELAY", "200ms"); err != nil {
		return nil, err
	}
	cfg.SuggestionLimit = getenvInt("SUGGESTION_LIMIT", 5)

	cfg.Geocoder = getenvDefault("GEOCODER", GeocoderOpenMeteo)
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.GeocodingBaseURL = getenvDefault("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com")
	cfg.ForecastBaseURL = getenvDefault("FORECAST_BASE_URL", "https://api.open-meteo.com")

	cfg.OutboundRPS = getenvFloat("OUTBOUND_RPS", 5)
	cfg.OutboundBurst = getenvInt("OUTBOUND_BURST", 5)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
