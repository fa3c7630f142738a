package weather

const (
	// FallbackIcon is shown for weather codes without an icon.
	FallbackIcon = "🌤️"
	// FallbackCondition is shown for weather codes without a description.
	FallbackCondition = "Unknown weather condition"
)

// Open-Meteo WMO weather codes.
var icons = map[int]string{
	0: "☀️", 1: "🌤️", 2: "⛅", 3: "☁️",
	45: "🌫️", 48: "🌫️", 51: "🌦️", 53: "🌦️",
	55: "🌧️", 61: "🌧️", 63: "🌧️", 65: "🌧️",
	71: "❄️", 73: "❄️", 75: "❄️", 77: "❄️",
	80: "🌦️", 81: "🌧️", 82: "🌧️", 85: "❄️",
	86: "❄️", 95: "⛈️", 96: "⛈️", 99: "⛈️",
}

var conditions = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Fog", 48: "Fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Heavy drizzle",
	56: "Light freezing drizzle", 57: "Heavy freezing drizzle",
	61: "Light rain", 63: "Moderate rain", 65: "Heavy rain",
	66: "Light freezing rain", 67: "Heavy freezing rain",
	71: "Light snow", 73: "Moderate snow", 75: "Heavy snow", 77: "Snow grains",
	80: "Light rain showers", 81: "Moderate rain showers", 82: "Heavy rain showers",
	85: "Light snow showers", 86: "Heavy snow showers",
	95: "Thunderstorm", 96: "Thunderstorm with hail", 99: "Thunderstorm with heavy hail",
}

// Icon returns the display icon for a weather code.
func Icon(code int) string {
	if icon, ok := icons[code]; ok {
		return icon
	}
	return FallbackIcon
}

// Condition returns the human-readable condition for a weather code.
func Condition(code int) string {
	if c, ok := conditions[code]; ok {
		return c
	}
	return FallbackCondition
}
