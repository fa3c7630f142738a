package session

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// View is a consistent copy of the session for the presentation layer.
type View struct {
	Status          Status                    `json:"status"`
	ErrorKind       weather.ErrorKind         `json:"errorKind,omitempty"`
	Error           string                    `json:"error,omitempty"`
	Query           string                    `json:"query"`
	Suggestions     []weather.Place           `json:"suggestions"`
	ShowSuggestions bool                      `json:"showSuggestions"`
	ActiveTab       Tab                       `json:"activeTab"`
	CurrentTime     time.Time                 `json:"currentTime"`
	Clock           string                    `json:"clock"`
	Snapshot        *weather.ForecastSnapshot `json:"snapshot,omitempty"`
	Forecast        *ForecastView             `json:"forecast,omitempty"`
}

// ForecastView is the derived content of the weather card and both tabs.
type ForecastView struct {
	Location     string    `json:"location"` // "Rajshahi, BD"
	Icon         string    `json:"icon"`
	Condition    string    `json:"condition"`
	ChanceOfRain int       `json:"chanceOfRain"`
	Hourly       []HourRow `json:"hourly"`
	Daily        []DayRow  `json:"daily"`
}

// HourRow is a display-ready HourPoint.
type HourRow struct {
	weather.HourPoint
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// DayRow is a display-ready DayPoint.
type DayRow struct {
	weather.DayPoint
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Condition string `json:"condition"`
}

// View derives the presentation state at the current clock value.
func (c *Controller) View() View {
	c.mu.RLock()
	v := View{
		Status:          c.status,
		ErrorKind:       c.errKind,
		Error:           c.errKind.Message(),
		Query:           c.query,
		Suggestions:     append([]weather.Place{}, c.suggestions...),
		ShowSuggestions: c.showPanel && len(c.suggestions) > 0,
		ActiveTab:       c.tab,
		CurrentTime:     c.clock,
		Clock:           weather.FormatClock(c.clock),
	}
	// load saves under c.mu, so status and snapshot are read together.
	snapshot, err := c.store.Latest()
	c.mu.RUnlock()

	if err != nil {
		return v
	}
	v.Snapshot = &snapshot
	v.Forecast = deriveForecast(snapshot, v.CurrentTime)
	return v
}

// deriveForecast evaluates the views in the forecast's own zone, so the
// current hour is the place's local hour.
func deriveForecast(s weather.ForecastSnapshot, now time.Time) *ForecastView {
	local := now.In(s.Location())

	hours := weather.HourlyWindow(s.Hourly, local)
	hourly := make([]HourRow, 0, len(hours))
	for _, h := range hours {
		hourly = append(hourly, HourRow{
			HourPoint: h,
			Label:     weather.FormatHour(h.Time),
			Icon:      weather.Icon(h.WeatherCode),
		})
	}

	days := weather.DailyWindow(s.Daily)
	daily := make([]DayRow, 0, len(days))
	for _, d := range days {
		daily = append(daily, DayRow{
			DayPoint:  d,
			Label:     weather.FormatDay(d.Date),
			Icon:      weather.Icon(d.WeatherCode),
			Condition: weather.Condition(d.WeatherCode),
		})
	}

	return &ForecastView{
		Location:     s.Place.Label(),
		Icon:         weather.Icon(s.Current.WeatherCode),
		Condition:    weather.Condition(s.Current.WeatherCode),
		ChanceOfRain: weather.ChanceOfRain(s.Hourly, local),
		Hourly:       hourly,
		Daily:        daily,
	}
}
