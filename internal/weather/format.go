package weather

import "time"

// FormatHour renders an hourly timestamp as "03:00 PM".
// Unparseable input is returned unchanged.
func FormatHour(ts string) string {
	for _, layout := range hourLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("03:04 PM")
		}
	}
	return ts
}

// FormatDay renders a daily date as "Mon, Jan 2".
func FormatDay(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}

// FormatClock renders the wall clock as "03:04:05 PM".
func FormatClock(t time.Time) string {
	return t.Format("03:04:05 PM")
}
