package weather

import "errors"

var (
	// ErrLocationNotFound is returned when a resolve-one lookup yields no candidates.
	ErrLocationNotFound = errors.New("location not found")
	// ErrLookupFailed is returned when the geocoding service cannot be reached or answers badly.
	ErrLookupFailed = errors.New("location lookup failed")
	// ErrFetchFailed is returned when the forecast service cannot be reached or answers non-2xx.
	ErrFetchFailed = errors.New("forecast fetch failed")
	// ErrMalformedResponse is returned when a payload lacks the fields the views are derived from.
	ErrMalformedResponse = errors.New("malformed response")
)

// ErrorKind classifies a pipeline failure for display.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindLocationNotFound  ErrorKind = "LocationNotFound"
	KindLookupFailed      ErrorKind = "LookupFailed"
	KindFetchFailed       ErrorKind = "FetchFailed"
	KindMalformedResponse ErrorKind = "MalformedResponse"
)

// KindOf maps an error to its ErrorKind. Unrecognized errors count as fetch failures.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrLocationNotFound):
		return KindLocationNotFound
	case errors.Is(err, ErrLookupFailed):
		return KindLookupFailed
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	default:
		return KindFetchFailed
	}
}

// Message is the user-facing text for an error kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindNone:
		return ""
	case KindLocationNotFound:
		return "Location not found"
	case KindLookupFailed:
		return "Failed to look up location"
	case KindMalformedResponse:
		return "Unexpected response from weather service"
	default:
		return "Failed to fetch weather data"
	}
}
