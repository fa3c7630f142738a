package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string][]weather.Place
	err     error
	calls   []string
}

func (g *fakeGeocoder) Name() string { return "fake-geocoder" }

func (g *fakeGeocoder) Resolve(_ context.Context, query string, limit int) ([]weather.Place, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fmt.Sprintf("%s/%d", query, limit))
	if g.err != nil {
		return nil, g.err
	}
	places := g.results[query]
	if len(places) > limit {
		places = places[:limit]
	}
	return append([]weather.Place{}, places...), nil
}

func (g *fakeGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeForecaster struct {
	mu    sync.Mutex
	err   error
	raw   *weather.RawForecast
	gates map[float64]chan struct{}
	calls int
}

func (f *fakeForecaster) Name() string { return "fake-forecaster" }

func (f *fakeForecaster) FetchForecast(_ context.Context, lat, _ float64, _ string) (weather.RawForecast, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[lat]
	err, raw := f.err, f.raw
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return weather.RawForecast{}, err
	}
	if raw != nil {
		return *raw, nil
	}
	return validRaw(), nil
}

func validRaw() weather.RawForecast {
	return weather.RawForecast{
		Timezone:         "Asia/Dhaka",
		UTCOffsetSeconds: 6 * 3600,
		Current:          &weather.CurrentConditions{Temperature: 28.4, WeatherCode: 61},
		Hourly: &weather.HourlySeries{
			Time:                     []string{"2024-06-01T21:00", "2024-06-01T22:00", "2024-06-01T23:00"},
			Temperature:              []float64{29, 28.4, 27.9},
			PrecipitationProbability: []int{10, 35, 20},
			WeatherCode:              []int{1, 61, 3},
			Rain:                     []float64{0, 0.1, 0},
			Snowfall:                 []float64{0, 0, 0},
		},
		Daily: &weather.DailySeries{
			Time:        []string{"2024-06-01", "2024-06-02"},
			WeatherCode: []int{61, 0},
			TempMax:     []float64{34.2, 35},
			TempMin:     []float64{26.8, 27},
		},
	}
}

var (
	rajshahi = weather.Place{Name: "Rajshahi", CountryCode: "bd", Latitude: 24.37, Longitude: 88.6, Timezone: "Asia/Dhaka"}
	dhaka    = weather.Place{Name: "Dhaka", CountryCode: "bd", Latitude: 23.71, Longitude: 90.41, Timezone: "Asia/Dhaka"}
)

// steppingClock returns a clock that advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func newTestController(g *fakeGeocoder, f *fakeForecaster) (*Controller, *store.MemoryStore) {
	st := store.NewMemoryStore()
	ctrl := New(g, f, st, Options{
		BlurDelay: 20 * time.Millisecond,
		Now:       steppingClock(time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)),
	})
	return ctrl, st
}

func TestStartLoadsDefaultLocation(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	if v := ctrl.View(); v.Status != StatusIdle || v.Snapshot != nil {
		t.Fatalf("expected idle session without snapshot, got %+v", v)
	}

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := ctrl.View()
	if v.Status != StatusReady {
		t.Fatalf("expected ready, got %s", v.Status)
	}
	if v.Snapshot.Place.Name != "Rajshahi" || v.Snapshot.Place.CountryCode != "bd" {
		t.Fatalf("unexpected place %+v", v.Snapshot.Place)
	}
	if g.calls[0] != "Rajshahi/1" {
		t.Fatalf("expected resolve-one call, got %v", g.calls)
	}
}

func TestSearchLocationNotFoundKeepsSnapshot(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	ctrl, st := newTestController(g, &fakeForecaster{})

	if err := ctrl.Search(context.Background(), "Rajshahi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := st.Latest()

	err := ctrl.Search(context.Background(), "Zzzzznotaplace")
	if !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	v := ctrl.View()
	if v.Status != StatusFailed || v.ErrorKind != weather.KindLocationNotFound || v.Error != "Location not found" {
		t.Fatalf("unexpected failed view: status=%s kind=%s msg=%q", v.Status, v.ErrorKind, v.Error)
	}
	if v.Snapshot == nil || v.Snapshot.ID != before.ID {
		t.Fatalf("expected prior snapshot to be untouched")
	}
}

func TestFetchFailureAndMalformedResponse(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	f := &fakeForecaster{err: fmt.Errorf("%w: 503", weather.ErrFetchFailed)}
	ctrl, st := newTestController(g, f)

	if err := ctrl.Search(context.Background(), "Rajshahi"); !errors.Is(err, weather.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if v := ctrl.View(); v.ErrorKind != weather.KindFetchFailed || v.Error != "Failed to fetch weather data" {
		t.Fatalf("unexpected view %+v", v)
	}

	f.mu.Lock()
	f.err = nil
	f.raw = &weather.RawForecast{Current: &weather.CurrentConditions{}}
	f.mu.Unlock()

	if err := ctrl.Search(context.Background(), "Rajshahi"); !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if v := ctrl.View(); v.ErrorKind != weather.KindMalformedResponse {
		t.Fatalf("expected malformed kind, got %s", v.ErrorKind)
	}
	if _, err := st.Latest(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("no snapshot should have been stored, got %v", err)
	}
}

func TestSearchClearsPriorError(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	_ = ctrl.Search(context.Background(), "nowhere")
	if err := ctrl.Search(context.Background(), "Rajshahi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := ctrl.View(); v.Status != StatusReady || v.Error != "" {
		t.Fatalf("expected ready without error, got %+v", v)
	}
}

func TestBlankSearchIsIgnored(t *testing.T) {
	g := &fakeGeocoder{}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	if err := ctrl.Search(context.Background(), "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.callCount() != 0 || ctrl.View().Status != StatusIdle {
		t.Fatalf("blank search should not trigger the pipeline")
	}
}

func TestRefreshReResolvesLastPlace(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	f := &fakeForecaster{}
	ctrl, _ := newTestController(g, f)

	// Nothing to refresh yet.
	if err := ctrl.Refresh(context.Background()); err != nil || g.callCount() != 0 {
		t.Fatalf("refresh before first load should be a no-op")
	}

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := ctrl.View().Snapshot

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := ctrl.View().Snapshot

	if g.calls[1] != "Rajshahi/1" {
		t.Fatalf("expected refresh to re-resolve Rajshahi, got %v", g.calls)
	}
	if second.Place.Name != "Rajshahi" {
		t.Fatalf("expected place to remain Rajshahi, got %s", second.Place.Name)
	}
	if !second.FetchedAt.After(first.FetchedAt) {
		t.Fatalf("expected fetchedAt to advance: %v -> %v", first.FetchedAt, second.FetchedAt)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a new snapshot id")
	}
}

func TestStaleCompletionIsDiscarded(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}, "Dhaka": {dhaka}}}
	gate := make(chan struct{})
	f := &fakeForecaster{gates: map[float64]chan struct{}{rajshahi.Latitude: gate}}
	ctrl, _ := newTestController(g, f)

	done := make(chan error, 1)
	go func() { done <- ctrl.Search(context.Background(), "Rajshahi") }()

	// Wait until the slow fetch is in flight.
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		n := f.calls
		f.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("slow fetch never started")
		}
		time.Sleep(time.Millisecond)
	}

	if err := ctrl.Search(context.Background(), "Dhaka"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from stale search: %v", err)
	}

	v := ctrl.View()
	if v.Status != StatusReady || v.Snapshot.Place.Name != "Dhaka" {
		t.Fatalf("expected newer Dhaka result to win, got %s %+v", v.Status, v.Snapshot.Place)
	}
}

func TestSuggestions(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{
		"Raj": {rajshahi, {Name: "Rajkot", CountryCode: "in"}, {Name: "Rajpur"}, {Name: "Rajgarh"}, {Name: "Rajula"}, {Name: "Rajaori"}},
	}}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	ctrl.Focus()
	places := ctrl.UpdateQuery(context.Background(), "Raj")
	if len(places) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(places))
	}
	if g.calls[0] != "Raj/5" {
		t.Fatalf("expected limit 5 lookup, got %v", g.calls)
	}

	v := ctrl.View()
	if !v.ShowSuggestions || len(v.Suggestions) != 5 || v.Query != "Raj" {
		t.Fatalf("expected visible suggestions, got %+v", v)
	}

	// Next keystroke replaces the list.
	if places := ctrl.UpdateQuery(context.Background(), "Rajx"); len(places) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(places))
	}
	if v := ctrl.View(); len(v.Suggestions) != 0 || v.ShowSuggestions {
		t.Fatalf("expected list to be replaced, got %+v", v.Suggestions)
	}
}

func TestSuggestionErrorsAreSwallowed(t *testing.T) {
	g := &fakeGeocoder{err: fmt.Errorf("%w: down", weather.ErrLookupFailed)}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	places := ctrl.UpdateQuery(context.Background(), "Raj")
	if places == nil || len(places) != 0 {
		t.Fatalf("expected empty list, got %#v", places)
	}
	if v := ctrl.View(); v.Status != StatusIdle || v.Error != "" {
		t.Fatalf("suggestion errors must not surface, got %+v", v)
	}
}

func TestBlurHidesAfterGraceDelay(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Raj": {rajshahi}}}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	ctrl.Focus()
	ctrl.UpdateQuery(context.Background(), "Raj")
	ctrl.Blur()

	if !ctrl.View().ShowSuggestions {
		t.Fatalf("panel should stay visible during the grace delay")
	}
	time.Sleep(100 * time.Millisecond)
	if v := ctrl.View(); v.ShowSuggestions || len(v.Suggestions) != 0 {
		t.Fatalf("panel should be hidden and cleared after blur, got %+v", v)
	}

	// Refocusing within the delay cancels the hide.
	ctrl.Focus()
	ctrl.UpdateQuery(context.Background(), "Raj")
	ctrl.Blur()
	ctrl.Focus()
	time.Sleep(100 * time.Millisecond)
	if !ctrl.View().ShowSuggestions {
		t.Fatalf("focus should cancel the pending hide")
	}
}

func TestSelectClosesPanel(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Raj": {rajshahi}, "Rajshahi": {rajshahi}}}
	ctrl, _ := newTestController(g, &fakeForecaster{})

	ctrl.Focus()
	ctrl.UpdateQuery(context.Background(), "Raj")
	if err := ctrl.Select(context.Background(), rajshahi); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := ctrl.View()
	if v.ShowSuggestions || len(v.Suggestions) != 0 {
		t.Fatalf("expected panel closed after selection")
	}
	if v.Query != "Rajshahi" || v.Snapshot.Place.Name != "Rajshahi" {
		t.Fatalf("unexpected view after selection: %+v", v)
	}
}

func TestTabAndClock(t *testing.T) {
	ctrl, _ := newTestController(&fakeGeocoder{}, &fakeForecaster{})

	if ctrl.View().ActiveTab != TabHourly {
		t.Fatalf("expected hourly tab by default")
	}
	if err := ctrl.SetTab(TabDaily); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctrl.SetTab("weekly"); !errors.Is(err, ErrInvalidTab) {
		t.Fatalf("expected ErrInvalidTab, got %v", err)
	}
	if ctrl.View().ActiveTab != TabDaily {
		t.Fatalf("expected 8day tab")
	}

	now := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)
	ctrl.Tick(now)
	if v := ctrl.View(); !v.CurrentTime.Equal(now) || v.Clock != "03:04:05 PM" {
		t.Fatalf("unexpected clock %v %q", v.CurrentTime, v.Clock)
	}
}

func TestViewDerivesInPlaceTimezone(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	ctrl, _ := newTestController(g, &fakeForecaster{})
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 16:30 UTC is 22:30 in Dhaka.
	ctrl.Tick(time.Date(2024, 6, 1, 16, 30, 0, 0, time.UTC))
	fv := ctrl.View().Forecast
	if fv == nil {
		t.Fatalf("expected derived forecast")
	}
	if len(fv.Hourly) != 2 || fv.Hourly[0].Time != "2024-06-01T22:00" {
		t.Fatalf("unexpected hourly window: %+v", fv.Hourly)
	}
	if fv.Hourly[0].Label != "10:00 PM" || fv.Hourly[0].Icon != "🌧️" {
		t.Fatalf("unexpected hourly row: %+v", fv.Hourly[0])
	}
	if fv.ChanceOfRain != 35 {
		t.Fatalf("expected chance of rain 35, got %d", fv.ChanceOfRain)
	}
	if len(fv.Daily) != 2 || fv.Daily[0].Condition != "Light rain" || fv.Daily[0].Label != "Sat, Jun 1" {
		t.Fatalf("unexpected daily rows: %+v", fv.Daily)
	}
	if fv.Location != "Rajshahi, BD" || fv.Condition != "Light rain" {
		t.Fatalf("unexpected card: %+v", fv)
	}
}

// lockCheckingStore records whether the controller lock was held on reads.
type lockCheckingStore struct {
	*store.MemoryStore
	ctrl     *Controller
	unlocked int32
}

func (s *lockCheckingStore) Latest() (weather.ForecastSnapshot, error) {
	if s.ctrl != nil && s.ctrl.mu.TryLock() {
		s.ctrl.mu.Unlock()
		atomic.AddInt32(&s.unlocked, 1)
	}
	return s.MemoryStore.Latest()
}

func TestViewReadsSnapshotWithStatus(t *testing.T) {
	g := &fakeGeocoder{results: map[string][]weather.Place{"Rajshahi": {rajshahi}}}
	st := &lockCheckingStore{MemoryStore: store.NewMemoryStore()}
	ctrl := New(g, &fakeForecaster{}, st, Options{})
	st.ctrl = ctrl

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := ctrl.View()
	if v.Status != StatusReady || v.Snapshot == nil {
		t.Fatalf("unexpected view %+v", v)
	}
	if n := atomic.LoadInt32(&st.unlocked); n != 0 {
		t.Fatalf("snapshot was read outside the session lock %d times", n)
	}
}
