package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Status is the session's position in the fetch state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Tab selects which forecast view the presentation layer shows.
type Tab string

const (
	TabHourly Tab = "hourly"
	TabDaily  Tab = "8day"
)

// ErrInvalidTab is returned by SetTab for unknown tabs.
var ErrInvalidTab = errors.New("invalid tab")

// SnapshotStore holds the snapshot currently on display.
type SnapshotStore interface {
	Save(snapshot weather.ForecastSnapshot)
	Latest() (weather.ForecastSnapshot, error)
}

// Options tunes a Controller. Zero values fall back to defaults.
type Options struct {
	DefaultLocation string
	SuggestionLimit int
	BlurDelay       time.Duration
	// Now is the clock used for FetchedAt and the initial clock value.
	Now func() time.Time
}

// Controller owns all session state and runs the geocode, fetch and
// derive pipeline for every trigger.
type Controller struct {
	geocoder  weather.Geocoder
	forecasts weather.ForecastFetcher
	store     SnapshotStore
	opts      Options

	mu            sync.RWMutex
	status        Status
	errKind       weather.ErrorKind
	query         string
	suggestions   []weather.Place
	showPanel     bool
	hideTimer     *time.Timer
	tab           Tab
	clock         time.Time
	fetchGen      uint64
	suggestGen    uint64
	lastPlaceName string
}

// New creates a Controller in the Idle state.
func New(geocoder weather.Geocoder, forecasts weather.ForecastFetcher, store SnapshotStore, opts Options) *Controller {
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = "Rajshahi"
	}
	if opts.SuggestionLimit < 1 {
		opts.SuggestionLimit = 5
	}
	if opts.BlurDelay <= 0 {
		opts.BlurDelay = 200 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		geocoder:    geocoder,
		forecasts:   forecasts,
		store:       store,
		opts:        opts,
		status:      StatusIdle,
		suggestions: []weather.Place{},
		tab:         TabHourly,
		clock:       opts.Now(),
	}
}

// Start loads the default location.
func (c *Controller) Start(ctx context.Context) error {
	return c.load(ctx, c.opts.DefaultLocation)
}

// Search runs the pipeline for user-submitted text. Blank text is ignored.
func (c *Controller) Search(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	c.mu.Lock()
	c.query = text
	c.mu.Unlock()
	return c.load(ctx, text)
}

// Select runs the pipeline for a picked suggestion.
func (c *Controller) Select(ctx context.Context, place weather.Place) error {
	c.mu.Lock()
	c.query = place.Name
	c.suggestGen++
	c.suggestions = []weather.Place{}
	c.mu.Unlock()
	return c.load(ctx, place.Name)
}

// Refresh re-runs the pipeline for the last resolved place. It does
// nothing until a fetch has succeeded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.RLock()
	name := c.lastPlaceName
	c.mu.RUnlock()

	if name == "" {
		return nil
	}
	log.Printf("DEBUG: session: auto-refresh for %s", name)
	return c.load(ctx, name)
}

// load is the transition shared by every trigger. Network calls run
// without the lock; a completion is applied only if no later trigger
// has started since.
func (c *Controller) load(ctx context.Context, query string) error {
	c.mu.Lock()
	c.fetchGen++
	gen := c.fetchGen
	c.status = StatusLoading
	c.errKind = weather.KindNone
	c.mu.Unlock()

	snapshot, err := c.run(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.fetchGen {
		log.Printf("DEBUG: session: discarding stale result for %q", query)
		return err
	}

	c.closePanelLocked()
	if err != nil {
		c.status = StatusFailed
		c.errKind = weather.KindOf(err)
		log.Printf("ERROR: session: fetch for %q failed: %v", query, err)
		return err
	}

	c.store.Save(snapshot)
	c.lastPlaceName = snapshot.Place.Name
	c.status = StatusReady
	return nil
}

func (c *Controller) run(ctx context.Context, query string) (weather.ForecastSnapshot, error) {
	place, err := weather.ResolveOne(ctx, c.geocoder, query)
	if err != nil {
		return weather.ForecastSnapshot{}, err
	}

	raw, err := c.forecasts.FetchForecast(ctx, place.Latitude, place.Longitude, place.Timezone)
	if err != nil {
		return weather.ForecastSnapshot{}, err
	}

	return weather.NewSnapshot(place, raw, c.opts.Now())
}

// UpdateQuery handles a keystroke: it stores the text and replaces the
// suggestion list. Lookup errors yield an empty list.
func (c *Controller) UpdateQuery(ctx context.Context, text string) []weather.Place {
	c.mu.Lock()
	c.query = text
	c.suggestGen++
	gen := c.suggestGen
	c.mu.Unlock()

	places, err := c.geocoder.Resolve(ctx, text, c.opts.SuggestionLimit)
	if err != nil {
		log.Printf("ERROR: session: suggestions for %q: %v", text, err)
		places = []weather.Place{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.suggestGen {
		c.suggestions = places
	}
	return places
}

// Focus shows the suggestion panel and cancels a pending hide.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopHideLocked()
	c.showPanel = true
}

// Blur hides and clears the suggestion panel after the grace delay, so a
// click on a suggestion still lands.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopHideLocked()
	var t *time.Timer
	t = time.AfterFunc(c.opts.BlurDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hideTimer == t {
			c.showPanel = false
			c.suggestions = []weather.Place{}
			c.hideTimer = nil
		}
	})
	c.hideTimer = t
}

func (c *Controller) stopHideLocked() {
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}

func (c *Controller) closePanelLocked() {
	c.stopHideLocked()
	c.showPanel = false
}

// SetTab switches the active forecast view.
func (c *Controller) SetTab(tab Tab) error {
	if tab != TabHourly && tab != TabDaily {
		return ErrInvalidTab
	}
	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()
	return nil
}

// Tick updates the displayed wall clock.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	c.clock = now
	c.mu.Unlock()
}
