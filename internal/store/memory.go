package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot has been stored yet.
	ErrNotFound = errors.New("no forecast snapshot")
)

// MemoryStore is a concurrency-safe single-slot holder for the snapshot
// currently on display. Nothing outlives the process.
type MemoryStore struct {
	mu sync.RWMutex

	current *weather.ForecastSnapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the stored snapshot as a whole.
func (s *MemoryStore) Save(snapshot weather.ForecastSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &snapshot
}

// Latest returns the stored snapshot.
func (s *MemoryStore) Latest() (weather.ForecastSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return weather.ForecastSnapshot{}, ErrNotFound
	}
	return *s.current, nil
}
