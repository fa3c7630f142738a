package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Session is the part of the session controller the timers drive.
type Session interface {
	Refresh(ctx context.Context) error
	Tick(now time.Time)
}

// Scheduler runs the auto-refresh and clock jobs. The two jobs are
// independent of each other and of user-triggered fetches.
type Scheduler struct {
	scheduler       *gocron.Scheduler
	session         Session
	refreshInterval time.Duration
	clockInterval   time.Duration
	refreshTimeout  time.Duration
}

// New creates a new Scheduler.
func New(session Session, refreshInterval, clockInterval time.Duration) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = time.Minute
	}
	if clockInterval <= 0 {
		clockInterval = time.Second
	}
	timeout := 30 * time.Second
	if refreshInterval < timeout {
		timeout = refreshInterval
	}

	return &Scheduler{
		scheduler:       gocron.NewScheduler(time.Local),
		session:         session,
		refreshInterval: refreshInterval,
		clockInterval:   clockInterval,
		refreshTimeout:  timeout,
	}
}

// Start schedules both jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	// The initial load covers startup, so refresh waits a full interval.
	_, err := s.scheduler.Every(s.refreshInterval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()

		if err := s.session.Refresh(ctx); err != nil {
			log.Printf("ERROR: scheduler: refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Every(s.clockInterval).Do(func() {
		s.session.Tick(time.Now())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
