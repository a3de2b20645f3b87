package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper drops expired sessions.
type SessionSweeper interface {
	Sweep() int
}

// EventPruner deletes activity log entries older than a cutoff.
type EventPruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	cron      *cron.Cron
	sessions  SessionSweeper
	events    EventPruner
	retention time.Duration
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. Event pruning is skipped
// when retention is not positive.
func NewScheduler(sessions SessionSweeper, events EventPruner, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		sessions:  sessions,
		events:    events,
		retention: retention,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.sweepSessions); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	if s.retention > 0 {
		if _, err := s.cron.AddFunc("@hourly", s.pruneEvents); err != nil {
			return fmt.Errorf("schedule event pruning: %w", err)
		}
	}
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting background scheduler")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

func (s *Scheduler) sweepSessions() {
	if n := s.sessions.Sweep(); n > 0 {
		log.Info().Int("removed", n).Msg("Swept expired sessions")
	}
}

func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	n, err := s.events.Prune(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Failed to prune events")
		return
	}
	if n > 0 {
		log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("Pruned old events")
	}
}
