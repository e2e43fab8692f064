package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/kidspeak/internal/metrics"
)

// Default sweep settings
const (
	DefaultIdleTTL       = 2 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

// ContextSweeper drops conversation transcripts nobody has used for a while
type ContextSweeper interface {
	SweepIdle(maxIdle time.Duration) int
	Len() int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	contexts  ContextSweeper
	idleTTL   time.Duration
	interval  time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a new scheduler instance. Zero durations use the defaults.
func New(contexts ContextSweeper, idleTTL, interval time.Duration, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		contexts:  contexts,
		idleTTL:   idleTTL,
		interval:  interval,
		metrics:   m,
		logger:    logger,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.SweepIdleContexts); err != nil {
		return fmt.Errorf("failed to schedule context sweep: %v", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "sweep_interval", s.interval, "idle_ttl", s.idleTTL)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// SweepIdleContexts clears transcripts idle for longer than the TTL of
// learners who never ended their session.
func (s *Scheduler) SweepIdleContexts() int {
	removed := s.contexts.SweepIdle(s.idleTTL)
	s.metrics.ContextsCleared(removed)
	s.metrics.SetActiveContexts(s.contexts.Len())
	if removed > 0 {
		s.logger.Info("idle contexts cleared", "count", removed)
	}
	return removed
}
