package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner is the refresh job the scheduler drives.
type Runner interface {
	RunOnce(ctx context.Context) error
}

type UpdateSchedulerConfig struct {
	Interval   time.Duration // e.g. 60*time.Second
	RunTimeout time.Duration
	OnSuccess  func()
	OnFailure  func(err error)
}

// UpdateScheduler runs the enrichment refresh on a fixed interval, with an
// immediate pass at startup.
type UpdateScheduler struct {
	runner Runner
	cfg    UpdateSchedulerConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewUpdateScheduler(runner Runner, cfg UpdateSchedulerConfig) *UpdateScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 90 * time.Second
	}
	return &UpdateScheduler{
		runner: runner,
		cfg:    cfg,
	}
}

func (s *UpdateScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Warn().Msg("update scheduler already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	// Initial refresh on startup (fire-and-forget)
	go s.runOnce()

	// Recurring ticker
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()

	log.Info().Dur("interval", s.cfg.Interval).Msg("update scheduler started")
}

func (s *UpdateScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	log.Info().Msg("update scheduler stopped")
}

func (s *UpdateScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow triggers a refresh outside the normal schedule.
func (s *UpdateScheduler) RunNow(ctx context.Context) error {
	log.Info().Msg("manual refresh triggered")
	return s.runner.RunOnce(ctx)
}

func (s *UpdateScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	if err := s.runner.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("scheduled refresh failed")
		if s.cfg.OnFailure != nil {
			s.cfg.OnFailure(err)
		}
		return
	}
	if s.cfg.OnSuccess != nil {
		s.cfg.OnSuccess()
	}
}
