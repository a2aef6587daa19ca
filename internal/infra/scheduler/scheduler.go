package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic housekeeping. It returns how many items it
// touched so the loop can log non-trivial runs.
type Job func(ctx context.Context) (int, error)

// Scheduler periodically runs a Job.
type Scheduler struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	job      Job
	log      *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler that runs job every interval.
// If interval <= 0 it defaults to 1 minute. logger may be nil.
func NewScheduler(name string, interval time.Duration, job Job, logger *zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	l := logger.With().Str("job", name).Logger()
	return &Scheduler{
		name:     name,
		interval: interval,
		timeout:  30 * time.Second,
		job:      job,
		log:      &l,
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler loop in a background goroutine.
// parentCtx is used as the parent for internal contexts; calling Start multiple times has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel

	go s.loop()
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.log.Debug().Dur("interval", s.interval).Msg("scheduler started")
	for {
		select {
		case <-s.ctx.Done():
			s.log.Debug().Msg("scheduler context cancelled; stopping")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	runCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	n, err := s.job(runCtx)
	if err != nil {
		s.log.Warn().Err(err).Msg("scheduled job failed")
		return
	}
	if n > 0 {
		s.log.Debug().Int("affected", n).Msg("scheduled job done")
	}
}

// Stop cancels the scheduler and waits for the loop to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	// reset for potential restart
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
}
