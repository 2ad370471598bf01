// Package worker runs the development backend's background loops.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper drops state idle for longer than the given duration.
type Sweeper interface {
	Cleanup(idle time.Duration)
}

// SweepWorker periodically sweeps idle entries, e.g. rate-limiter visitors.
type SweepWorker struct {
	target   Sweeper
	interval time.Duration
	idle     time.Duration
	log      zerolog.Logger
}

// NewSweepWorker creates a SweepWorker that runs every interval.
func NewSweepWorker(target Sweeper, interval, idle time.Duration, log zerolog.Logger) *SweepWorker {
	return &SweepWorker{
		target:   target,
		interval: interval,
		idle:     idle,
		log:      log.With().Str("component", "sweep_worker").Logger(),
	}
}

// Start begins the worker loop and returns when ctx is cancelled. Call in
// a goroutine.
func (w *SweepWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.target.Cleanup(w.idle)
		}
	}
}
