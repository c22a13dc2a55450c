// Package scheduler drives the recurring ingestion and notification cycle.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"hackradar/internal/ingest"
	"hackradar/internal/notify"
)

// Scheduler periodically runs an ingestion cycle and fans out new records.
type Scheduler struct {
	ingestor *ingest.Ingestor
	notifier *notify.Notifier
	log      *slog.Logger
	tick     time.Duration
}

// New creates a Scheduler that runs one cycle every tick interval.
func New(ingestor *ingest.Ingestor, notifier *notify.Notifier, tick time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		ingestor: ingestor,
		notifier: notifier,
		log:      log,
		tick:     tick,
	}
}

// Run starts the scheduler loop, blocking until ctx is cancelled. Cycles
// run synchronously inside the loop, so a slow fetch delays the next cycle
// instead of overlapping it.
func (s *Scheduler) Run(ctx context.Context) {
	s.runCycle(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	created, err := s.ingestor.Run(ctx)
	if err != nil {
		s.log.Error("ingestion cycle failed", "error", err)
		return
	}
	if len(created) == 0 {
		s.log.Info("no new hackathons this cycle")
		return
	}
	s.notifier.Broadcast(ctx, created)
}
