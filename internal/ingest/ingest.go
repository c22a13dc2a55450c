// Package ingest runs the source adapters and reconciles their records
// with the store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"hackradar/internal/adapter"
	"hackradar/internal/model"
	"hackradar/internal/storage"
)

// Ingestor runs every source adapter and upserts the results.
type Ingestor struct {
	store    storage.Storage
	adapters []adapter.Adapter
	log      *slog.Logger
}

// New creates an Ingestor over the given adapters.
func New(store storage.Storage, log *slog.Logger, adapters ...adapter.Adapter) *Ingestor {
	return &Ingestor{
		store:    store,
		adapters: adapters,
		log:      log,
	}
}

// Run executes one ingestion cycle and returns the records that were never
// seen before. Adapters isolate their own upstream failures, so an
// unreachable platform contributes an empty list without blocking the rest.
// A store failure fails the whole cycle: the partial new-list must not be
// trusted once the store is in an unknown state.
func (i *Ingestor) Run(ctx context.Context) ([]model.Hackathon, error) {
	var fetched []model.Hackathon
	for _, a := range i.adapters {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		records := a.Fetch(ctx)
		i.log.Debug("adapter finished", "source", a.Name(), "count", len(records))
		fetched = append(fetched, records...)
	}

	var created []model.Hackathon
	for _, h := range fetched {
		isNew, err := i.store.UpsertHackathon(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("upsert %q: %w", h.Title, err)
		}
		if isNew {
			created = append(created, h)
		}
	}

	i.log.Info("ingestion cycle complete", "fetched", len(fetched), "new", len(created))
	return created, nil
}
