package search

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/metrics"
	"artisthub/videosearch/internal/telemetry"
)

// enrich backfills duration for the first EnrichLimit pool candidates that
// lack one and were not attempted earlier in this call. Lookups run with
// bounded concurrency; results are applied after all of them finish.
func (e *Engine) enrich(ctx context.Context, pool *candidatePool, attempted map[string]struct{}) {
	if e.lookup == nil || e.cfg.EnrichLimit <= 0 || ctx.Err() != nil {
		return
	}
	targets := make([]string, 0, e.cfg.EnrichLimit)
	for _, item := range pool.items() {
		if item.HasDuration() {
			continue
		}
		if _, ok := attempted[item.ID]; ok {
			continue
		}
		attempted[item.ID] = struct{}{}
		targets = append(targets, item.ID)
		if len(targets) >= e.cfg.EnrichLimit {
			break
		}
	}
	if len(targets) == 0 {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "search.enrich", attribute.Int("targets", len(targets)))
	defer span.End()

	results := make([]*domain.Candidate, len(targets))
	sem := semaphore.NewWeighted(int64(e.cfg.EnrichConcurrency))
	var wg sync.WaitGroup
	for i, id := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(index int, id string) {
			defer wg.Done()
			defer sem.Release(1)

			item, err := e.lookup.Lookup(ctx, id)
			if err != nil {
				metrics.EnrichLookupsTotal.WithLabelValues("failed").Inc()
				e.logger.Debug("duration lookup failed", slog.String("id", id), slog.String("error", err.Error()))
				return
			}
			if !item.HasDuration() && item.Title == "" {
				metrics.EnrichLookupsTotal.WithLabelValues("empty").Inc()
				return
			}
			metrics.EnrichLookupsTotal.WithLabelValues("ok").Inc()
			results[index] = &item
		}(i, id)
	}
	wg.Wait()

	filled := 0
	for i, item := range results {
		if item == nil {
			continue
		}
		target := pool.get(targets[i])
		if target == nil {
			continue
		}
		if target.Duration == nil && item.Duration != nil {
			target.Duration = domain.Seconds(*item.Duration)
			filled++
		}
		if target.Title == "" {
			target.Title = item.Title
		}
	}
	span.SetAttributes(attribute.Int("filled", filled))
}
