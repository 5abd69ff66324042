package embed

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/metrics"
	"artisthub/videosearch/internal/telemetry"
)

const (
	DefaultConcurrency = 8
	DefaultMax         = 10
	DefaultTimeout     = 8 * time.Second
)

type Filter struct {
	prober      Prober
	concurrency int
	logger      *slog.Logger
}

type FilterOption func(*Filter)

func WithLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConcurrency sets the worker count used when a call does not ask for
// one.
func WithConcurrency(n int) FilterOption {
	return func(f *Filter) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

func NewFilter(prober Prober, opts ...FilterOption) *Filter {
	f := &Filter{
		prober:      prober,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns the embeddable subset of ids in input order, at most
// opts.Max long. Invalid and duplicate ids are dropped first. On timeout the
// ids accepted so far are returned. When nothing is accepted the sanitized
// input truncated to opts.Max is returned instead.
func (f *Filter) Filter(ctx context.Context, ids []string, opts domain.FilterOptions) []string {
	clean := sanitize(ids)
	if len(clean) == 0 {
		return []string{}
	}
	limit := opts.Max
	if limit <= 0 {
		limit = DefaultMax
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = f.concurrency
	}
	if workers > len(clean) {
		workers = len(clean)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, span := telemetry.StartSpan(ctx, "embed.filter",
		attribute.Int("ids", len(clean)),
		attribute.Int("max", limit),
		attribute.Int("workers", workers),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		cursor atomic.Int64
		count  atomic.Int64
		// slot i is written only by the worker that claimed index i
		slots = make([]bool, len(clean))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for {
				if count.Load() >= int64(limit) || groupCtx.Err() != nil {
					return nil
				}
				index := int(cursor.Add(1) - 1)
				if index >= len(clean) {
					return nil
				}
				id := clean[index]
				if !f.prober.Probe(groupCtx, id) {
					metrics.ProbesTotal.WithLabelValues("rejected").Inc()
					f.logger.Debug("embed probe rejected", slog.String("id", id))
					continue
				}
				metrics.ProbesTotal.WithLabelValues("embeddable").Inc()
				slots[index] = true
				count.Add(1)
			}
		})
	}
	_ = group.Wait()

	out := collect(clean, slots, limit)
	span.SetAttributes(attribute.Int("accepted", len(out)))
	if len(out) > 0 {
		return out
	}

	metrics.FallbacksTotal.WithLabelValues("embed").Inc()
	f.logger.Warn("no ids passed the embed probe, returning unfiltered order",
		slog.Int("ids", len(clean)),
		slog.Bool("timedOut", ctx.Err() != nil),
	)
	if len(clean) > limit {
		clean = clean[:limit]
	}
	return clean
}

// collect keeps accepted ids in input order regardless of completion order.
func collect(ids []string, slots []bool, limit int) []string {
	out := make([]string, 0, limit)
	for i, ok := range slots {
		if !ok {
			continue
		}
		out = append(out, ids[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

func sanitize(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !domain.IsValidVideoID(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
