package search

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/metrics"
	"artisthub/videosearch/internal/providers/common"
	"artisthub/videosearch/internal/telemetry"
)

// fetchRound queries the primary source and, when it returns fewer than
// target candidates, the secondary. Results merge into pool with the primary
// first.
func (e *Engine) fetchRound(ctx context.Context, pool *candidatePool, query string, target int) {
	primaryCount := 0
	if e.primary != nil {
		items := e.fetchSource(ctx, e.primary, query, target)
		primaryCount = len(items)
		pool.add(items)
	}
	if e.secondary == nil || primaryCount >= target || pool.full() || ctx.Err() != nil {
		return
	}
	pool.add(e.fetchSource(ctx, e.secondary, query, target))
}

func (e *Engine) fetchSource(ctx context.Context, source Source, query string, limit int) []domain.Candidate {
	name := strings.ToLower(strings.TrimSpace(source.Name()))
	ctx, span := telemetry.StartSpan(ctx, "search.fetch",
		attribute.String("source", name),
		attribute.String("query", query),
	)
	startedAt := time.Now()
	items, err := source.Search(ctx, query, limit)
	latency := time.Since(startedAt)
	telemetry.EndSpan(span, err)

	metrics.SourceRequestDuration.WithLabelValues(name).Observe(latency.Seconds())
	if err != nil {
		status := string(common.KindOf(err))
		if isTimeoutLikeError(err) {
			status = "timeout"
		}
		metrics.SourceRequestsTotal.WithLabelValues(name, status).Inc()
		e.logger.Warn("candidate source failed",
			slog.String("source", name),
			slog.String("query", query),
			slog.String("status", status),
			slog.Duration("latency", latency),
			slog.String("error", err.Error()),
		)
		return nil
	}
	metrics.SourceRequestsTotal.WithLabelValues(name, "ok").Inc()
	metrics.SourceCandidates.WithLabelValues(name).Observe(float64(len(items)))
	e.logger.Debug("candidate source returned",
		slog.String("source", name),
		slog.String("query", query),
		slog.Int("count", len(items)),
		slog.Duration("latency", latency),
	)
	for i := range items {
		if items[i].Source == "" {
			items[i].Source = name
		}
	}
	return items
}

func isTimeoutLikeError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "timeout") || strings.Contains(text, "deadline exceeded")
}
