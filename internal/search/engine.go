package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/metrics"
	"artisthub/videosearch/internal/ranking"
	"artisthub/videosearch/internal/telemetry"
)

var ErrInvalidQuery = errors.New("query is required")

// Source is a candidate fetcher. Errors are treated as zero candidates.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}

// MetadataLookup backfills title and duration for a single id.
type MetadataLookup interface {
	Lookup(ctx context.Context, id string) (domain.Candidate, error)
}

// EmbedFilter keeps the embeddable subset of ids in input order.
type EmbedFilter interface {
	Filter(ctx context.Context, ids []string, opts domain.FilterOptions) []string
}

// Config sizes one search call. Zero fields take DefaultConfig values; a
// negative EnrichLimit disables duration backfill.
type Config struct {
	PoolSize          int
	ExpandedPoolCap   int
	EnrichLimit       int
	EnrichConcurrency int
	ProbeConcurrency  int
	DefaultMax        int
	MaxResults        int
	DefaultTimeout    time.Duration
	Policy            ranking.Policy
}

func DefaultConfig() Config {
	return Config{
		PoolSize:          40,
		ExpandedPoolCap:   80,
		EnrichLimit:       24,
		EnrichConcurrency: 4,
		ProbeConcurrency:  8,
		DefaultMax:        10,
		MaxResults:        50,
		DefaultTimeout:    12 * time.Second,
		Policy:            ranking.DefaultPolicy(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PoolSize <= 0 {
		c.PoolSize = def.PoolSize
	}
	if c.ExpandedPoolCap < c.PoolSize {
		c.ExpandedPoolCap = c.PoolSize * 2
	}
	if c.EnrichLimit == 0 {
		c.EnrichLimit = def.EnrichLimit
	}
	if c.EnrichConcurrency <= 0 {
		c.EnrichConcurrency = def.EnrichConcurrency
	}
	if c.ProbeConcurrency <= 0 {
		c.ProbeConcurrency = def.ProbeConcurrency
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
	if c.DefaultMax <= 0 || c.DefaultMax > c.MaxResults {
		c.DefaultMax = min(def.DefaultMax, c.MaxResults)
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = def.DefaultTimeout
	}
	if c.Policy == (ranking.Policy{}) {
		c.Policy = def.Policy
	}
	return c
}

// Engine runs the long-form search pipeline. It keeps no state between
// calls and is safe for concurrent use.
type Engine struct {
	primary   Source
	secondary Source
	lookup    MetadataLookup
	filter    EmbedFilter
	cfg       Config
	logger    *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSecondary sets the source consulted when the primary returns fewer
// candidates than the pool size.
func WithSecondary(source Source) Option {
	return func(e *Engine) {
		e.secondary = source
	}
}

func WithMetadataLookup(lookup MetadataLookup) Option {
	return func(e *Engine) {
		e.lookup = lookup
	}
}

func NewEngine(primary Source, filter EmbedFilter, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		primary: primary,
		filter:  filter,
		cfg:     cfg.withDefaults(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// IsLongformIntent reports whether query asks for complete long-form content.
func (e *Engine) IsLongformIntent(query string) bool {
	return ranking.IsLongformIntent(query)
}

// FilterEmbeddable runs the embeddability stage on its own.
func (e *Engine) FilterEmbeddable(ctx context.Context, ids []string, opts domain.FilterOptions) []string {
	if opts.Max <= 0 {
		opts.Max = e.cfg.DefaultMax
	}
	if opts.Max > e.cfg.MaxResults {
		opts.Max = e.cfg.MaxResults
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = e.cfg.ProbeConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = e.cfg.DefaultTimeout
	}
	if e.filter == nil {
		return truncateIDs(sanitizeIDs(ids), opts.Max)
	}
	return e.filter.Filter(ctx, ids, opts)
}

// SearchLongform returns up to opts.Max playable ids for query, preferring
// complete long-form content. It fails only for an empty query; timeouts
// and source outages degrade to partial results.
func (e *Engine) SearchLongform(ctx context.Context, query string, opts domain.SearchOptions) (domain.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Result{IDs: []string{}}, ErrInvalidQuery
	}
	startedAt := time.Now()
	limit := opts.Max
	if limit <= 0 {
		limit = e.cfg.DefaultMax
	}
	if limit > e.cfg.MaxResults {
		limit = e.cfg.MaxResults
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.cfg.DefaultTimeout
	}

	ctx, span := telemetry.StartSpan(ctx, "search.longform",
		attribute.String("query", query),
		attribute.Int("max", limit),
	)
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	policy := e.cfg.Policy
	q := ranking.NewQueryContext(query)
	pool := newCandidatePool(e.cfg.ExpandedPoolCap)
	attempted := make(map[string]struct{})

	e.fetchRound(ctx, pool, query, e.cfg.PoolSize)
	e.enrich(ctx, pool, attempted)
	scored := policy.ScorePool(pool.items(), q)

	expanded := false
	if policy.NeedsExpansion(scored, q) && ctx.Err() == nil {
		expanded = true
		metrics.ExpansionRoundsTotal.Inc()
		variants := policy.ExpansionVariants(q)
		e.logger.Debug("weak first round, expanding query",
			slog.String("query", query),
			slog.Float64("topScore", ranking.TopScore(scored)),
			slog.Any("variants", variants),
		)
		for _, variant := range variants {
			if pool.full() || ctx.Err() != nil {
				break
			}
			e.fetchRound(ctx, pool, variant, e.cfg.PoolSize)
		}
		e.enrich(ctx, pool, attempted)
		scored = policy.ScorePool(pool.items(), q)
	}

	ranked := policy.Rank(scored, q)
	accepted := e.filterRanked(ctx, ranked, limit)
	final, fellBack := policy.FinalPass(accepted, ranked, q, opts.AllowShort, limit)
	fallback := ""
	if fellBack {
		fallback = "final"
	}
	if len(final) == 0 && len(scored) > 0 {
		fallback = "pool"
		final = ranking.SortByScore(scored)
		if len(final) > limit {
			final = final[:limit]
		}
	}
	if fallback != "" {
		metrics.FallbacksTotal.WithLabelValues(fallback).Inc()
	}

	result := domain.Result{
		IDs:  make([]string, 0, len(final)),
		Meta: buildMeta(q, pool, scored, policy, expanded),
	}
	for _, item := range final {
		result.IDs = append(result.IDs, item.ID)
	}
	result.Meta.Fallback = fallback
	result.Meta.ElapsedMS = time.Since(startedAt).Milliseconds()
	metrics.SearchDuration.Observe(time.Since(startedAt).Seconds())

	span.SetAttributes(
		attribute.Int("candidates", pool.len()),
		attribute.Int("results", len(result.IDs)),
		attribute.Bool("expanded", expanded),
		attribute.Bool("longform", q.Longform),
	)
	e.logger.Info("longform search completed",
		slog.String("query", query),
		slog.Int("candidates", pool.len()),
		slog.Int("results", len(result.IDs)),
		slog.Float64("topScore", result.Meta.TopScore),
		slog.Bool("longform", q.Longform),
		slog.Bool("expanded", expanded),
		slog.String("fallback", fallback),
		slog.Int64("elapsedMs", result.Meta.ElapsedMS),
	)
	return result, nil
}

// filterRanked probes the ranked order and maps accepted ids back to their
// scored entries.
func (e *Engine) filterRanked(ctx context.Context, ranked []domain.ScoredCandidate, limit int) []domain.ScoredCandidate {
	if len(ranked) == 0 {
		return nil
	}
	byID := make(map[string]domain.ScoredCandidate, len(ranked))
	ids := make([]string, 0, len(ranked))
	for _, item := range ranked {
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}

	timeout := e.cfg.DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	var acceptedIDs []string
	if e.filter == nil || timeout <= 0 {
		acceptedIDs = truncateIDs(ids, limit)
	} else {
		acceptedIDs = e.filter.Filter(ctx, ids, domain.FilterOptions{
			Max:         limit,
			Timeout:     timeout,
			Concurrency: e.cfg.ProbeConcurrency,
		})
	}

	accepted := make([]domain.ScoredCandidate, 0, len(acceptedIDs))
	for _, id := range acceptedIDs {
		if item, ok := byID[id]; ok {
			accepted = append(accepted, item)
		}
	}
	return accepted
}

func buildMeta(q ranking.QueryContext, pool *candidatePool, scored []domain.ScoredCandidate, policy ranking.Policy, expanded bool) domain.ResultMeta {
	meta := domain.ResultMeta{
		Query:      q.Raw,
		Candidates: pool.len(),
		TopScore:   ranking.TopScore(scored),
		Longform:   q.Longform,
		Expanded:   expanded,
		Durations:  make(map[string]int),
		Titles:     make(map[string]string),
		Sources:    make(map[string]int),
	}
	for _, item := range scored {
		if item.ContainsCore || item.Coverage >= policy.StrongCoverage {
			meta.TitleMatched = true
		}
		if item.HasDuration() {
			meta.Durations[item.ID] = item.DurationSeconds()
		}
		if item.Title != "" {
			meta.Titles[item.ID] = item.Title
		}
		if item.Source != "" {
			meta.Sources[item.Source]++
		}
	}
	return meta
}

func sanitizeIDs(ids []string) []string {
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

func truncateIDs(ids []string, limit int) []string {
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
