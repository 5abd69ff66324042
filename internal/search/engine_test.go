package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/embed"
	"artisthub/videosearch/internal/providers/common"
)

type fakeSource struct {
	name    string
	mu      sync.Mutex
	queries []string
	search  func(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.search(ctx, query, limit)
}

func (f *fakeSource) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func staticSource(name string, items ...domain.Candidate) *fakeSource {
	return &fakeSource{name: name, search: func(context.Context, string, int) ([]domain.Candidate, error) {
		return append([]domain.Candidate(nil), items...), nil
	}}
}

type fakeProber struct {
	accept func(id string) bool
}

func (f fakeProber) Probe(_ context.Context, id string) bool {
	return f.accept(id)
}

func acceptAll() embed.Prober {
	return fakeProber{accept: func(string) bool { return true }}
}

type fakeLookup struct {
	mu    sync.Mutex
	calls map[string]int
	items map[string]domain.Candidate
}

func (f *fakeLookup) Lookup(_ context.Context, id string) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	item, ok := f.items[id]
	if !ok {
		return domain.Candidate{}, errors.New("not found")
	}
	return item, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func video(id, title string, duration *int) domain.Candidate {
	return domain.Candidate{ID: id, Title: title, Duration: duration}
}

func newTestEngine(primary Source, prober embed.Prober, cfg Config, opts ...Option) *Engine {
	filter := embed.NewFilter(prober, embed.WithLogger(quietLogger()))
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewEngine(primary, filter, cfg, opts...)
}

func TestSearchLongformSuppressesShortsForMovieQueries(t *testing.T) {
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Movie Trailer 1991", domain.Seconds(300)),
		video("BBBBBBBBBBB", "Full Movie 1991", domain.Seconds(5400)),
	)
	engine := newTestEngine(primary, acceptAll(), DefaultConfig())

	result, err := engine.SearchLongform(context.Background(), "movie 1991", domain.SearchOptions{Max: 1})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(result.IDs) != 1 || result.IDs[0] != "BBBBBBBBBBB" {
		t.Fatalf("expected [BBBBBBBBBBB], got %v", result.IDs)
	}
	if !result.Meta.Longform || result.Meta.Expanded {
		t.Fatalf("unexpected meta %#v", result.Meta)
	}
	if result.Meta.Durations["AAAAAAAAAAA"] != 300 || result.Meta.Titles["BBBBBBBBBBB"] != "Full Movie 1991" {
		t.Fatalf("meta lookup tables incomplete: %#v", result.Meta)
	}

	wide, err := engine.SearchLongform(context.Background(), "movie 1991", domain.SearchOptions{Max: 5})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(wide.IDs) != 1 || wide.IDs[0] != "BBBBBBBBBBB" {
		t.Fatalf("expected trailer suppressed, got %v", wide.IDs)
	}
}

func TestSearchLongformOutputIsDedupedAndWellFormed(t *testing.T) {
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Arctic Monkeys - 505", domain.Seconds(250)),
		video("AAAAAAAAAAA", "Arctic Monkeys - 505 (dup)", nil),
		video("not-an-id", "Arctic Monkeys", nil),
		video("BBBBBBBBBBB", "Arctic Monkeys live at Glastonbury", domain.Seconds(5000)),
	)
	secondary := staticSource("html",
		video("BBBBBBBBBBB", "Arctic Monkeys live", nil),
		video("CCCCCCCCCCC", "Arctic Monkeys - Do I Wanna Know", nil),
		video("DDDDDDDDDD!", "bad", nil),
	)
	engine := newTestEngine(primary, acceptAll(), DefaultConfig(), WithSecondary(secondary))

	result, err := engine.SearchLongform(context.Background(), "arctic monkeys", domain.SearchOptions{Max: 10})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(result.IDs) != 3 {
		t.Fatalf("expected 3 unique ids, got %v", result.IDs)
	}
	seen := map[string]bool{}
	for _, id := range result.IDs {
		if !domain.IsValidVideoID(id) {
			t.Fatalf("malformed id in output: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id in output: %v", result.IDs)
		}
		seen[id] = true
	}
	if result.Meta.Sources["api"] != 2 || result.Meta.Sources["html"] != 1 {
		t.Fatalf("unexpected source counts %#v", result.Meta.Sources)
	}
}

func TestSearchLongformExpandsWeakResultsOnce(t *testing.T) {
	primary := staticSource("api", video("AAAAAAAAAAA", "holiday clip", domain.Seconds(200)))
	engine := newTestEngine(primary, acceptAll(), DefaultConfig())

	result, err := engine.SearchLongform(context.Background(), "brat", domain.SearchOptions{Max: 5})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	calls := primary.calls()
	if len(calls) != 3 {
		t.Fatalf("expected first round plus two variants, got %v", calls)
	}
	if calls[0] != "brat" {
		t.Fatalf("first round must use the raw query, got %q", calls[0])
	}
	for _, variant := range calls[1:] {
		if !strings.Contains(variant, "brat") || variant == "brat" {
			t.Fatalf("expansion variant must extend the core, got %q", variant)
		}
	}
	if !result.Meta.Expanded {
		t.Fatalf("expected expanded meta flag")
	}
	if len(result.IDs) != 1 {
		t.Fatalf("weak results still return something, got %v", result.IDs)
	}
}

func TestSearchLongformFallsBackWhenProbesFail(t *testing.T) {
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Arctic Monkeys - Do I Wanna Know", nil),
		video("BBBBBBBBBBB", "Arctic Monkeys - 505", nil),
		video("CCCCCCCCCCC", "Arctic Monkeys - R U Mine", nil),
	)
	rejectAll := fakeProber{accept: func(string) bool { return false }}
	engine := newTestEngine(primary, rejectAll, DefaultConfig())

	result, err := engine.SearchLongform(context.Background(), "arctic monkeys", domain.SearchOptions{Max: 2})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(result.IDs) != 2 {
		t.Fatalf("expected unfiltered fallback of 2 ids, got %v", result.IDs)
	}
}

func TestSearchLongformTreatsSourceErrorsAsEmpty(t *testing.T) {
	primary := &fakeSource{name: "api", search: func(context.Context, string, int) ([]domain.Candidate, error) {
		return nil, common.Unavailable("api", errors.New("connection refused"))
	}}
	secondary := staticSource("html", video("AAAAAAAAAAA", "Brat 1997 full movie", domain.Seconds(5820)))
	engine := newTestEngine(primary, acceptAll(), DefaultConfig(), WithSecondary(secondary))

	result, err := engine.SearchLongform(context.Background(), "brat 1997", domain.SearchOptions{})
	if err != nil {
		t.Fatalf("source errors must not surface: %v", err)
	}
	if len(result.IDs) != 1 || result.IDs[0] != "AAAAAAAAAAA" {
		t.Fatalf("expected secondary result, got %v", result.IDs)
	}
}

func TestSearchLongformCallsFailingSourceOncePerQuery(t *testing.T) {
	primary := &fakeSource{name: "api", search: func(context.Context, string, int) ([]domain.Candidate, error) {
		return nil, common.Unavailable("api", errors.New("connection refused"))
	}}
	secondary := staticSource("html", video("AAAAAAAAAAA", "Terminator 1991 full movie", domain.Seconds(6420)))
	engine := newTestEngine(primary, acceptAll(), DefaultConfig(), WithSecondary(secondary))

	if _, err := engine.SearchLongform(context.Background(), "terminator full movie 1991", domain.SearchOptions{}); err != nil {
		t.Fatalf("search error: %v", err)
	}
	calls := primary.calls()
	if len(calls) == 0 {
		t.Fatalf("expected the primary to be queried")
	}
	seen := make(map[string]int, len(calls))
	for _, query := range calls {
		seen[query]++
		if seen[query] > 1 {
			t.Fatalf("query %q was fetched more than once: %v", query, calls)
		}
	}
}

func TestSearchLongformRejectsEmptyQuery(t *testing.T) {
	engine := newTestEngine(staticSource("api"), acceptAll(), DefaultConfig())
	result, err := engine.SearchLongform(context.Background(), "   ", domain.SearchOptions{})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if result.IDs == nil || len(result.IDs) != 0 {
		t.Fatalf("expected empty id list, got %#v", result.IDs)
	}
}

func TestSearchLongformEnrichesMissingDurations(t *testing.T) {
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Brat 1997 trailer", nil),
		video("BBBBBBBBBBB", "Brat 1997", nil),
	)
	lookup := &fakeLookup{items: map[string]domain.Candidate{
		"AAAAAAAAAAA": {ID: "AAAAAAAAAAA", Duration: domain.Seconds(120)},
		"BBBBBBBBBBB": {ID: "BBBBBBBBBBB", Title: "ignored", Duration: domain.Seconds(5820)},
	}}
	engine := newTestEngine(primary, acceptAll(), DefaultConfig(), WithMetadataLookup(lookup))

	result, err := engine.SearchLongform(context.Background(), "brat 1997", domain.SearchOptions{Max: 5})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(result.IDs) != 1 || result.IDs[0] != "BBBBBBBBBBB" {
		t.Fatalf("expected enriched feature only, got %v", result.IDs)
	}
	if result.Meta.Durations["BBBBBBBBBBB"] != 5820 || result.Meta.Titles["BBBBBBBBBBB"] != "Brat 1997" {
		t.Fatalf("enrichment must fill duration and keep known title: %#v", result.Meta)
	}
	for id, n := range lookup.calls {
		if n != 1 {
			t.Fatalf("id %s looked up %d times", id, n)
		}
	}
}

func TestEnrichIsBoundedAndSkipsAttemptedIDs(t *testing.T) {
	lookup := &fakeLookup{items: map[string]domain.Candidate{}}
	cfg := DefaultConfig()
	cfg.EnrichLimit = 2
	engine := newTestEngine(nil, acceptAll(), cfg, WithMetadataLookup(lookup))

	pool := newCandidatePool(10)
	pool.add([]domain.Candidate{
		video("AAAAAAAAAAA", "", nil),
		video("BBBBBBBBBBB", "", domain.Seconds(10)),
		video("CCCCCCCCCCC", "", nil),
		video("DDDDDDDDDDD", "", nil),
	})
	attempted := map[string]struct{}{}
	engine.enrich(context.Background(), pool, attempted)
	if len(lookup.calls) != 2 || lookup.calls["AAAAAAAAAAA"] != 1 || lookup.calls["CCCCCCCCCCC"] != 1 {
		t.Fatalf("expected first two unknown ids looked up, got %v", lookup.calls)
	}
	engine.enrich(context.Background(), pool, attempted)
	if lookup.calls["DDDDDDDDDDD"] != 1 || lookup.calls["AAAAAAAAAAA"] != 1 {
		t.Fatalf("second pass must only try new ids, got %v", lookup.calls)
	}
}

func TestSecondaryOnlyWhenPrimaryIsShort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PoolSize = 2
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Brat 1997 full movie", domain.Seconds(5820)),
		video("BBBBBBBBBBB", "Brat 2 2000 full movie", domain.Seconds(7620)),
	)
	secondary := staticSource("html", video("CCCCCCCCCCC", "Brat", nil))
	engine := newTestEngine(primary, acceptAll(), cfg, WithSecondary(secondary))

	if _, err := engine.SearchLongform(context.Background(), "brat full movie", domain.SearchOptions{}); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if calls := secondary.calls(); len(calls) != 0 {
		t.Fatalf("secondary must not run when primary fills the pool, got %v", calls)
	}

	short := staticSource("api", video("AAAAAAAAAAA", "Brat 1997 full movie", domain.Seconds(5820)))
	engine = newTestEngine(short, acceptAll(), cfg, WithSecondary(secondary))
	if _, err := engine.SearchLongform(context.Background(), "brat full movie", domain.SearchOptions{}); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if calls := secondary.calls(); len(calls) == 0 {
		t.Fatalf("secondary must run when primary is short")
	}
}

func TestSearchLongformHonorsTimeout(t *testing.T) {
	blocking := &fakeSource{name: "api", search: func(ctx context.Context, _ string, _ int) ([]domain.Candidate, error) {
		<-ctx.Done()
		return nil, common.Unavailable("api", ctx.Err())
	}}
	engine := newTestEngine(blocking, acceptAll(), DefaultConfig())

	startedAt := time.Now()
	result, err := engine.SearchLongform(context.Background(), "brat", domain.SearchOptions{Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("timeout must not surface: %v", err)
	}
	if elapsed := time.Since(startedAt); elapsed > time.Second {
		t.Fatalf("search ignored timeout: %s", elapsed)
	}
	if len(result.IDs) != 0 {
		t.Fatalf("nothing was discovered, got %v", result.IDs)
	}
	if len(blocking.calls()) != 1 {
		t.Fatalf("expansion must not run after the deadline, got %v", blocking.calls())
	}
}

func TestSearchLongformReturnsPoolWhenEverythingIsShort(t *testing.T) {
	primary := staticSource("api",
		video("AAAAAAAAAAA", "Movie Trailer 1991", domain.Seconds(300)),
		video("BBBBBBBBBBB", "Movie Teaser 1991", domain.Seconds(90)),
	)
	engine := newTestEngine(primary, acceptAll(), DefaultConfig())

	result, err := engine.SearchLongform(context.Background(), "movie 1991", domain.SearchOptions{Max: 5})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(result.IDs) != 2 || result.IDs[0] != "AAAAAAAAAAA" {
		t.Fatalf("expected score-ordered pool fallback, got %v", result.IDs)
	}
	if result.Meta.Fallback != "pool" {
		t.Fatalf("expected pool fallback, got %q", result.Meta.Fallback)
	}
}

func TestFilterEmbeddableUsesEngineDefaults(t *testing.T) {
	engine := newTestEngine(nil, fakeProber{accept: func(id string) bool { return id != "BBBBBBBBBBB" }}, DefaultConfig())
	got := engine.FilterEmbeddable(context.Background(), []string{"AAAAAAAAAAA", "BBBBBBBBBBB", "CCCCCCCCCCC"}, domain.FilterOptions{})
	if len(got) != 2 || got[0] != "AAAAAAAAAAA" || got[1] != "CCCCCCCCCCC" {
		t.Fatalf("unexpected filtered ids %v", got)
	}
	if !engine.IsLongformIntent("фильм терминатор 1991") || engine.IsLongformIntent("arctic monkeys live session") {
		t.Fatalf("unexpected intent classification")
	}
}
