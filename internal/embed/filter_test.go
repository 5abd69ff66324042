package embed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"artisthub/videosearch/internal/domain"
)

const (
	idA = "AAAAAAAAAAA"
	idB = "BBBBBBBBBBB"
	idC = "CCCCCCCCCCC"
	idD = "DDDDDDDDDDD"
)

type fakeProber struct {
	mu    sync.Mutex
	calls []string
	probe func(ctx context.Context, id string) bool
}

func (f *fakeProber) Probe(ctx context.Context, id string) bool {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	return f.probe(ctx, id)
}

func equal(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFilterPreservesInputOrderUnderConcurrency(t *testing.T) {
	dProbed := make(chan struct{})
	prober := &fakeProber{probe: func(ctx context.Context, id string) bool {
		switch id {
		case idA:
			// a completes only after d
			select {
			case <-dProbed:
			case <-ctx.Done():
				return false
			}
			return true
		case idC:
			return true
		case idD:
			close(dProbed)
			return false
		default:
			return false
		}
	}}

	filter := NewFilter(prober)
	got := filter.Filter(context.Background(), []string{idA, idB, idC, idD}, domain.FilterOptions{
		Max:         4,
		Timeout:     2 * time.Second,
		Concurrency: 4,
	})
	if !equal(got, []string{idA, idC}) {
		t.Fatalf("expected [a c], got %v", got)
	}
}

func TestFilterDoesNotReorderFastLaterAcceptance(t *testing.T) {
	dProbed := make(chan struct{})
	prober := &fakeProber{probe: func(ctx context.Context, id string) bool {
		switch id {
		case idA:
			<-dProbed
			return true
		case idD:
			close(dProbed)
			return true
		default:
			return false
		}
	}}

	got := NewFilter(prober).Filter(context.Background(), []string{idA, idB, idC, idD}, domain.FilterOptions{
		Max:         4,
		Timeout:     2 * time.Second,
		Concurrency: 4,
	})
	if !equal(got, []string{idA, idD}) {
		t.Fatalf("expected [a d], got %v", got)
	}
}

func TestFilterRespectsMax(t *testing.T) {
	ids := []string{"00000000000", "11111111111", "22222222222", "33333333333", "44444444444", "55555555555"}
	prober := &fakeProber{probe: func(context.Context, string) bool { return true }}
	got := NewFilter(prober).Filter(context.Background(), ids, domain.FilterOptions{Max: 3, Concurrency: 8})
	if !equal(got, ids[:3]) {
		t.Fatalf("expected first three ids, got %v", got)
	}
}

func TestFilterFallsBackWhenEverythingFails(t *testing.T) {
	prober := &fakeProber{probe: func(context.Context, string) bool { return false }}
	got := NewFilter(prober).Filter(context.Background(), []string{idA, idB, idC}, domain.FilterOptions{Max: 2})
	if !equal(got, []string{idA, idB}) {
		t.Fatalf("expected unfiltered truncated order, got %v", got)
	}
	if len(prober.calls) != 3 {
		t.Fatalf("expected every id probed, got %v", prober.calls)
	}
}

func TestFilterReturnsPartialResultOnTimeout(t *testing.T) {
	prober := &fakeProber{probe: func(ctx context.Context, id string) bool {
		if id == idA {
			return true
		}
		<-ctx.Done()
		return false
	}}
	started := time.Now()
	got := NewFilter(prober).Filter(context.Background(), []string{idA, idB, idC}, domain.FilterOptions{
		Max:         3,
		Timeout:     50 * time.Millisecond,
		Concurrency: 3,
	})
	if !equal(got, []string{idA}) {
		t.Fatalf("expected accepted subset on timeout, got %v", got)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("filter did not honor timeout: %s", elapsed)
	}
}

func TestFilterSanitizesInput(t *testing.T) {
	prober := &fakeProber{probe: func(context.Context, string) bool { return true }}
	got := NewFilter(prober).Filter(context.Background(), []string{"bad", idB, idB, "../../etc/pass", idA}, domain.FilterOptions{Max: 10})
	if !equal(got, []string{idB, idA}) {
		t.Fatalf("expected sanitized ids, got %v", got)
	}
	if got := NewFilter(prober).Filter(context.Background(), nil, domain.FilterOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestOEmbedProberTreatsOnlyOKAsEmbeddable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("expected json format, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("url") == "https://www.youtube.com/watch?v="+idA {
			_, _ = w.Write([]byte(`{"type":"video"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	prober := NewOEmbedProber(ProberConfig{Endpoint: server.URL, Client: server.Client()})
	if !prober.Probe(context.Background(), idA) {
		t.Fatalf("expected %s embeddable", idA)
	}
	if prober.Probe(context.Background(), idB) {
		t.Fatalf("expected %s rejected", idB)
	}

	offline := NewOEmbedProber(ProberConfig{Endpoint: "http://127.0.0.1:1/oembed"})
	if offline.Probe(context.Background(), idA) {
		t.Fatalf("network failure must be reported as not embeddable")
	}
}
