package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "videosearch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20},
	}, []string{"method", "path"})

	SourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "source_requests_total",
		Help:      "Candidate source requests by source name and outcome (ok, unavailable, malformed).",
	}, []string{"source", "status"})

	SourceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "videosearch",
		Name:      "source_request_duration_seconds",
		Help:      "Candidate source request duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"source"})

	SourceCandidates = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "videosearch",
		Name:      "source_candidates",
		Help:      "Candidates returned per source request.",
		Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
	}, []string{"source"})

	EnrichLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "enrich_lookups_total",
		Help:      "Duration backfill lookups by outcome (ok, failed, empty).",
	}, []string{"status"})

	ProbesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "embed_probes_total",
		Help:      "Embeddability probes by result (embeddable, rejected).",
	}, []string{"result"})

	ExpansionRoundsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "expansion_rounds_total",
		Help:      "Searches that ran the broadened query round.",
	})

	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videosearch",
		Name:      "fallbacks_total",
		Help:      "Safety-net activations by stage (embed, final, pool).",
	}, []string{"stage"})

	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "videosearch",
		Name:      "search_duration_seconds",
		Help:      "End-to-end long-form search duration in seconds.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 12, 20},
	})

	OutboundWaitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "videosearch",
		Name:      "outbound_wait_seconds",
		Help:      "Time outbound requests spent waiting on the collaborator rate limiter.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
	}, []string{"collaborator"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SourceRequestsTotal,
		SourceRequestDuration,
		SourceCandidates,
		EnrichLookupsTotal,
		ProbesTotal,
		ExpansionRoundsTotal,
		FallbacksTotal,
		SearchDuration,
		OutboundWaitDuration,
	)
}
