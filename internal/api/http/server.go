package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/search"
)

type SearchService interface {
	SearchLongform(ctx context.Context, query string, opts domain.SearchOptions) (domain.Result, error)
	FilterEmbeddable(ctx context.Context, ids []string, opts domain.FilterOptions) []string
	IsLongformIntent(query string) bool
}

type Server struct {
	search     SearchService
	logger     *slog.Logger
	rateRPS    float64
	rateBurst  int
	maxTimeout time.Duration
}

const (
	maxQueryLength = 500
	maxIDs         = 200
	maxBodyBytes   = 64 << 10
)

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit sets the inbound token bucket. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		s.rateRPS = rps
		s.rateBurst = burst
	}
}

func NewServer(searchService SearchService, options ...ServerOption) *Server {
	server := &Server{
		search:     searchService,
		logger:     slog.Default(),
		rateRPS:    10,
		rateBurst:  20,
		maxTimeout: time.Minute,
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/search/longform", s.handleLongform)
	mux.HandleFunc("/search/embeddable", s.handleEmbeddable)
	mux.HandleFunc("/search/intent", s.handleIntent)
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "videosearch",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health"
		}),
	)
	var handler http.Handler = metricsMiddleware(traced)
	if s.rateRPS > 0 {
		handler = rateLimitMiddleware(s.rateRPS, s.rateBurst, handler)
	}
	return recoveryMiddleware(s.logger, requestIDMiddleware(handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

type longformResponse struct {
	Query string            `json:"query"`
	Items []string          `json:"items"`
	Meta  domain.ResultMeta `json:"meta"`
}

func (s *Server) handleLongform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "search service is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "query too long (max 500 characters)")
		return
	}
	limit, err := parseOptionalInt(r, "max", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid max")
		return
	}
	timeout, err := s.parseTimeout(r.URL.Query().Get("timeoutMs"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid timeoutMs")
		return
	}
	allowShort, err := parseOptionalBool(r, "allowShort")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid allowShort")
		return
	}

	result, err := s.search.SearchLongform(r.Context(), query, domain.SearchOptions{
		Max:        limit,
		Timeout:    timeout,
		AllowShort: allowShort,
	})
	if err != nil {
		if errors.Is(err, search.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("longform search failed", slog.String("query", query), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "search_failed", "search failed")
		return
	}
	items := result.IDs
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, longformResponse{Query: query, Items: items, Meta: result.Meta})
}

type embeddableRequest struct {
	IDs         []string `json:"ids"`
	Max         int      `json:"max"`
	TimeoutMS   int      `json:"timeoutMs"`
	Concurrency int      `json:"concurrency"`
}

func (s *Server) handleEmbeddable(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "search service is not configured")
		return
	}

	var request embeddableRequest
	switch r.Method {
	case http.MethodGet:
		parsed, err := parseEmbeddableQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		request = parsed
	case http.MethodPost:
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := decoder.Decode(&request); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
			return
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if len(request.IDs) > maxIDs {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many ids (max 200)")
		return
	}
	if request.Max < 0 || request.Concurrency < 0 || request.TimeoutMS < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "max, concurrency and timeoutMs must not be negative")
		return
	}
	timeout := time.Duration(request.TimeoutMS) * time.Millisecond
	if timeout > s.maxTimeout {
		timeout = s.maxTimeout
	}

	items := s.search.FilterEmbeddable(r.Context(), request.IDs, domain.FilterOptions{
		Max:         request.Max,
		Timeout:     timeout,
		Concurrency: request.Concurrency,
	})
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func parseEmbeddableQuery(r *http.Request) (embeddableRequest, error) {
	var request embeddableRequest
	for _, raw := range r.URL.Query()["ids"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				request.IDs = append(request.IDs, id)
			}
		}
	}
	var err error
	if request.Max, err = parseOptionalInt(r, "max", 0); err != nil {
		return request, errors.New("invalid max")
	}
	if request.TimeoutMS, err = parseOptionalInt(r, "timeoutMs", 0); err != nil {
		return request, errors.New("invalid timeoutMs")
	}
	if request.Concurrency, err = parseOptionalInt(r, "concurrency", 0); err != nil {
		return request, errors.New("invalid concurrency")
	}
	return request, nil
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.search == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "search service is not configured")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "query too long (max 500 characters)")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":    query,
		"longform": s.search.IsLongformIntent(query),
	})
}

func (s *Server) parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, errors.New("invalid timeout")
	}
	timeout := time.Duration(ms) * time.Millisecond
	if timeout > s.maxTimeout {
		timeout = s.maxTimeout
	}
	return timeout, nil
}

func parseOptionalInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func parseOptionalBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
