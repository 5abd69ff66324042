package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apihttp "artisthub/videosearch/internal/api/http"
	"artisthub/videosearch/internal/app"
	"artisthub/videosearch/internal/metrics"
	"artisthub/videosearch/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "videosearch", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "videosearch"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Bool("hasLogFile", strings.TrimSpace(cfg.LogFile) != ""),
		slog.String("searchAPIBaseURL", cfg.SearchAPIBaseURL),
		slog.String("searchAPIFlavor", cfg.SearchAPIFlavor),
		slog.String("metadataBaseURL", cfg.MetadataBaseURL),
		slog.String("searchHTMLEndpoint", cfg.SearchHTMLEndpoint),
		slog.String("embedProbeEndpoint", cfg.EmbedProbeEndpoint),
		slog.Duration("requestTimeout", cfg.RequestTimeout),
		slog.Duration("defaultTimeout", cfg.DefaultTimeout),
		slog.Int("poolSize", cfg.PoolSize),
		slog.Int("probeConcurrency", cfg.ProbeConcurrency),
		slog.Bool("hasOTLPEndpoint", strings.TrimSpace(cfg.OTLPEndpoint) != ""),
	)

	engine := app.BuildEngine(cfg, logger)
	handler := apihttp.NewServer(engine,
		apihttp.WithLogger(logger),
		apihttp.WithRateLimit(cfg.HTTPRateLimitRPS, cfg.HTTPRateLimitBurst),
	).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.DefaultTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("video search service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Duration("timeout", cfg.DefaultTimeout),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("video search service stopped")
}
