package app

import (
	"log/slog"

	"artisthub/videosearch/internal/embed"
	"artisthub/videosearch/internal/httpx"
	"artisthub/videosearch/internal/providers/htmlsearch"
	"artisthub/videosearch/internal/providers/searchapi"
	"artisthub/videosearch/internal/ranking"
	"artisthub/videosearch/internal/search"
)

// EngineConfig maps the process configuration onto the engine's sizing.
func (c Config) EngineConfig() search.Config {
	return search.Config{
		PoolSize:          c.PoolSize,
		ExpandedPoolCap:   c.ExpandedPoolCap,
		EnrichLimit:       c.EnrichLimit,
		EnrichConcurrency: c.EnrichConcurrency,
		ProbeConcurrency:  c.ProbeConcurrency,
		DefaultMax:        c.DefaultMax,
		DefaultTimeout:    c.DefaultTimeout,
		Policy:            ranking.DefaultPolicy(),
	}
}

func (c Config) client(name string) httpx.ClientConfig {
	return httpx.ClientConfig{
		Name:    name,
		Timeout: c.RequestTimeout,
		RPS:     c.OutboundRPS,
		Burst:   c.OutboundBurst,
	}
}

// BuildEngine wires the collaborators described by cfg into an engine. Each
// collaborator gets its own traced, rate limited client.
func BuildEngine(cfg Config, logger *slog.Logger) *search.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	api := searchapi.NewProvider(searchapi.Config{
		BaseURL:         cfg.SearchAPIBaseURL,
		MetadataBaseURL: cfg.MetadataBaseURL,
		Flavor:          searchapi.ParseFlavor(cfg.SearchAPIFlavor),
		Region:          cfg.SearchAPIRegion,
		UserAgent:       cfg.UserAgent,
		Client:          httpx.NewClient(cfg.client("searchapi")),
	})
	page := htmlsearch.NewProvider(htmlsearch.Config{
		Endpoint: cfg.SearchHTMLEndpoint,
		Client:   httpx.NewClient(cfg.client("htmlsearch")),
	})
	prober := embed.NewOEmbedProber(embed.ProberConfig{
		Endpoint:  cfg.EmbedProbeEndpoint,
		UserAgent: cfg.UserAgent,
		Client:    httpx.NewClient(cfg.client("embed")),
	})
	filter := embed.NewFilter(prober,
		embed.WithLogger(logger),
		embed.WithConcurrency(cfg.ProbeConcurrency),
	)

	return search.NewEngine(api, filter, cfg.EngineConfig(),
		search.WithLogger(logger),
		search.WithSecondary(page),
		search.WithMetadataLookup(api),
	)
}
