// Package searchapi fetches candidates from a search-aggregator JSON API and
// backfills per-id metadata from the same family of endpoints.
package searchapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/providers/common"
	"artisthub/videosearch/internal/textnorm"
)

const (
	defaultBaseURL   = "https://inv.nadeko.net"
	defaultUserAgent = "artisthub-videosearch/1.0"
	defaultRegion    = "RU"
	sourceName       = "searchapi"
	metadataName     = "metadata"
)

type Flavor string

const (
	FlavorInvidious Flavor = "invidious"
	FlavorPiped     Flavor = "piped"
)

// ParseFlavor maps a configuration value to a known flavor, defaulting to
// invidious.
func ParseFlavor(raw string) Flavor {
	switch Flavor(strings.ToLower(strings.TrimSpace(raw))) {
	case FlavorPiped:
		return FlavorPiped
	default:
		return FlavorInvidious
	}
}

type Config struct {
	BaseURL         string
	MetadataBaseURL string
	Flavor          Flavor
	// Region is sent only for queries containing Cyrillic.
	Region    string
	UserAgent string
	Client    *http.Client
}

// adapter owns one response schema of the aggregator.
type adapter interface {
	searchURL(base *url.URL, query, region string) string
	parseSearch(payload []byte) ([]domain.Candidate, error)
	metadataURL(base *url.URL, id string) string
	parseMetadata(payload []byte) (metadata, error)
}

type metadata struct {
	Title    string
	Duration *int
}

type Provider struct {
	client      *http.Client
	base        *url.URL
	metadata    *url.URL
	adapter     adapter
	flavor      Flavor
	region      string
	userAgent   string
	configError error
}

func NewProvider(cfg Config) *Provider {
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	metadataURL := strings.TrimSpace(cfg.MetadataBaseURL)
	if metadataURL == "" {
		metadataURL = baseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}
	flavor := cfg.Flavor
	if flavor == "" {
		flavor = FlavorInvidious
	}

	p := &Provider{
		client:    client,
		flavor:    flavor,
		region:    region,
		userAgent: userAgent,
	}
	switch flavor {
	case FlavorPiped:
		p.adapter = pipedAdapter{}
	default:
		p.adapter = invidiousAdapter{}
	}

	var err error
	if p.base, err = parseBase(baseURL); err != nil {
		p.configError = fmt.Errorf("invalid base url: %w", err)
	}
	if p.metadata, err = parseBase(metadataURL); err != nil {
		p.configError = fmt.Errorf("invalid metadata url: %w", err)
	}
	return p
}

func parseBase(raw string) (*url.URL, error) {
	uri, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, err
	}
	if uri.Scheme == "" || uri.Host == "" {
		return nil, fmt.Errorf("%q is not absolute", raw)
	}
	return uri, nil
}

func (p *Provider) Name() string {
	return sourceName
}

func (p *Provider) Flavor() Flavor {
	return p.flavor
}

// Search returns up to limit deduplicated candidates for query.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if p.configError != nil {
		return nil, common.Unavailable(sourceName, p.configError)
	}
	query = strings.TrimSpace(query)
	region := ""
	if textnorm.HasCyrillic(query) {
		region = p.region
	}

	payload, err := common.Fetch(ctx, p.client, sourceName, p.adapter.searchURL(p.base, query, region), p.userAgent, "application/json")
	if err != nil {
		return nil, err
	}
	items, err := p.adapter.parseSearch(payload)
	if err != nil {
		return nil, common.Malformed(sourceName, err)
	}
	return dedupe(items, limit), nil
}

// Lookup fetches title and duration for a single id.
func (p *Provider) Lookup(ctx context.Context, id string) (domain.Candidate, error) {
	if !domain.IsValidVideoID(id) {
		return domain.Candidate{}, common.Malformed(metadataName, domain.ErrInvalidVideoID)
	}
	if p.configError != nil {
		return domain.Candidate{}, common.Unavailable(metadataName, p.configError)
	}
	payload, err := common.Fetch(ctx, p.client, metadataName, p.adapter.metadataURL(p.metadata, id), p.userAgent, "application/json")
	if err != nil {
		return domain.Candidate{}, err
	}
	meta, err := p.adapter.parseMetadata(payload)
	if err != nil {
		return domain.Candidate{}, common.Malformed(metadataName, err)
	}
	return domain.Candidate{
		ID:       id,
		Title:    strings.TrimSpace(meta.Title),
		Duration: meta.Duration,
		Source:   metadataName,
	}, nil
}

func dedupe(items []domain.Candidate, limit int) []domain.Candidate {
	if limit <= 0 {
		limit = 50
	}
	out := make([]domain.Candidate, 0, min(len(items), limit))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if !domain.IsValidVideoID(item.ID) {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		item.Title = strings.TrimSpace(item.Title)
		item.Source = sourceName
		item.OriginalIndex = len(out)
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func positiveSeconds(value *int) *int {
	if value == nil {
		return nil
	}
	return common.PositiveSeconds(*value)
}
