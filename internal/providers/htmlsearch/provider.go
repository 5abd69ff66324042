// Package htmlsearch scrapes a video search results page for candidates.
package htmlsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/providers/common"
)

const (
	defaultEndpoint  = "https://www.youtube.com/results"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	sourceName       = "htmlsearch"
)

type Config struct {
	Endpoint       string
	UserAgent      string
	AcceptLanguage string
	Client         *http.Client
}

type Provider struct {
	client         *http.Client
	endpoint       string
	userAgent      string
	acceptLanguage string
}

func NewProvider(cfg Config) *Provider {
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	acceptLanguage := strings.TrimSpace(cfg.AcceptLanguage)
	if acceptLanguage == "" {
		acceptLanguage = "en-US,en;q=0.8,ru;q=0.6"
	}
	return &Provider{
		client:         client,
		endpoint:       endpoint,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
	}
}

func (p *Provider) Name() string {
	return sourceName
}

func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	uri, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, common.Unavailable(sourceName, fmt.Errorf("invalid endpoint: %w", err))
	}
	values := uri.Query()
	values.Set("search_query", strings.TrimSpace(query))
	uri.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, common.Unavailable(sourceName, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", p.acceptLanguage)

	page, err := common.Do(p.client, sourceName, req)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return ExtractCandidates(string(page), limit), nil
}
