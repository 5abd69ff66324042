// Package embed checks whether videos may be played in an embedded player and
// filters id lists by that check without disturbing their order.
package embed

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultEndpoint  = "https://www.youtube.com/oembed"
	defaultUserAgent = "artisthub-videosearch/1.0"
	watchURLPrefix   = "https://www.youtube.com/watch?v="
)

// Prober reports whether a single id is embeddable. Implementations never
// fail: any error means false.
type Prober interface {
	Probe(ctx context.Context, id string) bool
}

type ProberConfig struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

// OEmbedProber treats a 200 from an oEmbed endpoint as embeddable.
type OEmbedProber struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

func NewOEmbedProber(cfg ProberConfig) *OEmbedProber {
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
	return &OEmbedProber{client: client, endpoint: endpoint, userAgent: userAgent}
}

func (p *OEmbedProber) Probe(ctx context.Context, id string) bool {
	uri, err := url.Parse(p.endpoint)
	if err != nil {
		return false
	}
	query := uri.Query()
	query.Set("url", watchURLPrefix+id)
	query.Set("format", "json")
	uri.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	return resp.StatusCode == http.StatusOK
}
