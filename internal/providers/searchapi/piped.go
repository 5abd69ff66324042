package searchapi

import (
	"encoding/json"
	"net/url"
	"strings"

	"artisthub/videosearch/internal/domain"
)

type pipedSearchResponse struct {
	Items []pipedItem `json:"items"`
}

type pipedItem struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Duration *int   `json:"duration"`
}

type pipedStream struct {
	Title    string `json:"title"`
	Duration *int   `json:"duration"`
}

type pipedAdapter struct{}

func (pipedAdapter) searchURL(base *url.URL, query, region string) string {
	uri := *base
	uri.Path = strings.TrimRight(uri.Path, "/") + "/search"
	values := url.Values{}
	values.Set("q", query)
	values.Set("filter", "videos")
	if region != "" {
		values.Set("region", region)
	}
	uri.RawQuery = values.Encode()
	return uri.String()
}

func (pipedAdapter) parseSearch(payload []byte) ([]domain.Candidate, error) {
	var resp pipedSearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Type != "" && item.Type != "stream" {
			continue
		}
		out = append(out, domain.Candidate{
			ID:       watchID(item.URL),
			Title:    item.Title,
			Duration: positiveSeconds(item.Duration),
		})
	}
	return out, nil
}

// watchID extracts v from "/watch?v=ID".
func watchID(raw string) string {
	uri, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return uri.Query().Get("v")
}

func (pipedAdapter) metadataURL(base *url.URL, id string) string {
	uri := *base
	uri.Path = strings.TrimRight(uri.Path, "/") + "/streams/" + url.PathEscape(id)
	uri.RawQuery = ""
	return uri.String()
}

func (pipedAdapter) parseMetadata(payload []byte) (metadata, error) {
	var stream pipedStream
	if err := json.Unmarshal(payload, &stream); err != nil {
		return metadata{}, err
	}
	return metadata{Title: stream.Title, Duration: positiveSeconds(stream.Duration)}, nil
}
