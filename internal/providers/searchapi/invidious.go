package searchapi

import (
	"encoding/json"
	"net/url"
	"strings"

	"artisthub/videosearch/internal/domain"
)

type invidiousItem struct {
	Type          string `json:"type"`
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	LengthSeconds *int   `json:"lengthSeconds"`
}

type invidiousAdapter struct{}

func (invidiousAdapter) searchURL(base *url.URL, query, region string) string {
	uri := *base
	uri.Path = strings.TrimRight(uri.Path, "/") + "/api/v1/search"
	values := url.Values{}
	values.Set("q", query)
	values.Set("type", "video")
	if region != "" {
		values.Set("region", region)
	}
	uri.RawQuery = values.Encode()
	return uri.String()
}

func (invidiousAdapter) parseSearch(payload []byte) ([]domain.Candidate, error) {
	var items []invidiousItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		if item.Type != "" && item.Type != "video" {
			continue
		}
		out = append(out, domain.Candidate{
			ID:       strings.TrimSpace(item.VideoID),
			Title:    item.Title,
			Duration: positiveSeconds(item.LengthSeconds),
		})
	}
	return out, nil
}

func (invidiousAdapter) metadataURL(base *url.URL, id string) string {
	uri := *base
	uri.Path = strings.TrimRight(uri.Path, "/") + "/api/v1/videos/" + url.PathEscape(id)
	uri.RawQuery = url.Values{"fields": {"videoId,title,lengthSeconds"}}.Encode()
	return uri.String()
}

func (invidiousAdapter) parseMetadata(payload []byte) (metadata, error) {
	var item invidiousItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return metadata{}, err
	}
	return metadata{Title: item.Title, Duration: positiveSeconds(item.LengthSeconds)}, nil
}
