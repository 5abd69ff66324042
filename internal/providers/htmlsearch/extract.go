package htmlsearch

import (
	"regexp"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/providers/common"
)

const jsonString = `((?:[^"\\]|\\.)*)`

const accessibilityPrefix = `(?:"accessibility":\{"accessibilityData":\{"label":"(?:[^"\\]|\\.)*"\}\},)?`

var (
	videoIDPattern     = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)
	runsTitlePattern   = regexp.MustCompile(`"title":\{"runs":\[\{"text":"` + jsonString + `"`)
	simpleTitlePattern = regexp.MustCompile(`"title":\{` + accessibilityPrefix + `"simpleText":"` + jsonString + `"`)
	lengthTextPattern  = regexp.MustCompile(`"lengthText":\{` + accessibilityPrefix + `"simpleText":"([0-9:]+)"`)
	watchLinkPattern   = regexp.MustCompile(`/watch\?v=([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)
)

// ExtractCandidates reads inline results-page JSON for video ids and the
// title and length found before the next distinct id. Pages without inline
// JSON fall back to bare watch links. At most limit candidates are
// returned; limit <= 0 means no cap.
func ExtractCandidates(page string, limit int) []domain.Candidate {
	matches := videoIDPattern.FindAllStringSubmatchIndex(page, -1)
	if len(matches) == 0 {
		return extractWatchLinks(page, limit)
	}

	out := make([]domain.Candidate, 0, 16)
	seen := make(map[string]struct{}, len(matches))
	for i := 0; i < len(matches); i++ {
		id := page[matches[i][2]:matches[i][3]]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		end := len(page)
		for j := i + 1; j < len(matches); j++ {
			if page[matches[j][2]:matches[j][3]] != id {
				end = matches[j][0]
				break
			}
		}
		window := page[matches[i][1]:end]

		candidate := domain.Candidate{
			ID:            id,
			Title:         windowTitle(window),
			OriginalIndex: len(out),
			Source:        sourceName,
		}
		if m := lengthTextPattern.FindStringSubmatch(window); len(m) == 2 {
			candidate.Duration = common.PositiveSeconds(common.ParseClockDuration(m[1]))
		}
		out = append(out, candidate)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func windowTitle(window string) string {
	runs := runsTitlePattern.FindStringSubmatchIndex(window)
	simple := simpleTitlePattern.FindStringSubmatchIndex(window)
	var raw string
	switch {
	case runs != nil && (simple == nil || runs[0] < simple[0]):
		raw = window[runs[2]:runs[3]]
	case simple != nil:
		raw = window[simple[2]:simple[3]]
	default:
		return ""
	}
	return common.CleanHTMLText(common.UnescapeJSONString(raw))
}

func extractWatchLinks(page string, limit int) []domain.Candidate {
	matches := watchLinkPattern.FindAllStringSubmatch(page, -1)
	out := make([]domain.Candidate, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		id := match[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, domain.Candidate{ID: id, OriginalIndex: len(out), Source: sourceName})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
