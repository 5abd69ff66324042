package ranking

import (
	"strings"

	"artisthub/videosearch/internal/textnorm"
)

var fullMoviePhrases = []string{
	"full movie",
	"full film",
	"полный фильм",
	"фильм целиком",
	"фильм полностью",
}

var longformWords = map[string]struct{}{
	"movie":      {},
	"film":       {},
	"фильм":      {},
	"кино":       {},
	"audiobook":  {},
	"аудиокнига": {},
}

// IsLongformIntent reports whether the query asks for a complete movie or
// audiobook rather than a clip. False positives only make short-video
// suppression stricter.
func IsLongformIntent(query string) bool {
	return longformIntent(textnorm.Normalize(query))
}

func longformIntent(normalized string) bool {
	if normalized == "" {
		return false
	}
	for _, phrase := range fullMoviePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	if len(textnorm.Years(normalized)) > 0 {
		return true
	}
	for _, token := range textnorm.Tokens(normalized) {
		if _, ok := longformWords[token]; ok {
			return true
		}
	}
	return false
}
