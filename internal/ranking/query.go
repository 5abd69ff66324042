package ranking

import (
	"strings"
	"unicode"

	"artisthub/videosearch/internal/textnorm"
)

// QueryContext is derived once per search call from the raw query.
type QueryContext struct {
	Raw            string
	Normalized     string
	Core           string
	CoreTokens     []string
	ScriptVariants []string
	CoreVariants   []string
	QueryTokens    []string
	Years          []string
	Script         textnorm.Script
	Longform       bool
}

// Filler phrases are matched as whole words and stripped from the core,
// longest phrase first.
var fillerPhrases = splitPhrases([]string{
	"смотреть онлайн бесплатно",
	"full length movie",
	"фильм целиком",
	"фильм полностью",
	"полный фильм",
	"смотреть онлайн",
	"full movie",
	"full film",
	"full audiobook",
	"аудиокнига полностью",
	"movie",
	"film",
	"фильм",
	"кино",
	"audiobook",
	"аудиокнига",
})

func splitPhrases(phrases []string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, phrase := range phrases {
		out = append(out, strings.Fields(phrase))
	}
	return out
}

func NewQueryContext(raw string) QueryContext {
	normalized := textnorm.Normalize(raw)
	core := stripFiller(normalized)

	q := QueryContext{
		Raw:            raw,
		Normalized:     normalized,
		Core:           core,
		CoreTokens:     significantTokens(core),
		ScriptVariants: textnorm.ScriptVariants(normalized),
		QueryTokens:    significantTokens(normalized),
		Years:          textnorm.Years(raw),
		Longform:       longformIntent(normalized),
	}
	if core != "" {
		q.CoreVariants = textnorm.ScriptVariants(core)
		q.Script = textnorm.DetectScript(core)
	} else {
		q.Script = textnorm.DetectScript(normalized)
	}
	return q
}

func stripFiller(normalized string) string {
	words := strings.Fields(normalized)
	kept := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if n := fillerAt(words, i); n > 0 {
			i += n
			continue
		}
		kept = append(kept, words[i])
		i++
	}
	return strings.Join(kept, " ")
}

func fillerAt(words []string, start int) int {
	for _, phrase := range fillerPhrases {
		if start+len(phrase) > len(words) {
			continue
		}
		matched := true
		for offset, word := range phrase {
			if trimPunct(words[start+offset]) != word {
				matched = false
				break
			}
		}
		if matched {
			return len(phrase)
		}
	}
	return 0
}

func trimPunct(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func significantTokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := trimPunct(field)
		if len([]rune(token)) > 1 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// ExpansionVariants builds the broadened queries tried when the first round
// scores poorly. Every variant contains the core. Variants equal to the
// normalized query are skipped since the first round already ran them.
func (p Policy) ExpansionVariants(q QueryContext) []string {
	if q.Core == "" {
		return nil
	}
	movie, fullMovie := "movie", "full movie"
	if textnorm.HasCyrillic(q.Core) {
		movie, fullMovie = "фильм", "фильм полностью"
	}
	candidates := []string{
		q.Core,
		q.Core + " " + movie,
		q.Core + " " + fullMovie,
		q.Core + " full movie",
	}

	limit := p.MaxExpansionVariants
	if limit <= 0 {
		limit = len(candidates)
	}
	out := make([]string, 0, limit)
	seen := map[string]struct{}{q.Normalized: {}}
	for _, variant := range candidates {
		if _, ok := seen[variant]; ok {
			continue
		}
		seen[variant] = struct{}{}
		out = append(out, variant)
		if len(out) == limit {
			break
		}
	}
	return out
}
