package ranking

import (
	"strings"

	"artisthub/videosearch/internal/domain"
	"artisthub/videosearch/internal/textnorm"
)

var positiveMarkers = []string{
	"full movie",
	"full film",
	"full audiobook",
	"full length",
	"полный фильм",
	"фильм",
	"аудиокнига",
	"audiobook",
}

// Single words match title tokens; phrases match as substrings.
var negativeMarkers = []string{
	"trailer",
	"teaser",
	"episode",
	"clip",
	"ost",
	"shorts",
	"review",
	"reaction",
	"scene",
	"behind the scenes",
	"making of",
	"трейлер",
	"тизер",
	"серия",
	"эпизод",
	"клип",
	"отрывок",
	"сцена",
	"обзор",
	"реакция",
}

// ScorePool scores every candidate of the pool against the query.
func (p Policy) ScorePool(pool []domain.Candidate, q QueryContext) []domain.ScoredCandidate {
	poolHasLong := false
	for _, c := range pool {
		if c.DurationSeconds() >= p.LongSeconds {
			poolHasLong = true
			break
		}
	}
	scored := make([]domain.ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		scored = append(scored, p.Score(c, q, poolHasLong))
	}
	return scored
}

// Score is deterministic. poolHasLong reports whether any candidate of the
// surrounding pool has a known duration of at least LongSeconds.
func (p Policy) Score(c domain.Candidate, q QueryContext, poolHasLong bool) domain.ScoredCandidate {
	out := domain.ScoredCandidate{Candidate: c, NormalizedTitle: textnorm.Normalize(c.Title)}

	if out.NormalizedTitle != "" {
		out.Score += p.titleScore(&out, q)
	}
	out.Score += p.durationScore(c, q, out.NormalizedTitle == "", poolHasLong)
	return out
}

func (p Policy) titleScore(out *domain.ScoredCandidate, q QueryContext) float64 {
	titleVariants := textnorm.ScriptVariants(out.NormalizedTitle)
	score := 0.0

	for _, core := range q.CoreVariants {
		if containsAny(titleVariants, core) {
			out.ContainsCore = true
			score += p.CorePhraseBonus
			break
		}
	}

	queryHits := 0
	if len(q.CoreTokens) > 0 {
		for _, token := range q.CoreTokens {
			if containsAny(titleVariants, token) || containsAny(titleVariants, textnorm.Transliterate(token)) {
				out.MatchedCore++
				score += p.CoreTokenBonus
			}
		}
		out.Coverage = float64(out.MatchedCore) / float64(len(q.CoreTokens))
	} else {
		for _, token := range q.QueryTokens {
			if containsAny(titleVariants, token) {
				queryHits++
				score += p.QueryTokenBonus
			}
		}
	}

	compareVariants := q.CoreVariants
	if len(compareVariants) == 0 {
		compareVariants = q.ScriptVariants
	}
	out.FuzzyScore = textnorm.BestDice(titleVariants, compareVariants)
	switch {
	case out.FuzzyScore >= p.FuzzyStrong:
		score += p.FuzzyStrongBonus
	case out.FuzzyScore >= p.FuzzyWeak:
		score += p.FuzzyWeakBonus
	}

	for _, marker := range positiveMarkers {
		if containsAny(titleVariants, marker) {
			score += p.PositiveBonus
			break
		}
	}

	if len(q.Years) > 0 {
		titleYears := textnorm.Years(out.NormalizedTitle)
		if sharesAny(q.Years, titleYears) {
			out.YearMatched = true
			score += p.YearMatchBonus
		} else if len(titleYears) > 0 {
			score -= p.YearMismatch
		}
	}

	if hits := negativeHits(titleVariants, p.NegativeMaxHits); hits > 0 {
		score -= p.NegativePenalty * float64(hits)
	}

	if len(q.CoreTokens) >= 2 && out.Coverage < p.MinCoverage {
		score -= p.CoveragePenalty
	}

	anyHit := out.ContainsCore || out.MatchedCore > 0 || queryHits > 0 || out.FuzzyScore >= p.FuzzyWeak
	if !anyHit {
		titleScript := textnorm.DetectScript(out.NormalizedTitle)
		if q.Script != textnorm.ScriptNone && titleScript != textnorm.ScriptNone && q.Script != titleScript {
			score -= p.ScriptMismatch
		}
	}
	return score
}

func (p Policy) durationScore(c domain.Candidate, q QueryContext, untitled, poolHasLong bool) float64 {
	duration := c.DurationSeconds()
	known := c.HasDuration()

	if q.Longform {
		switch {
		case !known:
			if poolHasLong {
				return -p.UnknownAmongLong
			}
			return 0
		case duration >= p.FeatureSeconds:
			return p.FeatureBonus
		case duration >= p.LongSeconds:
			return p.LongBonus
		case duration < p.ClipSeconds:
			return -p.ClipPenalty
		case duration < p.ShortSeconds:
			return -p.ShortPenalty
		}
		return 0
	}

	if !known {
		return 0
	}
	score := 0.0
	if duration >= p.EpisodeSeconds {
		score += p.EpisodeBonus
	}
	if untitled && p.EpisodeSeconds > 0 {
		ratio := float64(duration) / float64(p.EpisodeSeconds)
		if ratio > 1 {
			ratio = 1
		}
		score += p.UntitledBonus * ratio
	}
	return score
}

func containsAny(variants []string, needle string) bool {
	for _, variant := range variants {
		if strings.Contains(variant, needle) {
			return true
		}
	}
	return false
}

func sharesAny(left, right []string) bool {
	for _, a := range left {
		for _, b := range right {
			if a == b {
				return true
			}
		}
	}
	return false
}

func negativeHits(titleVariants []string, limit int) int {
	tokens := make(map[string]struct{})
	for _, variant := range titleVariants {
		for _, token := range textnorm.Tokens(variant) {
			tokens[token] = struct{}{}
		}
	}
	hits := 0
	for _, marker := range negativeMarkers {
		var hit bool
		if strings.Contains(marker, " ") {
			hit = containsAny(titleVariants, marker)
		} else {
			_, hit = tokens[marker]
		}
		if !hit {
			continue
		}
		hits++
		if limit > 0 && hits >= limit {
			break
		}
	}
	return hits
}
