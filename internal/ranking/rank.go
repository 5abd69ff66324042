package ranking

import (
	"sort"

	"artisthub/videosearch/internal/domain"
)

// StrongMatch reports a confident title match. It decides whether an
// unknown-duration candidate is bucketed ahead of poor matches and whether
// it survives the final pass of a long-form query.
func (p Policy) StrongMatch(s domain.ScoredCandidate) bool {
	return s.Coverage >= p.StrongCoverage ||
		s.FuzzyScore >= p.StrongFuzzy ||
		s.YearMatched ||
		s.MatchedCore > 0
}

// SortByScore orders by score, then known duration, then first-seen order.
func SortByScore(scored []domain.ScoredCandidate) []domain.ScoredCandidate {
	out := append([]domain.ScoredCandidate(nil), scored...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if di, dj := out[i].DurationSeconds(), out[j].DurationSeconds(); di != dj {
			return di > dj
		}
		return out[i].OriginalIndex < out[j].OriginalIndex
	})
	return out
}

// Rank sorts by score, drops known shorts for long-form queries and
// concatenates the long, strong-unknown and rest buckets.
func (p Policy) Rank(scored []domain.ScoredCandidate, q QueryContext) []domain.ScoredCandidate {
	ordered := SortByScore(scored)

	var long, unknown, rest []domain.ScoredCandidate
	for _, item := range ordered {
		duration := item.DurationSeconds()
		switch {
		case q.Longform && item.HasDuration() && duration < p.ShortSeconds:
			continue
		case duration >= p.LongSeconds:
			long = append(long, item)
		case !item.HasDuration() && p.StrongMatch(item):
			unknown = append(unknown, item)
		default:
			rest = append(rest, item)
		}
	}

	out := make([]domain.ScoredCandidate, 0, len(long)+len(unknown)+len(rest))
	for _, bucket := range [][]domain.ScoredCandidate{long, unknown, rest} {
		sortBucket(bucket)
		out = append(out, bucket...)
	}
	return out
}

func sortBucket(bucket []domain.ScoredCandidate) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if di, dj := bucket[i].DurationSeconds(), bucket[j].DurationSeconds(); di != dj {
			return di > dj
		}
		return bucket[i].OriginalIndex < bucket[j].OriginalIndex
	})
}

// TopScore returns the highest score, or 0 for an empty pool.
func TopScore(scored []domain.ScoredCandidate) float64 {
	if len(scored) == 0 {
		return 0
	}
	top := scored[0].Score
	for _, item := range scored[1:] {
		if item.Score > top {
			top = item.Score
		}
	}
	return top
}

// NeedsExpansion reports whether the first round scored too poorly.
func (p Policy) NeedsExpansion(scored []domain.ScoredCandidate, q QueryContext) bool {
	if q.Core == "" {
		return false
	}
	return len(scored) == 0 || TopScore(scored) < p.ExpansionThreshold
}

// FinalPass re-applies the duration policy after embeddability filtering.
// accepted is the filtered order, ranked the pre-filter order. fallback is
// true when the policy emptied accepted and a fallback list was used.
func (p Policy) FinalPass(accepted, ranked []domain.ScoredCandidate, q QueryContext, allowShort bool, limit int) (out []domain.ScoredCandidate, fallback bool) {
	kept := make([]domain.ScoredCandidate, 0, len(accepted))
	for _, item := range accepted {
		if p.keepFinal(item, q, allowShort) {
			kept = append(kept, item)
		}
	}
	if len(kept) > 0 || (len(accepted) == 0 && len(ranked) == 0) {
		return truncate(kept, limit), false
	}

	for _, item := range ranked {
		if item.DurationSeconds() >= p.LongSeconds || (!item.HasDuration() && p.StrongMatch(item)) {
			kept = append(kept, item)
		}
	}
	if len(kept) > 0 {
		return truncate(kept, limit), true
	}
	return truncate(accepted, limit), true
}

func (p Policy) keepFinal(item domain.ScoredCandidate, q QueryContext, allowShort bool) bool {
	if !q.Longform {
		return true
	}
	if item.HasDuration() {
		return allowShort || item.DurationSeconds() >= p.ShortSeconds
	}
	return p.StrongMatch(item)
}

func truncate(items []domain.ScoredCandidate, limit int) []domain.ScoredCandidate {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
