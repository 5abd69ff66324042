// Package ranking scores and orders video candidates against a query with a
// preference for complete long-form content.
package ranking

// Policy holds the tunable weights and thresholds used by the scorer, the
// bucketer and the final pass. Values are empirically tuned; durations are
// in seconds.
type Policy struct {
	CorePhraseBonus      float64 `json:"corePhraseBonus"`
	CoreTokenBonus       float64 `json:"coreTokenBonus"`
	QueryTokenBonus      float64 `json:"queryTokenBonus"`
	FuzzyStrong          float64 `json:"fuzzyStrong"`
	FuzzyStrongBonus     float64 `json:"fuzzyStrongBonus"`
	FuzzyWeak            float64 `json:"fuzzyWeak"`
	FuzzyWeakBonus       float64 `json:"fuzzyWeakBonus"`
	PositiveBonus        float64 `json:"positiveBonus"`
	YearMatchBonus       float64 `json:"yearMatchBonus"`
	YearMismatch         float64 `json:"yearMismatch"`
	NegativePenalty      float64 `json:"negativePenalty"`
	NegativeMaxHits      int     `json:"negativeMaxHits"`
	MinCoverage          float64 `json:"minCoverage"`
	CoveragePenalty      float64 `json:"coveragePenalty"`
	ScriptMismatch       float64 `json:"scriptMismatch"`
	FeatureSeconds       int     `json:"featureSeconds"`
	FeatureBonus         float64 `json:"featureBonus"`
	LongSeconds          int     `json:"longSeconds"`
	LongBonus            float64 `json:"longBonus"`
	ClipSeconds          int     `json:"clipSeconds"`
	ClipPenalty          float64 `json:"clipPenalty"`
	ShortSeconds         int     `json:"shortSeconds"`
	ShortPenalty         float64 `json:"shortPenalty"`
	UnknownAmongLong     float64 `json:"unknownAmongLong"`
	EpisodeSeconds       int     `json:"episodeSeconds"`
	EpisodeBonus         float64 `json:"episodeBonus"`
	UntitledBonus        float64 `json:"untitledBonus"`
	StrongCoverage       float64 `json:"strongCoverage"`
	StrongFuzzy          float64 `json:"strongFuzzy"`
	ExpansionThreshold   float64 `json:"expansionThreshold"`
	MaxExpansionVariants int     `json:"expansionVariants"`
}

func DefaultPolicy() Policy {
	return Policy{
		CorePhraseBonus:      3,
		CoreTokenBonus:       0.75,
		QueryTokenBonus:      0.5,
		FuzzyStrong:          0.8,
		FuzzyStrongBonus:     2,
		FuzzyWeak:            0.6,
		FuzzyWeakBonus:       1,
		PositiveBonus:        0.8,
		YearMatchBonus:       1.2,
		YearMismatch:         0.6,
		NegativePenalty:      0.35,
		NegativeMaxHits:      3,
		MinCoverage:          0.5,
		CoveragePenalty:      0.6,
		ScriptMismatch:       0.4,
		FeatureSeconds:       75 * 60,
		FeatureBonus:         1.5,
		LongSeconds:          60 * 60,
		LongBonus:            0.6,
		ClipSeconds:          15 * 60,
		ClipPenalty:          1.8,
		ShortSeconds:         20 * 60,
		ShortPenalty:         1.2,
		UnknownAmongLong:     0.4,
		EpisodeSeconds:       45 * 60,
		EpisodeBonus:         0.3,
		UntitledBonus:        0.2,
		StrongCoverage:       0.5,
		StrongFuzzy:          0.7,
		ExpansionThreshold:   4.0,
		MaxExpansionVariants: 4,
	}
}
