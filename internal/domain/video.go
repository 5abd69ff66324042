package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"
)

var ErrInvalidVideoID = errors.New("invalid video id")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidVideoID reports whether id has the platform's 11 character shape.
func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// Candidate is a discovered video reference. Duration is nil when unknown,
// Title is empty when unknown.
type Candidate struct {
	ID            string
	Title         string
	Duration      *int
	OriginalIndex int
	Source        string
}

func (c Candidate) HasDuration() bool {
	return c.Duration != nil
}

// DurationSeconds returns the known duration, or -1 when unknown.
func (c Candidate) DurationSeconds() int {
	if c.Duration == nil {
		return -1
	}
	return *c.Duration
}

// Seconds returns a pointer suitable for Candidate.Duration.
func Seconds(value int) *int {
	if value < 0 {
		return nil
	}
	v := value
	return &v
}

type ScoredCandidate struct {
	Candidate
	NormalizedTitle string
	Score           float64
	FuzzyScore      float64
	YearMatched     bool
	Coverage        float64
	MatchedCore     int
	ContainsCore    bool
}

type SearchOptions struct {
	Max     int
	Timeout time.Duration
	// AllowShort keeps sub-threshold durations in the final pass even for
	// long-form queries.
	AllowShort bool
}

type FilterOptions struct {
	Max         int
	Timeout     time.Duration
	Concurrency int
}

type ResultMeta struct {
	Query        string            `json:"query"`
	Candidates   int               `json:"candidates"`
	TopScore     float64           `json:"topScore"`
	TitleMatched bool              `json:"titleMatched"`
	Longform     bool              `json:"longform"`
	Expanded     bool              `json:"expanded"`
	Fallback     string            `json:"fallback,omitempty"`
	Durations    map[string]int    `json:"durations,omitempty"`
	Titles       map[string]string `json:"titles,omitempty"`
	Sources      map[string]int    `json:"sources,omitempty"`
	ElapsedMS    int64             `json:"elapsedMs"`
}

// Result is an ordered id list. Meta is a diagnostics side channel and is
// not part of the JSON form, which is the bare id array.
type Result struct {
	IDs  []string
	Meta ResultMeta
}

func (r Result) Len() int {
	return len(r.IDs)
}

func (r Result) MarshalJSON() ([]byte, error) {
	ids := r.IDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	r.IDs = ids
	return nil
}
