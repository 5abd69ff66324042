package search

import (
	"strings"

	"artisthub/videosearch/internal/domain"
)

// candidatePool is the per-call working set. It is only mutated from the
// goroutine running the search.
type candidatePool struct {
	cap     int
	order   []string
	entries map[string]*domain.Candidate
}

func newCandidatePool(capacity int) *candidatePool {
	return &candidatePool{
		cap:     capacity,
		entries: make(map[string]*domain.Candidate, capacity),
	}
}

// add merges items in order, ignoring invalid and already known ids. Missing
// title or duration on a known id is filled from the newer item. It returns
// the number of new candidates.
func (p *candidatePool) add(items []domain.Candidate) int {
	added := 0
	for _, item := range items {
		if !domain.IsValidVideoID(item.ID) {
			continue
		}
		if existing, ok := p.entries[item.ID]; ok {
			mergeMissing(existing, item)
			continue
		}
		if p.full() {
			continue
		}
		item.Title = strings.TrimSpace(item.Title)
		item.OriginalIndex = len(p.order)
		candidate := item
		p.entries[item.ID] = &candidate
		p.order = append(p.order, item.ID)
		added++
	}
	return added
}

func mergeMissing(existing *domain.Candidate, item domain.Candidate) {
	if existing.Duration == nil && item.Duration != nil {
		existing.Duration = domain.Seconds(*item.Duration)
	}
	if existing.Title == "" {
		existing.Title = strings.TrimSpace(item.Title)
	}
}

func (p *candidatePool) full() bool {
	return p.cap > 0 && len(p.order) >= p.cap
}

func (p *candidatePool) len() int {
	return len(p.order)
}

func (p *candidatePool) get(id string) *domain.Candidate {
	return p.entries[id]
}

// items returns a snapshot in first-seen order.
func (p *candidatePool) items() []domain.Candidate {
	out := make([]domain.Candidate, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.entries[id])
	}
	return out
}
