package repositories

import (
	"context"
	"guide-tracking-service/internal/domain"
	"time"
)

// In-memory implementation of the GuideStore port.
// Not safe for concurrent use; the tracker serializes access.
type MemoryGuideStore struct {
	guides []domain.Guide
	index  map[string]int
	now    func() time.Time
}

// NewMemoryGuideStore returns an empty store stamping history with now.
// A nil clock falls back to time.Now.
func NewMemoryGuideStore(now func() time.Time) *MemoryGuideStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryGuideStore{
		index: make(map[string]int),
		now:   now,
	}
}

func (s *MemoryGuideStore) Insert(ctx context.Context, g domain.Guide) error {
	if _, ok := s.index[g.ID]; ok {
		return &domain.DuplicateIDError{ID: g.ID}
	}

	s.index[g.ID] = len(s.guides)
	s.guides = append(s.guides, g.Clone())
	return nil
}

func (s *MemoryGuideStore) FindByID(ctx context.Context, id string) (domain.Guide, bool, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.Guide{}, false, nil
	}
	return s.guides[i].Clone(), true, nil
}

func (s *MemoryGuideStore) AdvanceStatus(ctx context.Context, id string, next domain.Status) error {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	s.guides[i].Advance(next, s.now())
	return nil
}

func (s *MemoryGuideStore) List(ctx context.Context) ([]domain.Guide, error) {
	out := make([]domain.Guide, 0, len(s.guides))
	for _, g := range s.guides {
		out = append(out, g.Clone())
	}
	return out, nil
}

func (s *MemoryGuideStore) Count(ctx context.Context) (int, error) {
	return len(s.guides), nil
}

func (s *MemoryGuideStore) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	counts := make(map[domain.Status]int)
	for _, g := range s.guides {
		counts[g.Status]++
	}
	return counts, nil
}
