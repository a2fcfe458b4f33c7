package storage

import (
	"context"
	"sync"
	"time"

	"github.com/ZaguanLabs/gotmem"
)

// MemoryStore is a thread-safe in-memory store. It is the reference backend:
// the other implementations must be observationally equivalent to it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]gotmem.MemoryEntry
	terms   map[string]gotmem.GlossaryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]gotmem.MemoryEntry),
		terms:   make(map[string]gotmem.GlossaryEntry),
	}
}

// AddEntry stores a memory entry.
func (s *MemoryStore) AddEntry(ctx context.Context, entry gotmem.MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return nil
}

// GetEntry returns the entry with the given id.
func (s *MemoryStore) GetEntry(ctx context.Context, id string) (gotmem.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return gotmem.MemoryEntry{}, &gotmem.NotFoundError{ID: id}
	}
	return entry, nil
}

// SearchEntries returns entries matching the language pair and optional
// project, oldest first.
func (s *MemoryStore) SearchEntries(ctx context.Context, q gotmem.SearchQuery) ([]gotmem.MemoryEntry, error) {
	s.mu.RLock()
	results := make([]gotmem.MemoryEntry, 0)
	for _, e := range s.entries {
		if matchesQuery(e, q) {
			results = append(results, e)
		}
	}
	s.mu.RUnlock()

	sortEntries(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// IncrementUsage bumps usage count under the store lock, so concurrent
// accepts never lose an update.
func (s *MemoryStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return &gotmem.NotFoundError{ID: id}
	}
	entry.UsageCount++
	entry.UpdatedAt = at
	s.entries[id] = entry
	return nil
}

// AddTerm stores a project glossary term.
func (s *MemoryStore) AddTerm(ctx context.Context, term gotmem.GlossaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[term.ID] = term
	return nil
}

// SearchTerms returns glossary terms matching exactly or by prefix.
func (s *MemoryStore) SearchTerms(ctx context.Context, termQuery string, q gotmem.SearchQuery) ([]gotmem.GlossaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]gotmem.GlossaryEntry, 0)
	for _, t := range s.terms {
		if matchesTerm(t, termQuery, q) {
			results = append(results, t)
		}
	}
	sortTerms(results)
	return results, nil
}

// Stats summarizes the store.
func (s *MemoryStore) Stats(ctx context.Context) (gotmem.MemoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]gotmem.MemoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	terms := make([]gotmem.GlossaryEntry, 0, len(s.terms))
	for _, t := range s.terms {
		terms = append(terms, t)
	}
	return computeStats(entries, terms), nil
}

// Len returns the number of memory entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Verify MemoryStore implements gotmem.Store.
var _ gotmem.Store = (*MemoryStore)(nil)
