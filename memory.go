package gotmem

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// Store is the persistence boundary the memory service talks to. Backends
// live in the storage package; the matchers themselves never see a Store,
// they take already-fetched entry slices.
type Store interface {
	// AddEntry persists a fully-populated entry.
	AddEntry(ctx context.Context, entry MemoryEntry) error
	// GetEntry returns the entry with the given id, or a NotFoundError.
	GetEntry(ctx context.Context, id string) (MemoryEntry, error)
	// SearchEntries applies the coarse language-pair/project pre-filter.
	SearchEntries(ctx context.Context, q SearchQuery) ([]MemoryEntry, error)
	// IncrementUsage atomically bumps an entry's usage count and updated
	// time. Returns a NotFoundError for unknown ids.
	IncrementUsage(ctx context.Context, id string, at time.Time) error
	// AddTerm persists a project glossary term.
	AddTerm(ctx context.Context, term GlossaryEntry) error
	// SearchTerms returns glossary terms matching the term query exactly or
	// by prefix, case-insensitive, scoped to the language pair and project.
	SearchTerms(ctx context.Context, termQuery string, q SearchQuery) ([]GlossaryEntry, error)
	// Stats summarizes the store.
	Stats(ctx context.Context) (MemoryStats, error)
}

// Memory is the caller-facing translation memory service. It validates
// input, delegates persistence to a Store and matching to the matcher
// functions, and tracks in-flight operations.
type Memory struct {
	store     Store
	fuzzyOpts FuzzyOptions
	simCache  *SimilarityCache
	logger    *log.Logger
	now       func() time.Time
	inFlight  atomic.Int64
}

// MemoryOption is a functional option for configuring Memory.
type MemoryOption func(*Memory)

// WithFuzzyOptions overrides the default fuzzy search options.
func WithFuzzyOptions(opts FuzzyOptions) MemoryOption {
	return func(m *Memory) {
		m.fuzzyOpts = opts
	}
}

// WithSimilarityCache attaches a memo cache used by fuzzy searches.
func WithSimilarityCache(cache *SimilarityCache) MemoryOption {
	return func(m *Memory) {
		m.simCache = cache
	}
}

// WithLogger sets the logger for best-effort failures.
func WithLogger(logger *log.Logger) MemoryOption {
	return func(m *Memory) {
		m.logger = logger
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a memory service over the given store.
func NewMemory(store Store, opts ...MemoryOption) *Memory {
	m := &Memory{
		store:     store,
		fuzzyOpts: DefaultFuzzyOptions(),
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InFlight reports how many caller-facing operations are currently running.
// The external UI layer uses it to drive loading state.
func (m *Memory) InFlight() int {
	return int(m.inFlight.Load())
}

func (m *Memory) begin() func() {
	m.inFlight.Add(1)
	return func() { m.inFlight.Add(-1) }
}

// AddEntry validates fields and persists a new entry. The entry starts with
// usage count 1: being recorded counts as its first use.
func (m *Memory) AddEntry(ctx context.Context, fields NewEntry) (string, error) {
	defer m.begin()()

	if strings.TrimSpace(fields.SourceText) == "" {
		return "", &ValidationError{Field: "sourceText", Message: "must be non-empty"}
	}
	if strings.TrimSpace(fields.TargetText) == "" {
		return "", &ValidationError{Field: "targetText", Message: "must be non-empty"}
	}
	if fields.SourceLanguage == "" || fields.TargetLanguage == "" {
		return "", &ValidationError{Field: "language", Message: "source and target languages are required"}
	}
	if fields.Confidence < 0 || fields.Confidence > 1 {
		return "", &ValidationError{Field: "confidence", Message: "must be in [0,1]"}
	}

	now := m.now()
	entry := MemoryEntry{
		ID:             NewEntryID(fields.SourceText, fields.TargetText, fields.SourceLanguage, fields.TargetLanguage, now),
		SourceText:     strings.TrimSpace(fields.SourceText),
		TargetText:     strings.TrimSpace(fields.TargetText),
		SourceLanguage: fields.SourceLanguage,
		TargetLanguage: fields.TargetLanguage,
		Confidence:     fields.Confidence,
		UsageCount:     1,
		ProjectID:      fields.ProjectID,
		GameID:         fields.GameID,
		Provider:       fields.Provider,
		Verified:       fields.Verified,
		Tags:           fields.Tags,
		Notes:          fields.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.store.AddEntry(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// SearchMemory pre-filters entries by language pair and project, then runs a
// fuzzy search over the survivors with the configured options.
func (m *Memory) SearchMemory(ctx context.Context, text, sourceLang, targetLang, projectID string, limit int) ([]MatchSuggestion, error) {
	defer m.begin()()

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "must be non-empty"}
	}
	if limit <= 0 {
		limit = 20
	}

	entries, err := m.store.SearchEntries(ctx, SearchQuery{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		ProjectID:      projectID,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}

	opts := m.fuzzyOpts
	opts.SourceLanguage = sourceLang
	opts.TargetLanguage = targetLang
	if opts.Cache == nil {
		opts.Cache = m.simCache
	}
	return FuzzySearchMemory(ctx, text, entries, opts), nil
}

// GetExactMatches pre-filters entries by language pair, then returns only
// those whose normalized source text equals the query.
func (m *Memory) GetExactMatches(ctx context.Context, text, sourceLang, targetLang string, limit int) ([]MatchSuggestion, error) {
	defer m.begin()()

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "must be non-empty"}
	}
	if limit <= 0 {
		limit = 5
	}

	entries, err := m.store.SearchEntries(ctx, SearchQuery{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	})
	if err != nil {
		return nil, err
	}

	return FindExactMatches(text, entries, limit), nil
}

// IncrementUsage bumps the usage count of an accepted suggestion. Failures
// are logged and swallowed: usage bookkeeping is non-critical telemetry and
// must never surface an error to the user.
func (m *Memory) IncrementUsage(ctx context.Context, id string) {
	defer m.begin()()

	if err := m.store.IncrementUsage(ctx, id, m.now()); err != nil {
		if m.logger != nil {
			m.logger.Printf("gotmem: increment usage for %s failed: %v", id, err)
		}
	}
}

// Stats returns store-wide statistics.
func (m *Memory) Stats(ctx context.Context) (MemoryStats, error) {
	defer m.begin()()
	return m.store.Stats(ctx)
}
