package gotmem

import "time"

// MatchType distinguishes how a suggestion was found.
type MatchType string

const (
	// MatchExact means the normalized source text equals the query.
	MatchExact MatchType = "exact"
	// MatchFuzzy means the source text is similar to the query above a threshold.
	MatchFuzzy MatchType = "fuzzy"
)

// MemoryEntry is a stored (source, target) translation pair.
//
// Entries are owned by the memory store: UsageCount is mutated only through
// IncrementUsage, everything else is immutable after creation.
type MemoryEntry struct {
	ID             string
	SourceText     string
	TargetText     string
	SourceLanguage string // Language code (e.g. "en", "ja")
	TargetLanguage string
	Confidence     float64 // Translation confidence in [0,1]
	UsageCount     int     // Times this entry was accepted; starts at 1
	ProjectID      string  // Optional project scope
	GameID         string  // Optional game scope
	Provider       string  // Which backend produced the translation
	Verified       bool    // Human-reviewed
	Tags           []string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewEntry holds the caller-supplied fields for AddEntry.
type NewEntry struct {
	SourceText     string
	TargetText     string
	SourceLanguage string
	TargetLanguage string
	Confidence     float64
	ProjectID      string
	GameID         string
	Provider       string
	Verified       bool
	Tags           []string
	Notes          string
}

// GlossaryEntry is a fixed term translation in the project glossary.
//
// This is the curated, approval-driven glossary. The context crawler's
// auto-built glossary is a different shape with different invariants; see
// the crawler package.
type GlossaryEntry struct {
	ID             string
	Term           string
	Translation    string
	SourceLanguage string
	TargetLanguage string
	Project        string // Optional project scope
	Approved       bool
	DoNotTranslate bool // Keep the term untranslated (proper nouns etc.)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewGlossaryTerm holds the caller-supplied fields for AddGlossaryTerm.
type NewGlossaryTerm struct {
	Term           string
	Translation    string
	SourceLanguage string
	TargetLanguage string
	Project        string
	DoNotTranslate bool
}

// MatchSuggestion is a ranked candidate produced per query. Transient, never
// persisted.
type MatchSuggestion struct {
	ID         string
	SourceText string
	TargetText string
	Confidence float64 // Stored confidence of the underlying entry, [0,1]
	Similarity float64 // Query similarity, [0,1]; 1.0 for exact matches
	UsageCount int
	LastUsed   time.Time
	Type       MatchType
}

// MemoryStats summarizes the state of a store.
type MemoryStats struct {
	TotalEntries       int
	TotalGlossaryTerms int
	TotalProjects      int
	VerifiedEntries    int
	TotalUsageCount    int
	ByProvider         map[string]int
}

// SearchQuery is the coarse pre-filter fed to a Store before matching.
// Language pair fields are mandatory; ProjectID narrows the scope when set.
type SearchQuery struct {
	SourceLanguage string
	TargetLanguage string
	ProjectID      string
	Limit          int // 0 means no limit
}
