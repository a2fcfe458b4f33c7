package gotmem

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"unicode/utf8"
)

// FuzzyOptions configures FuzzySearchMemory.
type FuzzyOptions struct {
	// Threshold is the minimum similarity for a candidate to be included.
	Threshold float64
	// MaxResults truncates the ranked result list.
	MaxResults int
	// IncludeContext restricts candidates to entries whose language pair
	// matches the query's. Entries without language metadata always pass.
	IncludeContext bool
	// SourceLanguage/TargetLanguage are the query's language pair, consulted
	// only when IncludeContext is set.
	SourceLanguage string
	TargetLanguage string
	// PreferRecent switches the secondary sort key from usage count to the
	// entry's last-updated time.
	PreferRecent bool
	// Cache, when non-nil, memoizes similarity computations across queries.
	Cache *SimilarityCache
}

// DefaultFuzzyOptions returns the options used by Memory.SearchMemory.
func DefaultFuzzyOptions() FuzzyOptions {
	return FuzzyOptions{
		Threshold:      0.6,
		MaxResults:     10,
		IncludeContext: true,
	}
}

// parallelScanThreshold is the corpus size above which the fuzzy scan shards
// across workers. Ranking is identical to the serial path.
const parallelScanThreshold = 2000

// FindExactMatches returns entries whose normalized source text equals the
// normalized query, mapped to exact-typed suggestions with similarity 1.0.
//
// Ordering is reuse-biased: usage count descending, then most recently
// updated. An entry validated by repeated acceptance surfaces first.
// Returns an empty slice when nothing matches.
func FindExactMatches(query string, entries []MemoryEntry, maxResults int) []MatchSuggestion {
	normalized := NormalizeText(query)

	var matches []MatchSuggestion
	for _, e := range entries {
		if NormalizeText(e.SourceText) != normalized {
			continue
		}
		matches = append(matches, suggestionFrom(e, 1.0, MatchExact))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].UsageCount != matches[j].UsageCount {
			return matches[i].UsageCount > matches[j].UsageCount
		}
		return matches[i].LastUsed.After(matches[j].LastUsed)
	})

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	if matches == nil {
		matches = []MatchSuggestion{}
	}
	return matches
}

// FuzzySearchMemory scans entries for source texts similar to the query and
// returns ranked suggestions.
//
// Candidates below opts.Threshold are discarded. Results sort by similarity
// descending; ties break by usage count descending, or by last-used time
// when opts.PreferRecent is set. The scan honors ctx cancellation so a
// caller can abandon it when the user retypes; on cancellation the partial
// result collected so far is returned.
func FuzzySearchMemory(ctx context.Context, query string, entries []MemoryEntry, opts FuzzyOptions) []MatchSuggestion {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.6
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}

	queryNorm := NormalizeText(query)
	queryLen := utf8.RuneCountInString(queryNorm)

	var matches []MatchSuggestion
	if len(entries) >= parallelScanThreshold {
		matches = scanParallel(ctx, queryNorm, queryLen, entries, opts)
	} else {
		matches = scanRange(ctx, queryNorm, queryLen, entries, opts)
	}

	sortFuzzy(matches, opts.PreferRecent)

	if len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}
	if matches == nil {
		matches = []MatchSuggestion{}
	}
	return matches
}

// scanRange is the serial correctness baseline: one pass over the slice.
func scanRange(ctx context.Context, queryNorm string, queryLen int, entries []MemoryEntry, opts FuzzyOptions) []MatchSuggestion {
	var matches []MatchSuggestion
	for i, e := range entries {
		// Check for cancellation periodically, not per entry.
		if i%256 == 0 && ctx != nil && ctx.Err() != nil {
			break
		}
		if s, ok := scoreEntry(queryNorm, queryLen, e, opts); ok {
			matches = append(matches, s)
		}
	}
	return matches
}

// scanParallel shards the corpus across workers. Adapted from the parallel
// cache-lookup pool: fan out per shard, collect, merge.
func scanParallel(ctx context.Context, queryNorm string, queryLen int, entries []MemoryEntry, opts FuzzyOptions) []MatchSuggestion {
	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	chunk := (len(entries) + workers - 1) / workers

	results := make(chan []MatchSuggestion, workers)
	var wg sync.WaitGroup

	for start := 0; start < len(entries); start += chunk {
		end := start + chunk
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		go func(shard []MemoryEntry) {
			defer wg.Done()
			results <- scanRange(ctx, queryNorm, queryLen, shard, opts)
		}(entries[start:end])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var matches []MatchSuggestion
	for part := range results {
		matches = append(matches, part...)
	}
	return matches
}

// scoreEntry applies the context filter, the length prune and the similarity
// threshold to a single entry.
func scoreEntry(queryNorm string, queryLen int, e MemoryEntry, opts FuzzyOptions) (MatchSuggestion, bool) {
	if opts.IncludeContext && e.SourceLanguage != "" && e.TargetLanguage != "" {
		if opts.SourceLanguage != "" && e.SourceLanguage != opts.SourceLanguage {
			return MatchSuggestion{}, false
		}
		if opts.TargetLanguage != "" && e.TargetLanguage != opts.TargetLanguage {
			return MatchSuggestion{}, false
		}
	}

	entryNorm := NormalizeText(e.SourceText)

	// Length prune: if the length gap alone pushes similarity below the
	// threshold, skip the edit-distance computation entirely.
	entryLen := utf8.RuneCountInString(entryNorm)
	maxLen := queryLen
	if entryLen > maxLen {
		maxLen = entryLen
	}
	if maxLen > 0 {
		diff := queryLen - entryLen
		if diff < 0 {
			diff = -diff
		}
		if float64(diff)/float64(maxLen) > 1.0-opts.Threshold {
			return MatchSuggestion{}, false
		}
	}

	var sim float64
	if opts.Cache != nil {
		sim = opts.Cache.Similarity(queryNorm, entryNorm)
	} else {
		sim = Similarity(queryNorm, entryNorm)
	}
	if sim < opts.Threshold {
		return MatchSuggestion{}, false
	}

	return suggestionFrom(e, sim, MatchFuzzy), true
}

func sortFuzzy(matches []MatchSuggestion, preferRecent bool) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if preferRecent {
			return matches[i].LastUsed.After(matches[j].LastUsed)
		}
		return matches[i].UsageCount > matches[j].UsageCount
	})
}

func suggestionFrom(e MemoryEntry, similarity float64, matchType MatchType) MatchSuggestion {
	return MatchSuggestion{
		ID:         e.ID,
		SourceText: e.SourceText,
		TargetText: e.TargetText,
		Confidence: e.Confidence,
		Similarity: similarity,
		UsageCount: e.UsageCount,
		LastUsed:   e.UpdatedAt,
		Type:       matchType,
	}
}
