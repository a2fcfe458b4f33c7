// Package storage provides persistence backends for the translation memory.
//
// All backends implement gotmem.Store. The in-memory store is the reference
// implementation; the file store mirrors the desktop app's per-language-pair
// JSON layout; the Redis and SQLite stores back multi-process and
// long-lived setups.
package storage

import (
	"sort"
	"strings"

	"github.com/ZaguanLabs/gotmem"
)

// matchesQuery applies the coarse pre-filter: exact language pair, optional
// project scope.
func matchesQuery(e gotmem.MemoryEntry, q gotmem.SearchQuery) bool {
	if q.SourceLanguage != "" && e.SourceLanguage != q.SourceLanguage {
		return false
	}
	if q.TargetLanguage != "" && e.TargetLanguage != q.TargetLanguage {
		return false
	}
	if q.ProjectID != "" && e.ProjectID != q.ProjectID {
		return false
	}
	return true
}

// matchesTerm reports whether a glossary term matches the query exactly or
// by prefix, case-insensitive, within the query scope.
func matchesTerm(t gotmem.GlossaryEntry, termQuery string, q gotmem.SearchQuery) bool {
	if q.SourceLanguage != "" && t.SourceLanguage != q.SourceLanguage {
		return false
	}
	if q.TargetLanguage != "" && t.TargetLanguage != q.TargetLanguage {
		return false
	}
	if q.ProjectID != "" && t.Project != q.ProjectID {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(termQuery))
	term := strings.ToLower(t.Term)
	return term == query || strings.HasPrefix(term, query)
}

// sortEntries fixes a deterministic order for pre-filter results: oldest
// first, id as the final tie-break.
func sortEntries(entries []gotmem.MemoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// sortTerms orders glossary results alphabetically by term, id tie-break.
func sortTerms(terms []gotmem.GlossaryEntry) {
	sort.SliceStable(terms, func(i, j int) bool {
		ti, tj := strings.ToLower(terms[i].Term), strings.ToLower(terms[j].Term)
		if ti != tj {
			return ti < tj
		}
		return terms[i].ID < terms[j].ID
	})
}

// computeStats aggregates stats from full entry/term slices. Shared by the
// backends that materialize their data in memory for the call.
func computeStats(entries []gotmem.MemoryEntry, terms []gotmem.GlossaryEntry) gotmem.MemoryStats {
	stats := gotmem.MemoryStats{
		TotalEntries:       len(entries),
		TotalGlossaryTerms: len(terms),
		ByProvider:         make(map[string]int),
	}
	projects := make(map[string]bool)
	for _, e := range entries {
		if e.ProjectID != "" {
			projects[e.ProjectID] = true
		}
		if e.Verified {
			stats.VerifiedEntries++
		}
		if e.Provider != "" {
			stats.ByProvider[e.Provider]++
		}
		stats.TotalUsageCount += e.UsageCount
	}
	for _, t := range terms {
		if t.Project != "" {
			projects[t.Project] = true
		}
	}
	stats.TotalProjects = len(projects)
	return stats
}
