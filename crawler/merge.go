package crawler

import (
	"github.com/ZaguanLabs/gotmem"
)

// DefaultMergeThreshold is the term similarity at which two observations are
// considered the same term. High on purpose: OCR noise produces near-
// identical captures of one on-screen term, and merging those is the whole
// point, but distinct short terms are often only an edit or two apart.
const DefaultMergeThreshold = 0.9

// MergeGlossaries folds incoming observations into base. For each incoming
// entry the first base entry whose term similarity reaches the threshold
// absorbs it: frequencies sum, LastSeen and Confidence take the max, a
// missing translation is adopted (promoting the entry to translated), and
// contexts union up to the most-recent cap. Entries with no near-duplicate
// append as new.
//
// The result never contains two entries whose term similarity reaches the
// threshold. Merging with an empty incoming slice is a no-op.
func MergeGlossaries(base, incoming []GlossaryEntry, threshold float64) []GlossaryEntry {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMergeThreshold
	}

	merged := make([]GlossaryEntry, len(base))
	copy(merged, base)

	for _, in := range incoming {
		idx := -1
		for i := range merged {
			if gotmem.Similarity(merged[i].Term, in.Term) >= threshold {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, in)
			continue
		}
		merged[idx] = mergeEntry(merged[idx], in)
	}
	return merged
}

func mergeEntry(base, in GlossaryEntry) GlossaryEntry {
	base.Frequency += in.Frequency

	if in.LastSeen.After(base.LastSeen) {
		base.LastSeen = in.LastSeen
	}
	if !in.FirstSeen.IsZero() && (base.FirstSeen.IsZero() || in.FirstSeen.Before(base.FirstSeen)) {
		base.FirstSeen = in.FirstSeen
	}
	if in.Confidence > base.Confidence {
		base.Confidence = in.Confidence
	}
	if base.Translation == "" && in.Translation != "" {
		base.Translation = in.Translation
		base.Status = StatusTranslated
	}

	for _, context := range in.Contexts {
		if !containsString(base.Contexts, context) {
			base.AppendContext(context)
		}
	}
	return base
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
