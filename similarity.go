package gotmem

import (
	"sync"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/hbollon/go-edlib"
)

// Similarity returns the normalized edit-distance similarity between two
// strings in [0,1]. Comparison is case-insensitive and rune-aware, so CJK,
// Cyrillic and accented text are measured per character, not per byte.
//
// Computed as 1 - levenshtein(a,b)/max(len(a),len(b)). Identical strings
// (after lowercasing) score 1.0; if exactly one string is empty the score
// is 0.0; two empty strings are identical.
func Similarity(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	dist := edlib.LevenshteinDistance(na, nb)

	maxLen := utf8.RuneCountInString(na)
	if l := utf8.RuneCountInString(nb); l > maxLen {
		maxLen = l
	}

	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}

// SimilarityCache memoizes Similarity results for repeated query/corpus
// pairs. It is bounded: when the active generation fills up it becomes the
// fallback generation and a fresh one is started, so memory use stays within
// 2*capacity entries. Pass one explicitly to the matchers that accept it;
// there is no hidden global cache.
type SimilarityCache struct {
	mu       sync.RWMutex
	capacity int
	current  map[uint64]float64
	previous map[uint64]float64
}

// DefaultSimilarityCacheSize bounds a cache generation when 0 is passed to
// NewSimilarityCache.
const DefaultSimilarityCacheSize = 4096

// NewSimilarityCache creates a bounded similarity cache.
func NewSimilarityCache(capacity int) *SimilarityCache {
	if capacity <= 0 {
		capacity = DefaultSimilarityCacheSize
	}
	return &SimilarityCache{
		capacity: capacity,
		current:  make(map[uint64]float64, capacity),
	}
}

// Similarity returns the cached similarity for (a, b), computing and storing
// it on a miss. The key is symmetric: (a,b) and (b,a) share one slot.
func (c *SimilarityCache) Similarity(a, b string) float64 {
	key := pairKey(NormalizeText(a), NormalizeText(b))

	c.mu.RLock()
	if v, ok := c.current[key]; ok {
		c.mu.RUnlock()
		return v
	}
	v, ok := c.previous[key]
	c.mu.RUnlock()
	if ok {
		// Promote so hot pairs survive generation rotation.
		c.put(key, v)
		return v
	}

	v = Similarity(a, b)
	c.put(key, v)
	return v
}

// Len returns the number of memoized pairs across both generations.
func (c *SimilarityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.current) + len(c.previous)
}

// Clear drops all memoized pairs.
func (c *SimilarityCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = make(map[uint64]float64, c.capacity)
	c.previous = nil
}

func (c *SimilarityCache) put(key uint64, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.current) >= c.capacity {
		c.previous = c.current
		c.current = make(map[uint64]float64, c.capacity)
	}
	c.current[key] = v
}

// pairKey hashes an unordered string pair into a single cache key.
func pairKey(a, b string) uint64 {
	if a > b {
		a, b = b, a
	}
	d := xxhash.New()
	_, _ = d.WriteString(a)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(b)
	return d.Sum64()
}
