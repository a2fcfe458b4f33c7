package gotmem

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// NewEntryID derives a stable id for a memory entry. Two entries with the
// same texts and language pair created at different times get different ids.
func NewEntryID(sourceText, targetText, sourceLang, targetLang string, at time.Time) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%d",
		strings.TrimSpace(sourceText), strings.TrimSpace(targetText),
		sourceLang, targetLang, at.UnixNano())
	hash := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(hash[:16])
}

// NewTermID derives a stable id for a glossary term.
func NewTermID(term, sourceLang, targetLang string, at time.Time) string {
	payload := fmt.Sprintf("g|%s|%s|%s|%d", strings.TrimSpace(term), sourceLang, targetLang, at.UnixNano())
	hash := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(hash[:16])
}

// NormalizeText lowercases and trims text for matching. All exact and fuzzy
// comparisons go through this so "Hello " and "hello" are the same key.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
