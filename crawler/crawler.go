// Package crawler builds glossaries from captured game text.
//
// The crawler observes on-screen captures, classifies terms into semantic
// categories, and accumulates them into a glossary with frequency and
// confidence tracking. Its GlossaryEntry is deliberately a different shape
// from the project glossary in the root package: crawled entries carry
// observation metadata (frequency, contexts, status) and live through an
// accumulate-then-review lifecycle, while project glossary terms are curated
// records with an approval flag. The two are never unified.
package crawler

import "time"

// Category is the semantic bucket assigned to a captured term.
type Category string

const (
	CategoryCharacterName Category = "character_name"
	CategoryLocation      Category = "location"
	CategoryItem          Category = "item"
	CategorySkill         Category = "skill"
	CategoryEnemy         Category = "enemy"
	CategoryUIElement     Category = "ui_element"
	CategoryDialog        Category = "dialog"
	CategorySystem        Category = "system"
	CategoryUnknown       Category = "unknown"
)

// Status tracks a crawled entry through its review lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusTranslated Status = "translated"
	StatusIgnored    Status = "ignored"
)

// maxContexts bounds the per-entry context list to the most recent captures.
const maxContexts = 10

// GlossaryEntry is a term observed by the crawler. Frequency counts
// observations; Contexts keeps the most recent surrounding captures.
type GlossaryEntry struct {
	ID          string
	Term        string
	Translation string // Empty until translated
	Category    Category
	Frequency   int // >= 1
	Contexts    []string
	FirstSeen   time.Time
	LastSeen    time.Time
	Confidence  float64
	Status      Status
}

// ScreenRegion is where on screen a capture came from.
type ScreenRegion string

const (
	RegionMenu    ScreenRegion = "menu"
	RegionHUD     ScreenRegion = "hud"
	RegionDialog  ScreenRegion = "dialog"
	RegionTitle   ScreenRegion = "title"
	RegionUnknown ScreenRegion = "unknown"
)

// FontSize is the OCR layer's coarse estimate of the captured text's size.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// TextContext is the lightweight screen-position context attached to a
// capture by the OCR layer.
type TextContext struct {
	ScreenRegion      ScreenRegion
	EstimatedFontSize FontSize
}

// AppendContext records a new surrounding capture, keeping only the most
// recent maxContexts.
func (e *GlossaryEntry) AppendContext(context string) {
	if context == "" {
		return
	}
	e.Contexts = append(e.Contexts, context)
	if len(e.Contexts) > maxContexts {
		e.Contexts = e.Contexts[len(e.Contexts)-maxContexts:]
	}
}

// SurroundingLines extracts a context window around the line at index:
// up to window lines before and after. Mirrors how the capture pipeline
// attaches neighboring dialog lines as disambiguation context.
func SurroundingLines(lines []string, index, window int) (previous, next []string) {
	if index < 0 || index >= len(lines) {
		return nil, nil
	}
	if window <= 0 {
		window = 2
	}

	start := index - window
	if start < 0 {
		start = 0
	}
	end := index + window + 1
	if end > len(lines) {
		end = len(lines)
	}

	if index > start {
		previous = append(previous, lines[start:index]...)
	}
	if end > index+1 {
		next = append(next, lines[index+1:end]...)
	}
	return previous, next
}
