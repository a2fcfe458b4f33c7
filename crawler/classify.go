package crawler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// uiVocabulary is matched whole-string against menu/HUD captures.
var uiVocabulary = map[string]bool{
	"start": true, "continue": true, "quit": true, "exit": true,
	"save": true, "load": true, "options": true, "settings": true,
	"new game": true, "back": true, "next": true, "confirm": true,
	"yes": true, "no": true, "ok": true, "cancel": true,
	"hp": true, "mp": true, "sp": true, "exp": true, "lv": true, "level": true,
	"attack": true, "defend": true, "magic": true, "items": true, "item": true,
	"equip": true, "status": true, "skills": true, "inventory": true,
}

var locationVocabulary = map[string]bool{
	"castle": true, "town": true, "village": true, "city": true,
	"forest": true, "cave": true, "dungeon": true, "tower": true,
	"kingdom": true, "empire": true, "temple": true, "shrine": true,
	"mountain": true, "valley": true, "island": true, "harbor": true,
	"north": true, "south": true, "east": true, "west": true,
}

var itemVocabulary = map[string]bool{
	"potion": true, "elixir": true, "sword": true, "blade": true,
	"shield": true, "armor": true, "helmet": true, "ring": true,
	"key": true, "gem": true, "crystal": true, "scroll": true,
	"herb": true, "bow": true, "staff": true, "amulet": true,
}

var skillVocabulary = map[string]bool{
	"fire": true, "ice": true, "thunder": true, "heal": true,
	"cure": true, "slash": true, "strike": true, "blast": true,
	"ultimate": true, "special": true, "summon": true, "barrier": true,
	"fireball": true, "lightning": true,
}

var enemyVocabulary = map[string]bool{
	"goblin": true, "dragon": true, "slime": true, "skeleton": true,
	"zombie": true, "demon": true, "boss": true, "bandit": true,
	"wolf": true, "spider": true, "ghost": true, "golem": true,
	"orc": true, "troll": true,
}

var systemVocabulary = map[string]bool{
	"saved": true, "loading": true, "obtained": true, "learned": true,
	"acquired": true, "unlocked": true, "defeated": true, "victory": true,
	"game over": true, "paused": true,
}

// maxNameLength bounds a single capitalized token treated as a character
// name candidate.
const maxNameLength = 15

// Classify assigns a semantic category to a captured text. The rules are
// ordered; the first match wins. UI vocabulary and known-term reuse are
// checked before the generic content rules so short interface strings don't
// get mislabeled as items or skills they happen to share a word with.
//
// existing lets a previously classified term keep its category: a name seen
// once as a character stays a character, even when a later capture gives
// weaker context.
func Classify(text string, context TextContext, existing []GlossaryEntry) Category {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return CategoryUnknown
	}
	lower := strings.ToLower(trimmed)

	// Rule 1: interface vocabulary in interface regions.
	if context.ScreenRegion == RegionMenu || context.ScreenRegion == RegionHUD {
		if uiVocabulary[lower] {
			return CategoryUIElement
		}
	}

	// Rule 2: a lone capitalized token in dialog reads as a character name,
	// unless the fixed vocabularies already claim the word.
	if context.ScreenRegion == RegionDialog && isNameCandidate(trimmed) && !inContentVocabulary(lower) {
		if prior, ok := lookupExisting(lower, existing); ok {
			return prior
		}
		return CategoryCharacterName
	}

	// Rule 3: prominent text naming a place.
	if context.ScreenRegion == RegionTitle || context.EstimatedFontSize == FontLarge {
		if matchesVocabulary(lower, locationVocabulary) {
			return CategoryLocation
		}
	}

	// Rules 4-6: content vocabularies.
	if matchesVocabulary(lower, itemVocabulary) {
		return CategoryItem
	}
	if matchesVocabulary(lower, skillVocabulary) {
		return CategorySkill
	}
	if matchesVocabulary(lower, enemyVocabulary) {
		return CategoryEnemy
	}

	// Rule 7: long or sentence-like text is dialog.
	if utf8.RuneCountInString(trimmed) > 30 || strings.ContainsAny(trimmed, ".!?") {
		return CategoryDialog
	}

	// Rule 8: HUD leftovers and system messages.
	if context.ScreenRegion == RegionHUD || matchesVocabulary(lower, systemVocabulary) {
		return CategorySystem
	}

	return CategoryUnknown
}

// isNameCandidate reports whether text is a single capitalized token short
// enough to be a name.
func isNameCandidate(text string) bool {
	if strings.ContainsAny(text, " \t") {
		return false
	}
	if utf8.RuneCountInString(text) > maxNameLength {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(first)
}

// inContentVocabulary reports whether the fixed vocabularies already claim
// the word, in the same precedence the rules check them.
func inContentVocabulary(lower string) bool {
	return uiVocabulary[lower] ||
		locationVocabulary[lower] ||
		itemVocabulary[lower] ||
		skillVocabulary[lower] ||
		enemyVocabulary[lower] ||
		systemVocabulary[lower]
}

// lookupExisting finds a prior classification for the normalized term.
func lookupExisting(lower string, existing []GlossaryEntry) (Category, bool) {
	for _, e := range existing {
		if strings.ToLower(strings.TrimSpace(e.Term)) == lower {
			return e.Category, true
		}
	}
	return CategoryUnknown, false
}

// matchesVocabulary reports whether the whole text or any word of it is in
// the vocabulary. Multi-word vocabulary entries ("game over") only match
// whole-string.
func matchesVocabulary(lower string, vocabulary map[string]bool) bool {
	if vocabulary[lower] {
		return true
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if vocabulary[word] {
			return true
		}
	}
	return false
}
