package gotmem

import (
	"regexp"
	"strings"
	"unicode"
)

// EmotionType is a tone category detected in game text.
type EmotionType string

const (
	EmotionNeutral       EmotionType = "neutral"
	EmotionJoy           EmotionType = "joy"
	EmotionSadness       EmotionType = "sadness"
	EmotionAnger         EmotionType = "anger"
	EmotionFear          EmotionType = "fear"
	EmotionSurprise      EmotionType = "surprise"
	EmotionTension       EmotionType = "tension"
	EmotionExcitement    EmotionType = "excitement"
	EmotionRomance       EmotionType = "romance"
	EmotionDetermination EmotionType = "determination"
)

// Intensity bands an emotion score.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// EmotionAnalysis is the advisory tone metadata attached to a translation
// request. It never alters matching or ranking; the prompt layer uses it to
// pick a register.
//
// Confidence is on a 0-100 scale, unlike the [0,1] similarity and entry
// confidence scores.
type EmotionAnalysis struct {
	Primary    EmotionType
	Secondary  EmotionType // Empty when no runner-up scored high enough
	Confidence int         // [0,100]
	Intensity  Intensity
	Markers    []string // Up to 5 keywords/patterns that triggered Primary
}

const (
	keywordScore       = 10
	neutralCutoff      = 10
	secondaryCutoff    = 15
	mediumIntensityMin = 25
	highIntensityMin   = 50
	maxMarkers         = 5
)

var emotionKeywords = map[EmotionType][]string{
	EmotionJoy:           {"happy", "glad", "wonderful", "great", "laugh", "smile", "joy", "hooray", "yay", "celebrate"},
	EmotionSadness:       {"sad", "cry", "tears", "sorrow", "lonely", "miss you", "goodbye", "farewell", "grief", "mourn"},
	EmotionAnger:         {"angry", "furious", "hate", "rage", "damn", "curse", "revenge", "unforgivable", "how dare"},
	EmotionFear:          {"afraid", "scared", "terrified", "fear", "monster", "run away", "help me", "horror", "nightmare"},
	EmotionSurprise:      {"what?!", "impossible", "unbelievable", "no way", "can't believe", "suddenly", "shocked"},
	EmotionTension:       {"careful", "danger", "warning", "trap", "ambush", "enemy approaching", "watch out", "hurry"},
	EmotionExcitement:    {"amazing", "awesome", "incredible", "let's go", "finally", "adventure", "treasure"},
	EmotionRomance:       {"love", "darling", "sweetheart", "kiss", "heart", "beautiful", "together forever", "my dear"},
	EmotionDetermination: {"i will", "never give up", "must", "protect", "promise", "no matter what", "fight", "believe in"},
}

// emotionPattern is a regex trigger with a category-specific boost (10-20).
type emotionPattern struct {
	re    *regexp.Regexp
	boost int
	label string
}

var emotionPatterns = map[EmotionType][]emotionPattern{
	EmotionAnger: {
		{regexp.MustCompile(`(?i)\byou\b.{0,20}\b(pay|regret|die)\b`), 20, "threat"},
		{regexp.MustCompile(`!{3,}`), 15, "!!!"},
	},
	EmotionFear: {
		{regexp.MustCompile(`(?i)\b(no|stop|don't)\b.{0,3}\b(no|stop|please)\b`), 15, "pleading"},
		{regexp.MustCompile(`(?i)\bwhat (is|was) that\b`), 10, "dread"},
	},
	EmotionSadness: {
		{regexp.MustCompile(`(?i)\bwhy\b.{0,24}\?$`), 10, "lament"},
		{regexp.MustCompile(`(?i)\bif only\b`), 15, "regret"},
	},
	EmotionSurprise: {
		{regexp.MustCompile(`\?!|!\?`), 15, "?!"},
	},
	EmotionExcitement: {
		{regexp.MustCompile(`(?i)\blet'?s\b.{0,16}!`), 10, "rally"},
	},
	EmotionDetermination: {
		{regexp.MustCompile(`(?i)\bi (will|won't|shall)\b`), 15, "resolve"},
		{regexp.MustCompile(`(?i)\bno matter\b`), 10, "resolve"},
	},
	EmotionRomance: {
		{regexp.MustCompile(`(?i)\bwith you\b`), 10, "closeness"},
	},
	EmotionTension: {
		{regexp.MustCompile(`(?i)\bbefore it'?s too late\b`), 20, "urgency"},
	},
}

// AnalyzeEmotion scores the text against each non-neutral category and
// returns the dominant tone. Stateless and deterministic.
//
// Scoring: +10 per matched keyword (case-insensitive substring), a
// pattern-specific boost per matched regex, plus punctuation heuristics
// (repeated exclamations, ellipses, shouting caps). A text whose best
// category scores below 10 is neutral.
func AnalyzeEmotion(text string) EmotionAnalysis {
	scores := make(map[EmotionType]int)
	markers := make(map[EmotionType][]string)
	lower := strings.ToLower(text)

	for emotion, keywords := range emotionKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				scores[emotion] += keywordScore
				markers[emotion] = append(markers[emotion], kw)
			}
		}
	}

	for emotion, patterns := range emotionPatterns {
		for _, p := range patterns {
			if p.re.MatchString(text) {
				scores[emotion] += p.boost
				markers[emotion] = append(markers[emotion], p.label)
			}
		}
	}

	// Punctuation heuristics.
	if strings.Count(text, "!") >= 2 {
		scores[EmotionAnger] += 10
		scores[EmotionExcitement] += 10
		markers[EmotionAnger] = append(markers[EmotionAnger], "!!")
		markers[EmotionExcitement] = append(markers[EmotionExcitement], "!!")
	}
	if strings.Contains(text, "...") || strings.Contains(text, "…") {
		scores[EmotionSadness] += 5
		scores[EmotionTension] += 5
		scores[EmotionFear] += 5
		markers[EmotionSadness] = append(markers[EmotionSadness], "...")
		markers[EmotionTension] = append(markers[EmotionTension], "...")
		markers[EmotionFear] = append(markers[EmotionFear], "...")
	}
	if isShouting(text) {
		scores[EmotionAnger] += 15
		markers[EmotionAnger] = append(markers[EmotionAnger], "caps")
	}

	primary, max := EmotionNeutral, 0
	var secondary EmotionType
	second := 0
	for _, emotion := range emotionOrder {
		s := scores[emotion]
		if s > max {
			secondary, second = primary, max
			primary, max = emotion, s
		} else if s > second {
			secondary, second = emotion, s
		}
	}

	if max < neutralCutoff {
		return EmotionAnalysis{
			Primary:    EmotionNeutral,
			Confidence: 90,
			Intensity:  IntensityLow,
			Markers:    []string{},
		}
	}

	confidence := 50 + max
	if confidence > 95 {
		confidence = 95
	}

	intensity := IntensityLow
	switch {
	case max >= highIntensityMin:
		intensity = IntensityHigh
	case max >= mediumIntensityMin:
		intensity = IntensityMedium
	}

	analysis := EmotionAnalysis{
		Primary:    primary,
		Confidence: confidence,
		Intensity:  intensity,
		Markers:    uniqueMarkers(markers[primary], maxMarkers),
	}
	if second >= secondaryCutoff && secondary != EmotionNeutral {
		analysis.Secondary = secondary
	}
	return analysis
}

// emotionOrder fixes the iteration order so ties resolve deterministically.
var emotionOrder = []EmotionType{
	EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionSurprise,
	EmotionTension, EmotionExcitement, EmotionRomance, EmotionDetermination,
}

// isShouting reports whether more than half the letters are uppercase, on
// text long enough for that to mean anything.
func isShouting(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters <= 5 {
		return false
	}
	return float64(upper)/float64(letters) > 0.5
}

func uniqueMarkers(all []string, limit int) []string {
	seen := make(map[string]bool, len(all))
	result := make([]string, 0, limit)
	for _, m := range all {
		if seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
		if len(result) == limit {
			break
		}
	}
	return result
}
