package gotmem

// TranslationStyle controls the register requested from a translation
// provider. The memory engine never translates; the style only rides along
// as metadata for the prompt layer.
type TranslationStyle string

const (
	// StyleNeutral is plain narration and descriptions.
	StyleNeutral TranslationStyle = "neutral"
	// StyleDramatic suits high-stakes dialog and boss encounters.
	StyleDramatic TranslationStyle = "dramatic"
	// StyleCasual suits banter and informal NPC chatter.
	StyleCasual TranslationStyle = "casual"
	// StyleSomber suits grief, farewells and quiet scenes.
	StyleSomber TranslationStyle = "somber"
	// StyleTender suits romantic and affectionate dialog.
	StyleTender TranslationStyle = "tender"
	// StyleTerse suits UI strings and system messages.
	StyleTerse TranslationStyle = "terse"
)

var styleDescriptions = map[TranslationStyle]string{
	StyleNeutral:  "Use a neutral, natural register suitable for narration and descriptions.",
	StyleDramatic: "Use heightened, dramatic language. Keep exclamations forceful and stakes palpable.",
	StyleCasual:   "Use relaxed, conversational language as between friends.",
	StyleSomber:   "Use quiet, restrained language. Let grief and weight come through without melodrama.",
	StyleTender:   "Use warm, intimate language appropriate for affection between characters.",
	StyleTerse:    "Use the shortest natural phrasing. This is interface text; brevity beats flourish.",
}

// GetStyleDescription returns prompt wording for a style, defaulting to
// neutral for unknown values.
func GetStyleDescription(style TranslationStyle) string {
	if desc, ok := styleDescriptions[style]; ok {
		return desc
	}
	return styleDescriptions[StyleNeutral]
}

// StyleForEmotion maps an emotion analysis to a translation register. Low
// intensity always reads as neutral; the tone has to be loud enough to be
// worth styling around.
func StyleForEmotion(analysis EmotionAnalysis) TranslationStyle {
	if analysis.Primary == EmotionNeutral || analysis.Intensity == IntensityLow {
		return StyleNeutral
	}
	switch analysis.Primary {
	case EmotionAnger, EmotionTension, EmotionDetermination, EmotionFear:
		return StyleDramatic
	case EmotionJoy, EmotionExcitement, EmotionSurprise:
		return StyleCasual
	case EmotionSadness:
		return StyleSomber
	case EmotionRomance:
		return StyleTender
	default:
		return StyleNeutral
	}
}
