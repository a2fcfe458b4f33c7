// Package prompt renders translation memory context into provider chat
// requests.
//
// The memory engine never calls a translation provider. This package builds
// the openai.ChatCompletionRequest an external caller sends: the system
// prompt carries the target-language register, glossary bindings and the
// tone detected by the emotion annotator; the user message is a JSON batch.
// ParseTranslations decodes the provider's reply.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/gotmem"
	"github.com/sashabaranov/go-openai"
)

// Request holds everything the builder folds into one chat request.
type Request struct {
	Texts          []string
	SourceLanguage string
	TargetLanguage string
	GameContext    string // e.g. "dark-fantasy RPG, medieval setting"
	Glossary       []gotmem.GlossaryEntry
	Emotion        gotmem.EmotionAnalysis
	Style          gotmem.TranslationStyle // Zero value defers to the emotion mapping
}

// Builder constructs chat requests with a fixed model and temperature.
type Builder struct {
	model       string
	temperature float32
}

// Config holds configuration for the builder.
type Config struct {
	Model       string  // Default: "gpt-4o-mini"
	Temperature float32 // Default: 0.3
}

// NewBuilder creates a prompt builder.
func NewBuilder(cfg Config) *Builder {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	return &Builder{model: model, temperature: temperature}
}

// Build assembles the chat completion request for a batch of texts.
func (b *Builder) Build(req Request) (openai.ChatCompletionRequest, error) {
	if len(req.Texts) == 0 {
		return openai.ChatCompletionRequest{}, fmt.Errorf("no texts to translate")
	}

	userMessage, err := json.Marshal(req.Texts)
	if err != nil {
		return openai.ChatCompletionRequest{}, fmt.Errorf("encoding texts: %w", err)
	}

	return openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: b.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: b.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}, nil
}

func (b *Builder) buildSystemPrompt(req Request) string {
	targetName := gotmem.GetLanguageName(req.TargetLanguage)

	style := req.Style
	if style == "" {
		style = gotmem.StyleForEmotion(req.Emotion)
	}

	contextText := "The content is in-game text from a video game."
	if req.GameContext != "" {
		contextText = fmt.Sprintf("The content is in-game text from: %s. Adapt the tone to fit this game.", req.GameContext)
	}

	prompt := fmt.Sprintf(`# Role
You are an expert game localizer. You translate game text to %s with the fluency of a native player.

# Context
%s

# Register
%s

# Task
Translate the provided strings into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase lines to sound natural to a native player.
- **Consistency**: Character names, places, items and skills must be translated the same way every time.
- **Length**: Game UI has tight space limits. Keep translations close to the source length where possible.
- **Markup Safety**: Do NOT translate markup tags, placeholders or variables (e.g. <color=...>, {player}, %%s).
- **Honorifics**: Preserve the relationship implied by the source (formal/informal address) in the target language.`,
		targetName, contextText, gotmem.GetStyleDescription(style), targetName)

	if tone := describeEmotion(req.Emotion); tone != "" {
		prompt += "\n\n# Tone\n" + tone
	}

	if bindings, exclusions := splitGlossary(req.Glossary); len(bindings) > 0 || len(exclusions) > 0 {
		if len(bindings) > 0 {
			prompt += "\n\n# Glossary\nUse these fixed translations whenever the terms appear:"
			for _, g := range bindings {
				prompt += fmt.Sprintf("\n- %q → %q", g.Term, g.Translation)
			}
		}
		if len(exclusions) > 0 {
			prompt += fmt.Sprintf("\n\n# Exclusions\nDo NOT translate the following terms. Keep them exactly as they appear:\n- %s",
				strings.Join(exclusions, "\n- "))
		}
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
Do NOT wrap the output in Markdown code blocks.`

	return prompt
}

// describeEmotion turns an analysis into prompt wording. Neutral and
// low-confidence results contribute nothing.
func describeEmotion(e gotmem.EmotionAnalysis) string {
	if e.Primary == "" || e.Primary == gotmem.EmotionNeutral {
		return ""
	}
	desc := fmt.Sprintf("The source text reads as %s (%s intensity).", e.Primary, e.Intensity)
	if e.Secondary != "" {
		desc += fmt.Sprintf(" A secondary note of %s is present.", e.Secondary)
	}
	desc += " Carry that emotional register into the translation."
	return desc
}

// splitGlossary separates fixed translations from do-not-translate terms.
func splitGlossary(entries []gotmem.GlossaryEntry) (bindings []gotmem.GlossaryEntry, exclusions []string) {
	for _, g := range entries {
		if g.DoNotTranslate {
			exclusions = append(exclusions, g.Term)
			continue
		}
		if g.Translation != "" {
			bindings = append(bindings, g)
		}
	}
	return bindings, exclusions
}

// ParseTranslations decodes a provider reply built for a Build request.
// Accepts either the {"translations": [...]} object contract or a bare
// array, and fails with CountMismatchError when the arity is wrong.
func ParseTranslations(content string, expectedCount int) ([]string, error) {
	var obj struct {
		Translations []string `json:"translations"`
	}
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj.Translations != nil {
		return checkCount(obj.Translations, expectedCount)
	}

	var arr []string
	if err := json.Unmarshal([]byte(content), &arr); err == nil {
		return checkCount(arr, expectedCount)
	}

	return nil, fmt.Errorf("invalid response format from provider")
}

func checkCount(result []string, expected int) ([]string, error) {
	if len(result) != expected {
		return nil, &gotmem.CountMismatchError{Expected: expected, Got: len(result)}
	}
	return result, nil
}
