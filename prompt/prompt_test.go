package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ZaguanLabs/gotmem"
)

func TestBuild(t *testing.T) {
	b := NewBuilder(Config{})
	req, err := b.Build(Request{
		Texts:          []string{"Hello", "Goodbye"},
		SourceLanguage: "en",
		TargetLanguage: "ja",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if req.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want default", req.Model)
	}
	if req.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want default 0.3", req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want system+user", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", req.Messages[0].Role)
	}
	if req.Messages[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("second message role = %q", req.Messages[1].Role)
	}
	if req.Messages[1].Content != `["Hello","Goodbye"]` {
		t.Errorf("user message = %q", req.Messages[1].Content)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("response format not pinned to JSON object")
	}

	system := req.Messages[0].Content
	if !strings.Contains(system, "Japanese (Japan)") {
		t.Errorf("system prompt missing target language name:\n%s", system)
	}
	if !strings.Contains(system, `"translations"`) {
		t.Error("system prompt missing the output contract")
	}
}

func TestBuild_NoTexts(t *testing.T) {
	b := NewBuilder(Config{})
	if _, err := b.Build(Request{TargetLanguage: "es"}); err == nil {
		t.Error("expected an error for an empty batch")
	}
}

func TestBuild_GlossarySections(t *testing.T) {
	b := NewBuilder(Config{Model: "gpt-4o", Temperature: 0.1})
	req, err := b.Build(Request{
		Texts:          []string{"The Dragon guards Excalibur"},
		TargetLanguage: "ja",
		Glossary: []gotmem.GlossaryEntry{
			{Term: "Dragon", Translation: "ドラゴン"},
			{Term: "Excalibur", DoNotTranslate: true},
			{Term: "Unbound"}, // No translation, not excluded: contributes nothing
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Model != "gpt-4o" || req.Temperature != 0.1 {
		t.Errorf("config not applied: %s/%v", req.Model, req.Temperature)
	}

	system := req.Messages[0].Content
	if !strings.Contains(system, `"Dragon" → "ドラゴン"`) {
		t.Errorf("glossary binding missing:\n%s", system)
	}
	if !strings.Contains(system, "Do NOT translate") || !strings.Contains(system, "Excalibur") {
		t.Errorf("exclusion section missing:\n%s", system)
	}
	if strings.Contains(system, "Unbound") {
		t.Error("translationless term leaked into the prompt")
	}
}

func TestBuild_EmotionAndStyle(t *testing.T) {
	b := NewBuilder(Config{})
	req, err := b.Build(Request{
		Texts:          []string{"I HATE YOU!!!"},
		TargetLanguage: "es",
		Emotion: gotmem.EmotionAnalysis{
			Primary:   gotmem.EmotionAnger,
			Intensity: gotmem.IntensityHigh,
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	system := req.Messages[0].Content
	if !strings.Contains(system, "anger") {
		t.Errorf("tone section missing:\n%s", system)
	}
	// High-intensity anger maps to the dramatic register.
	if !strings.Contains(system, gotmem.GetStyleDescription(gotmem.StyleDramatic)) {
		t.Errorf("dramatic register missing:\n%s", system)
	}
}

func TestBuild_NeutralEmotionOmitted(t *testing.T) {
	b := NewBuilder(Config{})
	req, _ := b.Build(Request{
		Texts:          []string{"Open the door."},
		TargetLanguage: "es",
		Emotion:        gotmem.EmotionAnalysis{Primary: gotmem.EmotionNeutral, Intensity: gotmem.IntensityLow},
	})
	if strings.Contains(req.Messages[0].Content, "# Tone") {
		t.Error("neutral emotion should not add a tone section")
	}
}

func TestParseTranslations(t *testing.T) {
	got, err := ParseTranslations(`{"translations": ["Hola", "Adiós"]}`, 2)
	if err != nil {
		t.Fatalf("object form: %v", err)
	}
	if got[0] != "Hola" || got[1] != "Adiós" {
		t.Errorf("got %v", got)
	}

	got, err = ParseTranslations(`["Hola"]`, 1)
	if err != nil {
		t.Fatalf("bare array form: %v", err)
	}
	if got[0] != "Hola" {
		t.Errorf("got %v", got)
	}
}

func TestParseTranslations_CountMismatch(t *testing.T) {
	_, err := ParseTranslations(`{"translations": ["Hola"]}`, 3)
	var mismatch *gotmem.CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Expected != 3 || mismatch.Got != 1 {
		t.Errorf("counts = %d/%d", mismatch.Expected, mismatch.Got)
	}
}

func TestParseTranslations_Invalid(t *testing.T) {
	if _, err := ParseTranslations("not json at all", 1); err == nil {
		t.Error("expected an error for garbage input")
	}
	if _, err := ParseTranslations(`{"other": true}`, 1); err == nil {
		t.Error("expected an error when the translations key is absent")
	}
}
