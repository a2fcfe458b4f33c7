package gotmem

import (
	"context"
	"strings"
)

// AddGlossaryTerm validates and persists a project glossary term. Approved
// defaults to false; terms enter the glossary pending review.
func (m *Memory) AddGlossaryTerm(ctx context.Context, fields NewGlossaryTerm) (string, error) {
	defer m.begin()()

	if strings.TrimSpace(fields.Term) == "" {
		return "", &ValidationError{Field: "term", Message: "must be non-empty"}
	}
	if strings.TrimSpace(fields.Translation) == "" && !fields.DoNotTranslate {
		return "", &ValidationError{Field: "translation", Message: "must be non-empty unless the term is marked do-not-translate"}
	}
	if fields.SourceLanguage == "" || fields.TargetLanguage == "" {
		return "", &ValidationError{Field: "language", Message: "source and target languages are required"}
	}

	now := m.now()
	entry := GlossaryEntry{
		ID:             NewTermID(fields.Term, fields.SourceLanguage, fields.TargetLanguage, now),
		Term:           strings.TrimSpace(fields.Term),
		Translation:    strings.TrimSpace(fields.Translation),
		SourceLanguage: fields.SourceLanguage,
		TargetLanguage: fields.TargetLanguage,
		Project:        fields.Project,
		Approved:       false,
		DoNotTranslate: fields.DoNotTranslate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := m.store.AddTerm(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// SearchGlossary returns glossary terms matching the text exactly or by
// prefix, case-insensitive, scoped to the language pair and optional
// project.
//
// Glossary hits are authoritative overrides: when one applies to the same
// span as a fuzzy memory match, the caller is expected to let the glossary
// win. The two result sets are never merged here.
func (m *Memory) SearchGlossary(ctx context.Context, text, sourceLang, targetLang, projectID string) ([]GlossaryEntry, error) {
	defer m.begin()()

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "must be non-empty"}
	}

	return m.store.SearchTerms(ctx, text, SearchQuery{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		ProjectID:      projectID,
	})
}
