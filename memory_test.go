package gotmem

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

// mockStore records calls and returns canned results.
type mockStore struct {
	entries  []MemoryEntry
	terms    []GlossaryEntry
	added    []MemoryEntry
	addedT   []GlossaryEntry
	bumped   []string
	stats    MemoryStats
	addErr   error
	searchEr error
	usageErr error
}

func (s *mockStore) AddEntry(ctx context.Context, entry MemoryEntry) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, entry)
	return nil
}

func (s *mockStore) GetEntry(ctx context.Context, id string) (MemoryEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return MemoryEntry{}, &NotFoundError{ID: id}
}

func (s *mockStore) SearchEntries(ctx context.Context, q SearchQuery) ([]MemoryEntry, error) {
	if s.searchEr != nil {
		return nil, s.searchEr
	}
	return s.entries, nil
}

func (s *mockStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	if s.usageErr != nil {
		return s.usageErr
	}
	s.bumped = append(s.bumped, id)
	return nil
}

func (s *mockStore) AddTerm(ctx context.Context, term GlossaryEntry) error {
	s.addedT = append(s.addedT, term)
	return nil
}

func (s *mockStore) SearchTerms(ctx context.Context, termQuery string, q SearchQuery) ([]GlossaryEntry, error) {
	return s.terms, nil
}

func (s *mockStore) Stats(ctx context.Context) (MemoryStats, error) {
	return s.stats, nil
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestAddEntry(t *testing.T) {
	store := &mockStore{}
	mem := NewMemory(store, WithClock(fixedClock()))

	id, err := mem.AddEntry(context.Background(), NewEntry{
		SourceText:     "  Hello  ",
		TargetText:     "Hola",
		SourceLanguage: "en",
		TargetLanguage: "es",
		Confidence:     0.92,
		ProjectID:      "proj-1",
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if id == "" {
		t.Fatal("AddEntry returned an empty id")
	}
	if len(store.added) != 1 {
		t.Fatalf("store received %d entries", len(store.added))
	}

	got := store.added[0]
	if got.SourceText != "Hello" {
		t.Errorf("source text not trimmed: %q", got.SourceText)
	}
	if got.UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1 (recording counts as first use)", got.UsageCount)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on creation")
	}
}

func TestAddEntry_Validation(t *testing.T) {
	mem := NewMemory(&mockStore{})
	ctx := context.Background()

	tests := []struct {
		name   string
		fields NewEntry
		field  string
	}{
		{"empty source", NewEntry{TargetText: "x", SourceLanguage: "en", TargetLanguage: "es"}, "sourceText"},
		{"blank source", NewEntry{SourceText: "   ", TargetText: "x", SourceLanguage: "en", TargetLanguage: "es"}, "sourceText"},
		{"empty target", NewEntry{SourceText: "x", SourceLanguage: "en", TargetLanguage: "es"}, "targetText"},
		{"missing languages", NewEntry{SourceText: "x", TargetText: "y"}, "language"},
		{"confidence too high", NewEntry{SourceText: "x", TargetText: "y", SourceLanguage: "en", TargetLanguage: "es", Confidence: 1.5}, "confidence"},
		{"confidence negative", NewEntry{SourceText: "x", TargetText: "y", SourceLanguage: "en", TargetLanguage: "es", Confidence: -0.1}, "confidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mem.AddEntry(ctx, tt.fields)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestSearchMemory(t *testing.T) {
	now := time.Now()
	store := &mockStore{entries: []MemoryEntry{
		makeEntry("1", "Hello there", "Hola", 3, now),
		makeEntry("2", "Hello where", "Hola d", 1, now),
		makeEntry("3", "Completely unrelated text", "x", 1, now),
	}}
	mem := NewMemory(store)

	matches, err := mem.SearchMemory(context.Background(), "Hello there", "en", "es", "", 0)
	if err != nil {
		t.Fatalf("SearchMemory: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "1" || matches[0].Similarity != 1.0 {
		t.Errorf("best match = %+v", matches[0])
	}
}

func TestSearchMemory_EmptyQuery(t *testing.T) {
	mem := NewMemory(&mockStore{})
	_, err := mem.SearchMemory(context.Background(), "  ", "en", "es", "", 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearchMemory_StoreError(t *testing.T) {
	store := &mockStore{searchEr: &StorageError{Op: "search", Cause: errors.New("disk gone")}}
	mem := NewMemory(store)
	_, err := mem.SearchMemory(context.Background(), "hello", "en", "es", "", 0)
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("store errors must surface, got %v", err)
	}
}

func TestGetExactMatches(t *testing.T) {
	now := time.Now()
	store := &mockStore{entries: []MemoryEntry{
		makeEntry("1", "Save", "Guardar", 4, now),
		makeEntry("2", "Saved", "Guardado", 9, now),
	}}
	mem := NewMemory(store)

	matches, err := mem.GetExactMatches(context.Background(), "save", "en", "es", 0)
	if err != nil {
		t.Fatalf("GetExactMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "1" {
		t.Errorf("matches = %+v", matches)
	}
}

func TestIncrementUsage_SwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	store := &mockStore{usageErr: &NotFoundError{ID: "ghost"}}
	mem := NewMemory(store, WithLogger(log.New(&buf, "", 0)))

	// Must not panic and must not surface the failure.
	mem.IncrementUsage(context.Background(), "ghost")

	if !strings.Contains(buf.String(), "ghost") {
		t.Errorf("failure was not logged: %q", buf.String())
	}
}

func TestIncrementUsage_Bumps(t *testing.T) {
	store := &mockStore{}
	mem := NewMemory(store)
	mem.IncrementUsage(context.Background(), "entry-1")
	if len(store.bumped) != 1 || store.bumped[0] != "entry-1" {
		t.Errorf("bumped = %v", store.bumped)
	}
}

func TestAddGlossaryTerm(t *testing.T) {
	store := &mockStore{}
	mem := NewMemory(store, WithClock(fixedClock()))

	id, err := mem.AddGlossaryTerm(context.Background(), NewGlossaryTerm{
		Term:           "Elixir",
		Translation:    "Elixir",
		SourceLanguage: "en",
		TargetLanguage: "es",
		Project:        "proj-1",
	})
	if err != nil {
		t.Fatalf("AddGlossaryTerm: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}
	if store.addedT[0].Approved {
		t.Error("new terms must enter the glossary unapproved")
	}
}

func TestAddGlossaryTerm_DoNotTranslate(t *testing.T) {
	store := &mockStore{}
	mem := NewMemory(store)
	ctx := context.Background()

	// Translation is required unless the term is marked do-not-translate.
	_, err := mem.AddGlossaryTerm(ctx, NewGlossaryTerm{Term: "Excalibur", SourceLanguage: "en", TargetLanguage: "ja"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = mem.AddGlossaryTerm(ctx, NewGlossaryTerm{
		Term: "Excalibur", SourceLanguage: "en", TargetLanguage: "ja", DoNotTranslate: true,
	})
	if err != nil {
		t.Fatalf("do-not-translate term without translation should pass: %v", err)
	}
}

func TestSearchGlossary(t *testing.T) {
	store := &mockStore{terms: []GlossaryEntry{{ID: "g1", Term: "Dragon", Translation: "Dragón"}}}
	mem := NewMemory(store)

	terms, err := mem.SearchGlossary(context.Background(), "Dragon", "en", "es", "")
	if err != nil {
		t.Fatalf("SearchGlossary: %v", err)
	}
	if len(terms) != 1 || terms[0].ID != "g1" {
		t.Errorf("terms = %+v", terms)
	}
}

func TestInFlight(t *testing.T) {
	mem := NewMemory(&mockStore{})
	if mem.InFlight() != 0 {
		t.Fatalf("fresh service reports %d in flight", mem.InFlight())
	}

	done := mem.begin()
	if mem.InFlight() != 1 {
		t.Errorf("InFlight = %d during an operation, want 1", mem.InFlight())
	}
	done()
	if mem.InFlight() != 0 {
		t.Errorf("InFlight = %d after completion, want 0", mem.InFlight())
	}
}

func TestStats(t *testing.T) {
	store := &mockStore{stats: MemoryStats{TotalEntries: 7, TotalUsageCount: 21}}
	mem := NewMemory(store)
	stats, err := mem.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEntries != 7 || stats.TotalUsageCount != 21 {
		t.Errorf("stats = %+v", stats)
	}
}
