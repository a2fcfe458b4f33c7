package gotmem

import (
	"testing"
	"time"
)

func TestHashText(t *testing.T) {
	if HashText("hello") != HashText("  hello  ") {
		t.Error("HashText should ignore surrounding whitespace")
	}
	if HashText("hello") == HashText("Hello") {
		t.Error("HashText is case-sensitive; distinct casings must differ")
	}
	if len(HashText("hello")) != 64 {
		t.Errorf("HashText length = %d, want 64 hex chars", len(HashText("hello")))
	}
}

func TestNewEntryID(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := NewEntryID("Hello", "Hola", "en", "es", at)
	b := NewEntryID("Hello", "Hola", "en", "es", at)
	if a != b {
		t.Error("same inputs must derive the same id")
	}
	if len(a) != 32 {
		t.Errorf("id length = %d, want 32 hex chars", len(a))
	}

	later := NewEntryID("Hello", "Hola", "en", "es", at.Add(time.Nanosecond))
	if a == later {
		t.Error("different creation times must derive different ids")
	}

	other := NewEntryID("Hello", "Hola", "en", "fr", at)
	if a == other {
		t.Error("different language pairs must derive different ids")
	}
}

func TestNewTermID(t *testing.T) {
	at := time.Now()
	termID := NewTermID("Dragon", "en", "es", at)
	entryID := NewEntryID("Dragon", "", "en", "es", at)
	if termID == entryID {
		t.Error("term and entry id namespaces must not collide")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello World  ", "hello world"},
		{"HELLO", "hello"},
		{"こんにちは", "こんにちは"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
