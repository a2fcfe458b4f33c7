package crawler

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCSV_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []GlossaryEntry{
		{Term: "Dragon", Translation: "ドラゴン", Category: CategoryEnemy, Frequency: 12, Confidence: 0.85, Status: StatusTranslated},
		{Term: `He said "run"`, Translation: "", Category: CategoryDialog, Frequency: 1, Confidence: 0.4, Status: StatusPending},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, entries); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	got, err := ImportCSV(&buf, now)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].Term != "Dragon" || got[0].Translation != "ドラゴン" {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[0].Category != CategoryEnemy || got[0].Status != StatusTranslated {
		t.Errorf("entry 0 enums = %s/%s", got[0].Category, got[0].Status)
	}
	if got[0].Frequency != 12 || got[0].Confidence != 0.85 {
		t.Errorf("entry 0 numbers = %d/%v", got[0].Frequency, got[0].Confidence)
	}
	// Embedded quotes survive RFC 4180 quoting.
	if got[1].Term != `He said "run"` {
		t.Errorf("quoted term mangled: %q", got[1].Term)
	}
	if !got[1].FirstSeen.Equal(now) {
		t.Errorf("FirstSeen = %v, want import time", got[1].FirstSeen)
	}
}

func TestImportCSV_UnknownEnumsFallBack(t *testing.T) {
	input := "term,translation,category,frequency,confidence,status\n" +
		"Mystery,,alien_artifact,3,0.5,weird\n"
	got, err := ImportCSV(strings.NewReader(input), time.Now())
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if got[0].Category != CategoryUnknown {
		t.Errorf("Category = %s, want unknown fallback", got[0].Category)
	}
	if got[0].Status != StatusPending {
		t.Errorf("Status = %s, want pending fallback", got[0].Status)
	}
}

func TestImportCSV_InvalidRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad frequency", "term,translation,category,frequency,confidence,status\nDragon,,enemy,zero,0.5,pending\n"},
		{"zero frequency", "term,translation,category,frequency,confidence,status\nDragon,,enemy,0,0.5,pending\n"},
		{"bad confidence", "term,translation,category,frequency,confidence,status\nDragon,,enemy,1,high,pending\n"},
		{"empty term", "term,translation,category,frequency,confidence,status\n  ,,enemy,1,0.5,pending\n"},
		{"short row", "term,translation,category,frequency,confidence,status\nDragon,,enemy\n"},
		{"bad header", "nope,translation,category,frequency,confidence,status\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportCSV(strings.NewReader(tt.input), time.Now()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestImportCSV_Empty(t *testing.T) {
	got, err := ImportCSV(strings.NewReader(""), time.Now())
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}
