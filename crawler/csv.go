package crawler

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// csvHeader is the interchange format shared with the desktop app's
// glossary export. RFC 4180 quoting via encoding/csv.
var csvHeader = []string{"term", "translation", "category", "frequency", "confidence", "status"}

// ExportCSV writes the glossary to w, one row per entry, header first.
func ExportCSV(w io.Writer, entries []GlossaryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Term,
			e.Translation,
			string(e.Category),
			strconv.Itoa(e.Frequency),
			strconv.FormatFloat(e.Confidence, 'f', -1, 64),
			string(e.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %q: %w", e.Term, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads a glossary previously written by ExportCSV (or the
// desktop app). Unknown categories and statuses fall back to unknown/
// pending rather than failing the whole file; a malformed row aborts with
// its line number.
func ImportCSV(r io.Reader, now time.Time) ([]GlossaryEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return []GlossaryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !strings.EqualFold(header[0], "term") {
		return nil, fmt.Errorf("unexpected header %q, want %q", header[0], "term")
	}

	var entries []GlossaryEntry
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		frequency, err := strconv.Atoi(row[3])
		if err != nil || frequency < 1 {
			return nil, fmt.Errorf("line %d: invalid frequency %q", line, row[3])
		}
		confidence, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid confidence %q", line, row[4])
		}

		term := strings.TrimSpace(row[0])
		if term == "" {
			return nil, fmt.Errorf("line %d: empty term", line)
		}

		entries = append(entries, GlossaryEntry{
			ID:          fmt.Sprintf("csv-%d", line),
			Term:        term,
			Translation: row[1],
			Category:    parseCategory(row[2]),
			Frequency:   frequency,
			Confidence:  confidence,
			Status:      parseStatus(row[5]),
			FirstSeen:   now,
			LastSeen:    now,
		})
	}
	if entries == nil {
		entries = []GlossaryEntry{}
	}
	return entries, nil
}

func parseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryCharacterName, CategoryLocation, CategoryItem, CategorySkill,
		CategoryEnemy, CategoryUIElement, CategoryDialog, CategorySystem:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryUnknown
	}
}

func parseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusConfirmed, StatusTranslated, StatusIgnored:
		return Status(strings.ToLower(strings.TrimSpace(s)))
	default:
		return StatusPending
	}
}
