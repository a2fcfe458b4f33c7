package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/ZaguanLabs/gotmem"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// SQLiteStore is a SQLite-backed store for long-lived memories that outgrow
// a single JSON file.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS memory_entries (
	id              TEXT PRIMARY KEY,
	source_text     TEXT NOT NULL,
	target_text     TEXT NOT NULL,
	source_language TEXT NOT NULL,
	target_language TEXT NOT NULL,
	confidence      REAL NOT NULL,
	usage_count     INTEGER NOT NULL,
	project_id      TEXT NOT NULL DEFAULT '',
	game_id         TEXT NOT NULL DEFAULT '',
	provider        TEXT NOT NULL DEFAULT '',
	verified        INTEGER NOT NULL DEFAULT 0,
	tags            TEXT NOT NULL DEFAULT '[]',
	notes           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_pair
	ON memory_entries (source_language, target_language);

CREATE TABLE IF NOT EXISTS glossary_terms (
	id               TEXT PRIMARY KEY,
	term             TEXT NOT NULL,
	translation      TEXT NOT NULL DEFAULT '',
	source_language  TEXT NOT NULL,
	target_language  TEXT NOT NULL,
	project          TEXT NOT NULL DEFAULT '',
	approved         INTEGER NOT NULL DEFAULT 0,
	do_not_translate INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_terms_pair
	ON glossary_terms (source_language, target_language);
`

// NewSQLiteStore opens (or creates) a SQLite database at path and ensures
// the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &gotmem.StorageError{Op: "open sqlite", Cause: err}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, &gotmem.StorageError{Op: "create schema", Cause: err}
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddEntry inserts a memory entry.
func (s *SQLiteStore) AddEntry(ctx context.Context, entry gotmem.MemoryEntry) error {
	tags, err := json.Marshal(entry.Tags)
	if err != nil {
		return &gotmem.StorageError{Op: "encode tags", Cause: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memory_entries
			(id, source_text, target_text, source_language, target_language,
			 confidence, usage_count, project_id, game_id, provider, verified,
			 tags, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SourceText, entry.TargetText, entry.SourceLanguage,
		entry.TargetLanguage, entry.Confidence, entry.UsageCount,
		entry.ProjectID, entry.GameID, entry.Provider, entry.Verified,
		string(tags), entry.Notes, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return &gotmem.StorageError{Op: "insert entry", Cause: err}
	}
	return nil
}

// GetEntry returns the entry with the given id.
func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (gotmem.MemoryEntry, error) {
	row := s.db.QueryRowContext(ctx, entrySelect+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return gotmem.MemoryEntry{}, &gotmem.NotFoundError{ID: id}
	}
	if err != nil {
		return gotmem.MemoryEntry{}, &gotmem.StorageError{Op: "get entry", Cause: err}
	}
	return entry, nil
}

// SearchEntries applies the language-pair/project pre-filter in SQL.
func (s *SQLiteStore) SearchEntries(ctx context.Context, q gotmem.SearchQuery) ([]gotmem.MemoryEntry, error) {
	query := entrySelect + ` WHERE source_language = ? AND target_language = ?`
	args := []interface{}{q.SourceLanguage, q.TargetLanguage}
	if q.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, q.ProjectID)
	}
	query += ` ORDER BY created_at, id`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &gotmem.StorageError{Op: "search entries", Cause: err}
	}
	defer rows.Close()

	results := make([]gotmem.MemoryEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, &gotmem.StorageError{Op: "scan entry", Cause: err}
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &gotmem.StorageError{Op: "search entries", Cause: err}
	}
	return results, nil
}

// IncrementUsage is a single UPDATE, so the increment is atomic at the
// database level.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE memory_entries SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`,
		at, id)
	if err != nil {
		return &gotmem.StorageError{Op: "increment usage", Cause: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &gotmem.StorageError{Op: "increment usage", Cause: err}
	}
	if affected == 0 {
		return &gotmem.NotFoundError{ID: id}
	}
	return nil
}

// AddTerm inserts a glossary term.
func (s *SQLiteStore) AddTerm(ctx context.Context, term gotmem.GlossaryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO glossary_terms
			(id, term, translation, source_language, target_language, project,
			 approved, do_not_translate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		term.ID, term.Term, term.Translation, term.SourceLanguage,
		term.TargetLanguage, term.Project, term.Approved, term.DoNotTranslate,
		term.CreatedAt, term.UpdatedAt)
	if err != nil {
		return &gotmem.StorageError{Op: "insert term", Cause: err}
	}
	return nil
}

// SearchTerms matches exactly or by prefix, case-insensitive, in SQL.
func (s *SQLiteStore) SearchTerms(ctx context.Context, termQuery string, q gotmem.SearchQuery) ([]gotmem.GlossaryEntry, error) {
	query := `
		SELECT id, term, translation, source_language, target_language,
		       project, approved, do_not_translate, created_at, updated_at
		FROM glossary_terms
		WHERE source_language = ? AND target_language = ?
		  AND (LOWER(term) = LOWER(?) OR LOWER(term) LIKE LOWER(?) || '%')`
	args := []interface{}{q.SourceLanguage, q.TargetLanguage, termQuery, termQuery}
	if q.ProjectID != "" {
		query += ` AND project = ?`
		args = append(args, q.ProjectID)
	}
	query += ` ORDER BY LOWER(term), id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &gotmem.StorageError{Op: "search terms", Cause: err}
	}
	defer rows.Close()

	results := make([]gotmem.GlossaryEntry, 0)
	for rows.Next() {
		var t gotmem.GlossaryEntry
		if err := rows.Scan(&t.ID, &t.Term, &t.Translation, &t.SourceLanguage,
			&t.TargetLanguage, &t.Project, &t.Approved, &t.DoNotTranslate,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, &gotmem.StorageError{Op: "scan term", Cause: err}
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &gotmem.StorageError{Op: "search terms", Cause: err}
	}
	return results, nil
}

// Stats aggregates in SQL.
func (s *SQLiteStore) Stats(ctx context.Context) (gotmem.MemoryStats, error) {
	stats := gotmem.MemoryStats{ByProvider: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(usage_count), 0),
		       COALESCE(SUM(verified), 0)
		FROM memory_entries`).
		Scan(&stats.TotalEntries, &stats.TotalUsageCount, &stats.VerifiedEntries)
	if err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "entry stats", Cause: err}
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM glossary_terms`).Scan(&stats.TotalGlossaryTerms); err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "term stats", Cause: err}
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT project_id AS p FROM memory_entries WHERE project_id != ''
			UNION
			SELECT project AS p FROM glossary_terms WHERE project != ''
		)`).Scan(&stats.TotalProjects); err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "project stats", Cause: err}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, COUNT(*) FROM memory_entries
		WHERE provider != '' GROUP BY provider`)
	if err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "provider stats", Cause: err}
	}
	defer rows.Close()
	for rows.Next() {
		var provider string
		var count int
		if err := rows.Scan(&provider, &count); err != nil {
			return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "provider stats", Cause: err}
		}
		stats.ByProvider[provider] = count
	}
	if err := rows.Err(); err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "provider stats", Cause: err}
	}
	return stats, nil
}

const entrySelect = `
	SELECT id, source_text, target_text, source_language, target_language,
	       confidence, usage_count, project_id, game_id, provider, verified,
	       tags, notes, created_at, updated_at
	FROM memory_entries`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (gotmem.MemoryEntry, error) {
	var e gotmem.MemoryEntry
	var tags string
	err := row.Scan(&e.ID, &e.SourceText, &e.TargetText, &e.SourceLanguage,
		&e.TargetLanguage, &e.Confidence, &e.UsageCount, &e.ProjectID,
		&e.GameID, &e.Provider, &e.Verified, &tags, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return gotmem.MemoryEntry{}, err
	}
	if tags != "" && tags != "null" {
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return gotmem.MemoryEntry{}, err
		}
	}
	return e, nil
}

// Verify SQLiteStore implements gotmem.Store.
var _ gotmem.Store = (*SQLiteStore)(nil)
