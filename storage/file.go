package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/gotmem"
)

// FileStore persists the memory as one JSON file per language pair
// (tm_<src>_<tgt>.json, glossary_<src>_<tgt>.json) under a data directory.
// This matches the desktop app's on-disk layout, so existing memories load
// unchanged.
//
// Mutations are load-mutate-save under a store-wide mutex; the store is safe
// for concurrent callers within one process but assumes exclusive ownership
// of the directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// fileEnvelope is the versioned on-disk format.
type fileEnvelope struct {
	Version   string         `json:"version"`
	UpdatedAt string         `json:"updatedAt"`
	Entries   []jsonEntry    `json:"entries,omitempty"`
	Terms     []jsonTerm     `json:"terms,omitempty"`
	Metadata  map[string]int `json:"metadata,omitempty"`
}

// jsonEntry is the stored shape of a memory entry. Kept separate from the
// domain type so disk compatibility never constrains the core model.
type jsonEntry struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"sourceText"`
	TargetText     string    `json:"targetText"`
	SourceLanguage string    `json:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage"`
	Confidence     float64   `json:"confidence"`
	UsageCount     int       `json:"usageCount"`
	ProjectID      string    `json:"projectId,omitempty"`
	GameID         string    `json:"gameId,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Verified       bool      `json:"verified"`
	Tags           []string  `json:"tags,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type jsonTerm struct {
	ID             string    `json:"id"`
	Term           string    `json:"term"`
	Translation    string    `json:"translation,omitempty"`
	SourceLanguage string    `json:"sourceLanguage"`
	TargetLanguage string    `json:"targetLanguage"`
	Project        string    `json:"project,omitempty"`
	Approved       bool      `json:"approved"`
	DoNotTranslate bool      `json:"doNotTranslate,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

const fileFormatVersion = "1.0"

// NewFileStore creates a file store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &gotmem.StorageError{Op: "create data dir", Cause: err}
	}
	return &FileStore{dir: dir}, nil
}

func tmFilename(sourceLang, targetLang string) string {
	return fmt.Sprintf("tm_%s_%s.json", strings.ToLower(sourceLang), strings.ToLower(targetLang))
}

func glossaryFilename(sourceLang, targetLang string) string {
	return fmt.Sprintf("glossary_%s_%s.json", strings.ToLower(sourceLang), strings.ToLower(targetLang))
}

// AddEntry appends an entry to its language-pair file.
func (s *FileStore) AddEntry(ctx context.Context, entry gotmem.MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, tmFilename(entry.SourceLanguage, entry.TargetLanguage))
	env, err := s.load(path)
	if err != nil {
		return err
	}
	env.Entries = append(env.Entries, toJSONEntry(entry))
	return s.save(path, env)
}

// GetEntry scans all language-pair files for the id.
func (s *FileStore) GetEntry(ctx context.Context, id string) (gotmem.MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadAllEntries()
	if err != nil {
		return gotmem.MemoryEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return fromJSONEntry(e), nil
		}
	}
	return gotmem.MemoryEntry{}, &gotmem.NotFoundError{ID: id}
}

// SearchEntries loads the pair file for the query's languages.
func (s *FileStore) SearchEntries(ctx context.Context, q gotmem.SearchQuery) ([]gotmem.MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, tmFilename(q.SourceLanguage, q.TargetLanguage))
	env, err := s.load(path)
	if err != nil {
		return nil, err
	}

	results := make([]gotmem.MemoryEntry, 0, len(env.Entries))
	for _, fe := range env.Entries {
		e := fromJSONEntry(fe)
		if matchesQuery(e, q) {
			results = append(results, e)
		}
	}
	sortEntries(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// IncrementUsage locates the entry's file, bumps the count and rewrites it.
// The store mutex makes the read-modify-write atomic within the process.
func (s *FileStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := s.listFiles("tm_")
	if err != nil {
		return err
	}
	for _, path := range paths {
		env, err := s.load(path)
		if err != nil {
			return err
		}
		for i := range env.Entries {
			if env.Entries[i].ID == id {
				env.Entries[i].UsageCount++
				env.Entries[i].UpdatedAt = at
				return s.save(path, env)
			}
		}
	}
	return &gotmem.NotFoundError{ID: id}
}

// AddTerm appends a glossary term to its language-pair file.
func (s *FileStore) AddTerm(ctx context.Context, term gotmem.GlossaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, glossaryFilename(term.SourceLanguage, term.TargetLanguage))
	env, err := s.load(path)
	if err != nil {
		return err
	}
	env.Terms = append(env.Terms, toJSONTerm(term))
	return s.save(path, env)
}

// SearchTerms loads the glossary file for the query's language pair.
func (s *FileStore) SearchTerms(ctx context.Context, termQuery string, q gotmem.SearchQuery) ([]gotmem.GlossaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, glossaryFilename(q.SourceLanguage, q.TargetLanguage))
	env, err := s.load(path)
	if err != nil {
		return nil, err
	}

	results := make([]gotmem.GlossaryEntry, 0)
	for _, ft := range env.Terms {
		t := fromJSONTerm(ft)
		if matchesTerm(t, termQuery, q) {
			results = append(results, t)
		}
	}
	sortTerms(results)
	return results, nil
}

// Stats aggregates across every file in the directory.
func (s *FileStore) Stats(ctx context.Context) (gotmem.MemoryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fileEntries, err := s.loadAllEntries()
	if err != nil {
		return gotmem.MemoryStats{}, err
	}
	entries := make([]gotmem.MemoryEntry, 0, len(fileEntries))
	for _, fe := range fileEntries {
		entries = append(entries, fromJSONEntry(fe))
	}

	var terms []gotmem.GlossaryEntry
	paths, err := s.listFiles("glossary_")
	if err != nil {
		return gotmem.MemoryStats{}, err
	}
	for _, path := range paths {
		env, err := s.load(path)
		if err != nil {
			return gotmem.MemoryStats{}, err
		}
		for _, ft := range env.Terms {
			terms = append(terms, fromJSONTerm(ft))
		}
	}
	return computeStats(entries, terms), nil
}

func (s *FileStore) loadAllEntries() ([]jsonEntry, error) {
	paths, err := s.listFiles("tm_")
	if err != nil {
		return nil, err
	}
	var all []jsonEntry
	for _, path := range paths {
		env, err := s.load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, env.Entries...)
	}
	return all, nil
}

func (s *FileStore) listFiles(prefix string) ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &gotmem.StorageError{Op: "read data dir", Cause: err}
	}
	var paths []string
	for _, de := range dirEntries {
		name := de.Name()
		if !de.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			paths = append(paths, filepath.Join(s.dir, name))
		}
	}
	return paths, nil
}

// load reads an envelope; a missing file is an empty envelope.
func (s *FileStore) load(path string) (*fileEnvelope, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from the store's own directory
	if errors.Is(err, fs.ErrNotExist) {
		return &fileEnvelope{Version: fileFormatVersion}, nil
	}
	if err != nil {
		return nil, &gotmem.StorageError{Op: "read " + filepath.Base(path), Cause: err}
	}
	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &gotmem.StorageError{Op: "parse " + filepath.Base(path), Cause: err}
	}
	return &env, nil
}

func (s *FileStore) save(path string, env *fileEnvelope) error {
	env.Version = fileFormatVersion
	env.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return &gotmem.StorageError{Op: "encode " + filepath.Base(path), Cause: err}
	}
	// Write via a temp file so a crash never leaves a truncated memory.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &gotmem.StorageError{Op: "write " + filepath.Base(path), Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &gotmem.StorageError{Op: "rename " + filepath.Base(path), Cause: err}
	}
	return nil
}

func toJSONEntry(e gotmem.MemoryEntry) jsonEntry {
	return jsonEntry{
		ID:             e.ID,
		SourceText:     e.SourceText,
		TargetText:     e.TargetText,
		SourceLanguage: e.SourceLanguage,
		TargetLanguage: e.TargetLanguage,
		Confidence:     e.Confidence,
		UsageCount:     e.UsageCount,
		ProjectID:      e.ProjectID,
		GameID:         e.GameID,
		Provider:       e.Provider,
		Verified:       e.Verified,
		Tags:           e.Tags,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func fromJSONEntry(fe jsonEntry) gotmem.MemoryEntry {
	return gotmem.MemoryEntry{
		ID:             fe.ID,
		SourceText:     fe.SourceText,
		TargetText:     fe.TargetText,
		SourceLanguage: fe.SourceLanguage,
		TargetLanguage: fe.TargetLanguage,
		Confidence:     fe.Confidence,
		UsageCount:     fe.UsageCount,
		ProjectID:      fe.ProjectID,
		GameID:         fe.GameID,
		Provider:       fe.Provider,
		Verified:       fe.Verified,
		Tags:           fe.Tags,
		Notes:          fe.Notes,
		CreatedAt:      fe.CreatedAt,
		UpdatedAt:      fe.UpdatedAt,
	}
}

func toJSONTerm(t gotmem.GlossaryEntry) jsonTerm {
	return jsonTerm{
		ID:             t.ID,
		Term:           t.Term,
		Translation:    t.Translation,
		SourceLanguage: t.SourceLanguage,
		TargetLanguage: t.TargetLanguage,
		Project:        t.Project,
		Approved:       t.Approved,
		DoNotTranslate: t.DoNotTranslate,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func fromJSONTerm(ft jsonTerm) gotmem.GlossaryEntry {
	return gotmem.GlossaryEntry{
		ID:             ft.ID,
		Term:           ft.Term,
		Translation:    ft.Translation,
		SourceLanguage: ft.SourceLanguage,
		TargetLanguage: ft.TargetLanguage,
		Project:        ft.Project,
		Approved:       ft.Approved,
		DoNotTranslate: ft.DoNotTranslate,
		CreatedAt:      ft.CreatedAt,
		UpdatedAt:      ft.UpdatedAt,
	}
}

// Verify FileStore implements gotmem.Store.
var _ gotmem.Store = (*FileStore)(nil)
