package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/ZaguanLabs/gotmem"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed store. Entry bodies are JSON values; usage
// counts live in separate counter keys so increments use Redis's atomic
// INCR and concurrent accepts never lose an update.
//
// Key layout under the prefix (default "gotmem:"):
//
//	tm:<id>           entry JSON
//	tm:<id>:usage     usage counter
//	tm:<id>:updated   last-used timestamp (RFC3339)
//	tm:ids            set of all entry ids
//	tm:index:<s>:<t>  set of entry ids per language pair
//	gl:<id>           glossary term JSON
//	gl:ids            set of all term ids
//	gl:index:<s>:<t>  set of term ids per language pair
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "gotmem:")
}

// NewRedisStore creates a Redis store and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &gotmem.StorageError{Op: "parse redis url", Cause: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &gotmem.StorageError{Op: "ping redis", Cause: err}
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "gotmem:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) entryKey(id string) string  { return s.keyPrefix + "tm:" + id }
func (s *RedisStore) usageKey(id string) string  { return s.keyPrefix + "tm:" + id + ":usage" }
func (s *RedisStore) usedAtKey(id string) string { return s.keyPrefix + "tm:" + id + ":updated" }
func (s *RedisStore) termKey(id string) string   { return s.keyPrefix + "gl:" + id }

func (s *RedisStore) entryIndexKey(sourceLang, targetLang string) string {
	return s.keyPrefix + "tm:index:" + sourceLang + ":" + targetLang
}

func (s *RedisStore) termIndexKey(sourceLang, targetLang string) string {
	return s.keyPrefix + "gl:index:" + sourceLang + ":" + targetLang
}

// AddEntry stores the entry body, seeds the usage counter and indexes the id.
func (s *RedisStore) AddEntry(ctx context.Context, entry gotmem.MemoryEntry) error {
	data, err := json.Marshal(toJSONEntry(entry))
	if err != nil {
		return &gotmem.StorageError{Op: "encode entry", Cause: err}
	}

	if err := s.client.Set(ctx, s.entryKey(entry.ID), string(data), 0).Err(); err != nil {
		return &gotmem.StorageError{Op: "set entry", Cause: err}
	}
	if err := s.client.Set(ctx, s.usageKey(entry.ID), strconv.Itoa(entry.UsageCount), 0).Err(); err != nil {
		return &gotmem.StorageError{Op: "set usage", Cause: err}
	}
	if err := s.client.SAdd(ctx, s.keyPrefix+"tm:ids", entry.ID).Err(); err != nil {
		return &gotmem.StorageError{Op: "index entry", Cause: err}
	}
	if err := s.client.SAdd(ctx, s.entryIndexKey(entry.SourceLanguage, entry.TargetLanguage), entry.ID).Err(); err != nil {
		return &gotmem.StorageError{Op: "index entry pair", Cause: err}
	}
	return nil
}

// GetEntry fetches and reassembles one entry.
func (s *RedisStore) GetEntry(ctx context.Context, id string) (gotmem.MemoryEntry, error) {
	return s.fetchEntry(ctx, id)
}

// SearchEntries reads the language-pair index set and fetches its members.
func (s *RedisStore) SearchEntries(ctx context.Context, q gotmem.SearchQuery) ([]gotmem.MemoryEntry, error) {
	ids, err := s.client.SMembers(ctx, s.entryIndexKey(q.SourceLanguage, q.TargetLanguage)).Result()
	if err != nil {
		return nil, &gotmem.StorageError{Op: "read entry index", Cause: err}
	}
	sort.Strings(ids)

	results := make([]gotmem.MemoryEntry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.fetchEntry(ctx, id)
		if err != nil {
			var notFound *gotmem.NotFoundError
			if errors.As(err, &notFound) {
				continue // Index and body can drift; skip dangling ids.
			}
			return nil, err
		}
		if matchesQuery(entry, q) {
			results = append(results, entry)
		}
	}
	sortEntries(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// IncrementUsage bumps the usage counter with an atomic INCR.
func (s *RedisStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	exists, err := s.client.Exists(ctx, s.entryKey(id)).Result()
	if err != nil {
		return &gotmem.StorageError{Op: "check entry", Cause: err}
	}
	if exists == 0 {
		return &gotmem.NotFoundError{ID: id}
	}
	if err := s.client.Incr(ctx, s.usageKey(id)).Err(); err != nil {
		return &gotmem.StorageError{Op: "increment usage", Cause: err}
	}
	if err := s.client.Set(ctx, s.usedAtKey(id), at.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return &gotmem.StorageError{Op: "set updated", Cause: err}
	}
	return nil
}

// AddTerm stores a glossary term and indexes it.
func (s *RedisStore) AddTerm(ctx context.Context, term gotmem.GlossaryEntry) error {
	data, err := json.Marshal(toJSONTerm(term))
	if err != nil {
		return &gotmem.StorageError{Op: "encode term", Cause: err}
	}
	if err := s.client.Set(ctx, s.termKey(term.ID), string(data), 0).Err(); err != nil {
		return &gotmem.StorageError{Op: "set term", Cause: err}
	}
	if err := s.client.SAdd(ctx, s.keyPrefix+"gl:ids", term.ID).Err(); err != nil {
		return &gotmem.StorageError{Op: "index term", Cause: err}
	}
	if err := s.client.SAdd(ctx, s.termIndexKey(term.SourceLanguage, term.TargetLanguage), term.ID).Err(); err != nil {
		return &gotmem.StorageError{Op: "index term pair", Cause: err}
	}
	return nil
}

// SearchTerms reads the pair index and filters members in memory.
func (s *RedisStore) SearchTerms(ctx context.Context, termQuery string, q gotmem.SearchQuery) ([]gotmem.GlossaryEntry, error) {
	ids, err := s.client.SMembers(ctx, s.termIndexKey(q.SourceLanguage, q.TargetLanguage)).Result()
	if err != nil {
		return nil, &gotmem.StorageError{Op: "read term index", Cause: err}
	}
	sort.Strings(ids)

	results := make([]gotmem.GlossaryEntry, 0, len(ids))
	for _, id := range ids {
		term, err := s.fetchTerm(ctx, id)
		if err != nil {
			var notFound *gotmem.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		if matchesTerm(term, termQuery, q) {
			results = append(results, term)
		}
	}
	sortTerms(results)
	return results, nil
}

// Stats walks the id sets. Linear in store size; acceptable for the corpus
// sizes a desktop translation memory reaches.
func (s *RedisStore) Stats(ctx context.Context) (gotmem.MemoryStats, error) {
	entryIDs, err := s.client.SMembers(ctx, s.keyPrefix+"tm:ids").Result()
	if err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "read entry ids", Cause: err}
	}
	sort.Strings(entryIDs)

	entries := make([]gotmem.MemoryEntry, 0, len(entryIDs))
	for _, id := range entryIDs {
		entry, err := s.fetchEntry(ctx, id)
		if err != nil {
			var notFound *gotmem.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return gotmem.MemoryStats{}, err
		}
		entries = append(entries, entry)
	}

	termIDs, err := s.client.SMembers(ctx, s.keyPrefix+"gl:ids").Result()
	if err != nil {
		return gotmem.MemoryStats{}, &gotmem.StorageError{Op: "read term ids", Cause: err}
	}
	sort.Strings(termIDs)

	terms := make([]gotmem.GlossaryEntry, 0, len(termIDs))
	for _, id := range termIDs {
		term, err := s.fetchTerm(ctx, id)
		if err != nil {
			var notFound *gotmem.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return gotmem.MemoryStats{}, err
		}
		terms = append(terms, term)
	}

	return computeStats(entries, terms), nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// fetchEntry reassembles an entry from its body, counter and timestamp keys.
func (s *RedisStore) fetchEntry(ctx context.Context, id string) (gotmem.MemoryEntry, error) {
	raw, err := s.client.Get(ctx, s.entryKey(id)).Result()
	if err == redis.Nil {
		return gotmem.MemoryEntry{}, &gotmem.NotFoundError{ID: id}
	}
	if err != nil {
		return gotmem.MemoryEntry{}, &gotmem.StorageError{Op: "get entry", Cause: err}
	}

	var je jsonEntry
	if err := json.Unmarshal([]byte(raw), &je); err != nil {
		return gotmem.MemoryEntry{}, &gotmem.StorageError{Op: "parse entry", Cause: err}
	}
	entry := fromJSONEntry(je)

	if usage, err := s.client.Get(ctx, s.usageKey(id)).Result(); err == nil {
		if n, convErr := strconv.Atoi(usage); convErr == nil {
			entry.UsageCount = n
		}
	}
	if usedAt, err := s.client.Get(ctx, s.usedAtKey(id)).Result(); err == nil {
		if t, parseErr := time.Parse(time.RFC3339Nano, usedAt); parseErr == nil {
			entry.UpdatedAt = t
		}
	}
	return entry, nil
}

func (s *RedisStore) fetchTerm(ctx context.Context, id string) (gotmem.GlossaryEntry, error) {
	raw, err := s.client.Get(ctx, s.termKey(id)).Result()
	if err == redis.Nil {
		return gotmem.GlossaryEntry{}, &gotmem.NotFoundError{ID: id}
	}
	if err != nil {
		return gotmem.GlossaryEntry{}, &gotmem.StorageError{Op: "get term", Cause: err}
	}
	var jt jsonTerm
	if err := json.Unmarshal([]byte(raw), &jt); err != nil {
		return gotmem.GlossaryEntry{}, &gotmem.StorageError{Op: "parse term", Cause: err}
	}
	return fromJSONTerm(jt), nil
}

// Verify RedisStore implements gotmem.Store.
var _ gotmem.Store = (*RedisStore)(nil)
