// Package gotmem provides a translation memory and fuzzy matching engine
// for game text.
//
// Given a captured source string, gotmem finds previously translated entries
// that are identical or similar enough to reuse, ranks them, and maintains a
// glossary of consistently translated terms. Matching is pure and
// storage-agnostic; persistence is delegated to an injected Store (in-memory,
// JSON file, Redis or SQLite backends live in the storage package).
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gotmem"
//	    "github.com/ZaguanLabs/gotmem/storage"
//	)
//
//	func main() {
//	    mem := gotmem.NewMemory(storage.NewMemoryStore(),
//	        gotmem.WithSimilarityCache(gotmem.NewSimilarityCache(0)),
//	    )
//
//	    id, err := mem.AddEntry(context.Background(), gotmem.NewEntry{
//	        SourceText:     "Hello",
//	        TargetText:     "Hola",
//	        SourceLanguage: "en",
//	        TargetLanguage: "es",
//	        Confidence:     0.9,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    suggestions, err := mem.SearchMemory(context.Background(), "Hello!", "en", "es", "", 20)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, s := range suggestions {
//	        fmt.Printf("%s → %s (%.2f)\n", s.SourceText, s.TargetText, s.Similarity)
//	    }
//	    mem.IncrementUsage(context.Background(), id)
//	}
//
// The crawler package classifies captured terms and deduplicates auto-built
// glossaries; the prompt package renders memory and tone metadata into
// provider chat requests without ever dialing a provider itself.
package gotmem
