// Command gotmem queries and maintains a translation memory on disk.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaguanLabs/gotmem"
	"github.com/ZaguanLabs/gotmem/crawler"
	"github.com/ZaguanLabs/gotmem/storage"
)

// Build-time variables (can be overridden with ldflags)
var (
	version = gotmem.Version
	commit  = gotmem.GitCommit
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gotmem", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dataDir := fs.String("data", ".gotmem", "Translation memory data directory")
	sourceLang := fs.String("source", "en", "Source language code")
	targetLang := fs.String("lang", "", "Target language code (e.g. es, ja)")
	projectID := fs.String("project", "", "Optional project scope")

	query := fs.String("query", "", "Search the memory for suggestions")
	exact := fs.Bool("exact", false, "Exact matches only (with -query)")
	threshold := fs.Float64("threshold", 0.6, "Minimum similarity for fuzzy matches")
	maxResults := fs.Int("max", 10, "Maximum suggestions to return")

	addText := fs.String("add", "", "Source text of an entry to add")
	translation := fs.String("translation", "", "Target text for -add")
	confidence := fs.Float64("confidence", 1.0, "Confidence for -add")

	importGlossary := fs.String("import-glossary", "", "Import a crawled glossary CSV into the project glossary")
	exportGlossary := fs.String("export-glossary", "", "Export the project glossary for the language pair as CSV")

	emotionText := fs.String("emotion", "", "Analyze the emotional tone of a text")
	showStats := fs.Bool("stats", false, "Show memory statistics")
	jsonOutput := fs.Bool("json", false, "Output results as JSON")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", gotmem.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
		}
		return nil
	}

	if *emotionText != "" {
		return printResult(stdout, *jsonOutput, gotmem.AnalyzeEmotion(*emotionText), printEmotion)
	}

	store, err := storage.NewFileStore(*dataDir)
	if err != nil {
		return err
	}
	mem := gotmem.NewMemory(store,
		gotmem.WithSimilarityCache(gotmem.NewSimilarityCache(0)),
		gotmem.WithFuzzyOptions(gotmem.FuzzyOptions{
			Threshold:      *threshold,
			MaxResults:     *maxResults,
			IncludeContext: true,
		}),
	)
	ctx := context.Background()

	switch {
	case *showStats:
		stats, err := mem.Stats(ctx)
		if err != nil {
			return err
		}
		return printResult(stdout, *jsonOutput, stats, printStats)

	case *addText != "":
		if *targetLang == "" {
			fs.Usage()
			return fmt.Errorf("--lang is required")
		}
		if *translation == "" {
			return fmt.Errorf("--translation is required with --add")
		}
		id, err := mem.AddEntry(ctx, gotmem.NewEntry{
			SourceText:     *addText,
			TargetText:     *translation,
			SourceLanguage: *sourceLang,
			TargetLanguage: *targetLang,
			Confidence:     *confidence,
			ProjectID:      *projectID,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added %s\n", id)
		return nil

	case *importGlossary != "":
		if *targetLang == "" {
			fs.Usage()
			return fmt.Errorf("--lang is required")
		}
		added, skipped, err := importGlossaryCSV(ctx, mem, *importGlossary, *sourceLang, *targetLang, *projectID)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "imported %d terms (%d skipped)\n", added, skipped)
		return nil

	case *exportGlossary != "":
		if *targetLang == "" {
			fs.Usage()
			return fmt.Errorf("--lang is required")
		}
		n, err := exportGlossaryCSV(ctx, store, *exportGlossary, *sourceLang, *targetLang, *projectID)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "exported %d terms\n", n)
		return nil

	case *query != "":
		if *targetLang == "" {
			fs.Usage()
			return fmt.Errorf("--lang is required")
		}
		var suggestions []gotmem.MatchSuggestion
		if *exact {
			suggestions, err = mem.GetExactMatches(ctx, *query, *sourceLang, *targetLang, *maxResults)
		} else {
			suggestions, err = mem.SearchMemory(ctx, *query, *sourceLang, *targetLang, *projectID, 0)
		}
		if err != nil {
			return err
		}
		return printResult(stdout, *jsonOutput, suggestions, printSuggestions)

	default:
		fs.Usage()
		return fmt.Errorf("one of --query, --add, --stats, --import-glossary, --export-glossary, --emotion or --version is required")
	}
}

// importGlossaryCSV folds a crawled glossary export into the project
// glossary. Entries without a translation are still pending review and are
// skipped, as are entries marked ignored.
func importGlossaryCSV(ctx context.Context, mem *gotmem.Memory, path, sourceLang, targetLang, projectID string) (added, skipped int, err error) {
	f, err := os.Open(path) // #nosec G304 - user-supplied CLI path
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	entries, err := crawler.ImportCSV(f, time.Now())
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.Status == crawler.StatusIgnored || e.Translation == "" {
			skipped++
			continue
		}
		if _, err := mem.AddGlossaryTerm(ctx, gotmem.NewGlossaryTerm{
			Term:           e.Term,
			Translation:    e.Translation,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
			Project:        projectID,
		}); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

// exportGlossaryCSV writes the project glossary for a language pair in the
// crawler's CSV interchange format.
func exportGlossaryCSV(ctx context.Context, store gotmem.Store, path, sourceLang, targetLang, projectID string) (int, error) {
	terms, err := store.SearchTerms(ctx, "", gotmem.SearchQuery{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		ProjectID:      projectID,
	})
	if err != nil {
		return 0, err
	}

	rows := make([]crawler.GlossaryEntry, 0, len(terms))
	for _, t := range terms {
		status := crawler.StatusPending
		if t.Translation != "" {
			status = crawler.StatusTranslated
		}
		confidence := 0.5
		if t.Approved {
			confidence = 1.0
		}
		rows = append(rows, crawler.GlossaryEntry{
			Term:        t.Term,
			Translation: t.Translation,
			Category:    crawler.CategoryUnknown,
			Frequency:   1,
			Confidence:  confidence,
			Status:      status,
		})
	}

	f, err := os.Create(path) // #nosec G304 - user-supplied CLI path
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if err := crawler.ExportCSV(f, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// printResult renders v either as indented JSON or via the text printer.
func printResult[T any](w io.Writer, asJSON bool, v T, printText func(io.Writer, T)) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	printText(w, v)
	return nil
}

func printSuggestions(w io.Writer, suggestions []gotmem.MatchSuggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "%5.1f%%  [%s]  %s → %s  (used %d)\n",
			s.Similarity*100, s.Type, s.SourceText, s.TargetText, s.UsageCount)
	}
}

func printStats(w io.Writer, stats gotmem.MemoryStats) {
	fmt.Fprintf(w, "entries:   %d\n", stats.TotalEntries)
	fmt.Fprintf(w, "glossary:  %d\n", stats.TotalGlossaryTerms)
	fmt.Fprintf(w, "projects:  %d\n", stats.TotalProjects)
	fmt.Fprintf(w, "verified:  %d\n", stats.VerifiedEntries)
	fmt.Fprintf(w, "uses:      %d\n", stats.TotalUsageCount)
}

func printEmotion(w io.Writer, analysis gotmem.EmotionAnalysis) {
	fmt.Fprintf(w, "primary:    %s\n", analysis.Primary)
	if analysis.Secondary != "" {
		fmt.Fprintf(w, "secondary:  %s\n", analysis.Secondary)
	}
	fmt.Fprintf(w, "confidence: %d\n", analysis.Confidence)
	fmt.Fprintf(w, "intensity:  %s\n", analysis.Intensity)
	if len(analysis.Markers) > 0 {
		fmt.Fprintf(w, "markers:    %v\n", analysis.Markers)
	}
}
