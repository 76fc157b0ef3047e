package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/japaniel/wikianki/pkg/apkg"
	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/config"
	"github.com/japaniel/wikianki/pkg/dictionary"
	"github.com/japaniel/wikianki/pkg/frequency"
	"github.com/japaniel/wikianki/pkg/ingest"
	"github.com/japaniel/wikianki/pkg/text"
)

var p = message.NewPrinter(language.English)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config (default: $CONFIG_PATH or ./wikianki.yaml)")
	inputFlag := flag.String("input", "", "Kaikki JSONL dump: local path or http(s) URL, optionally .gz/.bz2/.tgz")
	langFlag := flag.String("lang", "", "Language to extract (e.g. Chinese)")
	limitFlag := flag.Int("limit", 0, "Stop after this many entries (0 = all)")
	freqFlag := flag.String("freq", "", "Frequency corpus file")
	maxRankFlag := flag.Int("max-rank", 0, "Ignore corpus ranks above this value")
	policyFlag := flag.String("policy", "", "Frequency policy: lookup or resort")
	maxCardsFlag := flag.Int("max-cards", 0, "Keep at most this many cards under the resort policy")
	minDefFlag := flag.Int("min-def-length", 0, "Minimum combined definition length")
	csvFlag := flag.String("csv", "", "Intermediate CSV table")
	apkgFlag := flag.String("apkg", "", "Output Anki package")
	wordsFlag := flag.String("words", "", "Comma-separated words to look up and append to the CSV table")
	previewFlag := flag.Bool("preview", false, "With -words, print the cards instead of appending them")
	fromCSVFlag := flag.Bool("from-csv", false, "Build the package from the CSV table only")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["input"] {
		cfg.Input.Path = *inputFlag
	}
	if set["lang"] {
		cfg.Input.Language = *langFlag
	}
	if set["limit"] {
		cfg.Input.Limit = *limitFlag
	}
	if set["freq"] {
		cfg.Frequency.Path = *freqFlag
	}
	if set["max-rank"] {
		cfg.Frequency.MaxRank = *maxRankFlag
	}
	if set["policy"] {
		cfg.Frequency.Policy = *policyFlag
	}
	if set["max-cards"] {
		cfg.Frequency.MaxCards = *maxCardsFlag
	}
	if set["min-def-length"] {
		cfg.Output.MinDefinitionLength = *minDefFlag
	}
	if set["csv"] {
		cfg.Output.TablePath = *csvFlag
	}
	if set["apkg"] {
		cfg.Output.PackagePath = *apkgFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := config.NewLogger(cfg.Log)

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *fromCSVFlag:
		err = buildFromTable(ctx, cfg, logger)
	case *wordsFlag != "":
		err = addWords(ctx, cfg, logger, splitWords(*wordsFlag), *previewFlag)
	default:
		err = buildAll(ctx, cfg, logger)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func splitWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func newIngester(cfg *config.Config, logger *slog.Logger, ranks frequency.Ranks) *ingest.Ingester {
	ig := ingest.NewIngester(cfg.Input.Language)
	ig.Limit = cfg.Input.Limit
	ig.MinDefinitionLength = cfg.Output.MinDefinitionLength
	ig.Ranks = ranks
	ig.Policy = cfg.Frequency.Policy
	ig.MaxCards = cfg.Frequency.MaxCards
	ig.Logger = logger
	ig.OnProgress = func(n int) { p.Printf("Processed %d entries...\n", n) }
	return ig
}

func packageOptions(cfg *config.Config, logger *slog.Logger) apkg.Options {
	opts := apkg.DefaultOptions(cfg.Input.Language)
	opts.DeckName = cfg.DeckName()
	opts.DeckDescription = cfg.DeckDescription()
	opts.ModelName = cfg.ModelName()
	opts.NewPerDay = cfg.Deck.NewPerDay
	opts.ReviewsPerDay = cfg.Deck.ReviewsPerDay
	opts.ActivateNew = cfg.Deck.ActivateNew
	opts.Logger = logger
	return opts
}

// buildAll runs the whole pipeline: dump -> CSV table -> package.
func buildAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ranks, err := frequency.LoadFile(cfg.Frequency.Path, frequency.Options{MaxRank: cfg.Frequency.MaxRank}, logger)
	if err != nil {
		return fmt.Errorf("failed to load frequency corpus: %w", err)
	}
	p.Printf("Loaded %d frequency ranks\n", len(ranks))

	src, err := dictionary.OpenSource(ctx, cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	fmt.Printf("Processing %s (%s)...\n", cfg.Input.Path, cfg.Input.Language)
	start := time.Now()
	cards, stats, err := newIngester(cfg, logger, ranks).Ingest(ctx, src)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	printStats(stats, time.Since(start))

	if cfg.Output.TablePath != "" {
		f, err := os.Create(cfg.Output.TablePath)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
		if err := card.WriteTable(f, cards); err != nil {
			f.Close()
			return fmt.Errorf("failed to write table: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Table: %s\n", cfg.Output.TablePath)
	}
	return writePackage(ctx, cfg, logger, cards)
}

// buildFromTable packages an existing CSV table.
func buildFromTable(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cards, err := card.ReadFile(cfg.Output.TablePath, logger)
	if err != nil {
		return fmt.Errorf("failed to read table: %w", err)
	}
	for i := range cards {
		if cards[i].StrokeOrder == "" {
			cards[i].StrokeOrder = text.StrokeOrder(cards[i].Front)
		}
	}
	p.Printf("Read %d cards from %s\n", len(cards), cfg.Output.TablePath)
	return writePackage(ctx, cfg, logger, cards)
}

func writePackage(ctx context.Context, cfg *config.Config, logger *slog.Logger, cards []card.Card) error {
	if cfg.Output.PackagePath == "" {
		return nil
	}
	res, err := apkg.WriteFile(ctx, cfg.Output.PackagePath, cards, packageOptions(cfg, logger))
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	p.Printf("Created Anki package: %s (%d notes", cfg.Output.PackagePath, res.Notes)
	if res.Duplicates > 0 {
		p.Printf(", %d duplicate headwords skipped", res.Duplicates)
	}
	fmt.Println(")")
	return nil
}

// addWords looks up individual words and appends their cards to the table.
func addWords(ctx context.Context, cfg *config.Config, logger *slog.Logger, words []string, preview bool) error {
	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
		wordSet[strings.ToLower(w)] = struct{}{}
	}
	ranks, err := frequency.LoadFile(cfg.Frequency.Path, frequency.Options{MaxRank: cfg.Frequency.MaxRank, Words: wordSet}, logger)
	if err != nil {
		return fmt.Errorf("failed to load frequency corpus: %w", err)
	}

	src, err := dictionary.OpenSource(ctx, cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	fmt.Printf("Searching for %d words in %s...\n", len(words), cfg.Input.Path)
	ig := newIngester(cfg, logger, ranks)
	ig.Policy = frequency.PolicyLookup
	cards, missing, _, err := ig.IngestWords(ctx, src, words)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	for _, w := range missing {
		fmt.Printf("Word '%s' not found in Wiktionary data\n", w)
	}
	if len(cards) == 0 {
		fmt.Println("No valid cards found")
		return nil
	}

	if preview || cfg.Output.TablePath == "" {
		for _, c := range cards {
			printCard(c)
		}
		return nil
	}
	if err := card.AppendFile(cfg.Output.TablePath, cards); err != nil {
		return err
	}
	p.Printf("Saved %d cards to %s\n", len(cards), cfg.Output.TablePath)
	return nil
}

func printCard(c card.Card) {
	fmt.Printf("\nCard for '%s':\n", c.Front)
	fmt.Printf("Back: %s\n", truncate(c.Back, 200))
	fmt.Printf("Part of Speech: %s\n", c.PartOfSpeech)
	fmt.Printf("IPA: %s\n", c.IPA)
	fmt.Printf("Frequency: %s\n", c.Frequency)
	fmt.Printf("Etymology: %s\n", truncate(c.Etymology, 100))
	if c.Translations != "" {
		fmt.Printf("Translations: %s\n", c.Translations)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func printStats(s ingest.Stats, elapsed time.Duration) {
	fmt.Println("\nCompleted!")
	p.Printf("Processed: %d entries (%d malformed lines skipped)\n", s.Processed, s.Malformed)
	p.Printf("Extracted: %d records (%d entries skipped)\n", s.Extracted, s.Rejected)
	p.Printf("Redirects: %d resolved, %d unresolved, %d conflicting\n", s.Resolved, s.Unresolved, s.Conflicting)
	p.Printf("Combined into: %d unique words\n", s.Combined)
	p.Printf("Skipped: %d short, %d unranked\n", s.Short, s.Unranked)
	p.Printf("Created: %d Anki cards in %v\n", s.Emitted, elapsed.Round(time.Millisecond))
}
