// Package ingest turns a stream of raw dictionary entries into ranked cards:
// extraction, redirect resolution, combination and frequency ranking.
package ingest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/dictionary"
	"github.com/japaniel/wikianki/pkg/frequency"
	"github.com/japaniel/wikianki/pkg/text"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Processed   int // decoded entries
	Malformed   int // undecodable lines
	Extracted   int // entries that produced a record
	Rejected    int // other language, filtered or without definitions
	Redirects   int // accepted soft-redirect edges
	Resolved    int // redirect sources that received a record
	Unresolved  int // redirects whose target never produced a record
	Conflicting int // extra edges for a source that already had one
	Combined    int // unique headwords
	Short       int // combined cards under the minimum definition length
	Unranked    int // cards dropped by the resort policy
	Emitted     int // cards returned
}

// Ingester holds the settings of a pipeline run.
type Ingester struct {
	Extractor *dictionary.Extractor
	// Limit stops after this many decoded entries; 0 reads everything.
	Limit int
	// MinDefinitionLength drops combined cards whose Back is shorter (in runes).
	MinDefinitionLength int

	Ranks frequency.Ranks
	// Policy is frequency.PolicyLookup (default) or frequency.PolicyResort.
	Policy string
	// MaxCards truncates the resorted output; 0 keeps every ranked card.
	MaxCards int

	// Logger is used for warnings about malformed lines. nil means no logging.
	Logger *slog.Logger
	// OnProgress is called every ProgressEvery decoded entries.
	OnProgress    func(processed int)
	ProgressEvery int
}

// NewIngester creates an Ingester for lang with the default settings.
func NewIngester(lang string) *Ingester {
	return &Ingester{
		Extractor:           dictionary.NewExtractor(lang),
		MinDefinitionLength: 10,
		Policy:              frequency.PolicyLookup,
		ProgressEvery:       10000,
	}
}

func (ig *Ingester) logger() *slog.Logger {
	if ig.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ig.Logger
}

func (ig *Ingester) malformed(le *dictionary.LineError) {
	ig.logger().Warn("skipping malformed line", "line", le.Line, "error", le.Err)
}

// Ingest reads the whole dump from r and returns the emitted cards in
// first-seen headword order (or rank order under the resort policy).
func (ig *Ingester) Ingest(ctx context.Context, r io.Reader) ([]card.Card, Stats, error) {
	var stats Stats
	res := NewResolver(ig.Extractor.Accepts)

	scanStats, err := dictionary.Scan(ctx, r, ig.Limit, func(e dictionary.RawEntry) error {
		stats.Processed++
		if ig.OnProgress != nil && ig.ProgressEvery > 0 && stats.Processed%ig.ProgressEvery == 0 {
			ig.OnProgress(stats.Processed)
		}
		ig.add(res, e, &stats)
		return nil
	}, ig.malformed)
	stats.Malformed = scanStats.Malformed
	if err != nil {
		return nil, stats, err
	}

	rs := res.Stats()
	stats.Redirects = rs.Redirects
	stats.Resolved = rs.Resolved
	stats.Conflicting = rs.Conflicting
	stats.Unresolved = res.Unresolved()

	cards := CombineAll(res)
	stats.Combined = len(cards)
	cards = ig.finish(cards, ig.Ranks, ig.MinDefinitionLength, &stats)
	return cards, stats, nil
}

// add feeds one raw entry to the resolver.
func (ig *Ingester) add(res *Resolver, e dictionary.RawEntry, stats *Stats) {
	if e.POS == dictionary.SoftRedirect {
		// Redirect stubs often carry no lang of their own.
		if (e.Lang == "" || e.Lang == ig.Extractor.Language) && len(e.Redirects) > 0 {
			res.AddRedirect(text.NormalizeHeadword(e.Word), text.NormalizeHeadword(e.Redirects[0]))
		}
		return
	}
	rec, ok := ig.Extractor.Extract(e)
	if !ok {
		stats.Rejected++
		return
	}
	stats.Extracted++
	res.AddRecord(text.NormalizeHeadword(e.Word), rec)
}

// finish applies the length filter, stroke order and ranking.
func (ig *Ingester) finish(cards []card.Card, ranks frequency.Ranks, minLen int, stats *Stats) []card.Card {
	kept := cards[:0]
	for _, c := range cards {
		if utf8.RuneCountInString(c.Back) < minLen {
			stats.Short++
			continue
		}
		c.StrokeOrder = text.StrokeOrder(c.Front)
		kept = append(kept, c)
	}

	if ig.Policy == frequency.PolicyResort {
		ranked := frequency.Resort(kept, ranks, ig.MaxCards)
		stats.Unranked = len(kept) - len(ranked)
		kept = ranked
	} else {
		frequency.Apply(kept, ranks)
	}
	stats.Emitted = len(kept)
	return kept
}

// IngestWords builds one card per requested word from a single pass over r.
// Each word is combined on its own under the requested spelling; words with
// no usable entry are returned in missing.
func (ig *Ingester) IngestWords(ctx context.Context, r io.Reader, words []string) ([]card.Card, []string, Stats, error) {
	var stats Stats
	im := dictionary.NewImporter(words)
	scanStats, err := im.Collect(ctx, r, ig.malformed)
	stats.Processed = scanStats.Lines - scanStats.Malformed
	stats.Malformed = scanStats.Malformed
	if err != nil {
		return nil, nil, stats, err
	}

	var (
		cards   []card.Card
		missing []string
	)
	for _, word := range im.Words() {
		var recs []dictionary.Record
		for _, e := range im.Lookup(word) {
			if rec, ok := ig.Extractor.Extract(e); ok {
				recs = append(recs, rec)
				stats.Extracted++
			} else {
				stats.Rejected++
			}
		}
		if len(recs) == 0 {
			ig.logger().Info("no usable entries", "word", word)
			missing = append(missing, word)
			continue
		}
		cards = append(cards, Combine(word, recs))
	}
	stats.Combined = len(cards)

	ranks := ig.Ranks
	if len(ranks) > 0 {
		ranks = restrict(ranks, im.Words())
	}
	// Explicitly requested words are kept regardless of definition length.
	cards = ig.finish(cards, ranks, 0, &stats)
	return cards, missing, stats, nil
}

// restrict keeps only the ranks of words (literal or lowercase).
func restrict(ranks frequency.Ranks, words []string) frequency.Ranks {
	out := make(frequency.Ranks, len(words))
	for _, w := range words {
		for _, k := range []string{w, strings.ToLower(w)} {
			if n, ok := ranks[k]; ok {
				out[k] = n
			}
		}
	}
	return out
}
