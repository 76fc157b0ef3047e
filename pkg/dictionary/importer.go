package dictionary

import (
	"context"
	"io"
	"strings"

	"github.com/japaniel/wikianki/pkg/text"
)

// Importer collects the raw entries of a fixed list of headwords from a dump.
// Matching is case-insensitive; results are keyed by the requested spelling.
type Importer struct {
	words   []string
	targets map[string]string
	found   map[string][]RawEntry
}

// NewImporter creates an importer for the requested words.
func NewImporter(words []string) *Importer {
	im := &Importer{
		targets: make(map[string]string, len(words)),
		found:   make(map[string][]RawEntry, len(words)),
	}
	for _, w := range words {
		w = text.NormalizeHeadword(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := im.targets[key]; dup {
			continue
		}
		im.targets[key] = w
		im.words = append(im.words, w)
	}
	return im
}

// Words returns the requested words in request order, without duplicates.
func (im *Importer) Words() []string {
	return im.words
}

// Collect scans r once and keeps every entry whose headword was requested.
func (im *Importer) Collect(ctx context.Context, r io.Reader, onMalformed func(*LineError)) (ScanStats, error) {
	return Scan(ctx, r, 0, func(e RawEntry) error {
		key := strings.ToLower(text.NormalizeHeadword(e.Word))
		if requested, ok := im.targets[key]; ok {
			im.found[requested] = append(im.found[requested], e)
		}
		return nil
	}, onMalformed)
}

// Lookup returns the raw entries collected for word, in dump order.
func (im *Importer) Lookup(word string) []RawEntry {
	return im.found[word]
}
