// Package frequency loads word-frequency corpora and ranks cards with them.
package frequency

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/japaniel/wikianki/pkg/card"
)

// Policies accepted by the CLI and config.
const (
	PolicyLookup = "lookup"
	PolicyResort = "resort"
)

// Options restricts which corpus entries are kept.
type Options struct {
	// MaxRank drops ranks above the ceiling; 0 keeps every rank.
	MaxRank int
	// Words, when non-empty, keeps only the listed words (ceiling still applies).
	Words map[string]struct{}
}

// Ranks maps a word to its corpus rank.
type Ranks map[string]int

// Load reads a rank-ordered corpus. Each data line is either "rank word ..."
// or "word ..." in which case the rank is the data line number. Lines
// starting with '#' are comments. The first occurrence of a word wins.
func Load(r io.Reader, opts Options) (Ranks, error) {
	ranks := make(Ranks)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	ordinal := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ordinal++

		fields := strings.Fields(line)
		rank, word := ordinal, fields[0]
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				rank, word = n, fields[1]
			}
		}
		if opts.MaxRank > 0 && rank > opts.MaxRank {
			continue
		}
		if len(opts.Words) > 0 && !wanted(opts.Words, word) {
			continue
		}
		if _, seen := ranks[word]; !seen {
			ranks[word] = rank
		}
	}
	if err := scanner.Err(); err != nil {
		return ranks, fmt.Errorf("failed to read frequency corpus: %w", err)
	}
	return ranks, nil
}

func wanted(words map[string]struct{}, word string) bool {
	if _, ok := words[word]; ok {
		return true
	}
	_, ok := words[strings.ToLower(word)]
	return ok
}

// LoadFile loads the corpus at path. A missing file is logged and yields an
// empty mapping, so every lookup returns "".
func LoadFile(path string, opts Options, logger *slog.Logger) (Ranks, error) {
	if path == "" {
		return Ranks{}, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if logger != nil {
			logger.Warn("frequency corpus not found; frequency data will be empty", "path", path)
		}
		return Ranks{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts)
}

// rank tries the literal word, then its lowercase form.
func (r Ranks) rank(word string) (int, bool) {
	if n, ok := r[word]; ok {
		return n, true
	}
	n, ok := r[strings.ToLower(word)]
	return n, ok
}

// Lookup returns the rank of word as text, or "" when unknown.
func (r Ranks) Lookup(word string) string {
	if len(r) == 0 {
		return ""
	}
	if n, ok := r.rank(word); ok {
		return strconv.Itoa(n)
	}
	return ""
}

// Apply sets every card's Frequency by direct lookup.
func Apply(cards []card.Card, ranks Ranks) {
	for i := range cards {
		cards[i].Frequency = ranks.Lookup(cards[i].Front)
	}
}

// Resort drops cards without a rank, orders the rest by ascending corpus rank
// (stable for ties), keeps at most maxCards cards (0 = all) and renumbers the
// survivors 1..N.
func Resort(cards []card.Card, ranks Ranks, maxCards int) []card.Card {
	type ranked struct {
		card card.Card
		rank int
	}
	kept := make([]ranked, 0, len(cards))
	for _, c := range cards {
		if n, ok := ranks.rank(c.Front); ok {
			kept = append(kept, ranked{card: c, rank: n})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].rank < kept[j].rank })
	if maxCards > 0 && len(kept) > maxCards {
		kept = kept[:maxCards]
	}

	out := make([]card.Card, len(kept))
	for i, k := range kept {
		k.card.Frequency = strconv.Itoa(i + 1)
		out[i] = k.card
	}
	return out
}
