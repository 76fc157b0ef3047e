// Package unsuspend reactivates cards of an existing Anki collection by
// headword and optionally stamps them with a source label.
package unsuspend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/japaniel/wikianki/pkg/db"
	"github.com/japaniel/wikianki/pkg/text"
)

// Request selects the cards to reactivate.
type Request struct {
	// DeckPattern is matched against deck names with LIKE %pattern%.
	DeckPattern string
	Words       []string
	// Source, when set, replaces the last field of every matched note.
	Source string
}

// Report lists what changed.
type Report struct {
	DeckID      int64
	DeckCards   int
	Unsuspended []string
	Updated     int
	NotFound    []string
}

// Unsuspender applies requests to one open collection.
type Unsuspender struct {
	DB     *sql.DB
	Logger *slog.Logger
	Now    func() time.Time
}

// Run finds the deck, matches the tag-stripped first field of each card
// against the requested words, moves suspended matches to the new queue and
// rewrites the trailing field when a source is given. All updates happen in
// one transaction.
func (u *Unsuspender) Run(ctx context.Context, req Request) (Report, error) {
	var rep Report
	logger := u.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}

	wanted := make(map[string]bool, len(req.Words))
	for _, w := range req.Words {
		if w = strings.TrimSpace(w); w != "" {
			wanted[w] = false
		}
	}

	deckID, err := db.FindDeckID(ctx, u.DB, req.DeckPattern)
	if err != nil {
		return rep, err
	}
	rep.DeckID = deckID

	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return rep, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	cards, err := db.ListDeckCards(ctx, tx, deckID)
	if err != nil {
		return rep, err
	}
	rep.DeckCards = len(cards)
	mod := now().Unix()

	for _, c := range cards {
		fields := strings.Split(c.Fields, "\x1f")
		word := text.StripTags(fields[0])
		if _, ok := wanted[word]; !ok {
			continue
		}
		wanted[word] = true

		changed, err := db.UnsuspendCard(ctx, tx, c.CardID, mod)
		if err != nil {
			return rep, err
		}
		if changed {
			rep.Unsuspended = append(rep.Unsuspended, word)
			logger.Info("unsuspended card", "word", word, "card_id", c.CardID)
		}

		if req.Source != "" && len(fields) > 1 {
			fields[len(fields)-1] = req.Source
			if err := db.UpdateNoteFields(ctx, tx, c.NoteID, strings.Join(fields, "\x1f"), mod); err != nil {
				return rep, err
			}
			rep.Updated++
			logger.Info("updated source", "word", word, "source", req.Source)
		}
	}

	if err := tx.Commit(); err != nil {
		return rep, fmt.Errorf("commit: %w", err)
	}

	for w, found := range wanted {
		if !found {
			rep.NotFound = append(rep.NotFound, w)
		}
	}
	sort.Strings(rep.NotFound)
	return rep, nil
}
