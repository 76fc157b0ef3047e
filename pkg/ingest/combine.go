package ingest

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/dictionary"
)

// unknownPOS labels records that carry no part of speech.
const unknownPOS = "unknown"

// Combine merges the records of one headword into a single card. Definitions
// are grouped by part of speech in first-seen order; pronunciation, audio,
// etymology, hyphenation and translations come from the first record.
func Combine(headword string, recs []dictionary.Record) card.Card {
	c := card.Card{Front: headword}
	if len(recs) == 0 {
		return c
	}
	first := recs[0]
	c.IPA = first.IPA
	c.Audio = first.Audio
	c.Etymology = first.Etymology
	c.Hyphenation = first.Hyphenation
	c.Translations = first.Translations

	byPOS := linkedhashmap.New() // pos -> []string
	forms := linkedhashset.New()
	for _, rec := range recs {
		pos := rec.PartOfSpeech
		if pos == "" {
			pos = unknownPOS
		}
		var backs []string
		if v, ok := byPOS.Get(pos); ok {
			backs = v.([]string)
		}
		if rec.Back != "" {
			backs = append(backs, rec.Back)
		}
		byPOS.Put(pos, backs)
		if rec.Forms != "" {
			forms.Add(rec.Forms)
		}
	}

	var posList, blocks []string
	it := byPOS.Iterator()
	for it.Next() {
		pos := it.Key().(string)
		posList = append(posList, pos)
		if backs := it.Value().([]string); len(backs) > 0 {
			blocks = append(blocks, "<strong>"+pos+":</strong><br>"+strings.Join(backs, "<br>"))
		}
	}

	c.Back = strings.Join(blocks, "<br><br>")
	c.PartOfSpeech = strings.Join(posList, ", ")
	c.Forms = strings.Join(toStrings(forms.Values()), "; ")
	c.Tags = "wiktionary " + strings.Join(posList, " ")
	return c
}

// CombineAll combines every headword of r in first-seen order.
func CombineAll(r *Resolver) []card.Card {
	cards := make([]card.Card, 0, r.Len())
	r.Each(func(headword string, recs []dictionary.Record) {
		cards = append(cards, Combine(headword, recs))
	})
	return cards
}

func toStrings(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.(string)
	}
	return out
}
