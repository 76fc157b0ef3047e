package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/frequency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry map[string]any

func noun(word, gloss string) entry {
	return entry{"word": word, "lang": "Chinese", "pos": "noun", "senses": []entry{{"glosses": []string{gloss}}}}
}

func redirect(word, target string) entry {
	return entry{"word": word, "lang": "Chinese", "pos": "soft-redirect", "redirects": []string{target}}
}

func dump(t testing.TB, entries ...entry) string {
	t.Helper()
	var b strings.Builder
	for _, e := range entries {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

func byFront(cards []card.Card) map[string]card.Card {
	out := make(map[string]card.Card, len(cards))
	for _, c := range cards {
		out[c.Front] = c
	}
	return out
}

func newTestIngester() *Ingester {
	ig := NewIngester("Chinese")
	ig.MinDefinitionLength = 0
	return ig
}

func TestIngestRedirectScenario(t *testing.T) {
	in := dump(t,
		redirect("甲", "乙"),
		noun("丙", "third"),
		noun("乙", "second"),
	)
	cards, stats, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	got := byFront(cards)
	require.Contains(t, got, "甲")
	assert.Equal(t, got["乙"].Back, got["甲"].Back)
	assert.Equal(t, "甲", got["甲"].Front)
	assert.Equal(t, `<img width="640" src="甲.svg">`, got["甲"].StrokeOrder)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Extracted)
	assert.Equal(t, 1, stats.Redirects)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 3, stats.Emitted)
}

func TestIngestRedirectWithoutLang(t *testing.T) {
	in := `{"word":"甲","pos":"soft-redirect","redirects":["乙"]}` + "\n" + dump(t, noun("乙", "second"))

	cards, stats, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	got := byFront(cards)
	require.Contains(t, got, "甲")
	assert.Equal(t, got["乙"].Back, got["甲"].Back)
	assert.Equal(t, 1, stats.Redirects)
	assert.Equal(t, 1, stats.Resolved)
}

func TestIngestIgnoresRedirectOfOtherLanguage(t *testing.T) {
	in := dump(t,
		entry{"word": "甲", "lang": "Japanese", "pos": "soft-redirect", "redirects": []string{"乙"}},
		noun("乙", "second"),
	)

	cards, stats, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "乙", cards[0].Front)
	assert.Equal(t, 0, stats.Redirects)
}

func TestIngestOrganicRecordAfterClone(t *testing.T) {
	in := dump(t,
		redirect("甲", "乙"),
		noun("乙", "second"),
		noun("甲", "first armor"),
	)

	cards, _, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	got := byFront(cards)
	assert.Equal(t, "<strong>noun:</strong><br>1. second", got["乙"].Back)
	assert.Equal(t, "<strong>noun:</strong><br>1. second<br>1. first armor", got["甲"].Back)
	require.Len(t, cards, 2)
	assert.Equal(t, "乙", cards[0].Front)
	assert.Equal(t, "甲", cards[1].Front)
}

func TestIngestDropsUnresolvedAndRejected(t *testing.T) {
	in := dump(t,
		redirect("甲", "乙"),
		noun("卡拉OK", "karaoke"),
		entry{"word": "cat", "lang": "English", "pos": "noun", "senses": []entry{{"glosses": []string{"a feline"}}}},
		noun("猫", "cat"),
	) + "{broken\n"

	cards, stats, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "猫", cards[0].Front)
	assert.Equal(t, "<strong>noun:</strong><br>1. cat", cards[0].Back)
	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, 1, stats.Malformed)
}

func TestIngestMinDefinitionLength(t *testing.T) {
	in := dump(t, noun("猫", "cat"))
	ig := newTestIngester()
	ig.MinDefinitionLength = 1000

	cards, stats, err := ig.Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, 1, stats.Short)
}

func TestIngestResortPolicy(t *testing.T) {
	in := dump(t, noun("猫", "cat"), noun("狗", "dog"), noun("鸟", "bird"))
	ig := newTestIngester()
	ig.Policy = frequency.PolicyResort
	ig.Ranks = frequency.Ranks{"猫": 37, "狗": 5}
	ig.MaxCards = 1

	cards, stats, err := ig.Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "狗", cards[0].Front)
	assert.Equal(t, "1", cards[0].Frequency)
	assert.Equal(t, 2, stats.Unranked)
}

func TestIngestLookupPolicy(t *testing.T) {
	in := dump(t, noun("猫", "cat"), noun("狗", "dog"))
	ig := newTestIngester()
	ig.Ranks = frequency.Ranks{"猫": 37}

	cards, _, err := ig.Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	got := byFront(cards)
	assert.Equal(t, "37", got["猫"].Frequency)
	assert.Equal(t, "", got["狗"].Frequency)
}

func TestIngestDeterministic(t *testing.T) {
	in := dump(t, noun("猫", "cat"), redirect("貓", "猫"), noun("狗", "dog"), noun("猫", "kitty"))
	first, _, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	second, _, err := newTestIngester().Ingest(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"猫", "貓", "狗"}, []string{first[0].Front, first[1].Front, first[2].Front})
}

func TestIngestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cards, _, err := newTestIngester().Ingest(ctx, strings.NewReader(dump(t, noun("猫", "cat"))))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cards)
}

func TestIngestProgress(t *testing.T) {
	var entries []entry
	for i := 0; i < 5; i++ {
		entries = append(entries, noun("猫", "cat"))
	}
	ig := newTestIngester()
	ig.ProgressEvery = 2
	var calls []int
	ig.OnProgress = func(n int) { calls = append(calls, n) }

	_, _, err := ig.Ingest(context.Background(), strings.NewReader(dump(t, entries...)))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, calls)
}

func TestIngestWords(t *testing.T) {
	in := dump(t,
		noun("猫", "cat"),
		entry{"word": "猫", "lang": "Chinese", "pos": "verb", "senses": []entry{{"glosses": []string{"to hide"}}}},
		noun("狗", "dog"),
	)
	ig := NewIngester("Chinese")
	ig.Ranks = frequency.Ranks{"猫": 37, "狗": 5}

	cards, missing, stats, err := ig.IngestWords(context.Background(), strings.NewReader(in), []string{"猫", "未知"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, []string{"未知"}, missing)

	c := cards[0]
	assert.Equal(t, "猫", c.Front)
	assert.Equal(t, "noun, verb", c.PartOfSpeech)
	assert.Equal(t, "37", c.Frequency)
	assert.Equal(t, `<img width="640" src="猫.svg">`, c.StrokeOrder)
	assert.Equal(t, 2, stats.Extracted)
}
