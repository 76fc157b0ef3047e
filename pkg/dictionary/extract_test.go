package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScenario(t *testing.T) {
	x := NewExtractor("Chinese")
	rec, ok := x.Extract(RawEntry{Word: "猫", Lang: "Chinese", POS: "noun", Senses: []Sense{{Glosses: []string{"cat"}}}})
	require.True(t, ok)
	assert.Equal(t, "猫", rec.Front)
	assert.Equal(t, "1. cat", rec.Back)
	assert.Equal(t, "noun", rec.PartOfSpeech)
	assert.Equal(t, "wiktionary noun", rec.Tags)
}

func TestExtractRejects(t *testing.T) {
	x := NewExtractor("Chinese")
	cat := []Sense{{Glosses: []string{"cat"}}}

	tests := []struct {
		name  string
		entry RawEntry
	}{
		{"empty word", RawEntry{Word: " ", Lang: "Chinese", POS: "noun", Senses: cat}},
		{"other language", RawEntry{Word: "猫", Lang: "Japanese", POS: "noun", Senses: cat}},
		{"soft redirect", RawEntry{Word: "猫", Lang: "Chinese", POS: SoftRedirect, Redirects: []string{"貓"}}},
		{"latin letters", RawEntry{Word: "卡拉OK", Lang: "Chinese", POS: "noun", Senses: cat}},
		{"single non-han character", RawEntry{Word: "ㄇ", Lang: "Chinese", POS: "character", Senses: cat}},
		{"no definitions", RawEntry{Word: "猫", Lang: "Chinese", POS: "noun", Senses: []Sense{{Glosses: []string{"<br>"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := x.Extract(tt.entry)
			assert.False(t, ok)
		})
	}
}

func TestExtractOtherLanguagesAlwaysRejected(t *testing.T) {
	x := NewExtractor("English")
	for _, lang := range []string{"Chinese", "english", "", "French"} {
		_, ok := x.Extract(RawEntry{Word: "cat", Lang: lang, POS: "noun", Senses: []Sense{{Glosses: []string{"a feline"}}}})
		assert.False(t, ok, "lang %q", lang)
	}
	rec, ok := x.Extract(RawEntry{Word: "cat", Lang: "English", POS: "noun", Senses: []Sense{{Glosses: []string{"a feline"}}}})
	require.True(t, ok)
	assert.NotEmpty(t, rec.Back)
}

func TestExtractSimplifiedFront(t *testing.T) {
	x := NewExtractor("Chinese")
	rec, ok := x.Extract(RawEntry{
		Word:          "貓",
		Lang:          "Chinese",
		POS:           "noun",
		Senses:        []Sense{{Glosses: []string{"cat"}}},
		Forms:         []Form{{Form: "猫", RawTags: []string{"Simplified Chinese"}}},
		EtymologyText: "From Old Chinese.",
		Hyphenation:   []string{"māo"},
	})
	require.True(t, ok)
	assert.Equal(t, "猫", rec.Front)
	assert.Equal(t, "From Old Chinese.", rec.Etymology)
	assert.Equal(t, "māo", rec.Hyphenation)
	assert.Empty(t, rec.Forms, "forms without tags are not listed")
}

func TestExtractJapaneseKana(t *testing.T) {
	x := NewExtractor("Japanese")
	for _, w := range []string{"の", "は", "を", "え"} {
		rec, ok := x.Extract(RawEntry{Word: w, Lang: "Japanese", POS: "particle", Senses: []Sense{{Glosses: []string{"grammatical particle"}}}})
		require.True(t, ok, "word %q", w)
		assert.Equal(t, w, rec.Front)
	}
}
