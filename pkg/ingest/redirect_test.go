package ingest

import (
	"testing"

	"github.com/japaniel/wikianki/pkg/dictionary"
	"github.com/japaniel/wikianki/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(front, pos, back string) dictionary.Record {
	return dictionary.Record{Front: front, PartOfSpeech: pos, Back: back, IPA: "/" + front + "/", Audio: "<div>" + front + "</div>"}
}

func TestResolverRedirectBeforeTarget(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRedirect("甲", "乙")
	assert.Equal(t, 1, r.Unresolved())

	r.AddRecord("乙", rec("乙", "noun", "1. second"))
	r.AddRecord("乙", rec("乙", "verb", "1. to follow"))

	got := r.Records("甲")
	require.Len(t, got, 1, "a pending source receives a single clone")
	assert.Equal(t, "甲", got[0].Front)
	assert.Equal(t, "1. second", got[0].Back)
	assert.Equal(t, 0, r.Unresolved())
	assert.Equal(t, ResolverStats{Redirects: 1, Resolved: 1}, r.Stats())
}

func TestResolverTargetAlreadyPresent(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRecord("乙", rec("乙", "noun", "1. second"))
	r.AddRecord("乙", rec("乙", "verb", "1. to follow"))
	r.AddRedirect("甲", "乙")

	target := Combine("乙", r.Records("乙"))
	source := Combine("甲", r.Records("甲"))
	assert.Equal(t, "甲", source.Front)
	assert.Equal(t, target.Back, source.Back)
	assert.Equal(t, target.IPA, source.IPA)
	assert.Equal(t, target.Audio, source.Audio)
}

func TestResolverNeverSeenTarget(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRedirect("甲", "乙")
	r.AddRecord("丙", rec("丙", "noun", "1. third"))

	assert.Empty(t, r.Records("甲"))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, r.Unresolved())
}

func TestResolverFirstWriterWins(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRecord("甲", rec("甲", "noun", "1. first"))
	r.AddRedirect("甲", "乙")
	r.AddRecord("乙", rec("乙", "noun", "1. second"))

	got := r.Records("甲")
	require.Len(t, got, 1)
	assert.Equal(t, "1. first", got[0].Back)
	assert.Equal(t, 1, r.Stats().Skipped)
}

func TestResolverFilteredSource(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRedirect("OK", "乙")
	r.AddRecord("乙", rec("乙", "noun", "1. second"))

	assert.Empty(t, r.Records("OK"))
	assert.Equal(t, 1, r.Stats().Skipped)
}

// Conflicting edges for one source are undefined upstream; the first edge is
// kept and later ones are only counted.
func TestResolverConflictingRedirects(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRedirect("甲", "乙")
	r.AddRedirect("甲", "丙")
	r.AddRecord("丙", rec("丙", "noun", "1. third"))
	r.AddRecord("乙", rec("乙", "noun", "1. second"))

	got := r.Records("甲")
	require.Len(t, got, 1)
	assert.Equal(t, "1. second", got[0].Back)
	assert.Equal(t, 1, r.Stats().Conflicting)
}

func TestResolverTargetBySimplifiedSpelling(t *testing.T) {
	r := NewResolver(text.HanHeadword)
	r.AddRedirect("猫咪", "貓")
	// The traditional entry is filed under its simplified front.
	r.AddRecord("貓", rec("猫", "noun", "1. cat"))
	r.AddRedirect("猫儿", "貓")

	assert.Len(t, r.Records("猫咪"), 1)
	assert.Len(t, r.Records("猫儿"), 1)
	assert.Empty(t, r.Records("貓"))
}

func TestResolverInsertionOrder(t *testing.T) {
	r := NewResolver(nil)
	for _, w := range []string{"c", "a", "b"} {
		r.AddRecord(w, rec(w, "noun", "1. x"))
	}
	r.AddRecord("a", rec("a", "verb", "1. y"))

	var order []string
	r.Each(func(h string, _ []dictionary.Record) { order = append(order, h) })
	assert.Equal(t, []string{"c", "a", "b"}, order)
}
