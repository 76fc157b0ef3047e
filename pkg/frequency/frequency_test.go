package frequency

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/japaniel/wikianki/pkg/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpus = `# wikipedia word counts
的 9000
是 8000
The 7000
`

func TestLoadLineOrdinals(t *testing.T) {
	ranks, err := Load(strings.NewReader(corpus), Options{})
	require.NoError(t, err)
	assert.Equal(t, Ranks{"的": 1, "是": 2, "The": 3}, ranks)

	ranks, err = Load(strings.NewReader(corpus), Options{MaxRank: 2})
	require.NoError(t, err)
	assert.Len(t, ranks, 2)
}

func TestLoadExplicitRanks(t *testing.T) {
	in := "37 猫\n5 狗\n40 猫\n"
	ranks, err := Load(strings.NewReader(in), Options{Words: map[string]struct{}{"猫": {}}})
	require.NoError(t, err)
	assert.Equal(t, Ranks{"猫": 37}, ranks)
}

func TestLookup(t *testing.T) {
	ranks := Ranks{"the": 3, "猫": 37}
	assert.Equal(t, "3", ranks.Lookup("the"))
	assert.Equal(t, "3", ranks.Lookup("The"))
	assert.Equal(t, "37", ranks.Lookup("猫"))
	assert.Equal(t, "", ranks.Lookup("狗"))
	assert.Equal(t, "", Ranks{}.Lookup("the"))
}

func TestLoadFileMissing(t *testing.T) {
	ranks, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"), Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, ranks)
	assert.Equal(t, "", ranks.Lookup("猫"))
}

func TestResortSingleCard(t *testing.T) {
	ranks, err := Load(strings.NewReader("37 猫\n"), Options{})
	require.NoError(t, err)

	out := Resort([]card.Card{{Front: "猫"}}, ranks, 1)
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Frequency)
}

func TestResortDense(t *testing.T) {
	ranks := Ranks{"a": 900, "b": 12, "c": 450, "d": 12, "e": 7}
	cards := []card.Card{{Front: "a"}, {Front: "b"}, {Front: "x"}, {Front: "c"}, {Front: "d"}, {Front: "e"}}

	out := Resort(cards, ranks, 4)
	require.Len(t, out, 4)
	var fronts []string
	for i, c := range out {
		fronts = append(fronts, c.Front)
		assert.Equal(t, strconv.Itoa(i+1), c.Frequency)
	}
	assert.Equal(t, []string{"e", "b", "d", "c"}, fronts)

	all := Resort(cards, ranks, 0)
	assert.Len(t, all, 5, "unranked cards are dropped")
	assert.Equal(t, "5", all[4].Frequency)
}

func TestApply(t *testing.T) {
	cards := []card.Card{{Front: "猫", Frequency: "stale"}, {Front: "狗"}}
	Apply(cards, Ranks{"猫": 37})
	assert.Equal(t, "37", cards[0].Frequency)
	assert.Equal(t, "", cards[1].Frequency)
}
