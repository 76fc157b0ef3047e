package dictionary

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `{"word":"猫","lang":"Chinese","pos":"noun","senses":[{"glosses":["cat"]}]}
{"word":"Cat","lang":"English","pos":"noun","senses":[{"glosses":["a feline"]}]}
not json
{"word":"狗","lang":"Chinese","pos":"noun","senses":[{"glosses":["dog"]}]}

{"word":"猫","lang":"Chinese","pos":"verb","senses":[{"glosses":["to hide"]}]}
`

func TestImporterCollect(t *testing.T) {
	im := NewImporter([]string{"猫", "cat", "猫", "未知", " "})
	assert.Equal(t, []string{"猫", "cat", "未知"}, im.Words())

	var malformed []*LineError
	stats, err := im.Collect(context.Background(), strings.NewReader(sampleDump), func(le *LineError) {
		malformed = append(malformed, le)
	})
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Lines)
	assert.Equal(t, 1, stats.Malformed)
	require.Len(t, malformed, 1)
	assert.Equal(t, 3, malformed[0].Line)

	assert.Len(t, im.Lookup("猫"), 2)
	assert.Len(t, im.Lookup("cat"), 1, "matching is case-insensitive")
	assert.Empty(t, im.Lookup("未知"))
	assert.Empty(t, im.Lookup("狗"), "unrequested words are not kept")
}

func TestScanLimit(t *testing.T) {
	var words []string
	_, err := Scan(context.Background(), strings.NewReader(sampleDump), 2, func(e RawEntry) error {
		words = append(words, e.Word)
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"猫", "Cat"}, words)
}

func TestScanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan(ctx, strings.NewReader(sampleDump), 0, func(RawEntry) error { return nil }, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
