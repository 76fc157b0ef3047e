package apkg

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/japaniel/wikianki/pkg/text"
)

// CardIDOffset separates the card id space from the note id space.
const CardIDOffset int64 = 1_000_000_000

// ErrTooManyNotes is returned when a run has more notes than CardIDOffset.
var ErrTooManyNotes = errors.New("too many notes for one package")

// guidNamespace scopes note GUIDs generated by this tool.
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://kaikki.org/wikianki"))

// IDGenerator hands out note and card ids for one serialization run.
type IDGenerator struct {
	base int64
	next int64
}

// NewIDGenerator starts a run at base, usually the current time in ms.
func NewIDGenerator(base int64) *IDGenerator {
	return &IDGenerator{base: base}
}

// Reserve checks that n notes fit below the card id offset.
func (g *IDGenerator) Reserve(n int) error {
	if int64(n) >= CardIDOffset {
		return fmt.Errorf("%w: %d", ErrTooManyNotes, n)
	}
	return nil
}

// Next returns the next note id and its card id.
func (g *IDGenerator) Next() (noteID, cardID int64) {
	noteID = g.base + g.next
	g.next++
	return noteID, noteID + CardIDOffset
}

// noteGUID is stable for a language and headword, so rebuilt decks update
// existing notes on import.
func noteGUID(language, front string) string {
	return uuid.NewSHA1(guidNamespace, []byte(language+"\x00"+front)).String()
}

// fieldChecksum is the first 8 hex digits of the SHA-1 of the tag-stripped
// sort field.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(text.StripTags(field)))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return n
}
