package unsuspend

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/wikianki/pkg/apkg"
	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/db"
)

// buildCollection writes a fresh collection file the way a package build does
// and returns it opened.
func buildCollection(t *testing.T, cards []card.Card) *sql.DB {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "collection.anki2")
	conn, err := db.Open(path)
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.InitDB(ctx, conn))
	decks := `{"1":{"id":1,"name":"Chinese"},"2":{"id":2,"name":"English"}}`
	require.NoError(t, db.InsertCollection(ctx, conn, db.Collection{ID: 1, Conf: "{}", Models: "{}", Decks: decks, DConf: "{}", Tags: "{}"}))

	ids := apkg.NewIDGenerator(1000)
	for i, c := range cards {
		flds, err := apkg.PackFields(c.Fields())
		require.NoError(t, err)
		noteID, cardID := ids.Next()
		require.NoError(t, db.InsertNote(ctx, conn, db.Note{ID: noteID, GUID: c.Front, ModelID: 1, Fields: flds, SortField: c.Front}))
		require.NoError(t, db.InsertCard(ctx, conn, db.Card{ID: cardID, NoteID: noteID, DeckID: 1, Queue: db.QueueSuspended, Due: int64(i + 1)}))
	}
	return conn
}

func TestRun(t *testing.T) {
	conn := buildCollection(t, []card.Card{
		{Front: "猫", Back: "cat", Frequency: "37"},
		{Front: "<b>狗</b>", Back: "dog"},
		{Front: "鸟", Back: "bird"},
	})

	u := &Unsuspender{DB: conn, Now: func() time.Time { return time.Unix(500, 0) }}
	rep, err := u.Run(context.Background(), Request{
		DeckPattern: "chinese",
		Words:       []string{"猫", "狗", "龙"},
		Source:      "HSK 1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), rep.DeckID)
	assert.Equal(t, 3, rep.DeckCards)
	assert.ElementsMatch(t, []string{"猫", "狗"}, rep.Unsuspended)
	assert.Equal(t, 2, rep.Updated)
	assert.Equal(t, []string{"龙"}, rep.NotFound)

	var queue int
	require.NoError(t, conn.QueryRow("SELECT c.queue FROM cards c JOIN notes n ON n.id = c.nid WHERE n.sfld = '鸟'").Scan(&queue))
	assert.Equal(t, db.QueueSuspended, queue)

	var flds string
	var mod int64
	require.NoError(t, conn.QueryRow("SELECT flds, mod FROM notes WHERE sfld = '猫'").Scan(&flds, &mod))
	parts := strings.Split(flds, "\x1f")
	assert.Equal(t, "HSK 1", parts[len(parts)-1])
	assert.Equal(t, int64(500), mod)

	// A second run finds nothing left to unsuspend.
	rep, err = u.Run(context.Background(), Request{DeckPattern: "chinese", Words: []string{"猫"}})
	require.NoError(t, err)
	assert.Empty(t, rep.Unsuspended)
	assert.Equal(t, 0, rep.Updated)
}

func TestRunUnknownDeck(t *testing.T) {
	conn := buildCollection(t, nil)
	u := &Unsuspender{DB: conn}
	_, err := u.Run(context.Background(), Request{DeckPattern: "Spanish", Words: []string{"gato"}})
	assert.ErrorIs(t, err, db.ErrDeckNotFound)
}
