package db

// Collection is the single row of the col table. The JSON columns are stored
// verbatim.
type Collection struct {
	ID      int64
	Created int64 // crt, seconds
	Mod     int64 // milliseconds
	Schema  int64 // scm, milliseconds
	Version int
	Conf    string
	Models  string
	Decks   string
	DConf   string
	Tags    string
}

// Note is a row of the notes table. Fields holds the packed field values.
type Note struct {
	ID        int64
	GUID      string
	ModelID   int64
	Mod       int64
	USN       int
	Tags      string
	Fields    string
	SortField string
	Checksum  int64
}

// Card is a row of the cards table. Scheduling columns not listed are zero.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
	Mod    int64
	USN    int
	Type   int
	Queue  int
	Due    int64
}

// DeckCard is a card joined with its note, as listed for maintenance.
type DeckCard struct {
	CardID int64
	NoteID int64
	Queue  int
	Fields string
}
