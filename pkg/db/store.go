package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Card queue values used by this tool.
const (
	QueueSuspended = -1
	QueueNew       = 0
)

// ErrDeckNotFound is returned when no deck name matches a pattern.
var ErrDeckNotFound = errors.New("deck not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func exec(ctx context.Context, db DBExecutor, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return db.ExecContext(ctx, query, args...)
}

// InsertCollection writes the col row.
func InsertCollection(ctx context.Context, db DBExecutor, c Collection) error {
	_, err := exec(ctx, db, sq.Insert("col").
		Columns("id", "crt", "mod", "scm", "ver", "dty", "usn", "ls", "conf", "models", "decks", "dconf", "tags").
		Values(c.ID, c.Created, c.Mod, c.Schema, c.Version, 0, 0, 0, c.Conf, c.Models, c.Decks, c.DConf, c.Tags))
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

// InsertNote writes one note row.
func InsertNote(ctx context.Context, db DBExecutor, n Note) error {
	_, err := exec(ctx, db, sq.Insert("notes").
		Columns("id", "guid", "mid", "mod", "usn", "tags", "flds", "sfld", "csum", "flags", "data").
		Values(n.ID, n.GUID, n.ModelID, n.Mod, n.USN, n.Tags, n.Fields, n.SortField, n.Checksum, 0, ""))
	if err != nil {
		return fmt.Errorf("insert note %d: %w", n.ID, err)
	}
	return nil
}

// InsertCard writes one card row with zeroed review state.
func InsertCard(ctx context.Context, db DBExecutor, c Card) error {
	_, err := exec(ctx, db, sq.Insert("cards").
		Columns("id", "nid", "did", "ord", "mod", "usn", "type", "queue", "due",
			"ivl", "factor", "reps", "lapses", "left", "odue", "odid", "flags", "data").
		Values(c.ID, c.NoteID, c.DeckID, c.Ord, c.Mod, c.USN, c.Type, c.Queue, c.Due,
			0, 0, 0, 0, 0, 0, 0, 0, ""))
	if err != nil {
		return fmt.Errorf("insert card %d: %w", c.ID, err)
	}
	return nil
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, db DBExecutor, table string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func tableExists(ctx context.Context, db DBExecutor, name string) (bool, error) {
	query, args, err := sq.Select("name").From("sqlite_master").
		Where(sq.Eq{"type": "table", "name": name}).ToSql()
	if err != nil {
		return false, err
	}
	var found string
	err = db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// FindDeckID returns the id of the first deck whose name contains pattern.
// Collections with a decks table are searched there; older ones store decks
// as JSON in col.decks.
func FindDeckID(ctx context.Context, db DBExecutor, pattern string) (int64, error) {
	ok, err := tableExists(ctx, db, "decks")
	if err != nil {
		return 0, err
	}
	if !ok {
		return findLegacyDeckID(ctx, db, pattern)
	}

	query, args, err := sq.Select("id").From("decks").
		Where(sq.Like{"name": "%" + pattern + "%"}).
		OrderBy("id").Limit(1).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %q", ErrDeckNotFound, pattern)
	}
	if err != nil {
		return 0, fmt.Errorf("find deck: %w", err)
	}
	return id, nil
}

func findLegacyDeckID(ctx context.Context, db DBExecutor, pattern string) (int64, error) {
	query, args, err := sq.Select("decks").From("col").Limit(1).ToSql()
	if err != nil {
		return 0, err
	}
	var raw string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return 0, fmt.Errorf("read col.decks: %w", err)
	}
	var decks map[string]struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &decks); err != nil {
		return 0, fmt.Errorf("decode col.decks: %w", err)
	}

	ids := make([]int64, 0, len(decks))
	names := make(map[int64]string, len(decks))
	for _, d := range decks {
		ids = append(ids, d.ID)
		names[d.ID] = d.Name
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	needle := strings.ToLower(pattern)
	for _, id := range ids {
		if strings.Contains(strings.ToLower(names[id]), needle) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrDeckNotFound, pattern)
}

// ListDeckCards returns the cards of a deck with their packed note fields.
func ListDeckCards(ctx context.Context, db DBExecutor, deckID int64) ([]DeckCard, error) {
	query, args, err := sq.Select("c.id", "c.nid", "c.queue", "n.flds").
		From("cards c").
		Join("notes n ON c.nid = n.id").
		Where(sq.Eq{"c.did": deckID}).
		OrderBy("c.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deck cards: %w", err)
	}
	defer rows.Close()

	var out []DeckCard
	for rows.Next() {
		var dc DeckCard
		if err := rows.Scan(&dc.CardID, &dc.NoteID, &dc.Queue, &dc.Fields); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UnsuspendCard moves a suspended card to the new queue. It reports whether
// the card was suspended.
func UnsuspendCard(ctx context.Context, db DBExecutor, cardID, mod int64) (bool, error) {
	res, err := exec(ctx, db, sq.Update("cards").
		Set("queue", QueueNew).
		Set("mod", mod).
		Set("usn", -1).
		Where(sq.Eq{"id": cardID, "queue": QueueSuspended}))
	if err != nil {
		return false, fmt.Errorf("unsuspend card %d: %w", cardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateNoteFields replaces the packed fields of a note.
func UpdateNoteFields(ctx context.Context, db DBExecutor, noteID int64, fields string, mod int64) error {
	_, err := exec(ctx, db, sq.Update("notes").
		Set("flds", fields).
		Set("mod", mod).
		Set("usn", -1).
		Where(sq.Eq{"id": noteID}))
	if err != nil {
		return fmt.Errorf("update note %d: %w", noteID, err)
	}
	return nil
}
