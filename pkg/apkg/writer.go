// Package apkg serializes combined cards into an Anki package: a zip holding
// a SQLite collection and an empty media manifest.
package apkg

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/zip"

	"github.com/japaniel/wikianki/pkg/card"
	"github.com/japaniel/wikianki/pkg/db"
)

// FieldSeparator joins packed note fields.
const FieldSeparator = "\x1f"

const (
	collectionName = "collection.anki2"
	mediaName      = "media"
	sortFieldRunes = 64
	schemaVersion  = 11
)

// ErrFieldCountMismatch is returned when a note does not carry exactly the
// declared fields of the note type.
var ErrFieldCountMismatch = errors.New("field count does not match note type")

// Options configures one package.
type Options struct {
	Language        string
	DeckName        string
	DeckDescription string
	ModelName       string
	NewPerDay       int
	ReviewsPerDay   int
	// ActivateNew puts cards in the new queue instead of suspending them.
	ActivateNew bool

	// BaseID is the first note id; 0 uses Now in milliseconds.
	BaseID int64
	// Now defaults to time.Now.
	Now       func() time.Time
	BatchSize int
	Logger    *slog.Logger
}

// DefaultOptions returns options for a deck of lang.
func DefaultOptions(lang string) Options {
	return Options{
		Language:        lang,
		DeckName:        lang,
		DeckDescription: lang + " dictionary from Wiktionary",
		ModelName:       lang,
		NewPerDay:       20,
		ReviewsPerDay:   200,
		BatchSize:       500,
	}
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 500
	}
	return o
}

// Result summarizes a build.
type Result struct {
	Notes      int
	Duplicates int
}

// Build serializes cards in order and returns the package bytes. An empty
// slice still yields a valid package with no notes.
func Build(ctx context.Context, cards []card.Card, opts Options) ([]byte, Result, error) {
	opts = opts.withDefaults()

	dir, err := os.MkdirTemp("", "wikianki-*")
	if err != nil {
		return nil, Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, collectionName)
	res, err := writeCollection(ctx, dbPath, cards, opts)
	if err != nil {
		return nil, res, err
	}
	data, err := wrapArchive(dbPath)
	if err != nil {
		return nil, res, err
	}
	return data, res, nil
}

// WriteFile builds the package and writes it to path atomically.
func WriteFile(ctx context.Context, path string, cards []card.Card, opts Options) (Result, error) {
	data, res, err := Build(ctx, cards, opts)
	if err != nil {
		return res, err
	}
	return res, writeAtomic(path, data)
}

func writeCollection(ctx context.Context, path string, cards []card.Card, opts Options) (Result, error) {
	var res Result
	conn, err := db.Open(path)
	if err != nil {
		return res, fmt.Errorf("open collection: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	now := opts.Now()
	base := opts.BaseID
	if base == 0 {
		base = now.UnixMilli()
	}
	ids := NewIDGenerator(base)
	modelID := base

	steps := []struct {
		name string
		run  func() error
	}{
		{"create schema", func() error { return db.InitDB(ctx, conn) }},
		{"define note type and deck", func() error {
			md, err := buildMetadata(opts, modelID, now.Unix())
			if err != nil {
				return err
			}
			return db.InsertCollection(ctx, conn, db.Collection{
				ID:      1,
				Created: now.Unix(),
				Mod:     now.UnixMilli(),
				Schema:  now.UnixMilli(),
				Version: schemaVersion,
				Conf:    md.Conf,
				Models:  md.Models,
				Decks:   md.Decks,
				DConf:   md.DConf,
				Tags:    "{}",
			})
		}},
		{"insert notes and cards", func() error {
			var err error
			res, err = insertNotes(ctx, conn, ids, modelID, cards, opts, now.Unix())
			return err
		}},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		opts.Logger.Debug("apkg step", "step", step.name)
		if err := step.run(); err != nil {
			return res, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return res, conn.Close()
}

func insertNotes(ctx context.Context, conn *sql.DB, ids *IDGenerator, modelID int64, cards []card.Card, opts Options, mod int64) (Result, error) {
	var res Result
	if err := ids.Reserve(len(cards)); err != nil {
		return res, err
	}
	queue := db.QueueSuspended
	if opts.ActivateNew {
		queue = db.QueueNew
	}

	bw := db.NewBatchWriter(conn, opts.BatchSize)
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c.Front]; dup {
			res.Duplicates++
			opts.Logger.Warn("skipping duplicate headword", "front", c.Front)
			continue
		}
		seen[c.Front] = struct{}{}

		flds, err := PackFields(c.Fields())
		if err != nil {
			return res, fmt.Errorf("note %q: %w", c.Front, err)
		}
		noteID, cardID := ids.Next()
		note := db.Note{
			ID:        noteID,
			GUID:      noteGUID(opts.Language, c.Front),
			ModelID:   modelID,
			Mod:       mod,
			Fields:    flds,
			SortField: truncateRunes(c.Front, sortFieldRunes),
			Checksum:  fieldChecksum(c.Front),
		}
		row := db.Card{
			ID:     cardID,
			NoteID: noteID,
			DeckID: DeckID,
			Mod:    mod,
			USN:    -1,
			Queue:  queue,
			Due:    int64(res.Notes + 1),
		}
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if err := db.InsertNote(ctx, tx, note); err != nil {
				return err
			}
			return db.InsertCard(ctx, tx, row)
		}); err != nil {
			return res, err
		}
		res.Notes++
	}
	return res, bw.Close(ctx)
}

// PackFields joins fields with FieldSeparator. The note type declares
// len(card.FieldNames) fields; any other count is rejected.
func PackFields(fields []string) (string, error) {
	if len(fields) != len(card.FieldNames) {
		return "", fmt.Errorf("%w: got %d, want %d", ErrFieldCountMismatch, len(fields), len(card.FieldNames))
	}
	return strings.Join(fields, FieldSeparator), nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// wrapArchive zips the collection file with an empty media manifest.
func wrapArchive(dbPath string) ([]byte, error) {
	collection, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []struct {
		name string
		data []byte
	}{
		{collectionName, collection},
		{mediaName, []byte("{}")},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(entry.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file next to dest and renames it.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*.apkg")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = os.Chmod(tmpPath, 0o644)
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
