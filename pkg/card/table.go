package card

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// WriteTable writes a header row followed by one row per card.
func WriteTable(w io.Writer, cards []Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FieldNames); err != nil {
		return err
	}
	return writeRows(cw, cards)
}

func writeRows(cw *csv.Writer, cards []Card) error {
	for _, c := range cards {
		if err := cw.Write(c.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendFile appends cards to the table at path, creating it when needed.
// The header is only written when the file is new or empty.
func AppendFile(path string, cards []Card) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(FieldNames); err != nil {
			return err
		}
	}
	if err := writeRows(cw, cards); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return f.Close()
}

// ReadTable reads a header-first table. Columns are matched by header name,
// so reordered or partial tables are accepted.
func ReadTable(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var cards []Card
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cards, err
		}
		values := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				values[name] = row[i]
			}
		}
		cards = append(cards, FromFields(values))
	}
	return cards, nil
}

// ReadFile reads the table at path. A missing file is not an error: it is
// logged and yields no cards.
func ReadFile(path string, logger *slog.Logger) ([]Card, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if logger != nil {
			logger.Warn("table not found", "path", path)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}
