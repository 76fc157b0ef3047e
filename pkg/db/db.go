// Package db owns the Anki collection schema and the SQL used to fill and
// maintain it.
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

//go:embed schema.sql
var schemaSQL string

// DriverName is the sqlite3 driver with the collations Anki declares.
const DriverName = "sqlite3_anki"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Desktop collections declare deck and tag names with "collate unicase".
			return conn.RegisterCollation("unicase", compareFolded)
		},
	})
}

var folder = cases.Fold()

func compareFolded(a, b string) int {
	return strings.Compare(folder.String(a), folder.String(b))
}

// Open opens a collection file with DriverName.
func Open(path string) (*sql.DB, error) {
	return sql.Open(DriverName, path)
}

// InitDB creates the collection tables and indexes.
func InitDB(ctx context.Context, db DBExecutor) error {
	stmts := strings.Split(schemaSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
