package db

import (
	"context"
	"database/sql"
	"testing"
)

func TestInitDBCreatesSchema(t *testing.T) {
	dbConn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := InitDB(ctx, dbConn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	// Running it twice is harmless.
	if err := InitDB(ctx, dbConn); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}

	for _, table := range []string{"col", "notes", "cards", "graves", "revlog"} {
		var name string
		if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}

	indexes := []string{
		"ix_notes_guid", "ix_notes_usn", "ix_cards_usn", "ix_revlog_usn",
		"ix_notes_csum", "ix_cards_nid", "ix_revlog_cid", "ix_cards_sched",
	}
	for _, idx := range indexes {
		var name string
		if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name); err != nil {
			t.Fatalf("index %s missing: %v", idx, err)
		}
	}

	var unique int
	if err := dbConn.QueryRow("SELECT \"unique\" FROM pragma_index_list('notes') WHERE name='ix_notes_guid'").Scan(&unique); err != nil {
		t.Fatalf("index list: %v", err)
	}
	if unique != 1 {
		t.Fatalf("expected ix_notes_guid to be unique")
	}

	rows, err := dbConn.Query("PRAGMA index_info(ix_cards_sched)")
	if err != nil {
		t.Fatalf("pragma: %v", err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name.String)
	}
	if len(cols) != 3 || cols[0] != "did" || cols[1] != "queue" || cols[2] != "due" {
		t.Fatalf("unexpected ix_cards_sched columns %v", cols)
	}
}

func TestUnicaseCollation(t *testing.T) {
	dbConn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	if _, err := dbConn.Exec("CREATE TABLE t (name TEXT COLLATE unicase)"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := dbConn.Exec("INSERT INTO t (name) VALUES ('English'), ('chinese')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var n int
	if err := dbConn.QueryRow("SELECT COUNT(*) FROM t WHERE name = 'ENGLISH'").Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected case-insensitive match, got %d rows", n)
	}
}
