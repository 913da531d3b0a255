package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
)

const testSchema = `
CREATE TABLE metadata (name TEXT PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE entities (
	id INTEGER PRIMARY KEY,
	type INTEGER NOT NULL,
	quadindex INTEGER NOT NULL,
	features BLOB NOT NULL,
	housenumbers TEXT,
	country TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	county TEXT NOT NULL DEFAULT '',
	locality TEXT NOT NULL DEFAULT '',
	neighbourhood TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	postcode TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX entities_quadindex ON entities (quadindex);
CREATE TABLE names (entity_id INTEGER NOT NULL, lang TEXT NOT NULL, field TEXT NOT NULL, value TEXT NOT NULL);
`

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	// A :memory: database exists per connection; keep the pool at one so
	// every statement sees the same database.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return New(conn), conn
}

func seed(t *testing.T, conn *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
}

func TestMetadata(t *testing.T) {
	s, conn := newTestStore(t)
	seed(t, conn, `INSERT INTO metadata (name, value) VALUES ('origin', '24.0,59.0')`)

	v, ok, err := s.Metadata(context.Background(), "origin")
	if err != nil || !ok || v != "24.0,59.0" {
		t.Fatalf("want ('24.0,59.0',true), got (%q,%v,%v)", v, ok, err)
	}

	_, ok, err = s.Metadata(context.Background(), "bounds")
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if ok {
		t.Fatal("absent key reported present")
	}
}

func TestQueryEntities(t *testing.T) {
	s, conn := newTestStore(t)
	seed(t, conn,
		`INSERT INTO entities (id, type, quadindex, features, housenumbers, street) VALUES (1, 6, 42, x'00', NULL, 'Pikk')`,
		`INSERT INTO entities (id, type, quadindex, features, housenumbers, street) VALUES (2, 6, 42, x'01', '2:2:8', 'Lai')`,
		`INSERT INTO entities (id, type, quadindex, features, housenumbers, street) VALUES (3, 6, 7, x'02', NULL, 'Vene')`,
	)

	rows, err := s.QueryEntities(context.Background(),
		"SELECT id, features, housenumbers FROM entities WHERE quadindex IN (42)")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].HouseNumbers != "" {
		t.Fatalf("NULL housenumbers must scan empty, got %q", rows[0].HouseNumbers)
	}
	if rows[1].HouseNumbers != "2:2:8" {
		t.Fatalf("want '2:2:8', got %q", rows[1].HouseNumbers)
	}
}

func TestQueryEntitiesBadQuery(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.QueryEntities(context.Background(), "SELECT nope FROM nowhere")
	if err == nil {
		t.Fatal("malformed query must error")
	}
}

func TestAddressDefaultLanguage(t *testing.T) {
	s, conn := newTestStore(t)
	seed(t, conn,
		`INSERT INTO entities (id, type, quadindex, features, country, locality, street) VALUES (1, 6, 42, x'00', 'Estonia', 'Tallinn', 'Pikk')`,
	)

	row, ok, err := s.Address(context.Background(), 1, "")
	if err != nil || !ok {
		t.Fatalf("address: ok=%v err=%v", ok, err)
	}
	if row.Street != "Pikk" || row.Locality != "Tallinn" || row.Type != 6 {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestAddressLanguageOverlay(t *testing.T) {
	s, conn := newTestStore(t)
	seed(t, conn,
		`INSERT INTO entities (id, type, quadindex, features, country, locality) VALUES (1, 4, 42, x'00', 'Estonia', 'Tallinn')`,
		`INSERT INTO names (entity_id, lang, field, value) VALUES (1, 'et', 'country', 'Eesti')`,
	)

	row, ok, err := s.Address(context.Background(), 1, "et")
	if err != nil || !ok {
		t.Fatalf("address: ok=%v err=%v", ok, err)
	}
	if row.Country != "Eesti" {
		t.Fatalf("want overlay 'Eesti', got %q", row.Country)
	}
	if row.Locality != "Tallinn" {
		t.Fatalf("fields without overlay must keep defaults, got %q", row.Locality)
	}

	// A language with no overlay rows falls back to defaults entirely.
	row, _, err = s.Address(context.Background(), 1, "fr")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if row.Country != "Estonia" {
		t.Fatalf("want fallback 'Estonia', got %q", row.Country)
	}
}

func TestAddressMissingRow(t *testing.T) {
	s, _ := newTestStore(t)
	_, ok, err := s.Address(context.Background(), 99, "")
	if err != nil {
		t.Fatalf("missing row must not error: %v", err)
	}
	if ok {
		t.Fatal("missing row reported present")
	}
}

func TestOpenMissingFileFailsOnPing(t *testing.T) {
	s, err := Open(fmt.Sprintf("file:%s?mode=ro", t.TempDir()+"/absent.db"))
	if err != nil {
		// Open may fail lazily or eagerly depending on driver behavior.
		return
	}
	defer s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("ping of a missing read-only database should fail")
	}
}
