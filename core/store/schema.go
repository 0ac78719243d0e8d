package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS manuscripts (
    id       INTEGER PRIMARY KEY,
    filename TEXT NOT NULL UNIQUE,
    author   TEXT,
    title    TEXT,
    year     INTEGER,
    ccel_url TEXT,
    category TEXT
);

CREATE TABLE IF NOT EXISTS verse_refs (
    id                   INTEGER PRIMARY KEY,
    manuscript_id        INTEGER NOT NULL REFERENCES manuscripts(id),
    book                 TEXT NOT NULL,
    book_slug            TEXT NOT NULL,
    chapter              INTEGER NOT NULL,
    verse_start          INTEGER,
    verse_end            INTEGER,
    citation_offset      INTEGER NOT NULL,
    passage_start_offset INTEGER NOT NULL,
    passage_end_offset   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_refs_book_chapter ON verse_refs(book_slug, chapter);
CREATE INDEX IF NOT EXISTS idx_refs_manuscript ON verse_refs(manuscript_id);
`

// migrations add columns missing from databases created by older builds.
var migrations = []struct {
	column string
	ddl    string
}{
	{"source_format", `ALTER TABLE manuscripts ADD COLUMN source_format TEXT NOT NULL DEFAULT 'txt'`},
	{"content_hash", `ALTER TABLE manuscripts ADD COLUMN content_hash TEXT`},
	{"parsed_at", `ALTER TABLE manuscripts ADD COLUMN parsed_at TEXT`},
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(manuscripts)`)
	if err != nil {
		return fmt.Errorf("reading manuscripts columns: %w", err)
	}
	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("scanning column info: %w", err)
		}
		cols[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if cols[m.column] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("adding column %s: %w", m.column, err)
		}
	}
	return nil
}
