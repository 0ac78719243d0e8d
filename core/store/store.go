// Package store persists manuscripts and their citations in SQLite.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
//
// A document's citations are always written as a whole: the previous rows
// are deleted and the new ones inserted in one transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/core/extract"
)

// Source formats recorded in manuscripts.source_format.
const (
	FormatText = "txt"
	FormatThML = "thml"
	FormatHTML = "html"
)

// Info describes the SQLite driver compiled in.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	Package    string `json:"package"`
}

// GetInfo returns the driver configuration.
func GetInfo() Info {
	return Info{DriverName: driverName, DriverType: driverType, Package: driverPackage}
}

// Manuscript is one source document.
type Manuscript struct {
	ID           int64
	Filename     string
	Author       string
	Title        string
	Year         int
	URL          string
	Category     string
	SourceFormat string
	ContentHash  string
	ParsedAt     time.Time
}

// Store wraps the citation database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// SQLite has a single writer; one connection keeps the per-connection
	// pragmas in force for every statement.
	db.SetMaxOpenConns(1)

	for _, p := range []string{`PRAGMA journal_mode=WAL`, `PRAGMA foreign_keys=ON`} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, errors.NewIO("configure", path, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrating %s", path)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// UpsertManuscript inserts or updates the manuscript keyed by filename and
// returns its id.
func (s *Store) UpsertManuscript(ctx context.Context, m Manuscript) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = upsertManuscript(ctx, tx, m)
		return err
	})
	return id, err
}

// ReplaceCitations deletes every citation of a manuscript and inserts recs.
func (s *Store) ReplaceCitations(ctx context.Context, manuscriptID int64, recs []extract.Record) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return replaceCitations(ctx, tx, manuscriptID, recs)
	})
}

// SaveDocument writes a manuscript and its citations in one transaction.
// A structured source first supersedes any plain-text manuscript with the
// same URL.
func (s *Store) SaveDocument(ctx context.Context, m Manuscript, recs []extract.Record) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if m.SourceFormat == FormatThML && m.URL != "" {
			if _, err := promoteStructured(ctx, tx, m.URL); err != nil {
				return err
			}
		}
		var err error
		if id, err = upsertManuscript(ctx, tx, m); err != nil {
			return err
		}
		return replaceCitations(ctx, tx, id, recs)
	})
	return id, err
}

// PromoteStructured removes a plain-text manuscript, and its citations, that
// shares url with a structured source. It returns the number of manuscripts
// removed.
func (s *Store) PromoteStructured(ctx context.Context, url string) (int, error) {
	var n int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = promoteStructured(ctx, tx, url)
		return err
	})
	return n, err
}

// ContentHash returns the stored content hash of a manuscript. found is
// false when the manuscript is unknown or was stored without a hash.
func (s *Store) ContentHash(ctx context.Context, filename string) (hash string, found bool, err error) {
	var h sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM manuscripts WHERE filename = ?`, filename).Scan(&h)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading content hash of %s: %w", filename, err)
	}
	return h.String, h.Valid && h.String != "", nil
}

// Manuscript looks up a manuscript by filename.
func (s *Store) Manuscript(ctx context.Context, filename string) (*Manuscript, error) {
	var (
		m                                        Manuscript
		author, title, url, category, hash, when sql.NullString
		year                                     sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, author, title, year, ccel_url, category, source_format, content_hash, parsed_at
		FROM manuscripts WHERE filename = ?`, filename).
		Scan(&m.ID, &m.Filename, &author, &title, &year, &url, &category, &m.SourceFormat, &hash, &when)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("manuscript", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manuscript %s: %w", filename, err)
	}
	m.Author, m.Title, m.URL, m.Category, m.ContentHash = author.String, title.String, url.String, category.String, hash.String
	m.Year = int(year.Int64)
	if when.Valid {
		m.ParsedAt, _ = time.Parse(time.RFC3339, when.String)
	}
	return &m, nil
}

// Citation is a stored citation row.
type Citation struct {
	Book           string
	BookSlug       string
	Chapter        int
	VerseStart     int
	VerseEnd       int
	CitationOffset int
	PassageStart   int
	PassageEnd     int
}

// Citations returns the citations of a manuscript in offset order.
func (s *Store) Citations(ctx context.Context, manuscriptID int64) ([]Citation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book, book_slug, chapter, verse_start, verse_end,
		       citation_offset, passage_start_offset, passage_end_offset
		FROM verse_refs WHERE manuscript_id = ?
		ORDER BY citation_offset, id`, manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var out []Citation
	for rows.Next() {
		var (
			c          Citation
			start, end sql.NullInt64
		)
		if err := rows.Scan(&c.Book, &c.BookSlug, &c.Chapter, &start, &end,
			&c.CitationOffset, &c.PassageStart, &c.PassageEnd); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		c.VerseStart, c.VerseEnd = int(start.Int64), int(end.Int64)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ChapterCount is a chapter and how often it is cited.
type ChapterCount struct {
	Book    string
	Chapter int
	Count   int
}

// Summary is an overview of the database.
type Summary struct {
	Manuscripts map[string]int
	Citations   int
	TopChapters []ChapterCount
}

// Stats summarizes the database, listing the top most-cited chapters.
func (s *Store) Stats(ctx context.Context, top int) (*Summary, error) {
	sum := &Summary{Manuscripts: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_format, COUNT(*) FROM manuscripts GROUP BY source_format`)
	if err != nil {
		return nil, fmt.Errorf("counting manuscripts: %w", err)
	}
	for rows.Next() {
		var (
			format string
			n      int
		)
		if err := rows.Scan(&format, &n); err != nil {
			rows.Close()
			return nil, err
		}
		sum.Manuscripts[format] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verse_refs`).Scan(&sum.Citations); err != nil {
		return nil, fmt.Errorf("counting citations: %w", err)
	}

	if top <= 0 {
		return sum, nil
	}
	rows, err = s.db.QueryContext(ctx, `
		SELECT book, chapter, COUNT(*) AS n
		FROM verse_refs GROUP BY book, chapter
		ORDER BY n DESC, book, chapter LIMIT ?`, top)
	if err != nil {
		return nil, fmt.Errorf("ranking chapters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c ChapterCount
		if err := rows.Scan(&c.Book, &c.Chapter, &c.Count); err != nil {
			return nil, err
		}
		sum.TopChapters = append(sum.TopChapters, c)
	}
	return sum, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertManuscript(ctx context.Context, tx *sql.Tx, m Manuscript) (int64, error) {
	if m.Filename == "" {
		return 0, errors.NewValidation("filename", "manuscript needs a filename")
	}
	if m.SourceFormat == "" {
		m.SourceFormat = FormatText
	}
	if m.ParsedAt.IsZero() {
		m.ParsedAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO manuscripts (filename, author, title, year, ccel_url, category, source_format, content_hash, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			author = excluded.author,
			title = excluded.title,
			year = excluded.year,
			ccel_url = excluded.ccel_url,
			category = excluded.category,
			source_format = excluded.source_format,
			content_hash = excluded.content_hash,
			parsed_at = excluded.parsed_at`,
		m.Filename, nullString(m.Author), nullString(m.Title), nullInt(m.Year),
		nullString(m.URL), nullString(m.Category), m.SourceFormat,
		nullString(m.ContentHash), m.ParsedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("upserting manuscript %s: %w", m.Filename, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM manuscripts WHERE filename = ?`, m.Filename).Scan(&id); err != nil {
		return 0, fmt.Errorf("reading id of %s: %w", m.Filename, err)
	}
	return id, nil
}

func replaceCitations(ctx context.Context, tx *sql.Tx, manuscriptID int64, recs []extract.Record) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verse_refs WHERE manuscript_id = ?`, manuscriptID); err != nil {
		return fmt.Errorf("deleting citations of manuscript %d: %w", manuscriptID, err)
	}
	if len(recs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verse_refs
			(manuscript_id, book, book_slug, chapter, verse_start, verse_end,
			 citation_offset, passage_start_offset, passage_end_offset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing citation insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, manuscriptID, r.Book.Name, r.Book.Slug, r.Chapter,
			nullInt(r.VerseStart), nullInt(r.VerseEnd),
			r.CitationOffset, r.PassageStart, r.PassageEnd); err != nil {
			return fmt.Errorf("inserting citation %s: %w", r.String(), err)
		}
	}
	return nil
}

func promoteStructured(ctx context.Context, tx *sql.Tx, url string) (int, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM manuscripts WHERE ccel_url = ? AND source_format = ?`, url, FormatText)
	if err != nil {
		return 0, fmt.Errorf("finding text manuscripts for %s: %w", url, err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM verse_refs WHERE manuscript_id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting citations of manuscript %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM manuscripts WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting manuscript %d: %w", id, err)
		}
	}
	return len(ids), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
