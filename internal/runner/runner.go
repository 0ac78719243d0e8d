// Package runner parses batches of manuscripts in parallel and stores what
// it finds.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperCitations/core/books"
	"github.com/FocuswithJustin/JuniperCitations/core/citation"
	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/core/extract"
	"github.com/FocuswithJustin/JuniperCitations/core/linearize"
	"github.com/FocuswithJustin/JuniperCitations/core/store"
	"github.com/FocuswithJustin/JuniperCitations/internal/logging"
	"github.com/FocuswithJustin/JuniperCitations/internal/source"
)

// MinDocumentSize is the size at or below which files found by scanning a
// directory are ignored. Files named explicitly are always parsed.
const MinDocumentSize = 1000

// structuredCategory is stored for structured sources, which carry no
// category of their own.
const structuredCategory = "Other"

// Config controls a parse run.
type Config struct {
	// Store receives the results. It may be nil when DryRun is set.
	Store *store.Store
	// Registry defaults to books.Default().
	Registry *books.Registry
	// Catalog supplies metadata for plain-text and HTML sources. Defaults to
	// source.DefaultCatalog().
	Catalog *source.Catalog
	// Root is the directory stored filenames are made relative to. Empty
	// means the current directory.
	Root string

	Workers     int
	DryRun      bool
	ChangedOnly bool
	// WriteText writes the linearized text of structured sources beside
	// them as a .txt companion.
	WriteText bool
	// Verbose keeps every record in the per-document results.
	Verbose bool
}

// DocumentResult is the outcome of one document.
type DocumentResult struct {
	Path         string
	Filename     string
	Format       source.Format
	ManuscriptID int64
	Stats        extract.Stats
	// Records is only filled when Config.Verbose is set.
	Records  []extract.Record
	Skipped  string
	Err      error
	Duration time.Duration
}

// Summary totals a run.
type Summary struct {
	RunID     string
	Documents int
	Parsed    int
	Skipped   int
	Failed    int
	Records   int
	Drops     map[citation.DropReason]int
	Results   []DocumentResult
	Duration  time.Duration
}

// job is one document to parse. doc is set for bundle members, which are
// read when the bundle is opened.
type job struct {
	path string
	doc  *source.Document
}

// Run parses the documents named by paths. Directories are scanned for
// sources; bundles contribute each of their members. Per-document failures
// are recorded in the summary; the returned error reports only failures that
// stop the run as a whole, including cancellation.
func Run(ctx context.Context, cfg Config, paths []string) (*Summary, error) {
	start := time.Now()
	if cfg.Store == nil && !cfg.DryRun {
		return nil, errors.NewValidation("store", "a store is required unless running dry")
	}
	if cfg.Registry == nil {
		cfg.Registry = books.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = source.DefaultCatalog()
	}

	sum := &Summary{RunID: uuid.NewString(), Drops: make(map[citation.DropReason]int)}
	ctx = logging.WithRunID(ctx, sum.RunID)

	jobs, err := collect(paths)
	if err != nil {
		return nil, err
	}
	sum.Documents = len(jobs)
	logging.InfoContext(ctx, "run_started", "documents", len(jobs), "workers", cfg.Workers, "dry_run", cfg.DryRun)

	ex := extract.New(cfg.Registry)
	pool := NewWorkerPool[job, DocumentResult](cfg.Workers, len(jobs))
	pool.Start(ctx, func(ctx context.Context, j job) DocumentResult {
		return process(ctx, cfg, ex, j)
	})
	for _, j := range jobs {
		if !pool.Submit(ctx, j) {
			break
		}
	}
	pool.Close()

	for r := range pool.Results() {
		switch {
		case r.Err != nil:
			sum.Failed++
		case r.Skipped != "":
			sum.Skipped++
		default:
			sum.Parsed++
			sum.Records += r.Stats.Records
			for reason, n := range r.Stats.Drops {
				sum.Drops[reason] += n
			}
		}
		sum.Results = append(sum.Results, r)
	}
	sort.Slice(sum.Results, func(i, k int) bool { return sum.Results[i].Path < sum.Results[k].Path })
	sum.Duration = time.Since(start)

	logging.RunFinished(ctx, sum.Documents, sum.Failed, sum.Records, sum.Duration)
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// collect expands paths into jobs.
func collect(paths []string) ([]job, error) {
	var jobs []job
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.NewIO("stat", p, err)
		}
		if info.IsDir() {
			found, err := source.Discover(p, MinDocumentSize)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				more, err := expand(f)
				if err != nil {
					return nil, err
				}
				jobs = append(jobs, more...)
			}
			continue
		}
		more, err := expand(p)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, more...)
	}
	return jobs, nil
}

func expand(p string) ([]job, error) {
	if !source.IsBundle(p) {
		return []job{{path: p}}, nil
	}
	docs, err := source.LoadBundle(p)
	if err != nil {
		return nil, err
	}
	out := make([]job, len(docs))
	for i, d := range docs {
		out[i] = job{path: d.Path, doc: d}
	}
	return out, nil
}

func process(ctx context.Context, cfg Config, ex *extract.Extractor, j job) DocumentResult {
	start := time.Now()
	res := DocumentResult{Path: j.path}
	fail := func(err error) DocumentResult {
		res.Err = err
		res.Duration = time.Since(start)
		logging.DocumentFailed(ctx, j.path, err)
		return res
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	doc := j.doc
	if doc == nil {
		var err error
		if doc, err = source.Load(j.path); err != nil {
			return fail(err)
		}
	}
	res.Format = doc.Format
	res.Filename = StoredName(cfg.Root, doc)

	if cfg.ChangedOnly && cfg.Store != nil {
		prev, found, err := cfg.Store.ContentHash(ctx, res.Filename)
		if err != nil {
			return fail(err)
		}
		if found && prev == doc.Hash {
			res.Skipped = "unchanged"
			res.Duration = time.Since(start)
			logging.DocumentSkipped(ctx, j.path, res.Skipped)
			return res
		}
	}

	out, m, err := Parse(ex, cfg.Catalog, doc, res.Filename)
	if err != nil {
		return fail(err)
	}
	res.Stats = out.Stats
	if cfg.Verbose {
		res.Records = out.Records
	}

	if !cfg.DryRun {
		if cfg.WriteText && doc.Format != source.FormatText && doc.Bundle == "" {
			if _, err := source.WriteCompanion(doc.Path, out.Text); err != nil {
				return fail(err)
			}
		}
		id, err := cfg.Store.SaveDocument(ctx, m, out.Records)
		if err != nil {
			return fail(err)
		}
		res.ManuscriptID = id
	}

	res.Duration = time.Since(start)
	logging.DocumentParsed(ctx, j.path, string(doc.Format), out.Stats.Records, out.Stats.Dropped(), res.Duration,
		"filename", res.Filename, "candidates", out.Stats.Candidates)
	return res
}

// Parse runs the extractor matching doc's format and assembles the
// manuscript row stored under filename. A structured document that cannot
// be parsed returns a *errors.ParseError carrying doc's path.
func Parse(ex *extract.Extractor, cat *source.Catalog, doc *source.Document, filename string) (*extract.Result, store.Manuscript, error) {
	m := store.Manuscript{
		Filename:     filename,
		SourceFormat: string(doc.Format),
		ContentHash:  doc.Hash,
	}

	switch doc.Format {
	case source.FormatThML:
		root, err := linearize.ParseXML(bytes.NewReader(doc.Data))
		if err != nil {
			var pe *errors.ParseError
			if errors.As(err, &pe) {
				pe.Path = doc.Path
			}
			return nil, m, err
		}
		out := ex.Structured(linearize.Linearize(root, linearize.ThMLOptions()))

		meta := extract.ReadMetadata(root)
		authorID, bookID := source.FallbackIDs(doc.Path)
		if meta.AuthorID == "" {
			meta.AuthorID = authorID
		}
		if meta.BookID == "" {
			meta.BookID = bookID
		}
		m.Author, m.Title, m.Year = meta.Author, meta.Title, meta.Year
		m.URL = meta.URL()
		m.Category = structuredCategory
		return out, m, nil

	case source.FormatHTML:
		root, err := linearize.ParseHTML(bytes.NewReader(doc.Data))
		if err != nil {
			var pe *errors.ParseError
			if errors.As(err, &pe) {
				pe.Path = doc.Path
			}
			return nil, m, err
		}
		applyEntry(&m, cat, filename)
		return ex.HTML(root), m, nil

	case source.FormatText:
		applyEntry(&m, cat, filename)
		return ex.Text(doc.Text()), m, nil
	}
	return nil, m, errors.NewUnsupported("source format", string(doc.Format))
}

func applyEntry(m *store.Manuscript, cat *source.Catalog, filename string) {
	e, ok := cat.Lookup(filename)
	if !ok {
		return
	}
	m.Author, m.Title, m.Year, m.URL, m.Category = e.Author, e.Title, e.Year, e.URL, e.Category
}

// StoredName is the manuscript's key in the store: the path of the text its
// offsets refer to, relative to root. Structured sources are keyed by their
// companion .txt.
func StoredName(root string, doc *source.Document) string {
	p := source.Uncompressed(doc.Path)
	if doc.Format != source.FormatText {
		p = source.CompanionPath(p)
	}
	if root == "" {
		root = "."
	}
	if rel, err := filepath.Rel(root, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		p = rel
	}
	return filepath.ToSlash(p)
}

// String renders the totals on one line.
func (s *Summary) String() string {
	return fmt.Sprintf("%d documents: %d parsed, %d skipped, %d failed; %d citations",
		s.Documents, s.Parsed, s.Skipped, s.Failed, s.Records)
}
