package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperCitations/core/citation"
	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/core/store"
	"github.com/FocuswithJustin/JuniperCitations/internal/source"
)

const prose = "We are called according to his purpose (Romans 8:28). " +
	"See also John 3:16-17 for the same thought.\n\nAnd in Ps. 23 we rest. " +
	"The Epistle of Jude 40 has no such chapter."

const thml = `<?xml version="1.0"?>
<ThML>
<ThML.head>
  <electronicEdInfo><authorID>kempis</authorID><bookID>imitation</bookID>
  <DC><DC.Title>The Imitation of Christ</DC.Title>
  <DC.Creator sub="Author">Kempis, Thomas à (1380-1471)</DC.Creator>
  <DC.Date sub="Published">1418</DC.Date></DC></electronicEdInfo>
</ThML.head>
<ThML.body>
<p>He that followeth me, walketh not in darkness.<scripRef parsed="KJV|John|8|12|8|12;KJV|Matt|16|24|16|24">John viii. 12</scripRef> These are the words of Christ.</p>
</ThML.body>
</ThML>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "citations.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunText(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "mort.txt")
	writeFile(t, path, prose)
	st := openStore(t)

	sum, err := Run(ctx, Config{Store: st, Root: dir, Workers: 2, Verbose: true}, []string{path})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.RunID == "" {
		t.Error("RunID is empty")
	}
	if sum.Documents != 1 || sum.Parsed != 1 || sum.Failed != 0 {
		t.Fatalf("Summary = %s", sum)
	}
	if sum.Records != 3 {
		t.Errorf("Records = %d, want 3", sum.Records)
	}
	if sum.Drops[citation.DropOutOfRange] != 1 {
		t.Errorf("Drops = %v, want Jude 40 counted as out of range", sum.Drops)
	}

	r := sum.Results[0]
	if r.Filename != "mort.txt" || r.Format != source.FormatText || len(r.Records) != 3 {
		t.Errorf("result = %+v", r)
	}

	m, err := st.Manuscript(ctx, "mort.txt")
	if err != nil {
		t.Fatal(err)
	}
	if m.Author != "John Owen" || m.Year != 1656 || m.ContentHash == "" {
		t.Errorf("manuscript = %+v", m)
	}
}

func TestRunIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "sermons.txt")
	writeFile(t, path, prose)
	st := openStore(t)

	for i := 0; i < 2; i++ {
		if _, err := Run(ctx, Config{Store: st, Root: dir}, []string{path}); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := st.Stats(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Citations != 3 || stats.Manuscripts[store.FormatText] != 1 {
		t.Errorf("after two runs: %d citations, %v manuscripts", stats.Citations, stats.Manuscripts)
	}
}

func TestRunChangedOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "government.txt")
	writeFile(t, path, prose)
	st := openStore(t)
	cfg := Config{Store: st, Root: dir, ChangedOnly: true}

	if sum, err := Run(ctx, cfg, []string{path}); err != nil || sum.Parsed != 1 {
		t.Fatalf("first run = %v, %v", sum, err)
	}
	sum, err := Run(ctx, cfg, []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Skipped != 1 || sum.Results[0].Skipped != "unchanged" {
		t.Errorf("unchanged document not skipped: %s", sum)
	}

	writeFile(t, path, prose+" Compare Gal. 5:17.")
	sum, err = Run(ctx, cfg, []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Parsed != 1 || sum.Records != 4 {
		t.Errorf("changed document: %s", sum)
	}
}

func TestRunStructuredPromotes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := openStore(t)

	txt := filepath.Join(dir, "imitation.txt")
	writeFile(t, txt, prose)
	cat, err := source.ParseCatalog([]byte("manuscripts:\n  imitation.txt:\n    url: https://ccel.org/ccel/kempis/imitation\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(ctx, Config{Store: st, Root: dir, Catalog: cat}, []string{txt}); err != nil {
		t.Fatal(err)
	}

	xml := filepath.Join(dir, "kempis", "imitation.xml")
	writeFile(t, xml, thml)
	sum, err := Run(ctx, Config{Store: st, Root: dir, Catalog: cat, WriteText: true}, []string{xml})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Parsed != 1 || sum.Records != 2 {
		t.Fatalf("Summary = %s", sum)
	}
	if got := sum.Results[0].Filename; got != "kempis/imitation.txt" {
		t.Errorf("Filename = %q, want kempis/imitation.txt", got)
	}

	companion, err := os.ReadFile(filepath.Join(dir, "kempis", "imitation.txt"))
	if err != nil {
		t.Fatalf("companion not written: %v", err)
	}
	if !strings.Contains(string(companion), "John viii. 12") || strings.Contains(string(companion), "Imitation") {
		t.Errorf("companion = %q", companion)
	}

	if _, err := st.Manuscript(ctx, "imitation.txt"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("text manuscript survived: %v", err)
	}
	m, err := st.Manuscript(ctx, "kempis/imitation.txt")
	if err != nil {
		t.Fatal(err)
	}
	if m.Author != "Thomas à Kempis" || m.Year != 1418 || m.Category != "Other" || m.SourceFormat != store.FormatThML {
		t.Errorf("manuscript = %+v", m)
	}
}

func TestRunHTMLWritesCompanion(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	writeFile(t, page, `<html><head><title>Sermon</title><script>var x = "Rom 1:1";</script></head>
<body><p>Grace to you (Eph. 1:2).</p><p>Rest in Ps. 23 and be still.</p></body></html>`)
	st := openStore(t)

	sum, err := Run(ctx, Config{Store: st, Root: dir, WriteText: true}, []string{page})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Parsed != 1 || sum.Records != 2 {
		t.Fatalf("Summary = %s", sum)
	}
	if got := sum.Results[0].Filename; got != "page.txt" {
		t.Errorf("Filename = %q, want page.txt", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "page.txt"))
	if err != nil {
		t.Fatalf("companion not written: %v", err)
	}
	text := []rune(string(data))
	if strings.Contains(string(data), "Rom 1:1") || strings.Contains(string(data), "Sermon") {
		t.Errorf("companion kept suppressed text: %q", data)
	}

	m, err := st.Manuscript(ctx, "page.txt")
	if err != nil {
		t.Fatal(err)
	}
	if m.SourceFormat != store.FormatHTML {
		t.Errorf("SourceFormat = %q, want %q", m.SourceFormat, store.FormatHTML)
	}
	cites, err := st.Citations(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Eph. 1:2", "Ps. 23"}
	if len(cites) != len(want) {
		t.Fatalf("got %d citations, want %d", len(cites), len(want))
	}
	for i, c := range cites {
		end := c.CitationOffset + len([]rune(want[i]))
		if end > len(text) || string(text[c.CitationOffset:end]) != want[i] {
			t.Errorf("citation %d offset %d does not point at %q in the companion", i, c.CitationOffset, want[i])
		}
		if c.PassageStart < 0 || c.PassageEnd > len(text) || c.PassageStart > c.CitationOffset {
			t.Errorf("citation %d passage [%d, %d) outside companion", i, c.PassageStart, c.PassageEnd)
		}
	}

	found, err := source.Discover(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0] != page {
		t.Errorf("Discover() = %v, want only the HTML source", found)
	}
}

func TestRunStructuredFallbackIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	xml := filepath.Join(dir, "augustine", "confess.xml")
	writeFile(t, xml, `<ThML><ThML.body><p>See <scripRef parsed="KJV|Rom|13|13|13|14">Rom. xiii. 13</scripRef>.</p></ThML.body></ThML>`)
	st := openStore(t)

	if _, err := Run(ctx, Config{Store: st, Root: dir}, []string{xml}); err != nil {
		t.Fatal(err)
	}
	m, err := st.Manuscript(ctx, "augustine/confess.txt")
	if err != nil {
		t.Fatal(err)
	}
	if m.URL != "https://ccel.org/ccel/augustine/confess" {
		t.Errorf("URL = %q", m.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, "augustine", "confess.txt")); !os.IsNotExist(err) {
		t.Error("companion written without WriteText")
	}
}

func TestRunDocumentFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.xml")
	good := filepath.Join(dir, "mort.txt")
	writeFile(t, bad, "no markup here at all")
	writeFile(t, good, prose)

	sum, err := Run(ctx, Config{DryRun: true, Root: dir}, []string{bad, good})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Failed != 1 || sum.Parsed != 1 {
		t.Fatalf("Summary = %s", sum)
	}
	var failed DocumentResult
	for _, r := range sum.Results {
		if r.Err != nil {
			failed = r
		}
	}
	var pe *errors.ParseError
	if !errors.As(failed.Err, &pe) || pe.Path != bad {
		t.Errorf("failure = %v, want ParseError at %s", failed.Err, bad)
	}
}

func TestRunDirectoryAndBundle(t *testing.T) {
	ctx := context.Background()
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "mort.txt"), strings.Repeat(prose+"\n\n", 10))
	writeFile(t, filepath.Join(lib, "tiny.txt"), "Rom. 1:1")

	bundleSrc := t.TempDir()
	writeFile(t, filepath.Join(bundleSrc, "kempis", "imitation.xml"), thml)
	if err := source.CreateBundle(bundleSrc, filepath.Join(lib, "extra.tar.xz")); err != nil {
		t.Fatal(err)
	}

	sum, err := Run(ctx, Config{DryRun: true, Root: lib, Workers: 4}, []string{lib})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Documents != 2 || sum.Parsed != 2 {
		t.Fatalf("Summary = %s", sum)
	}
	names := []string{sum.Results[0].Filename, sum.Results[1].Filename}
	if names[0] != "extra.tar.xz/kempis/imitation.txt" || names[1] != "mort.txt" {
		t.Errorf("filenames = %v", names)
	}
	if sum.Records != 30+2 {
		t.Errorf("Records = %d, want 32", sum.Records)
	}
}

func TestRunRequiresStore(t *testing.T) {
	_, err := Run(context.Background(), Config{}, nil)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Run() without store = %v, want ErrInvalidInput", err)
	}
}

func TestRunMissingPath(t *testing.T) {
	_, err := Run(context.Background(), Config{DryRun: true}, []string{filepath.Join(t.TempDir(), "nope.txt")})
	if err == nil {
		t.Error("Run() on a missing path succeeded")
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mort.txt")
	writeFile(t, path, prose)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := Run(ctx, Config{DryRun: true}, []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if sum == nil || sum.Parsed != 0 {
		t.Errorf("Summary = %v", sum)
	}
}
