package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperCitations/core/books"
	"github.com/FocuswithJustin/JuniperCitations/core/citation"
	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/core/extract"
	"github.com/FocuswithJustin/JuniperCitations/core/store"
	"github.com/FocuswithJustin/JuniperCitations/internal/runner"
	"github.com/FocuswithJustin/JuniperCitations/internal/source"
	"github.com/FocuswithJustin/JuniperCitations/internal/validation"
)

// defaultLibrary is scanned when parse is given no paths.
const defaultLibrary = "manuscripts"

// StoreFlags selects the citation database.
type StoreFlags struct {
	DB string `name:"db" default:"citations.db" env:"CITESCAN_DB" help:"SQLite database path" type:"path"`
}

func (f StoreFlags) open(ctx context.Context) (*store.Store, error) {
	if err := validation.ValidatePath(f.DB); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	return store.Open(ctx, f.DB)
}

// ParseCmd parses manuscripts into the database.
type ParseCmd struct {
	StoreFlags

	Paths       []string `arg:"" optional:"" help:"Files, directories or bundles to parse (default: ./manuscripts)" type:"path"`
	Catalog     string   `help:"YAML catalog of manuscript metadata" type:"existingfile" env:"CITESCAN_CATALOG"`
	Root        string   `help:"Directory stored filenames are relative to" default:"." type:"path"`
	Workers     int      `help:"Parallel documents (0 = number of CPUs)" default:"0" env:"CITESCAN_WORKERS"`
	DryRun      bool     `name:"dry-run" help:"Parse and report without writing anything"`
	ChangedOnly bool     `name:"changed-only" help:"Skip documents whose content hash is unchanged"`
	WriteText   bool     `name:"write-text" default:"true" negatable:"" help:"Write the linearized text of structured sources beside them"`
	Verbose     bool     `short:"v" help:"Print every citation found"`
}

func (c *ParseCmd) Run(ctx context.Context, k *kong.Context) error {
	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{defaultLibrary}
	}
	for _, p := range paths {
		if err := validation.ValidatePath(p); err != nil {
			return fmt.Errorf("invalid path %q: %w", p, err)
		}
	}

	cat, err := source.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}

	cfg := runner.Config{
		Catalog:     cat,
		Root:        c.Root,
		Workers:     c.Workers,
		DryRun:      c.DryRun,
		ChangedOnly: c.ChangedOnly,
		WriteText:   c.WriteText,
		Verbose:     c.Verbose,
	}
	if !c.DryRun {
		st, err := c.open(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		cfg.Store = st
	}

	sum, err := runner.Run(ctx, cfg, paths)
	if sum != nil {
		printSummary(k, sum, c.DryRun, c.Verbose)
	}
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", sum.Failed, sum.Documents)
	}
	return nil
}

func printSummary(k *kong.Context, sum *runner.Summary, dryRun, verbose bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry run] "
	}
	for _, r := range sum.Results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(k.Stdout, "%sFAILED   %s: %v\n", prefix, r.Path, r.Err)
		case r.Skipped != "":
			fmt.Fprintf(k.Stdout, "%sskipped  %s (%s)\n", prefix, r.Path, r.Skipped)
		default:
			fmt.Fprintf(k.Stdout, "%sparsed   %s: %d citations, %d dropped\n", prefix, r.Filename, r.Stats.Records, r.Stats.Dropped())
			if verbose {
				for _, rec := range r.Records {
					fmt.Fprintf(k.Stdout, "    %-24s @%d\n", rec.String(), rec.CitationOffset)
				}
			}
		}
	}
	fmt.Fprintln(k.Stdout, sum.String())
	if len(sum.Drops) > 0 {
		reasons := make([]citation.DropReason, 0, len(sum.Drops))
		for r := range sum.Drops {
			reasons = append(reasons, r)
		}
		sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
		parts := make([]string, len(reasons))
		for i, r := range reasons {
			parts[i] = fmt.Sprintf("%s=%d", r, sum.Drops[r])
		}
		fmt.Fprintf(k.Stdout, "dropped: %s\n", strings.Join(parts, " "))
	}
}

// ScanCmd prints the citations of a single document.
type ScanCmd struct {
	Path    string `arg:"" help:"Document to scan" type:"existingfile"`
	Catalog string `help:"YAML catalog of manuscript metadata" type:"existingfile" env:"CITESCAN_CATALOG"`
	Passage bool   `short:"p" help:"Print the passage window of each citation"`
}

func (c *ScanCmd) Run(k *kong.Context) error {
	doc, err := source.Load(c.Path)
	if err != nil {
		return err
	}
	cat, err := source.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}

	res, m, err := runner.Parse(extract.New(books.Default()), cat, doc, runner.StoredName("", doc))
	if err != nil {
		return err
	}
	if m.Title != "" || m.Author != "" {
		fmt.Fprintf(k.Stdout, "%s | %s\n", orUnknown(m.Author), orUnknown(m.Title))
	}

	text := []rune(res.Text)
	for _, r := range res.Records {
		fmt.Fprintf(k.Stdout, "%-24s @%d [%d:%d]\n", r.String(), r.CitationOffset, r.PassageStart, r.PassageEnd)
		if c.Passage && r.PassageEnd <= len(text) && r.PassageStart <= r.PassageEnd {
			fmt.Fprintf(k.Stdout, "    %s\n", strings.Join(strings.Fields(string(text[r.PassageStart:r.PassageEnd])), " "))
		}
	}
	fmt.Fprintf(k.Stdout, "%d citations, %d candidates, %d dropped\n", res.Stats.Records, res.Stats.Candidates, res.Stats.Dropped())
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// ResolveCmd shows what a book spelling resolves to.
type ResolveCmd struct {
	Names []string `arg:"" help:"Book names or abbreviations"`
}

func (c *ResolveCmd) Run(k *kong.Context) error {
	reg := books.Default()
	for _, name := range c.Names {
		b, ok := reg.Resolve(name)
		if !ok {
			fmt.Fprintf(k.Stdout, "%-20q no match (normalized %q)\n", name, books.Normalize(name))
			continue
		}
		fmt.Fprintf(k.Stdout, "%-20q %s (%s, %d chapters)\n", name, b.Name, b.Slug, b.Chapters)
	}
	return nil
}

// StatsCmd summarizes the database.
type StatsCmd struct {
	StoreFlags

	Top int `help:"Number of most-cited chapters to list" default:"20"`
}

func (c *StatsCmd) Run(ctx context.Context, k *kong.Context) error {
	if _, err := os.Stat(c.DB); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.NewNotFound("database", c.DB)
		}
		return errors.NewIO("stat", c.DB, err)
	}
	st, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sum, err := st.Stats(ctx, c.Top)
	if err != nil {
		return err
	}

	fmt.Fprintf(k.Stdout, "ThML manuscripts: %d\n", sum.Manuscripts[store.FormatThML])
	fmt.Fprintf(k.Stdout, "Text manuscripts: %d\n", sum.Manuscripts[store.FormatText])
	if n := sum.Manuscripts[store.FormatHTML]; n > 0 {
		fmt.Fprintf(k.Stdout, "HTML manuscripts: %d\n", n)
	}
	fmt.Fprintf(k.Stdout, "Total citations:  %d\n", sum.Citations)
	if len(sum.TopChapters) > 0 {
		fmt.Fprintf(k.Stdout, "\nTop %d chapters:\n", len(sum.TopChapters))
		for _, ch := range sum.TopChapters {
			fmt.Fprintf(k.Stdout, "  %-24s %d\n", fmt.Sprintf("%s %d", ch.Book, ch.Chapter), ch.Count)
		}
	}
	return nil
}

// BundleCmd packs a directory of manuscripts.
type BundleCmd struct {
	Dir string `arg:"" help:"Manuscript directory" type:"existingdir"`
	Out string `arg:"" help:"Bundle to write (.tar.gz or .tar.xz)" type:"path"`
}

func (c *BundleCmd) Run(k *kong.Context) error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := source.CreateBundle(c.Dir, c.Out); err != nil {
		return err
	}
	docs, err := source.LoadBundle(c.Out)
	if err != nil {
		return fmt.Errorf("verifying bundle: %w", err)
	}
	fmt.Fprintf(k.Stdout, "wrote %s (%d documents)\n", c.Out, len(docs))
	return nil
}

// CatalogCmd prints the effective catalog.
type CatalogCmd struct {
	Catalog string `arg:"" optional:"" help:"YAML catalog to merge over the defaults" type:"existingfile"`
}

func (c *CatalogCmd) Run(k *kong.Context) error {
	cat, err := source.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}
	out, err := cat.Marshal()
	if err != nil {
		return err
	}
	_, err = k.Stdout.Write(out)
	return err
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(k *kong.Context) error {
	info := store.GetInfo()
	fmt.Fprintf(k.Stdout, "citescan version %s\n", version)
	fmt.Fprintf(k.Stdout, "sqlite driver: %s (%s)\n", info.Package, info.DriverType)
	fmt.Fprintf(k.Stdout, "books: %d\n", books.Default().Len())
	return nil
}
