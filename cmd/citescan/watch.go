package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/FocuswithJustin/JuniperCitations/internal/logging"
	"github.com/FocuswithJustin/JuniperCitations/internal/runner"
	"github.com/FocuswithJustin/JuniperCitations/internal/source"
	"github.com/FocuswithJustin/JuniperCitations/internal/validation"
)

// WatchCmd re-parses manuscripts under a directory when they are written.
type WatchCmd struct {
	StoreFlags

	Dir      string        `arg:"" help:"Manuscript directory to watch" type:"existingdir"`
	Catalog  string        `help:"YAML catalog of manuscript metadata" type:"existingfile" env:"CITESCAN_CATALOG"`
	Workers  int           `help:"Parallel documents (0 = number of CPUs)" default:"0" env:"CITESCAN_WORKERS"`
	Debounce time.Duration `help:"Quiet period before changed files are parsed" default:"500ms"`
	Initial  bool          `default:"true" negatable:"" help:"Parse changed documents once at startup"`
}

func (c *WatchCmd) Run(ctx context.Context, k *kong.Context) error {
	cat, err := source.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}
	st, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := runner.Config{
		Store:       st,
		Catalog:     cat,
		Root:        c.Dir,
		Workers:     c.Workers,
		ChangedOnly: true,
		WriteText:   true,
	}

	if c.Initial {
		sum, err := runner.Run(ctx, cfg, []string{c.Dir})
		if err != nil {
			return err
		}
		fmt.Fprintln(k.Stdout, sum.String())
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := addTree(w, c.Dir); err != nil {
		return err
	}
	logging.Info("watching", "dir", c.Dir, "debounce", c.Debounce.String())

	return watchLoop(ctx, w, c.Debounce, func(paths []string) {
		sum, err := runner.Run(ctx, cfg, paths)
		if err != nil {
			logging.Error("reparse failed", "error", err.Error())
			return
		}
		fmt.Fprintln(k.Stdout, sum.String())
	})
}

// watchLoop batches events from w and hands the changed documents to parse
// after debounce of quiet. It returns when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, parse func([]string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						logging.Warn("watch failed", "dir", ev.Name, "error", err.Error())
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !watchable(ev.Name) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watch error", "error", err.Error())

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				if _, err := os.Stat(p); err == nil {
					paths = append(paths, p)
				}
				delete(pending, p)
			}
			sort.Strings(paths)
			if len(paths) > 0 {
				parse(paths)
			}
		}
	}
}

// watchable reports whether a changed file should be parsed.
func watchable(p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch validation.DetectFileType(p) {
	case validation.FileTypeUnknown:
		return false
	case validation.FileTypeText:
		return !source.IsCompanion(p)
	}
	return true
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
