// Package extract runs the citation pipeline over one document: find or
// decode citations, resolve them, and attach a passage window to each.
package extract

import (
	"github.com/FocuswithJustin/JuniperCitations/core/books"
	"github.com/FocuswithJustin/JuniperCitations/core/citation"
	"github.com/FocuswithJustin/JuniperCitations/core/linearize"
	"github.com/FocuswithJustin/JuniperCitations/core/passage"
)

// Record is one citation found in a document. Offsets are character offsets
// into Result.Text.
type Record struct {
	citation.Resolved

	CitationOffset int
	PassageStart   int
	PassageEnd     int
}

// Stats counts what happened to the candidates of one document.
type Stats struct {
	// Candidates is the number of plain-text matches, or of structured
	// payload segments.
	Candidates int
	// Markers is the number of citation markers seen in a structured
	// document, with or without a payload.
	Markers int
	Records int
	Drops   map[citation.DropReason]int
}

// Dropped returns the total number of dropped candidates.
func (s Stats) Dropped() int {
	n := 0
	for _, c := range s.Drops {
		n += c
	}
	return n
}

func (s *Stats) drop(r citation.DropReason, n int) {
	if n == 0 {
		return
	}
	if s.Drops == nil {
		s.Drops = make(map[citation.DropReason]int)
	}
	s.Drops[r] += n
}

// Result is the output of one parse: the canonical text the offsets refer to
// and the records in document order.
type Result struct {
	Text    string
	Records []Record
	Stats   Stats
}

// Extractor holds the read-only state shared by every parse. It is safe for
// concurrent use.
type Extractor struct {
	reg     *books.Registry
	matcher *citation.Matcher
}

// New returns an extractor resolving against reg.
func New(reg *books.Registry) *Extractor {
	return &Extractor{reg: reg, matcher: citation.NewMatcher(reg)}
}

// Registry returns the registry the extractor resolves against.
func (e *Extractor) Registry() *books.Registry {
	return e.reg
}

// Text finds citations in plain prose.
func (e *Extractor) Text(text string) *Result {
	res := &Result{Text: text}
	idx := newOffsetIndex(text)
	windows := make(map[int]passage.Window)

	for rm := range e.matcher.Matches(text) {
		res.Stats.Candidates++
		r, reason := e.matcher.Resolve(rm)
		if reason != citation.Kept {
			res.Stats.drop(reason, 1)
			continue
		}
		w := windowAt(windows, text, rm.Offset)
		res.Records = append(res.Records, newRecord(idx, r, rm.Offset, w))
	}
	res.Stats.Records = len(res.Records)
	return res
}

// Structured decodes the payloads of a linearized document's markers. Every
// citation decoded from one marker shares that marker's offset and passage
// window. Markers without a payload are skipped.
func (e *Extractor) Structured(doc *linearize.Document) *Result {
	res := &Result{Text: doc.Text}
	idx := newOffsetIndex(doc.Text)
	windows := make(map[int]passage.Window)

	for _, m := range doc.Markers {
		res.Stats.Markers++
		payload := doc.PayloadOf(m)
		if payload == "" {
			continue
		}
		cites, skipped := citation.DecodePayload(e.reg, payload)
		res.Stats.Candidates += len(cites) + skipped
		res.Stats.drop(citation.DropMalformedSegment, skipped)
		if len(cites) == 0 {
			continue
		}
		w := windowAt(windows, doc.Text, m.Offset)
		for _, r := range cites {
			res.Records = append(res.Records, newRecord(idx, r, m.Offset, w))
		}
	}
	res.Stats.Records = len(res.Records)
	return res
}

// HTML flattens an HTML tree and scans the result as plain prose.
func (e *Extractor) HTML(root linearize.Node) *Result {
	doc := linearize.Linearize(root, linearize.HTMLOptions())
	return e.Text(doc.Text)
}

func windowAt(cache map[int]passage.Window, text string, offset int) passage.Window {
	if w, ok := cache[offset]; ok {
		return w
	}
	w := passage.Extract(text, offset)
	cache[offset] = w
	return w
}

func newRecord(idx *offsetIndex, r citation.Resolved, offset int, w passage.Window) Record {
	return Record{
		Resolved:       r,
		CitationOffset: idx.runeOffset(offset),
		PassageStart:   idx.runeOffset(w.Start),
		PassageEnd:     idx.runeOffset(w.End),
	}
}
