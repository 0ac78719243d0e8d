package citation

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperCitations/core/books"
	"github.com/FocuswithJustin/JuniperCitations/core/numeral"
)

// Resolved is a citation pinned to a canonical book and a valid chapter.
// VerseStart and VerseEnd are 0 when absent. In plain text VerseEnd is set
// only when it is greater than VerseStart; a structured payload may carry an
// end verse on its own.
type Resolved struct {
	Book       *books.Book
	Chapter    int
	VerseStart int
	VerseEnd   int
}

// String formats the citation as "Book Chapter[:Verse[-VerseEnd]]", or
// "Book Chapter:-VerseEnd" for an end verse without a start.
func (r Resolved) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d", r.Book.Name, r.Chapter)
	switch {
	case r.VerseStart > 0:
		fmt.Fprintf(&sb, ":%d", r.VerseStart)
		if r.VerseEnd > 0 {
			fmt.Fprintf(&sb, "-%d", r.VerseEnd)
		}
	case r.VerseEnd > 0:
		fmt.Fprintf(&sb, ":-%d", r.VerseEnd)
	}
	return sb.String()
}

// DropReason says why a candidate did not become a citation. Drops are
// ordinary outcomes, not errors.
type DropReason int

const (
	// Kept means the candidate resolved.
	Kept DropReason = iota
	// DropNoChapter is a bare book word with no chapter after it.
	DropNoChapter
	// DropUnresolvedBook is a spelling the registry does not know.
	DropUnresolvedBook
	// DropBadChapter is a chapter token that is not a number.
	DropBadChapter
	// DropBadVerse is a verse field that is not a number.
	DropBadVerse
	// DropOutOfRange is a chapter outside the book's chapter count.
	DropOutOfRange
	// DropMalformedSegment is a structured payload segment that could not
	// be decoded.
	DropMalformedSegment
)

var dropNames = map[DropReason]string{
	Kept:                 "kept",
	DropNoChapter:        "no_chapter",
	DropUnresolvedBook:   "unresolved_book",
	DropBadChapter:       "bad_chapter",
	DropBadVerse:         "bad_verse",
	DropOutOfRange:       "out_of_range",
	DropMalformedSegment: "malformed_segment",
}

func (d DropReason) String() string {
	if s, ok := dropNames[d]; ok {
		return s
	}
	return fmt.Sprintf("drop(%d)", int(d))
}

// Resolve turns a raw match into a citation, or reports why it was dropped.
func (m *Matcher) Resolve(rm RawMatch) (Resolved, DropReason) {
	return resolveRaw(m.reg, rm)
}

func resolveRaw(reg *books.Registry, rm RawMatch) (Resolved, DropReason) {
	if rm.Chapter == "" {
		return Resolved{}, DropNoChapter
	}
	book, ok := reg.Resolve(rm.Book)
	if !ok {
		return Resolved{}, DropUnresolvedBook
	}
	ch, ok := numeral.ParseChapter(strings.TrimRight(strings.TrimSpace(rm.Chapter), "."))
	if !ok {
		return Resolved{}, DropBadChapter
	}
	if !book.HasChapter(ch) {
		return Resolved{}, DropOutOfRange
	}
	start, end, ok := ParseVerseField(rm.Verse)
	if !ok {
		return Resolved{}, DropBadVerse
	}
	return newResolved(book, ch, start, end), Kept
}

// newResolved applies the verse invariants: an end verse needs a start verse
// and must come after it.
func newResolved(book *books.Book, chapter, start, end int) Resolved {
	if start <= 0 {
		start, end = 0, 0
	}
	if end <= start {
		end = 0
	}
	return Resolved{Book: book, Chapter: chapter, VerseStart: start, VerseEnd: end}
}
