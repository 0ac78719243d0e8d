// Package segment splits prose into sentences with a punctuation heuristic
// that knows about the abbreviations common in older theological writing.
package segment

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a span of the segmented text. Text is always equal to
// block[Start:End] where block is the string passed to Segment.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// MinFragment is the length in characters below which a fragment is merged
// into the sentence before it.
const MinFragment = 10

// abbreviations precede a period without ending a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "dr": true, "prof": true, "rev": true,
	"st": true, "sts": true, "vs": true, "etc": true, "cf": true,
	"viz": true, "vol": true, "vols": true, "ch": true, "chap": true,
	"no": true, "fig": true, "ms": true, "mss": true, "op": true,
	"cit": true, "pp": true,

	"gen": true, "ex": true, "lev": true, "num": true, "deut": true,
	"josh": true, "judg": true, "psa": true, "ps": true, "prov": true,
	"eccl": true, "isa": true, "jer": true, "lam": true, "ezek": true,
	"dan": true, "hos": true, "matt": true, "mar": true, "luk": true,
	"joh": true, "rom": true, "cor": true, "gal": true, "eph": true,
	"phil": true, "col": true, "thess": true, "tim": true, "tit": true,
	"heb": true, "jas": true, "jam": true, "pet": true,

	"i": true, "ii": true, "iii": true,
}

// IsAbbreviation reports whether word (any case, no trailing dot) is in the
// exception set.
func IsAbbreviation(word string) bool {
	return abbreviations[strings.ToLower(word)]
}

// boundary matches sentence-ending punctuation with any closing quotes or
// parens, the whitespace after it (no-break spaces included), and the first
// character of the next sentence. The first submatch is the punctuation group.
var boundary = regexp.MustCompile(`([.!?]["')]*)[\s\p{Zs}]+[A-Z"(\[]`)

// lastWord finds the word directly before the closing punctuation.
var lastWord = regexp.MustCompile(`([\p{L}\p{N}_]+)\s*[.!?]["')]*$`)

// Segment yields the sentences of text in order. Sentences are trimmed and
// never empty; fragments shorter than MinFragment characters are merged into
// the preceding sentence.
func Segment(text string) iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		var (
			pending Sentence
			have    bool
		)
		for frag := range fragments(text) {
			if have && utf8.RuneCountInString(frag.Text) < MinFragment {
				pending.End = frag.End
				pending.Text = text[pending.Start:pending.End]
				continue
			}
			if have && !yield(pending) {
				return
			}
			pending, have = frag, true
		}
		if have {
			yield(pending)
		}
	}
}

// Split collects Segment into a slice.
func Split(text string) []Sentence {
	var out []Sentence
	for s := range Segment(text) {
		out = append(out, s)
	}
	return out
}

// fragments yields the raw, unmerged sentence spans.
func fragments(text string) iter.Seq[Sentence] {
	return func(yield func(Sentence) bool) {
		start := 0
		for _, m := range boundary.FindAllStringSubmatchIndex(text, -1) {
			end := m[3]
			if isAbbreviationEnding(text[start:end]) {
				continue
			}
			if s, ok := trimmed(text, start, end); ok {
				if !yield(s) {
					return
				}
			}
			start = end
		}
		if s, ok := trimmed(text, start, len(text)); ok {
			yield(s)
		}
	}
}

func isAbbreviationEnding(buf string) bool {
	m := lastWord.FindStringSubmatch(strings.TrimRightFunc(buf, unicode.IsSpace))
	if m == nil {
		return false
	}
	return IsAbbreviation(m[1])
}

func trimmed(text string, start, end int) (Sentence, bool) {
	span := text[start:end]
	lead := len(span) - len(strings.TrimLeftFunc(span, unicode.IsSpace))
	span = strings.TrimSpace(span)
	if span == "" {
		return Sentence{}, false
	}
	start += lead
	return Sentence{Text: span, Start: start, End: start + len(span)}, true
}
