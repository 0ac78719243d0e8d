// Package citation recognizes Bible citations in prose and in the structured
// payloads carried by ThML scripRef elements, and resolves them against a
// book registry.
package citation

import (
	"iter"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/JuniperCitations/core/books"
)

// RawMatch is one citation candidate found in text. Book, Chapter and Verse
// are substrings of the scanned text; Chapter and Verse may be empty.
type RawMatch struct {
	Book    string
	Chapter string
	Verse   string
	// Offset is the byte offset of the start of the match, including any
	// "St"/"Saint" prefix.
	Offset int
	// End is the byte offset just past the last matched character.
	End int
}

// Text returns the matched span as it appeared in the source.
func (m RawMatch) Text(source string) string {
	return source[m.Offset:m.End]
}

var (
	// chapterPart is a separator followed by a Roman or Arabic chapter token.
	chapterPart = regexp.MustCompile(`^[\s.:]+([ivxlcdmIVXLCDM]+|[0-9]+)`)
	// versePart is a separator followed by a verse number, range or list.
	versePart = regexp.MustCompile(`^[\s.:]+([0-9]+(?:\s*[-–]\s*[0-9]+)?(?:\s*,\s*[0-9]+)*)`)
)

var saintPrefixes = []string{"saint", "st.", "st"}

// Matcher scans text for citations. It holds the registry's spellings
// bucketed by first byte, each bucket ordered longest first. A Matcher is
// safe for concurrent use.
type Matcher struct {
	reg     *books.Registry
	buckets map[byte][]string
}

// NewMatcher builds a matcher over every spelling known to reg.
func NewMatcher(reg *books.Registry) *Matcher {
	m := &Matcher{reg: reg, buckets: make(map[byte][]string)}
	for _, s := range reg.Alternation() {
		m.buckets[s[0]] = append(m.buckets[s[0]], s)
	}
	return m
}

// Registry returns the registry the matcher resolves against.
func (m *Matcher) Registry() *books.Registry {
	return m.reg
}

// Matches yields citation candidates in text order. Matches never overlap;
// scanning resumes after the end of each match. Each call rescans text.
func (m *Matcher) Matches(text string) iter.Seq[RawMatch] {
	return func(yield func(RawMatch) bool) {
		pos := 0
		for pos < len(text) {
			r, size := utf8.DecodeRuneInString(text[pos:])
			if !isWord(r) || !wordStart(text, pos) {
				pos += size
				continue
			}
			rm, ok := m.matchAt(text, pos)
			if !ok {
				pos = skipWord(text, pos)
				continue
			}
			if !yield(rm) {
				return
			}
			pos = rm.End
		}
	}
}

// All collects Matches into a slice.
func (m *Matcher) All(text string) []RawMatch {
	var out []RawMatch
	for rm := range m.Matches(text) {
		out = append(out, rm)
	}
	return out
}

// matchAt tries to match a citation starting exactly at pos. A leading
// saint prefix is tried first and dropped when the rest does not match.
func (m *Matcher) matchAt(text string, pos int) (RawMatch, bool) {
	for _, p := range saintPrefixes {
		n := matchFold(text, pos, p)
		if n < 0 {
			continue
		}
		ws := skipSpace(text, pos+n)
		if ws == pos+n {
			continue
		}
		if end, ok := m.bookAt(text, ws); ok {
			return m.tail(text, pos, end), true
		}
	}
	if end, ok := m.bookAt(text, pos); ok {
		return m.tail(text, pos, end), true
	}
	return RawMatch{}, false
}

// bookAt returns the end of the longest spelling starting at pos that is
// followed, after an optional dot, by a non-word character or end of text.
func (m *Matcher) bookAt(text string, pos int) (int, bool) {
	bucket := m.buckets[lowerByte(text[pos])]
	for _, s := range bucket {
		n := matchFold(text, pos, s)
		if n < 0 {
			continue
		}
		end := pos + n
		if end < len(text) && text[end] == '.' && !wordAt(text, end+1) {
			return end + 1, true
		}
		if !wordAt(text, end) {
			return end, true
		}
	}
	return 0, false
}

// tail extends a book token with an optional chapter and verse field. The
// chapter token is the longest Roman or Arabic run; whatever follows it is
// left to the range check.
func (m *Matcher) tail(text string, start, bookEnd int) RawMatch {
	rm := RawMatch{Book: text[start:bookEnd], Offset: start, End: bookEnd}

	rest := text[bookEnd:]
	loc := chapterPart.FindStringSubmatchIndex(rest)
	if loc == nil {
		return rm
	}
	rm.Chapter = rest[loc[2]:loc[3]]
	rm.End = bookEnd + loc[1]

	rest = text[rm.End:]
	if v := versePart.FindStringSubmatchIndex(rest); v != nil {
		rm.Verse = rest[v[2]:v[3]]
		rm.End += v[1]
	}
	return rm
}

// matchFold reports how many bytes of text starting at pos match the
// lower-case spelling s, ignoring ASCII case. A space in s matches any run of
// whitespace. It returns -1 when s does not match.
func matchFold(text string, pos int, s string) int {
	i := pos
	for j := 0; j < len(s); j++ {
		if s[j] == ' ' {
			k := skipSpace(text, i)
			if k == i {
				return -1
			}
			i = k
			continue
		}
		if i >= len(text) || lowerByte(text[i]) != s[j] {
			return -1
		}
		i++
	}
	return i - pos
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func skipWord(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !isWord(r) {
			break
		}
		pos += size
	}
	return pos
}

// wordStart reports whether pos is preceded by a non-word character or the
// start of text.
func wordStart(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWord(r)
}

func wordAt(text string, pos int) bool {
	if pos >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return isWord(r)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
