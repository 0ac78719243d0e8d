package citation

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperCitations/core/books"
)

// payloadFields is the field count of one structured citation segment:
// version|Book|fromChapter|fromVerse|toChapter|toVerse
const payloadFields = 6

// DecodePayload decodes a structured citation payload such as
// "KJV|Romans|8|13|8|13;KJV|Gal|5|16|5|17". Segments are separated by ';'.
//
// A segment is skipped when it does not have exactly six fields, when its
// book does not resolve, when a numeric field does not parse, when its from
// chapter is below 1 (a whole-book reference) or past the end of the book.
// The remaining segments are still decoded. Cross-chapter ranges keep the
// from chapter only. Unlike plain text, the end verse is stored whenever it
// is present and differs from the start verse.
func DecodePayload(reg *books.Registry, payload string) ([]Resolved, int) {
	var (
		out     []Resolved
		skipped int
	)
	for _, seg := range strings.Split(payload, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		r, ok := decodeSegment(reg, seg)
		if !ok {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

func decodeSegment(reg *books.Registry, seg string) (Resolved, bool) {
	f := strings.Split(seg, "|")
	if len(f) != payloadFields {
		return Resolved{}, false
	}
	book, ok := reg.Resolve(f[1])
	if !ok {
		return Resolved{}, false
	}

	var nums [4]int
	for i, s := range f[2:] {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Resolved{}, false
		}
		nums[i] = n
	}
	fromCh, fromV, toCh, toV := nums[0], nums[1], nums[2], nums[3]

	if fromCh < 1 || !book.HasChapter(fromCh) {
		return Resolved{}, false
	}

	r := Resolved{Book: book, Chapter: fromCh}
	if fromV > 0 {
		r.VerseStart = fromV
	}
	// The end verse is taken as given, with or without a start verse. An end
	// in another chapter is not a verse of fromCh.
	if toV > 0 && toV != fromV && toCh == fromCh {
		r.VerseEnd = toV
	}
	return r, true
}
