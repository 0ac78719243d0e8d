// Package passage selects the span of text shown alongside a citation: the
// enclosing paragraph, narrowed to a window of sentences around the citation
// when the paragraph is long.
package passage

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/JuniperCitations/core/segment"
)

// MaxSentences is the largest number of sentences in a passage window.
const MaxSentences = 10

// paragraphBreak is a blank line: two newlines with only spaces or tabs
// between them.
var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Window is a passage span in the coordinates of the full text.
type Window struct {
	Start int
	End   int
	// Sentences is the number of sentences in the window, or in the whole
	// paragraph when no narrowing was needed.
	Sentences int
	// Text is the paragraph text, or the chosen sentences joined by single
	// spaces when the paragraph was narrowed.
	Text string
}

// ParagraphBounds returns the paragraph enclosing offset. The start is the
// end of the last blank line lying wholly before offset, the end is the start
// of the first blank line at or after it.
func ParagraphBounds(text string, offset int) (start, end int) {
	offset = clamp(offset, 0, len(text))
	for _, m := range paragraphBreak.FindAllStringIndex(text[:offset], -1) {
		start = m[1]
	}
	end = len(text)
	if m := paragraphBreak.FindStringIndex(text[offset:]); m != nil {
		end = offset + m[0]
	}
	return start, end
}

// Extract returns the passage window for a citation at offset. Offsets are
// byte offsets into text.
func Extract(text string, offset int) Window {
	offset = clamp(offset, 0, len(text))
	pStart, pEnd := ParagraphBounds(text, offset)
	para := text[pStart:pEnd]

	sentences := segment.Split(para)
	if len(sentences) <= MaxSentences {
		return Window{Start: pStart, End: pEnd, Sentences: len(sentences), Text: para}
	}

	locate(para, sentences)

	idx := containing(sentences, offset-pStart)
	first := max(0, idx-MaxSentences/2)
	last := min(len(sentences), first+MaxSentences)
	first = max(0, last-MaxSentences)
	chosen := sentences[first:last]

	parts := make([]string, len(chosen))
	for i, s := range chosen {
		parts[i] = s.Text
	}
	return Window{
		Start:     pStart + chosen[0].Start,
		End:       pStart + chosen[len(chosen)-1].End,
		Sentences: len(chosen),
		Text:      strings.Join(parts, " "),
	}
}

// locate checks each sentence against its recorded offsets. A sentence that
// does not sit where it claims is searched for from the cursor, and failing
// that is placed at the cursor.
func locate(para string, sentences []segment.Sentence) {
	cursor := 0
	for i := range sentences {
		s := &sentences[i]
		if s.Start < cursor || s.End > len(para) || para[s.Start:s.End] != s.Text {
			pos := strings.Index(para[cursor:], s.Text)
			if pos < 0 {
				s.Start = cursor
				s.End = min(len(para), cursor+len(s.Text))
			} else {
				s.Start = cursor + pos
				s.End = s.Start + len(s.Text)
			}
		}
		cursor = s.End
	}
}

// containing returns the index of the sentence whose span holds rel, ends
// inclusive. When rel falls in the whitespace between two sentences the
// earlier one is chosen.
func containing(sentences []segment.Sentence, rel int) int {
	idx := 0
	for i, s := range sentences {
		if s.Start > rel {
			break
		}
		idx = i
	}
	return idx
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
