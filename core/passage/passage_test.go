package passage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperCitations/core/segment"
)

// paragraph builds n sentences long enough to survive fragment merging.
func paragraph(n int) (string, []int) {
	var sb strings.Builder
	starts := make([]int, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		starts[i] = sb.Len()
		fmt.Fprintf(&sb, "Sentence number %02d is here.", i)
	}
	return sb.String(), starts
}

func TestParagraphBounds(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph here.\n  \t\nThird."
	tests := []struct {
		name      string
		offset    int
		wantStart int
		wantEnd   int
	}{
		{"first", 3, 0, 16},
		{"second", strings.Index(text, "paragraph here"), 18, 40},
		{"third", strings.Index(text, "Third"), 45, len(text)},
		{"past end", len(text) + 10, 45, len(text)},
		{"negative", -4, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ParagraphBounds(text, tt.offset)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParagraphBounds(%d) = (%d, %d), want (%d, %d)",
					tt.offset, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExtractShortParagraph(t *testing.T) {
	text := "Intro line.\n\nMortify therefore your members, Col. iii. 5. Sin is to be killed.\n\nAfter."
	offset := strings.Index(text, "Col.")
	w := Extract(text, offset)

	wantStart := strings.Index(text, "Mortify")
	wantEnd := strings.Index(text, "\n\nAfter")
	if w.Start != wantStart || w.End != wantEnd {
		t.Errorf("Extract() = [%d, %d), want [%d, %d)", w.Start, w.End, wantStart, wantEnd)
	}
	if w.Text != text[wantStart:wantEnd] {
		t.Errorf("Extract().Text = %q", w.Text)
	}
}

func TestExtractWindowClamped(t *testing.T) {
	para, starts := paragraph(20)
	text := "Heading.\n\n" + para
	base := len("Heading.\n\n")

	w := Extract(text, base+starts[15]+3)
	if w.Sentences != MaxSentences {
		t.Fatalf("Sentences = %d, want %d", w.Sentences, MaxSentences)
	}
	if got, want := w.Start, base+starts[10]; got != want {
		t.Errorf("Start = %d, want %d (sentence 10)", got, want)
	}
	if got, want := w.End, len(text); got != want {
		t.Errorf("End = %d, want %d (end of sentence 19)", got, want)
	}
	if !strings.HasPrefix(w.Text, "Sentence number 10") || !strings.HasSuffix(w.Text, "number 19 is here.") {
		t.Errorf("Text = %q", w.Text)
	}
}

func TestExtractWindowCentred(t *testing.T) {
	para, starts := paragraph(20)

	tests := []struct {
		cite  int
		first int
		last  int
	}{
		{0, 0, 9},
		{3, 0, 9},
		{8, 3, 12},
		{12, 7, 16},
		{19, 10, 19},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("sentence %d", tt.cite), func(t *testing.T) {
			w := Extract(para, starts[tt.cite])
			if w.Start != starts[tt.first] {
				t.Errorf("Start = %d, want start of sentence %d (%d)", w.Start, tt.first, starts[tt.first])
			}
			wantEnd := starts[tt.last] + len("Sentence number 00 is here.")
			if w.End != wantEnd {
				t.Errorf("End = %d, want end of sentence %d (%d)", w.End, tt.last, wantEnd)
			}
		})
	}
}

func TestExtractOffsetBetweenSentences(t *testing.T) {
	para, starts := paragraph(20)
	// the space just before sentence 8 belongs to sentence 7
	w := Extract(para, starts[8]-1)
	if w.Start != starts[2] {
		t.Errorf("Start = %d, want start of sentence 2 (%d)", w.Start, starts[2])
	}
}

func TestExtractEmpty(t *testing.T) {
	w := Extract("", 0)
	if w.Start != 0 || w.End != 0 || w.Sentences != 0 {
		t.Errorf("Extract(\"\") = %+v", w)
	}
}

func TestLocate(t *testing.T) {
	para := "Alpha sentence one. Beta sentence two. Gamma sentence three."
	const (
		alpha = "Alpha sentence one."
		beta  = "Beta sentence two."
		gamma = "Gamma sentence three."
		delta = "Delta sentence four."
		long  = "A much longer closing sentence that is absent."
	)
	tests := []struct {
		name string
		in   []segment.Sentence
		want [][2]int
	}{
		{
			name: "offsets already right",
			in:   []segment.Sentence{{Text: alpha, Start: 0, End: 19}, {Text: beta, Start: 20, End: 38}, {Text: gamma, Start: 39, End: 60}},
			want: [][2]int{{0, 19}, {20, 38}, {39, 60}},
		},
		{
			name: "shifted offsets are searched from the cursor",
			in:   []segment.Sentence{{Text: alpha, Start: 3, End: 22}, {Text: beta, Start: 23, End: 41}, {Text: gamma, Start: 42, End: 63}},
			want: [][2]int{{0, 19}, {20, 38}, {39, 60}},
		},
		{
			name: "offset behind the cursor",
			in:   []segment.Sentence{{Text: alpha, Start: 0, End: 19}, {Text: beta, Start: 0, End: 18}, {Text: gamma, Start: 39, End: 60}},
			want: [][2]int{{0, 19}, {20, 38}, {39, 60}},
		},
		{
			name: "missing text falls back to the cursor",
			in:   []segment.Sentence{{Text: alpha, Start: 0, End: 19}, {Text: delta, Start: 20, End: 40}, {Text: gamma, Start: 39, End: 60}},
			want: [][2]int{{0, 19}, {19, 39}, {39, 60}},
		},
		{
			name: "fallback is clamped to the paragraph",
			in:   []segment.Sentence{{Text: alpha, Start: 0, End: 19}, {Text: beta, Start: 20, End: 38}, {Text: long, Start: 39, End: 85}},
			want: [][2]int{{0, 19}, {20, 38}, {38, 60}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]segment.Sentence(nil), tt.in...)
			locate(para, got)
			prev := 0
			for i, s := range got {
				if s.Start != tt.want[i][0] || s.End != tt.want[i][1] {
					t.Errorf("sentence %d = [%d, %d), want [%d, %d)", i, s.Start, s.End, tt.want[i][0], tt.want[i][1])
				}
				if s.Start < prev || s.Start > s.End || s.End > len(para) {
					t.Errorf("sentence %d span [%d, %d) escapes the paragraph or goes backwards", i, s.Start, s.End)
				}
				prev = s.End
			}
		})
	}
}
