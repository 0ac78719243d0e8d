package extract

import (
	"sort"
	"unicode/utf8"
)

// checkpointEvery is the byte spacing of rune-count checkpoints.
const checkpointEvery = 4096

type checkpoint struct {
	byteOff int
	runes   int
}

// offsetIndex converts byte offsets in a text to character offsets. It keeps
// the rune count at checkpoints placed on rune boundaries roughly every
// checkpointEvery bytes, so a lookup scans at most one interval.
type offsetIndex struct {
	text   string
	points []checkpoint
	ascii  bool
}

func newOffsetIndex(text string) *offsetIndex {
	idx := &offsetIndex{text: text, ascii: isASCII(text)}
	if idx.ascii {
		return idx
	}
	idx.points = append(idx.points, checkpoint{})
	runes, last := 0, 0
	for cp := checkpointEvery; cp < len(text); cp += checkpointEvery {
		b := cp
		for b > last && !utf8.RuneStart(text[b]) {
			b--
		}
		runes += utf8.RuneCountInString(text[last:b])
		idx.points = append(idx.points, checkpoint{byteOff: b, runes: runes})
		last = b
	}
	return idx
}

// runeOffset returns the number of characters before byte offset off, which
// must fall on a rune boundary.
func (x *offsetIndex) runeOffset(off int) int {
	off = max(0, min(off, len(x.text)))
	if x.ascii {
		return off
	}
	i := sort.Search(len(x.points), func(i int) bool { return x.points[i].byteOff > off }) - 1
	p := x.points[i]
	return p.runes + utf8.RuneCountInString(x.text[p.byteOff:off])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
