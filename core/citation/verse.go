package citation

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// verseField is the grammar for the verse part of a citation.
// Examples: "13", "13-17", "13 – 17", "16, 17", "13-15, 18"
//
// Numbers are captured as strings so that "08" stays decimal.
//
//nolint:govet // participle grammar tags are not standard struct tags
type verseField struct {
	First   string   `@Int`
	Through *string  `( Dash @Int )?`
	List    []string `( "," @Int )*`
}

// numbers returns every verse number in the field, in order.
func (v *verseField) numbers() ([]int, error) {
	raw := []string{v.First}
	if v.Through != nil {
		raw = append(raw, *v.Through)
	}
	raw = append(raw, v.List...)

	out := make([]int, len(raw))
	for i, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

var verseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `[-–]`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var verseParser = participle.MustBuild[verseField](
	participle.Lexer(verseLexer),
	participle.Elide("Whitespace"),
)

// ParseVerseField reduces a verse field to its first and last verse. A range
// or list whose last number equals its first collapses to a single verse, so
// end is 0 unless it differs from start. An empty field is a chapter-level
// citation and returns (0, 0, true). A field that does not parse, or holds a
// number too large for an int, returns ok false.
func ParseVerseField(s string) (start, end int, ok bool) {
	if s == "" {
		return 0, 0, true
	}
	v, err := verseParser.ParseString("", s)
	if err != nil {
		return 0, 0, false
	}
	nums, err := v.numbers()
	if err != nil {
		return 0, 0, false
	}
	first, last := nums[0], nums[len(nums)-1]
	if last == first {
		return first, 0, true
	}
	return first, last, true
}
