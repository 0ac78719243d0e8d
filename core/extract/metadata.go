package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/JuniperCitations/core/linearize"
)

// Metadata is the bibliographic header of a ThML document.
type Metadata struct {
	Title    string
	Author   string
	AuthorID string
	BookID   string
	// Year is 0 when no plausible year was found.
	Year int
}

// URL returns the CCEL address of the work, or "" when either identifier is
// missing.
func (m Metadata) URL() string {
	if m.AuthorID == "" || m.BookID == "" {
		return ""
	}
	return "https://ccel.org/ccel/" + m.AuthorID + "/" + m.BookID
}

var (
	xpTitle    = xpath.MustCompile(`//*[local-name()='DC.Title']`)
	xpCreator  = xpath.MustCompile(`//*[local-name()='DC.Creator']`)
	xpAuthorID = xpath.MustCompile(`//*[local-name()='authorID']`)
	xpBookID   = xpath.MustCompile(`//*[local-name()='bookID']`)
	xpDate     = xpath.MustCompile(`//*[local-name()='DC.Date']`)
)

// yearPattern accepts years 100 through 1999.
var yearPattern = regexp.MustCompile(`\b(1\d{3}|[2-9]\d{2})\b`)

// preferredDates are DC.Date sub attributes naming when a work was written.
var preferredDates = map[string]bool{
	"published": true,
	"original":  true,
	"written":   true,
	"composed":  true,
}

// ReadMetadata pulls the DC.Title, DC.Creator, DC.Date, authorID and bookID
// fields out of a parsed ThML tree. Missing fields are left empty.
func ReadMetadata(root *linearize.XMLNode) Metadata {
	top := root.Unwrap()
	m := Metadata{
		Title:    firstText(top, xpTitle),
		AuthorID: firstText(top, xpAuthorID),
		BookID:   firstText(top, xpBookID),
	}
	if c := firstText(top, xpCreator); c != "" {
		m.Author = NormalizeCreator(c)
	}

	for _, n := range xmlquery.QuerySelectorAll(top, xpDate) {
		ym := yearPattern.FindStringSubmatch(n.InnerText())
		if ym == nil {
			continue
		}
		year, _ := strconv.Atoi(ym[1])
		if preferredDates[strings.ToLower(n.SelectAttr("sub"))] {
			m.Year = year
			break
		}
		if m.Year == 0 {
			m.Year = year
		}
	}
	return m
}

func firstText(top *xmlquery.Node, expr *xpath.Expr) string {
	for _, n := range xmlquery.QuerySelectorAll(top, expr) {
		if s := strings.TrimSpace(n.InnerText()); s != "" {
			return s
		}
	}
	return ""
}

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	lifeDates     = regexp.MustCompile(`\b\d{3,4}\s*[-–]\s*\d{0,4}\b|\b(?:b|d|fl|ca?)\.\s*\d{3,4}\b|\b\d{3,4}\b`)
	runOfSpace    = regexp.MustCompile(`\s+`)
)

// NormalizeCreator turns a catalogue-style creator such as
// "Kempis, Thomas à, 1380-1471" into "Thomas à Kempis".
func NormalizeCreator(raw string) string {
	s := parenthetical.ReplaceAllString(raw, "")
	s = lifeDates.ReplaceAllString(s, "")
	s = runOfSpace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " ,;.-?")

	if last, rest, ok := strings.Cut(s, ","); ok {
		first, _, _ := strings.Cut(rest, ",")
		first = strings.TrimSpace(first)
		last = strings.TrimSpace(last)
		if first != "" {
			s = first + " " + last
		} else {
			s = last
		}
	}
	return strings.TrimSpace(runOfSpace.ReplaceAllString(s, " "))
}
