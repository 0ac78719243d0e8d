package linearize

import (
	"io"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
)

// anyElement matches element nodes only, which tells an element apart from a
// doctype node reporting the same name.
var anyElement = goquery.Single("*")

// HTMLNode adapts a single-node goquery selection to the Node interface.
type HTMLNode struct {
	sel *goquery.Selection
}

// WrapHTML wraps the first node of a goquery selection.
func WrapHTML(sel *goquery.Selection) *HTMLNode {
	return &HTMLNode{sel: sel.First()}
}

func (n *HTMLNode) Kind() Kind {
	switch name := goquery.NodeName(n.sel); {
	case name == "#document":
		return KindDocument
	case name == "#text":
		return KindText
	case name == "" || strings.HasPrefix(name, "#"):
		return KindOther
	case n.sel.IsMatcher(anyElement):
		return KindElement
	default:
		return KindOther
	}
}

func (n *HTMLNode) Name() string {
	if n.Kind() != KindElement {
		return ""
	}
	return goquery.NodeName(n.sel)
}

func (n *HTMLNode) Text() string {
	if n.Kind() != KindText {
		return ""
	}
	return n.sel.Text()
}

func (n *HTMLNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *HTMLNode) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, c := range n.sel.Contents().EachIter() {
			if !yield(&HTMLNode{sel: c}) {
				return
			}
		}
	}
}

// ParseHTML parses an HTML page with goquery.
func ParseHTML(r io.Reader) (*HTMLNode, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &errors.ParseError{Format: "HTML", Message: err.Error(), Err: err}
	}
	return &HTMLNode{sel: doc.Selection}, nil
}
