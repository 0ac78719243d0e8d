package linearize

import (
	"encoding/xml"
	"io"
	"iter"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
)

// XMLNode adapts an xmlquery node to the Node interface.
type XMLNode struct {
	node *xmlquery.Node
}

// WrapXML wraps an xmlquery node.
func WrapXML(n *xmlquery.Node) *XMLNode {
	return &XMLNode{node: n}
}

// Unwrap returns the underlying xmlquery node.
func (n *XMLNode) Unwrap() *xmlquery.Node {
	return n.node
}

func (n *XMLNode) Kind() Kind {
	switch n.node.Type {
	case xmlquery.DocumentNode:
		return KindDocument
	case xmlquery.ElementNode:
		return KindElement
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return KindText
	default:
		return KindOther
	}
}

func (n *XMLNode) Name() string {
	if n.node.Type != xmlquery.ElementNode {
		return ""
	}
	return n.node.Data
}

func (n *XMLNode) Text() string {
	if n.Kind() != KindText {
		return ""
	}
	return n.node.Data
}

func (n *XMLNode) Attr(name string) (string, bool) {
	for _, a := range n.node.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *XMLNode) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for c := n.node.FirstChild; c != nil; c = c.NextSibling {
			if !yield(&XMLNode{node: c}) {
				return
			}
		}
	}
}

// ParseXML parses a ThML document. The decoder is lenient: it knows the HTML
// entities, accepts unquoted attributes and closes the usual HTML void
// elements, so most real-world ThML parses. A document that still cannot be
// turned into a tree is reported as a *errors.ParseError.
func ParseXML(r io.Reader) (*XMLNode, error) {
	root, err := xmlquery.ParseWithOptions(r, xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict:    false,
			AutoClose: xml.HTMLAutoClose,
			Entity:    xml.HTMLEntity,
		},
	})
	if err != nil {
		return nil, &errors.ParseError{Format: "ThML", Message: err.Error(), Err: err}
	}
	return &XMLNode{node: root}, nil
}
