// Package linearize flattens a marked-up document into plain prose while
// recording where each citation marker falls in the flattened text.
//
// The walk works over a small Node interface so the same rules apply to ThML
// parsed with xmlquery and to HTML parsed with goquery. Suppressed elements
// (headings, notes, page markers) drop their own text and their descendants'
// text, but text that follows a suppressed element's closing tag belongs to
// the parent and is kept.
package linearize

import (
	"iter"
	"strings"
)

// Kind classifies a tree node.
type Kind int

const (
	// KindOther covers comments, processing instructions and declarations.
	KindOther Kind = iota
	// KindDocument is the root of a parsed tree.
	KindDocument
	// KindElement is a tagged element.
	KindElement
	// KindText is character data, including CDATA sections.
	KindText
)

// Node is the tree the linearizer walks.
type Node interface {
	Kind() Kind
	// Name is the local element name, without namespace prefix.
	Name() string
	// Text is the character data of a text node.
	Text() string
	Attr(name string) (string, bool)
	Children() iter.Seq[Node]
}

// Options control which elements are suppressed and which are markers.
type Options struct {
	// Suppress lists element names whose content is dropped.
	Suppress map[string]bool
	// Blocks lists element names followed by a paragraph break.
	Blocks map[string]bool
	// Marker is the element name of citation markers. Empty disables markers.
	Marker string
	// PayloadAttr is the marker attribute holding the structured payload.
	PayloadAttr string
}

// ThMLOptions returns the rules for ThML documents.
func ThMLOptions() Options {
	return Options{
		Suppress: set(
			"ThML.head",
			"head",
			"note",
			"scripCom",
			"index",
			"pb",
			"milestone",
		),
		Marker:      "scripRef",
		PayloadAttr: "parsed",
	}
}

// HTMLOptions returns the rules for plain HTML pages: no markers, scripts
// and navigation dropped, block elements separated by blank lines.
func HTMLOptions() Options {
	return Options{
		Suppress: set("head", "script", "style", "title", "noscript", "nav", "header", "footer", "aside", "sup"),
		Blocks: set(
			"p", "div", "section", "article", "blockquote", "li",
			"h1", "h2", "h3", "h4", "h5", "h6", "pre", "table", "tr",
		),
	}
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Marker is a citation marker and its byte offset in Document.Text.
type Marker struct {
	Node   Node
	Offset int
}

// Document is the flattened text of a tree and its markers in document order.
type Document struct {
	Text    string
	Markers []Marker

	payloadAttr string
}

// PayloadOf returns the structured payload carried by a marker, or "".
func (d *Document) PayloadOf(m Marker) string {
	if d.payloadAttr == "" || m.Node == nil {
		return ""
	}
	v, _ := m.Node.Attr(d.payloadAttr)
	return strings.TrimSpace(v)
}

// Linearize walks root in document order and returns its flattened text.
func Linearize(root Node, opts Options) *Document {
	w := &walker{opts: opts}
	if root != nil {
		w.visit(root, false)
	}
	return &Document{
		Text:        w.out.String(),
		Markers:     w.markers,
		payloadAttr: opts.PayloadAttr,
	}
}

// walker carries the output buffer through the recursion. The buffer is
// append-only, so its length is the offset of the next character written.
type walker struct {
	opts    Options
	out     strings.Builder
	markers []Marker
}

func (w *walker) visit(n Node, suppressed bool) {
	switch n.Kind() {
	case KindText:
		if !suppressed {
			w.out.WriteString(n.Text())
		}

	case KindDocument:
		for c := range n.Children() {
			w.visit(c, suppressed)
		}

	case KindElement:
		name := n.Name()
		inner := suppressed || w.opts.Suppress[name]
		if !inner && w.opts.Marker != "" && name == w.opts.Marker {
			w.markers = append(w.markers, Marker{Node: n, Offset: w.out.Len()})
		}
		for c := range n.Children() {
			w.visit(c, inner)
		}
		if !inner && w.opts.Blocks[name] {
			w.paragraphBreak()
		}
	}
}

// paragraphBreak ends the current block with a blank line unless the output
// is empty or already ends with one.
func (w *walker) paragraphBreak() {
	s := w.out.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		w.out.WriteByte('\n')
		return
	}
	w.out.WriteString("\n\n")
}
