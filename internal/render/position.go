package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bias picks between the two text nodes that touch at a node boundary.
type Bias int

const (
	// BiasForward resolves to the node that starts at the offset (range starts).
	BiasForward Bias = iota
	// BiasBackward resolves to the node that ends at the offset (range ends).
	BiasBackward
)

// Point is a position inside a text node; Offset is a byte offset into Node.Data.
type Point struct {
	Node   *html.Node
	Offset int
}

// Range is an ordered, non-empty span of surface text.
type Range struct {
	Start, End Point
	From, To   int // rune offsets into the surface text
}

// Locate maps a rune offset into the surface text to a Point.
func (s *Surface) Locate(offset int, bias Bias) (Point, error) {
	if offset < 0 {
		return Point{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	pos := 0
	for _, n := range s.TextNodes() {
		l := utf8.RuneCountInString(n.Data)
		if l == 0 {
			continue
		}
		switch bias {
		case BiasForward:
			if offset < pos+l {
				return Point{Node: n, Offset: byteOffset(n.Data, offset-pos)}, nil
			}
		case BiasBackward:
			if offset > pos && offset <= pos+l {
				return Point{Node: n, Offset: byteOffset(n.Data, offset-pos)}, nil
			}
		}
		pos += l
	}
	return Point{}, fmt.Errorf("%w: %d (text length %d)", ErrOffsetOutOfRange, offset, pos)
}

// Range resolves two rune offsets, in either order, to an ordered Range.
func (s *Surface) Range(a, b int) (Range, error) {
	if a > b {
		a, b = b, a
	}
	if a == b {
		return Range{}, fmt.Errorf("%w: empty range at %d", ErrOffsetOutOfRange, a)
	}
	start, err := s.Locate(a, BiasForward)
	if err != nil {
		return Range{}, err
	}
	end, err := s.Locate(b, BiasBackward)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end, From: a, To: b}, nil
}

// Isolate splits the boundary text nodes of r so that the range covers whole
// text nodes, and returns those nodes in document order. r must not be used
// after Isolate returns.
func (s *Surface) Isolate(r Range) []*html.Node {
	endNode := r.End.Node
	splitText(endNode, r.End.Offset)
	first := splitText(r.Start.Node, r.Start.Offset)
	last := endNode
	if r.Start.Node == endNode {
		last = first
	}

	var out []*html.Node
	collecting := false
	for _, n := range s.TextNodes() {
		if n == first {
			collecting = true
		}
		if collecting {
			out = append(out, n)
		}
		if n == last {
			break
		}
	}
	return out
}

// splitText cuts n at byte offset off. n keeps the leading part; the returned
// node holds the trailing part. Splitting at 0 returns n itself and splitting
// at the end returns nil.
func splitText(n *html.Node, off int) *html.Node {
	if off <= 0 {
		return n
	}
	if off >= len(n.Data) {
		return nil
	}
	tail := &html.Node{Type: html.TextNode, Data: n.Data[off:]}
	n.Data = n.Data[:off]
	n.Parent.InsertBefore(tail, n.NextSibling)
	return tail
}

func byteOffset(s string, runes int) int {
	i := 0
	for runes > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		runes--
	}
	return i
}

var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Caption: true, atom.Dd: true, atom.Details: true,
	atom.Dialog: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hgroup: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true,
	atom.Tr: true, atom.Ul: true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if n.DataAtom != 0 {
		return blockAtoms[n.DataAtom]
	}
	return blockAtoms[atom.Lookup([]byte(strings.ToLower(n.Data)))]
}

// ContainsBlock reports whether n is, or has a descendant that is, a block element.
func ContainsBlock(n *html.Node) bool {
	if IsBlock(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ContainsBlock(c) {
			return true
		}
	}
	return false
}

// AcceptsInline reports whether inline content may be placed directly inside n.
// Table structure elements and lists only take their own row or item children.
func AcceptsInline(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Table, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr,
		atom.Colgroup, atom.Ul, atom.Ol, atom.Dl, atom.Select:
		return false
	}
	return true
}
