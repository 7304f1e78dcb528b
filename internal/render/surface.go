// Package render holds the live render tree of the active document.
//
// A Surface is an HTML fragment parsed with golang.org/x/net/html. Positions
// inside it are addressed by rune offsets into its text content, the same way a
// browser selection addresses characters regardless of markup.
package render

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrOffsetOutOfRange is returned when an offset does not fall inside the surface text.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// Surface is a mutable render tree rooted at a synthetic <div>.
type Surface struct {
	root *html.Node
}

// Parse builds a Surface from document markup.
func Parse(content string) (*Surface, error) {
	nodes, err := html.ParseFragment(strings.NewReader(content), newDiv())
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	root := newDiv()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Surface{root: root}, nil
}

func newDiv() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// Root returns the synthetic container element. Its children are the document.
func (s *Surface) Root() *html.Node {
	return s.root
}

// HTML serializes the document markup. This is the value stored on commit.
func (s *Surface) HTML() string {
	var buf strings.Builder
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on error nodes or void elements with children,
		// neither of which Parse or the highlight engine produce.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// Text returns the concatenated text content in document order.
func (s *Surface) Text() string {
	var buf strings.Builder
	for _, n := range s.TextNodes() {
		buf.WriteString(n.Data)
	}
	return buf.String()
}

// TextLen returns the length of Text in runes.
func (s *Surface) TextLen() int {
	total := 0
	for _, n := range s.TextNodes() {
		total += utf8.RuneCountInString(n.Data)
	}
	return total
}

// TextNodes returns every text node in document order.
func (s *Surface) TextNodes() []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(s.root)
	return out
}

// Contains reports whether n is part of this surface.
func (s *Surface) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == s.root {
			return true
		}
	}
	return false
}

// Span is an element together with the rune offsets its text covers.
type Span struct {
	Node     *html.Node
	From, To int
}

// Spans returns every element matching match with the text range it covers,
// in document order (outer elements before the elements they contain).
func (s *Surface) Spans(match func(*html.Node) bool) []Span {
	var out []Span
	pos := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			pos += utf8.RuneCountInString(n.Data)
			return
		}
		idx := -1
		if n.Type == html.ElementNode && n != s.root && match(n) {
			idx = len(out)
			out = append(out, Span{Node: n, From: pos})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if idx >= 0 {
			out[idx].To = pos
		}
	}
	walk(s.root)
	return out
}

// Normalize merges adjacent text nodes and drops empty ones.
func (s *Surface) Normalize() {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.TextNode {
				if c.Data == "" {
					n.RemoveChild(c)
					c = next
					continue
				}
				for next != nil && next.Type == html.TextNode {
					c.Data += next.Data
					after := next.NextSibling
					n.RemoveChild(next)
					next = after
				}
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(s.root)
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// WrapRun moves the sibling run first..last (inclusive) into wrapper, which
// takes the run's place in the tree.
func WrapRun(first, last, wrapper *html.Node) {
	parent := first.Parent
	parent.InsertBefore(wrapper, first)
	for n := first; n != nil; {
		next := n.NextSibling
		parent.RemoveChild(n)
		wrapper.AppendChild(n)
		if n == last {
			break
		}
		n = next
	}
}

// TextContent returns the raw (untrimmed) text under n.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
