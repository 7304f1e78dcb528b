// Package highlight applies and removes colored annotations on a render surface.
package highlight

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docreader/internal/render"
	"github.com/dgallion1/docreader/internal/selection"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Strategy is how a highlight is realized in the tree.
type Strategy string

const (
	// StrategyNone means nothing was changed.
	StrategyNone Strategy = "none"
	// StrategyWrap inserts one span around a run confined to a single inline context.
	StrategyWrap Strategy = "wrap"
	// StrategySegment colors each block-level fragment of the selection separately.
	StrategySegment Strategy = "segment"
)

// Plan decides, before any mutation, whether r can be wrapped in a single
// inline node. A wrap is valid when both ends sit under the same parent, that
// parent accepts inline content, and nothing between them is a block.
func Plan(r render.Range) Strategy {
	start, end := r.Start.Node, r.End.Node
	if start == end {
		if render.AcceptsInline(start.Parent) {
			return StrategyWrap
		}
		return StrategySegment
	}
	if start.Parent != end.Parent || !render.AcceptsInline(start.Parent) {
		return StrategySegment
	}
	for n := start.NextSibling; n != nil && n != end; n = n.NextSibling {
		if render.ContainsBlock(n) {
			return StrategySegment
		}
	}
	return StrategyWrap
}

// Apply highlights the selected text on s with color c. A collapsed selection
// is a no-op.
func Apply(s *render.Surface, sel selection.Selection, c Color) (Strategy, error) {
	if !c.Valid() {
		return StrategyNone, fmt.Errorf("unknown highlight color %q", c)
	}
	if sel.Collapsed() {
		return StrategyNone, nil
	}
	from, to := sel.Ordered()
	r, err := s.Range(from, to)
	if err != nil {
		return StrategyNone, fmt.Errorf("resolve selection: %w", err)
	}

	strategy := Plan(r)
	nodes := s.Isolate(r)
	switch strategy {
	case StrategyWrap:
		render.WrapRun(nodes[0], nodes[len(nodes)-1], wrapSpan(c))
	case StrategySegment:
		colorize(nodes, c)
	}
	return strategy, nil
}

// Remove strips every annotation whose text intersects the selection and
// returns how many were removed. Text content is left untouched.
func Remove(s *render.Surface, sel selection.Selection) int {
	if sel.Collapsed() {
		return 0
	}
	from, to := sel.Ordered()

	var hit []*html.Node
	for _, sp := range s.Spans(IsAnnotation) {
		if sp.From < to && from < sp.To {
			hit = append(hit, sp.Node)
		}
	}
	for _, n := range hit {
		render.Unwrap(n)
	}
	if len(hit) > 0 {
		s.Normalize()
	}
	return len(hit)
}

func wrapSpan(c Color) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: c.Class()}},
	}
}

func segmentSpan(c Color) *html.Node {
	n := wrapSpan(c)
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "background-color: " + c.Hex()})
	return n
}

// colorize wraps each fragment of the isolated text nodes. A fragment is a run
// of siblings with no block between them, after lifting each text node to the
// highest inline ancestor whose text is entirely selected.
func colorize(nodes []*html.Node, c Color) {
	selected := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		selected[n] = true
	}

	var lifted []*html.Node
	for _, n := range nodes {
		if strings.TrimSpace(n.Data) == "" || !render.AcceptsInline(n.Parent) {
			continue
		}
		top := n
		for p := top.Parent; p != nil && p.Type == html.ElementNode && !render.IsBlock(p) && !render.ContainsBlock(p) && fullySelected(p, selected); p = p.Parent {
			top = p
		}
		if len(lifted) > 0 && lifted[len(lifted)-1] == top {
			continue
		}
		lifted = append(lifted, top)
	}

	for i := 0; i < len(lifted); {
		first, last := lifted[i], lifted[i]
		j := i + 1
		for j < len(lifted) && adjacentRun(last, lifted[j]) {
			last = lifted[j]
			j++
		}
		render.WrapRun(first, last, segmentSpan(c))
		i = j
	}
}

// adjacentRun reports whether b follows a under the same parent with no block in between.
func adjacentRun(a, b *html.Node) bool {
	if a.Parent != b.Parent {
		return false
	}
	for n := a.NextSibling; n != nil; n = n.NextSibling {
		if n == b {
			return true
		}
		if render.ContainsBlock(n) {
			return false
		}
	}
	return false
}

// fullySelected reports whether every non-empty text node under n is selected.
func fullySelected(n *html.Node, selected map[*html.Node]bool) bool {
	ok := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if !ok {
			return
		}
		if n.Type == html.TextNode {
			if n.Data != "" && !selected[n] {
				ok = false
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return ok
}
