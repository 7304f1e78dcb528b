package highlight

import (
	"testing"

	"github.com/dgallion1/docreader/internal/render"
	"github.com/dgallion1/docreader/internal/selection"
	"golang.org/x/net/html"
)

const greenSegment = `<span class="highlight-green" style="background-color: #86efac">`

func parse(t *testing.T, content string) *render.Surface {
	t.Helper()
	s, err := render.Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func sel(from, to int) selection.Selection {
	return selection.Selection{Anchor: from, Focus: to, InSurface: true}
}

func TestApply_SingleRunWrap(t *testing.T) {
	s := parse(t, `<p>hello world</p>`)
	before := s.Text()

	strategy, err := Apply(s, sel(6, 11), Green)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strategy != StrategyWrap {
		t.Errorf("strategy = %q, want %q", strategy, StrategyWrap)
	}
	want := `<p>hello <span class="highlight-green">world</span></p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if got := s.Text(); got != before {
		t.Errorf("text changed: %q -> %q", before, got)
	}
	if n := len(s.Spans(IsAnnotation)); n != 1 {
		t.Errorf("expected 1 annotation, got %d", n)
	}
}

func TestApply_WrapAcrossInlineSiblings(t *testing.T) {
	s := parse(t, `<p>a <b>bold</b> c</p>`)
	strategy, err := Apply(s, sel(0, 8), Blue)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strategy != StrategyWrap {
		t.Errorf("strategy = %q, want %q", strategy, StrategyWrap)
	}
	want := `<p><span class="highlight-blue">a <b>bold</b> c</span></p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestApply_WrapInsideInlineElement(t *testing.T) {
	s := parse(t, `<p>a <b>bold</b> c</p>`)
	if _, err := Apply(s, sel(2, 4), Pink); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := `<p>a <b><span class="highlight-pink">bo</span>ld</b> c</p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestApply_SegmentsAcrossParagraphs(t *testing.T) {
	s := parse(t, `<p>first para</p><p>second para</p>`)
	before := s.Text()

	strategy, err := Apply(s, sel(6, 16), Green)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strategy != StrategySegment {
		t.Errorf("strategy = %q, want %q", strategy, StrategySegment)
	}
	want := `<p>first ` + greenSegment + `para</span></p><p>` + greenSegment + `second</span> para</p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if got := s.Text(); got != before {
		t.Errorf("text changed: %q -> %q", before, got)
	}
	for _, sp := range s.Spans(IsAnnotation) {
		for c := sp.Node.FirstChild; c != nil; c = c.NextSibling {
			if render.ContainsBlock(c) {
				t.Errorf("annotation wraps a block element: %q", c.Data)
			}
		}
	}
}

func TestApply_SegmentLiftsWholeInlineElements(t *testing.T) {
	s := parse(t, `<p>a <b>bold</b></p><p>c</p>`)
	if _, err := Apply(s, sel(2, 7), Green); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := `<p>a ` + greenSegment + `<b>bold</b></span></p><p>` + greenSegment + `c</span></p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestApply_SegmentAcrossListItems(t *testing.T) {
	s := parse(t, `<ul><li>one</li><li>two</li></ul>`)
	strategy, err := Apply(s, sel(1, 5), Yellow)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strategy != StrategySegment {
		t.Errorf("strategy = %q, want %q", strategy, StrategySegment)
	}
	spans := s.Spans(IsAnnotation)
	if len(spans) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(spans))
	}
	for _, sp := range spans {
		if sp.Node.Parent.Data != "li" {
			t.Errorf("fragment parent = %q, want li", sp.Node.Parent.Data)
		}
	}
}

func TestApply_CollapsedIsNoop(t *testing.T) {
	s := parse(t, `<p>hello</p>`)
	strategy, err := Apply(s, sel(2, 2), Green)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strategy != StrategyNone {
		t.Errorf("strategy = %q, want %q", strategy, StrategyNone)
	}
	if got := s.HTML(); got != `<p>hello</p>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestApply_UnknownColor(t *testing.T) {
	s := parse(t, `<p>hello</p>`)
	if _, err := Apply(s, sel(0, 2), Color("orange")); err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestRemove_RestoresOriginal(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		from, to int
	}{
		{"wrap", `<p>hello world</p>`, 6, 11},
		{"segment", `<p>first para</p><p>second para</p>`, 6, 16},
		{"inline", `<p>a <b>bold</b> c</p>`, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parse(t, tt.content)
			if _, err := Apply(s, sel(tt.from, tt.to), Pink); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if n := Remove(s, sel(tt.from, tt.to)); n == 0 {
				t.Fatal("Remove found no annotations")
			}
			if got := s.HTML(); got != tt.content {
				t.Errorf("HTML() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestRemove_PartialOverlapRemovesWholeAnnotation(t *testing.T) {
	s := parse(t, `<p>ab<span class="highlight-yellow">cdef</span>gh</p>`)
	if n := Remove(s, sel(1, 3)); n != 1 {
		t.Fatalf("Remove = %d, want 1", n)
	}
	if got := s.HTML(); got != `<p>abcdefgh</p>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestRemove_LeavesDisjointAnnotations(t *testing.T) {
	in := `<p><span class="highlight-yellow">ab</span>cd<span class="highlight-blue">ef</span></p>`
	s := parse(t, in)
	if n := Remove(s, sel(2, 4)); n != 0 {
		t.Errorf("Remove = %d, want 0", n)
	}
	if got := s.HTML(); got != in {
		t.Errorf("HTML() = %q, want %q", got, in)
	}
}

func TestRemove_DetectsInlineBackground(t *testing.T) {
	s := parse(t, `<p><span style="background-color: rgb(134, 239, 172)">x</span>y<span style="color: red">z</span></p>`)
	if n := Remove(s, sel(0, 3)); n != 1 {
		t.Fatalf("Remove = %d, want 1", n)
	}
	want := `<p>xy<span style="color: red">z</span></p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestPlan_DifferentParents(t *testing.T) {
	s := parse(t, `<p>ab</p><p>cd</p>`)
	r, err := s.Range(1, 3)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if got := Plan(r); got != StrategySegment {
		t.Errorf("Plan() = %q, want %q", got, StrategySegment)
	}
}

func TestParseColor(t *testing.T) {
	for _, in := range []string{"green", "highlight-green", " Green "} {
		c, err := ParseColor(in)
		if err != nil || c != Green {
			t.Errorf("ParseColor(%q) = (%q, %v), want green", in, c, err)
		}
	}
	if _, err := ParseColor("highlight-orange"); err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestIsAnnotation(t *testing.T) {
	tests := []struct {
		markup string
		want   bool
	}{
		{`<span class="highlight-blue">x</span>`, true},
		{`<span class="note highlight-pink">x</span>`, true},
		{`<span style="background: #fde047">x</span>`, true},
		{`<span class="highlight-orange">x</span>`, false},
		{`<span style="background-color: #000">x</span>`, false},
		{`<em class="highlight-blue">x</em>`, false},
	}
	for _, tt := range tests {
		s := parse(t, tt.markup)
		n := s.Root().FirstChild
		if n == nil || n.Type != html.ElementNode {
			t.Fatalf("unexpected parse of %q", tt.markup)
		}
		if got := IsAnnotation(n); got != tt.want {
			t.Errorf("IsAnnotation(%q) = %v, want %v", tt.markup, got, tt.want)
		}
	}
}

func TestApply_OverExistingHighlightNests(t *testing.T) {
	s := parse(t, `<p>hello world</p>`)
	if _, err := Apply(s, sel(6, 11), Yellow); err != nil {
		t.Fatalf("Apply yellow: %v", err)
	}
	if _, err := Apply(s, sel(6, 11), Green); err != nil {
		t.Fatalf("Apply green: %v", err)
	}
	want := `<p>hello <span class="highlight-yellow"><span class="highlight-green">world</span></span></p>`
	if got := s.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if n := Remove(s, sel(6, 11)); n != 2 {
		t.Errorf("Remove = %d, want 2", n)
	}
	if got := s.HTML(); got != `<p>hello world</p>` {
		t.Errorf("HTML() after remove = %q", got)
	}
}
