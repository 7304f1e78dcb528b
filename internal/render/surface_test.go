package render

import (
	"errors"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, content string) *Surface {
	t.Helper()
	s, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParse_RoundTrip(t *testing.T) {
	in := `<h1>Title</h1><p>Hello <b>world</b></p>`
	s := mustParse(t, in)
	if got := s.HTML(); got != in {
		t.Errorf("HTML() = %q, want %q", got, in)
	}
}

func TestText_CountsRunes(t *testing.T) {
	s := mustParse(t, `<p>héllo</p><p>wörld</p>`)
	if got := s.Text(); got != "héllowörld" {
		t.Errorf("Text() = %q", got)
	}
	if got := s.TextLen(); got != 10 {
		t.Errorf("TextLen() = %d, want 10", got)
	}
}

func TestLocate_BiasAtBoundary(t *testing.T) {
	s := mustParse(t, `<p>ab</p><p>cd</p>`)

	fwd, err := s.Locate(2, BiasForward)
	if err != nil {
		t.Fatalf("Locate forward: %v", err)
	}
	if fwd.Node.Data != "cd" || fwd.Offset != 0 {
		t.Errorf("forward = (%q, %d), want (\"cd\", 0)", fwd.Node.Data, fwd.Offset)
	}

	back, err := s.Locate(2, BiasBackward)
	if err != nil {
		t.Fatalf("Locate backward: %v", err)
	}
	if back.Node.Data != "ab" || back.Offset != 2 {
		t.Errorf("backward = (%q, %d), want (\"ab\", 2)", back.Node.Data, back.Offset)
	}
}

func TestLocate_MultibyteOffset(t *testing.T) {
	s := mustParse(t, `<p>héllo</p>`)
	p, err := s.Locate(2, BiasForward)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if p.Offset != 3 {
		t.Errorf("byte offset = %d, want 3", p.Offset)
	}
}

func TestRange_Errors(t *testing.T) {
	s := mustParse(t, `<p>abc</p>`)
	if _, err := s.Range(1, 1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("empty range: expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := s.Range(0, 9); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("past end: expected ErrOffsetOutOfRange, got %v", err)
	}
	r, err := s.Range(3, 1)
	if err != nil {
		t.Fatalf("reversed range: %v", err)
	}
	if r.From != 1 || r.To != 3 {
		t.Errorf("reversed range = [%d, %d), want [1, 3)", r.From, r.To)
	}
}

func TestIsolate_SingleNode(t *testing.T) {
	s := mustParse(t, `<p>hello world</p>`)
	r, err := s.Range(6, 11)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	nodes := s.Isolate(r)
	if len(nodes) != 1 || nodes[0].Data != "world" {
		t.Fatalf("Isolate = %v, want [world]", texts(nodes))
	}
	if got := s.HTML(); got != `<p>hello world</p>` {
		t.Errorf("Isolate changed markup: %q", got)
	}
	if got := len(s.TextNodes()); got != 2 {
		t.Errorf("expected 2 text nodes after split, got %d", got)
	}
}

func TestIsolate_AcrossBlocks(t *testing.T) {
	s := mustParse(t, `<p>first para</p><p>second para</p>`)
	r, err := s.Range(6, 16)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	got := texts(s.Isolate(r))
	if len(got) != 2 || got[0] != "para" || got[1] != "second" {
		t.Errorf("Isolate = %v, want [para second]", got)
	}
}

func TestNormalize_MergesAndDrops(t *testing.T) {
	s := mustParse(t, `<p>abc</p>`)
	p := s.Root().FirstChild
	p.AppendChild(&html.Node{Type: html.TextNode, Data: ""})
	p.AppendChild(&html.Node{Type: html.TextNode, Data: "def"})

	s.Normalize()

	if p.FirstChild != p.LastChild {
		t.Fatalf("expected a single text node after Normalize")
	}
	if p.FirstChild.Data != "abcdef" {
		t.Errorf("merged text = %q, want %q", p.FirstChild.Data, "abcdef")
	}
}

func TestUnwrap(t *testing.T) {
	s := mustParse(t, `<p>a<span>b<i>c</i></span>d</p>`)
	span := s.Root().FirstChild.FirstChild.NextSibling
	Unwrap(span)
	if got := s.HTML(); got != `<p>ab<i>c</i>d</p>` {
		t.Errorf("HTML() = %q", got)
	}
}

func TestSpans_Offsets(t *testing.T) {
	s := mustParse(t, `<p>ab<em>cd</em>e<em>f</em></p>`)
	spans := s.Spans(func(n *html.Node) bool { return n.Data == "em" })
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].From != 2 || spans[0].To != 4 {
		t.Errorf("first span = [%d, %d), want [2, 4)", spans[0].From, spans[0].To)
	}
	if spans[1].From != 5 || spans[1].To != 6 {
		t.Errorf("second span = [%d, %d), want [5, 6)", spans[1].From, spans[1].To)
	}
}

func TestBlockClassification(t *testing.T) {
	s := mustParse(t, `<p>x</p><ul><li>y</li></ul><b>z</b>`)
	p := s.Root().FirstChild
	ul := p.NextSibling
	b := ul.NextSibling

	if !IsBlock(p) || !IsBlock(ul) || IsBlock(b) {
		t.Errorf("IsBlock: p=%v ul=%v b=%v", IsBlock(p), IsBlock(ul), IsBlock(b))
	}
	if !ContainsBlock(ul) || ContainsBlock(b) {
		t.Errorf("ContainsBlock: ul=%v b=%v", ContainsBlock(ul), ContainsBlock(b))
	}
	if AcceptsInline(ul) || !AcceptsInline(ul.FirstChild) || !AcceptsInline(b) {
		t.Errorf("AcceptsInline: ul=%v li=%v b=%v", AcceptsInline(ul), AcceptsInline(ul.FirstChild), AcceptsInline(b))
	}
}

func texts(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Data
	}
	return out
}
