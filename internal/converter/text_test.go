package converter

import (
	"strings"
	"testing"
)

func TestTextConverter_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	out, err := (&TextConverter{}).Convert(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "<p>First paragraph line one.\nFirst paragraph line two.</p>\n" +
		"<p>Second paragraph.</p>\n" +
		"<p>Third paragraph.</p>\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestTextConverter_EscapesMarkup(t *testing.T) {
	out, err := (&TextConverter{}).Convert(strings.NewReader("a < b && <script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("expected markup to be escaped, got %q", out)
	}
	if !strings.Contains(out, "a &lt; b &amp;&amp;") {
		t.Errorf("expected escaped text, got %q", out)
	}
}

func TestTextConverter_EmptyInput(t *testing.T) {
	out, err := (&TextConverter{}).Convert(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestTextConverter_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n   \nPara two."
	out, err := (&TextConverter{}).Convert(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(out, "<p>"); n != 2 {
		t.Fatalf("expected 2 paragraphs, got %d in %q", n, out)
	}
}
