package converter

import (
	"bytes"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownConverter renders Markdown with goldmark. Raw HTML in the source is
// passed through, matching what readers expect from GitHub-flavored Markdown.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter builds a GFM renderer with heading anchors, optionally
// with chroma code coloring.
func NewMarkdownConverter(highlightCode bool) *MarkdownConverter {
	exts := []goldmark.Extender{extension.GFM}
	if highlightCode {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}
	return &MarkdownConverter{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

func (c *MarkdownConverter) Convert(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
