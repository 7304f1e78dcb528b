// Package export renders a committed document into a standalone HTML file.
package export

import (
	"bytes"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docreader/internal/session"
)

// Extension is the extension given to every exported file.
const Extension = ".html"

// ContentType is the MIME type of an export.
const ContentType = "text/html; charset=utf-8"

// StyleRules is the fixed style block embedded in every export.
const StyleRules = `body{font-family:sans-serif;max-width:800px;margin:2rem auto;line-height:1.6;color:#333}
.highlight-yellow{background:#fde047} .highlight-green{background:#86efac}
.highlight-blue{background:#93c5fd} .highlight-pink{background:#f9a8d4}
blockquote{border-left:4px solid #ccc;padding-left:1em;color:#666}
pre{background:#f4f4f4;padding:1em;border-radius:5px;overflow-x:auto}
img{max-width:100%}`

var page = template.Must(template.New("export").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.Style}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>`))

// Export is a rendered snapshot ready for download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Snapshot renders doc. The caller commits the live surface first.
func Snapshot(doc session.Document) (Export, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Style template.CSS
		Body  template.HTML
	}{
		Title: doc.Name,
		Style: template.CSS(StyleRules),
		Body:  template.HTML(doc.Content),
	})
	if err != nil {
		return Export{}, err
	}
	return Export{
		Filename:    Filename(doc.Name),
		ContentType: ContentType,
		Body:        buf.Bytes(),
	}, nil
}

// Filename swaps the document's extension for Extension, whatever it was.
func Filename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "document"
	}
	return base + Extension
}
