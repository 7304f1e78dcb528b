package highlight

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Color is one of the fixed annotation colors.
type Color string

const (
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Pink   Color = "pink"
)

// Colors lists the palette in display order.
var Colors = []Color{Yellow, Green, Blue, Pink}

var hex = map[Color]string{
	Yellow: "#fde047",
	Green:  "#86efac",
	Blue:   "#93c5fd",
	Pink:   "#f9a8d4",
}

// rgb forms are what browsers write back for background colors.
var rgb = map[Color]string{
	Yellow: "rgb(253, 224, 71)",
	Green:  "rgb(134, 239, 172)",
	Blue:   "rgb(147, 197, 253)",
	Pink:   "rgb(249, 168, 212)",
}

const classPrefix = "highlight-"

// Class returns the tag name carried by annotation nodes, e.g. "highlight-green".
func (c Color) Class() string {
	return classPrefix + string(c)
}

// Hex returns the background color for c.
func (c Color) Hex() string {
	return hex[c]
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	_, ok := hex[c]
	return ok
}

// ParseColor accepts either the bare name ("green") or the tag name ("highlight-green").
func ParseColor(s string) (Color, error) {
	c := Color(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), classPrefix))
	if !c.Valid() {
		return "", fmt.Errorf("unknown highlight color %q", s)
	}
	return c, nil
}

// IsAnnotation reports whether n is an annotation node: a <span> tagged with a
// highlight class, or one whose inline background is a palette color.
func IsAnnotation(n *html.Node) bool {
	_, ok := annotationColor(n)
	return ok
}

func annotationColor(n *html.Node) (Color, bool) {
	if n == nil || n.Type != html.ElementNode || n.Data != "span" {
		return "", false
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			for _, cls := range strings.Fields(a.Val) {
				if c := Color(strings.TrimPrefix(cls, classPrefix)); strings.HasPrefix(cls, classPrefix) && c.Valid() {
					return c, true
				}
			}
		case "style":
			if c, ok := styleColor(a.Val); ok {
				return c, true
			}
		}
	}
	return "", false
}

func styleColor(style string) (Color, bool) {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "background-color" && k != "background" {
			continue
		}
		v = strings.ToLower(strings.TrimSpace(v))
		for _, c := range Colors {
			if v == hex[c] || v == rgb[c] {
				return c, true
			}
		}
	}
	return "", false
}
