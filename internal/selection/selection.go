// Package selection tracks the reader's text selection and decides where the
// highlight action menu goes.
package selection

import "strings"

// Rect is a bounding rectangle in page coordinates, as measured by the client.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Selection is the current text selection over the active surface. Anchor and
// Focus are rune offsets into the surface text.
type Selection struct {
	Anchor    int  `json:"anchor"`
	Focus     int  `json:"focus"`
	InSurface bool `json:"in_surface"`
	Rect      Rect `json:"rect"`
}

// Collapsed reports whether the selection is a caret with no extent.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// Ordered returns the selection bounds in ascending order.
func (s Selection) Ordered() (start, end int) {
	if s.Anchor <= s.Focus {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

// MenuState is the action menu's visibility and position.
type MenuState struct {
	Visible bool    `json:"visible"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
}

// Hidden is the menu state for no actionable selection.
var Hidden = MenuState{}

const (
	DefaultOffset    = 50
	DefaultMenuWidth = 160
)

// Tracker computes menu placement. The zero value uses the default offset and width.
type Tracker struct {
	Offset    float64 // distance above the selection's top edge
	MenuWidth float64
}

// Observe recomputes the menu state for sel. It keeps no state between calls.
func (t Tracker) Observe(sel Selection, textLen int) MenuState {
	if sel.Collapsed() || !sel.InSurface {
		return Hidden
	}
	if sel.Anchor < 0 || sel.Anchor > textLen {
		return Hidden
	}

	offset := t.Offset
	if offset == 0 {
		offset = DefaultOffset
	}
	width := t.MenuWidth
	if width == 0 {
		width = DefaultMenuWidth
	}

	return MenuState{
		Visible: true,
		Top:     sel.Rect.Top - offset,
		Left:    sel.Rect.Left + sel.Rect.Width/2 - width/2,
	}
}

// Key is a keystroke delivered to the reading surface.
type Key struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

// AllowKey reports whether a keystroke may reach the surface. The surface is
// read-only, so only the copy, select-all and cut shortcuts pass.
func AllowKey(k Key) bool {
	if !k.Ctrl && !k.Meta {
		return false
	}
	switch strings.ToLower(k.Key) {
	case "c", "a", "x":
		return true
	}
	return false
}
