package selection

import "testing"

func TestObserve(t *testing.T) {
	rect := Rect{Top: 200, Left: 100, Width: 80, Height: 20}
	tests := []struct {
		name string
		sel  Selection
		want MenuState
	}{
		{"collapsed", Selection{Anchor: 3, Focus: 3, InSurface: true, Rect: rect}, Hidden},
		{"outside surface", Selection{Anchor: 1, Focus: 4, Rect: rect}, Hidden},
		{"anchor past text", Selection{Anchor: 40, Focus: 2, InSurface: true, Rect: rect}, Hidden},
		{"visible", Selection{Anchor: 1, Focus: 4, InSurface: true, Rect: rect}, MenuState{Visible: true, Top: 150, Left: 60}},
		{"backwards", Selection{Anchor: 4, Focus: 1, InSurface: true, Rect: rect}, MenuState{Visible: true, Top: 150, Left: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tracker{}.Observe(tt.sel, 10)
			if got != tt.want {
				t.Errorf("Observe() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestObserve_CustomTracker(t *testing.T) {
	tr := Tracker{Offset: 10, MenuWidth: 40}
	got := tr.Observe(Selection{Anchor: 0, Focus: 2, InSurface: true, Rect: Rect{Top: 30, Left: 0, Width: 100}}, 5)
	want := MenuState{Visible: true, Top: 20, Left: 30}
	if got != want {
		t.Errorf("Observe() = %+v, want %+v", got, want)
	}
}

func TestOrdered(t *testing.T) {
	start, end := Selection{Anchor: 9, Focus: 2}.Ordered()
	if start != 2 || end != 9 {
		t.Errorf("Ordered() = (%d, %d), want (2, 9)", start, end)
	}
}

func TestAllowKey(t *testing.T) {
	tests := []struct {
		key  Key
		want bool
	}{
		{Key{Key: "c", Ctrl: true}, true},
		{Key{Key: "A", Meta: true}, true},
		{Key{Key: "x", Ctrl: true}, true},
		{Key{Key: "v", Ctrl: true}, false},
		{Key{Key: "c"}, false},
		{Key{Key: "Backspace"}, false},
		{Key{Key: "Enter", Ctrl: true}, false},
	}
	for _, tt := range tests {
		if got := AllowKey(tt.key); got != tt.want {
			t.Errorf("AllowKey(%+v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
