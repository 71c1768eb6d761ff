package stats

import "testing"

func TestCyclicPaletteWraps(t *testing.T) {
	p := NewCyclicPalette(DefaultBarColors())
	n := p.Len()
	for i := 0; i < 3*n; i++ {
		if p.Color("", i) != p.Color("", i+n) {
			t.Fatalf("color(%d) != color(%d)", i, i+n)
		}
	}
	if p.Color("", 0) != "#66b5ab" || p.Color("", 1) != "#F26522" {
		t.Fatalf("unexpected palette order")
	}
}

func TestCyclicPaletteEmpty(t *testing.T) {
	p := NewCyclicPalette(nil)
	if got := p.Color("x", 4); got != FallbackColor {
		t.Fatalf("expected fallback color, got %q", got)
	}
}

func TestKeyedPaletteFallback(t *testing.T) {
	p := NewKeyedPalette(DefaultActivityColors(), FallbackColor)
	if got := p.Color("quiz", 7); got != "#A9CF54" {
		t.Fatalf("expected quiz color, got %q", got)
	}
	if got := p.Color("lesson", 0); got != FallbackColor {
		t.Fatalf("expected fallback for unknown key, got %q", got)
	}
}

func TestKeyedPaletteCopiesInput(t *testing.T) {
	colors := map[string]string{"a": "#111111"}
	p := NewKeyedPalette(colors, FallbackColor)
	colors["a"] = "#222222"
	if got := p.Color("a", 0); got != "#111111" {
		t.Fatalf("palette changed after input mutation: %q", got)
	}
}
