package text

import (
	"path/filepath"
	"testing"
)

func TestFallbackMeasurerIsDeterministic(t *testing.T) {
	m := NewFallbackMeasurer()
	face := Face{Size: 13}

	if w := m.Width("hello", face); w != 35 {
		t.Errorf("5 glyphs at 13px should be 35px wide, got %v", w)
	}
	if w := m.Width("hello", Face{Size: 26}); w != 70 {
		t.Errorf("fallback should scale with size, got %v", w)
	}
	if w := m.Width("", face); w != 0 {
		t.Errorf("empty string should be 0, got %v", w)
	}
	if lh := m.LineHeight(Face{Size: 20}); lh != 24 {
		t.Errorf("fallback line height should be 1.2em, got %v", lh)
	}
}

func TestMeasurerMissingFontFallsBack(t *testing.T) {
	m := NewGGMeasurer(FontConfig{Regular: filepath.Join(t.TempDir(), "missing.ttf")})
	if w := m.Width("ab", Face{Size: 13}); w != 14 {
		t.Errorf("expected bitmap fallback width 14, got %v", w)
	}
}

func TestMeasurerCaches(t *testing.T) {
	m := NewFallbackMeasurer(WithCacheSize(2))
	face := Face{Size: 13}
	m.Width("a", face)
	m.Width("a", face)
	m.Width("b", face)
	m.Width("c", face) // evicts "a"
	m.Width("a", face)

	hits, misses := m.CacheStats()
	if hits != 1 || misses != 4 {
		t.Errorf("hits=%d misses=%d, want 1/4", hits, misses)
	}
	if m.widths.len() != 2 {
		t.Errorf("cache should be bounded to 2, has %d", m.widths.len())
	}
}

func TestFontPath(t *testing.T) {
	fc := FontConfig{Regular: "r.ttf", Bold: "b.ttf", BoldItalic: "bi.ttf"}
	tests := []struct {
		bold, italic bool
		want         string
	}{
		{false, false, "r.ttf"},
		{true, false, "b.ttf"},
		{true, true, "bi.ttf"},
		{false, true, "r.ttf"},
	}
	for _, tt := range tests {
		if got := fc.FontPath(tt.bold, tt.italic); got != tt.want {
			t.Errorf("FontPath(%v, %v) = %q, want %q", tt.bold, tt.italic, got, tt.want)
		}
	}
}
