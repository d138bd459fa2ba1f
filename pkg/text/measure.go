package text

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontConfig holds paths to font files used for text measurement and rendering.
type FontConfig struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

// defaultFontsDir returns the fonts directory next to the executable, or
// relative to this source file when running from a checkout.
func defaultFontsDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontConfig returns a FontConfig using the Atkinson Hyperlegible
// family. Missing files are not an error: measurement falls back to the
// built-in bitmap face.
func DefaultFontConfig() FontConfig {
	dir := defaultFontsDir()
	return FontConfig{
		Regular:    filepath.Join(dir, "AtkinsonHyperlegible-Regular.ttf"),
		Bold:       filepath.Join(dir, "AtkinsonHyperlegible-Bold.ttf"),
		Italic:     filepath.Join(dir, "AtkinsonHyperlegible-Italic.ttf"),
		BoldItalic: filepath.Join(dir, "AtkinsonHyperlegible-BoldItalic.ttf"),
	}
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(bold, italic bool) string {
	if bold && italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	if italic && fc.Italic != "" {
		return fc.Italic
	}
	return fc.Regular
}

// Face identifies a sized font style.
type Face struct {
	Size   float64
	Bold   bool
	Italic bool
}

func (f Face) key() string {
	return fmt.Sprintf("%g/%t/%t", f.Size, f.Bold, f.Italic)
}

// Measurer reports glyph metrics. Layout is the only consumer; nothing
// else reads text widths directly.
type Measurer interface {
	Width(s string, face Face) float64
	LineHeight(face Face) float64
}

// fallbackSize is the pixel size basicfont.Face7x13 is drawn at.
const fallbackSize = 13.0

// GGMeasurer measures with TrueType faces loaded through gg. When a face
// cannot be loaded, it scales the 7x13 bitmap face to the requested size,
// which gives every rune an advance of 7/13 em.
type GGMeasurer struct {
	fonts  FontConfig
	logger *zap.Logger

	mu     sync.Mutex
	faces  map[string]font.Face // nil value marks a failed load
	widths *measureCache
}

// MeasurerOption configures a GGMeasurer.
type MeasurerOption func(*GGMeasurer)

func WithLogger(l *zap.Logger) MeasurerOption {
	return func(m *GGMeasurer) { m.logger = l }
}

// WithCacheSize bounds the number of cached width measurements.
func WithCacheSize(n int) MeasurerOption {
	return func(m *GGMeasurer) { m.widths = newMeasureCache(n) }
}

func NewGGMeasurer(fonts FontConfig, opts ...MeasurerOption) *GGMeasurer {
	m := &GGMeasurer{
		fonts:  fonts,
		logger: zap.NewNop(),
		faces:  make(map[string]font.Face),
		widths: newMeasureCache(defaultCacheSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFallbackMeasurer measures with the bitmap face only. Results do not
// depend on installed fonts, which makes it the measurer used by tests.
func NewFallbackMeasurer(opts ...MeasurerOption) *GGMeasurer {
	return NewGGMeasurer(FontConfig{}, opts...)
}

func (m *GGMeasurer) Width(s string, face Face) float64 {
	if s == "" {
		return 0
	}
	k := face.key() + "\x00" + s
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.widths.get(k); ok {
		return w
	}
	var w float64
	if ff := m.loadFace(face); ff != nil {
		dc := gg.NewContext(1, 1)
		dc.SetFontFace(ff)
		w, _ = dc.MeasureString(s)
	} else {
		adv := font.MeasureString(basicfont.Face7x13, s)
		w = float64(adv) / 64 * face.Size / fallbackSize
	}
	m.widths.put(k, w)
	return w
}

func (m *GGMeasurer) LineHeight(face Face) float64 {
	m.mu.Lock()
	ff := m.loadFace(face)
	m.mu.Unlock()
	if ff == nil {
		return face.Size * 1.2
	}
	metrics := ff.Metrics()
	return float64(metrics.Height) / 64
}

// loadFace returns the TrueType face for f, or nil if none is available.
// Callers hold m.mu.
func (m *GGMeasurer) loadFace(f Face) font.Face {
	k := f.key()
	if ff, ok := m.faces[k]; ok {
		return ff
	}
	path := m.fonts.FontPath(f.Bold, f.Italic)
	var ff font.Face
	if path != "" {
		loaded, err := gg.LoadFontFace(path, f.Size)
		if err != nil {
			m.logger.Debug("font face unavailable, using bitmap fallback",
				zap.String("path", path), zap.Float64("size", f.Size), zap.Error(err))
		} else {
			ff = loaded
		}
	}
	m.faces[k] = ff
	return ff
}

// CacheStats returns width cache hits and misses.
func (m *GGMeasurer) CacheStats() (hits, misses uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.widths.hits, m.widths.misses
}
