package css

import (
	"strconv"
	"strings"
)

// Style is a bag of longhand CSS properties. Shorthands are expanded when
// declarations are parsed.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Unit is the unit of a CSS length.
type Unit int

const (
	UnitPx Unit = iota
	UnitPercent
	UnitEm
	UnitAuto
)

// Length is a parsed, still unresolved CSS length.
type Length struct {
	Value float64
	Unit  Unit
}

// Auto is the zero-information length.
var Auto = Length{Unit: UnitAuto}

// ParseLength parses "100px", "100", "50%", "1.5em" or "auto".
func ParseLength(val string) (Length, bool) {
	val = strings.TrimSpace(strings.ToLower(val))
	unit := UnitPx
	switch {
	case val == "auto":
		return Auto, true
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
	case strings.HasSuffix(val, "%"):
		val, unit = strings.TrimSuffix(val, "%"), UnitPercent
	case strings.HasSuffix(val, "rem"):
		// root font size is fixed at the default
		num, err := strconv.ParseFloat(strings.TrimSuffix(val, "rem"), 64)
		if err != nil {
			return Length{}, false
		}
		return Length{Value: num * DefaultFontSize}, true
	case strings.HasSuffix(val, "em"):
		val, unit = strings.TrimSuffix(val, "em"), UnitEm
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: num, Unit: unit}, true
}

// Resolve converts the length to pixels. Percentages are taken of base,
// ems of fontSize. Auto resolves to fallback.
func (l Length) Resolve(base, fontSize, fallback float64) float64 {
	switch l.Unit {
	case UnitPercent:
		return base * l.Value / 100
	case UnitEm:
		return fontSize * l.Value
	case UnitAuto:
		return fallback
	}
	return l.Value
}

func (s *Style) GetLength(property string) (Length, bool) {
	val, ok := s.Get(property)
	if !ok {
		return Length{}, false
	}
	return ParseLength(val)
}

// px resolves a property against base, defaulting to 0.
func (s *Style) px(property string, base float64) float64 {
	l, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return l.Resolve(base, s.GetFontSize(), 0)
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

// GetMargin returns the margins, percentages resolved against the
// containing block width.
func (s *Style) GetMargin(containingWidth float64) BoxEdge {
	return s.edge("margin", "", containingWidth)
}

func (s *Style) GetPadding(containingWidth float64) BoxEdge {
	return s.edge("padding", "", containingWidth)
}

func (s *Style) GetBorderWidth() BoxEdge {
	return s.edge("border", "-width", 0)
}

func (s *Style) edge(prefix, suffix string, base float64) BoxEdge {
	return BoxEdge{
		Top:    s.px(prefix+"-top"+suffix, base),
		Right:  s.px(prefix+"-right"+suffix, base),
		Bottom: s.px(prefix+"-bottom"+suffix, base),
		Left:   s.px(prefix+"-left"+suffix, base),
	}
}

// DefaultFontSize is the initial font-size in pixels.
const DefaultFontSize = 16.0

// GetFontSize returns the font-size in pixels. Computed styles always
// carry an absolute value; em and % here fall back to the default.
func (s *Style) GetFontSize() float64 {
	val, ok := s.Get("font-size")
	if !ok {
		return DefaultFontSize
	}
	l, ok := ParseLength(val)
	if !ok {
		return DefaultFontSize
	}
	return l.Resolve(DefaultFontSize, DefaultFontSize, DefaultFontSize)
}

// GetLineHeight returns the line-height in pixels (default: 1.2 * font-size).
// Unitless numbers multiply the font size.
func (s *Style) GetLineHeight() float64 {
	fs := s.GetFontSize()
	val, ok := s.Get("line-height")
	if !ok || val == "normal" {
		return fs * 1.2
	}
	if num, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
		return fs * num
	}
	if l, ok := ParseLength(val); ok {
		return l.Resolve(fs, fs, fs*1.2)
	}
	return fs * 1.2
}

// FontWeight represents the font-weight property value
type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

func (s *Style) GetFontWeight() FontWeight {
	if weight, ok := s.Get("font-weight"); ok {
		switch weight {
		case "bold", "bolder", "600", "700", "800", "900":
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

func (s *Style) IsItalic() bool {
	v, _ := s.Get("font-style")
	return v == "italic" || v == "oblique"
}

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayFlex        DisplayType = "flex"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value; elements without one use the
// user agent default for their tag.
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "inline":
			return DisplayInline
		case "inline-block":
			return DisplayInlineBlock
		case "flex", "inline-flex":
			return DisplayFlex
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

// OverflowType represents the overflow property value.
type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
)

func (s *Style) GetOverflow() OverflowType {
	switch v, _ := s.Get("overflow"); v {
	case "hidden", "clip", "scroll", "auto":
		return OverflowHidden
	}
	return OverflowVisible
}

// Color is an RGBA color with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"white":   {255, 255, 255, 1},
	"black":   {0, 0, 0, 1},
	"gray":    {128, 128, 128, 1},
	"grey":    {128, 128, 128, 1},
	"orange":  {255, 165, 0, 1},
	"purple":  {128, 0, 128, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
	"beige":   {245, 245, 220, 1},
	"ivory":   {255, 255, 240, 1},
	"tomato":  {255, 99, 71, 1},
	"salmon":  {250, 128, 114, 1},
	"khaki":   {240, 230, 140, 1},
	"olive":   {128, 128, 0, 1},
	"maroon":  {128, 0, 0, 1},
	"magenta": {255, 0, 255, 1},
	"cyan":    {0, 255, 255, 1},
}

// ParseColor understands named colors, #rgb, #rrggbb and "transparent".
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Color{}, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if !strings.HasPrefix(colorStr, "#") {
		return Color{}, false
	}
	hex := colorStr[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, true
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if c, ok := ParseColor(colorStr); ok {
			return c
		}
	}
	return Color{A: 1}
}

// GetBackgroundColor returns the background color, if one is set.
func (s *Style) GetBackgroundColor() (Color, bool) {
	for _, prop := range []string{"background-color", "background"} {
		if v, ok := s.Get(prop); ok {
			if c, ok := ParseColor(v); ok && c.A > 0 {
				return c, true
			}
		}
	}
	return Color{}, false
}

// ParseInlineStyle parses a style attribute into an expanded Style.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for prop, val := range parseDeclarations(styleAttr) {
		style.Set(prop, val)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		for _, part := range strings.Fields(value) {
			if l, ok := ParseLength(part); ok && l.Unit == UnitPx {
				expandBoxProperty(style, "border", "-width", part)
			} else if _, ok := ParseColor(part); ok {
				style.Set("border-color", part)
			} else {
				style.Set("border-style", part)
			}
		}
	case "gap":
		style.Set("column-gap", strings.Fields(value)[0])
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands the 1-4 value box shorthand (t r b l).
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, t)
	style.Set(prefix+"-right"+suffix, r)
	style.Set(prefix+"-bottom"+suffix, b)
	style.Set(prefix+"-left"+suffix, l)
}
