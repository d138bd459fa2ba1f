package layout

import (
	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/text"
)

// Box is the laid out geometry of one node. X and Y are the document-space
// origin of the border box; Width and Height are the content size.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Display  css.DisplayType
	Children []*Box
	Parent   *Box

	// Clip is set for overflow other than visible; painting of descendants
	// is limited to the padding box.
	Clip bool

	// Text and Face are set on word boxes produced by inline layout.
	Text string
	Face text.Face

	// ImagePath is the src of an img element.
	ImagePath string
}

// Rect represents a rectangular region
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// union returns the smallest rect containing r and o.
func (r Rect) union(o Rect) Rect {
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: max(r.Right(), o.Right()) - x, Height: max(r.Bottom(), o.Bottom()) - y}
}

// Size represents dimensions (width and height)
type Size struct {
	Width  float64
	Height float64
}

// BorderBox returns the border box in document space.
func (b *Box) BorderBox() Rect {
	return Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Border.Left + b.Padding.Left + b.Width + b.Padding.Right + b.Border.Right,
		Height: b.Border.Top + b.Padding.Top + b.Height + b.Padding.Bottom + b.Border.Bottom,
	}
}

// PaddingBox returns the padding box, the clip region of overflow: hidden.
func (b *Box) PaddingBox() Rect {
	return Rect{
		X:      b.X + b.Border.Left,
		Y:      b.Y + b.Border.Top,
		Width:  b.Padding.Left + b.Width + b.Padding.Right,
		Height: b.Padding.Top + b.Height + b.Padding.Bottom,
	}
}

// ContentBox returns the content box.
func (b *Box) ContentBox() Rect {
	return Rect{
		X:      b.X + b.Border.Left + b.Padding.Left,
		Y:      b.Y + b.Border.Top + b.Padding.Top,
		Width:  b.Width,
		Height: b.Height,
	}
}

// outerWidth and outerHeight include margins.
func (b *Box) outerWidth() float64  { return b.Margin.Left + b.BorderBox().Width + b.Margin.Right }
func (b *Box) outerHeight() float64 { return b.Margin.Top + b.BorderBox().Height + b.Margin.Bottom }

// shift moves the box and its subtree.
func (b *Box) shift(dx, dy float64) {
	b.X += dx
	b.Y += dy
	for _, c := range b.Children {
		c.shift(dx, dy)
	}
}

// contentExtent returns the right edge of the widest descendant relative
// to the content box, used to shrink auto-width boxes to fit.
func (b *Box) contentExtent() float64 {
	left := b.ContentBox().X
	extent := 0.0
	var visit func(*Box)
	visit = func(c *Box) {
		r := c.BorderBox()
		extent = max(extent, r.Right()+c.Margin.Right-left)
		if c.Display == css.DisplayInline {
			for _, gc := range c.Children {
				visit(gc)
			}
		}
	}
	for _, c := range b.Children {
		visit(c)
	}
	return extent
}
