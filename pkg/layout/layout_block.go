package layout

import (
	"strings"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// layoutBlock lays out a block-level box whose margin box starts at (x, y)
// inside a containing block of width availableWidth.
func (lc *layoutContext) layoutBlock(node *html.Node, style *css.Style, parent *Box, x, y, availableWidth float64) *Box {
	box := &Box{
		Node:    node,
		Style:   style,
		Parent:  parent,
		Display: style.GetDisplay(),
		Margin:  style.GetMargin(availableWidth),
		Padding: style.GetPadding(availableWidth),
		Border:  style.GetBorderWidth(),
		Clip:    style.GetOverflow() == css.OverflowHidden,
	}
	chrome := box.Padding.Horizontal() + box.Border.Horizontal()

	autoWidth := true
	if w, ok := style.GetLength("width"); ok && w.Unit != css.UnitAuto {
		autoWidth = false
		box.Width = w.Resolve(availableWidth, style.GetFontSize(), 0)
		if v, _ := style.Get("box-sizing"); v == "border-box" {
			box.Width -= chrome
		}
	} else {
		box.Width = availableWidth - box.Margin.Horizontal() - chrome
	}
	box.Width = max(box.Width, 0)

	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top
	content := box.ContentBox()
	lc.register(box)

	var height float64
	switch {
	case node.TagName == "img":
		var w float64
		w, height = lc.imageSize(node, style, availableWidth)
		if autoWidth {
			box.Width = w
		}
		box.ImagePath, _ = node.GetAttribute("src")
	case box.Display == css.DisplayFlex:
		height = lc.layoutFlex(box, content.X, content.Y)
	default:
		height = lc.layoutChildren(box, content.X, content.Y, box.Width)
	}

	if h, ok := style.GetLength("height"); ok && h.Unit != css.UnitAuto {
		height = h.Resolve(lc.engine.viewport.Height, style.GetFontSize(), height)
		if v, _ := style.Get("box-sizing"); v == "border-box" {
			height -= box.Padding.Vertical() + box.Border.Vertical()
		}
	}
	box.Height = max(height, 0)

	if parent != nil {
		parent.Children = append(parent.Children, box)
	}
	return box
}

// layoutChildren stacks the children of box vertically and returns the
// content height. Consecutive inline-level children share one inline
// formatting context.
func (lc *layoutContext) layoutChildren(box *Box, x, y, width float64) float64 {
	cursor := y
	var run []*html.Node
	flush := func() {
		if len(run) > 0 {
			cursor += lc.layoutInline(box, run, x, cursor, width)
			run = run[:0]
		}
	}

	for _, child := range box.Node.Children {
		if child.Type == html.TextNode {
			run = append(run, child)
			continue
		}
		style := lc.styleOf(child)
		if style.GetDisplay() == css.DisplayNone {
			continue
		}
		if !isBlockLevel(style) {
			run = append(run, child)
			continue
		}
		flush()
		b := lc.layoutBlock(child, style, box, x, cursor, width)
		cursor += b.outerHeight()
	}
	flush()
	return cursor - y
}

// imageSize resolves an img's content size from its style, its
// width/height attributes and the intrinsic size, keeping the aspect
// ratio when only one dimension is given.
func (lc *layoutContext) imageSize(node *html.Node, style *css.Style, availableWidth float64) (float64, float64) {
	var iw, ih float64
	if lc.engine.images != nil {
		if src, ok := node.GetAttribute("src"); ok {
			if w, h, ok := lc.engine.images.ImageSize(src); ok {
				iw, ih = float64(w), float64(h)
			}
		}
	}
	dim := func(prop string, base float64) (float64, bool) {
		if l, ok := style.GetLength(prop); ok && l.Unit != css.UnitAuto {
			return l.Resolve(base, style.GetFontSize(), 0), true
		}
		if attr, ok := node.GetAttribute(prop); ok {
			if l, ok := css.ParseLength(strings.TrimSpace(attr)); ok {
				return l.Resolve(base, style.GetFontSize(), 0), true
			}
		}
		return 0, false
	}

	w, wok := dim("width", availableWidth)
	h, hok := dim("height", lc.engine.viewport.Height)
	switch {
	case wok && hok:
	case wok && iw > 0:
		h = w * ih / iw
	case hok && ih > 0:
		w = h * iw / ih
	case !wok && !hok:
		w, h = iw, ih
	}
	return w, h
}
