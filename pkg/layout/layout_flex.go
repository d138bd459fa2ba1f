package layout

import (
	"strings"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// layoutFlex places the children of a flex container in a single row and
// returns the row height. Items keep their used widths and never shrink, so
// a track wider than its container overflows to the right. Auto-width
// items shrink to fit their content. column-gap is added between items on
// top of their margins.
func (lc *layoutContext) layoutFlex(flexBox *Box, x, y float64) float64 {
	gap := 0.0
	if l, ok := flexBox.Style.GetLength("column-gap"); ok {
		gap = l.Resolve(flexBox.Width, flexBox.Style.GetFontSize(), 0)
	}

	pen := x
	rowHeight := 0.0
	first := true
	for _, child := range flexBox.Node.Children {
		if child.Type == html.TextNode && strings.TrimSpace(child.Text) == "" {
			continue
		}
		style := lc.styleOf(child)
		if child.Type == html.ElementNode && style.GetDisplay() == css.DisplayNone {
			continue
		}
		if !first {
			pen += gap
		}
		first = false

		var item *Box
		if child.Type == html.TextNode {
			// anonymous item
			anon := &Box{Node: child, Style: flexBox.Style, Parent: flexBox, Display: css.DisplayBlock, X: pen, Y: y}
			anon.Height = lc.layoutInline(anon, []*html.Node{child}, pen, y, flexBox.Width)
			anon.Width = anon.contentExtent()
			flexBox.Children = append(flexBox.Children, anon)
			item = anon
		} else {
			item = lc.layoutBlock(child, style, flexBox, pen, y, flexBox.Width)
			if w, ok := style.GetLength("width"); !ok || w.Unit == css.UnitAuto {
				if basis, ok := style.GetLength("flex-basis"); ok && basis.Unit != css.UnitAuto {
					item.Width = basis.Resolve(flexBox.Width, style.GetFontSize(), 0)
				} else if child.TagName != "img" {
					item.Width = min(item.Width, item.contentExtent())
				}
			}
		}
		pen += item.outerWidth()
		rowHeight = max(rowHeight, item.outerHeight())
	}
	return rowHeight
}
