package layout

import (
	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// Tree is the result of one layout pass.
type Tree struct {
	Root     *Box
	Viewport Size

	boxes  map[*html.Node]*Box
	styles css.ComputedStyles
}

// Box returns the box generated for n. Nodes with display: none, nodes
// detached from the laid out document and nodes inserted after the pass
// have none. For text nodes it is the box of the first word.
func (t *Tree) Box(n *html.Node) (*Box, bool) {
	b, ok := t.boxes[n]
	return b, ok
}

// Style returns the computed style used for n.
func (t *Tree) Style(n *html.Node) *css.Style {
	return t.styles.Of(n)
}

// OffsetTop returns the distance from the top of container's border box
// to the top of node's border box.
func (t *Tree) OffsetTop(node, container *html.Node) (float64, bool) {
	nb, ok := t.boxes[node]
	if !ok {
		return 0, false
	}
	cb, ok := t.boxes[container]
	if !ok {
		return 0, false
	}
	return nb.Y - cb.Y, true
}

// Bounds returns the document-space top and height of n's border box.
func (t *Tree) Bounds(n *html.Node) (top, height float64, ok bool) {
	b, ok := t.boxes[n]
	if !ok {
		return 0, 0, false
	}
	bb := b.BorderBox()
	return bb.Y, bb.Height, true
}

// OffsetWidth returns the border box width of n, or 0.
func (t *Tree) OffsetWidth(n *html.Node) float64 {
	if b, ok := t.boxes[n]; ok {
		return b.BorderBox().Width
	}
	return 0
}

// MarginRight returns the used right margin of n, or 0.
func (t *Tree) MarginRight(n *html.Node) float64 {
	if b, ok := t.boxes[n]; ok {
		return b.Margin.Right
	}
	return 0
}

// DocumentHeight is the height of the laid out content.
func (t *Tree) DocumentHeight() float64 {
	if t.Root == nil {
		return 0
	}
	return t.Root.Height
}

// Walk visits boxes in paint order, parents before children.
func (t *Tree) Walk(fn func(*Box) bool) {
	var visit func(*Box)
	visit = func(b *Box) {
		if !fn(b) {
			return
		}
		for _, c := range b.Children {
			visit(c)
		}
	}
	if t.Root != nil {
		visit(t.Root)
	}
}
