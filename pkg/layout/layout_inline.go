package layout

import (
	"strings"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// atom is an unbreakable piece of inline content: a word, an atomic
// inline (inline-block or img) or a zero-size marker for an empty inline
// element.
type atom struct {
	node   *html.Node   // text node, atomic inline or empty inline element
	chain  []*html.Node // enclosing inline elements, outermost first
	word   string
	style  *css.Style
	block  *Box // atomic inline, laid out at the origin
	width  float64
	height float64
	marker bool

	// space is the width of collapsible whitespace before the atom; it is
	// dropped at the start of a line.
	space float64

	x, y float64
}

// layoutInline flows nodes into line boxes inside parent and returns the
// total height of the lines.
func (lc *layoutContext) layoutInline(parent *Box, nodes []*html.Node, x, y, width float64) float64 {
	var atoms []*atom
	pendingSpace := 0.0
	var collect func(n *html.Node, chain []*html.Node, parentStyle *css.Style)
	collect = func(n *html.Node, chain []*html.Node, parentStyle *css.Style) {
		if n.Type == html.TextNode {
			face := faceOf(parentStyle)
			spaceWidth := lc.engine.measurer.Width(" ", face)
			if n.Text != strings.TrimLeft(n.Text, " \t\n\r") {
				pendingSpace = spaceWidth
			}
			for _, w := range strings.Fields(n.Text) {
				atoms = append(atoms, &atom{
					node:   n,
					chain:  chain,
					word:   w,
					style:  parentStyle,
					width:  lc.engine.measurer.Width(w, face),
					height: parentStyle.GetLineHeight(),
					space:  pendingSpace,
				})
				pendingSpace = spaceWidth
			}
			if n.Text == strings.TrimRight(n.Text, " \t\n\r") {
				pendingSpace = 0
			}
			return
		}

		style := lc.styleOf(n)
		switch style.GetDisplay() {
		case css.DisplayNone:
			return
		case css.DisplayInline:
			if n.TagName != "img" {
				before := len(atoms)
				inner := append(append([]*html.Node(nil), chain...), n)
				for _, c := range n.Children {
					collect(c, inner, style)
				}
				if len(atoms) == before {
					atoms = append(atoms, &atom{node: n, chain: chain, style: style, marker: true})
				}
				return
			}
		}

		// atomic inline
		b := lc.layoutBlock(n, style, nil, 0, 0, width)
		if w, ok := style.GetLength("width"); (!ok || w.Unit == css.UnitAuto) && n.TagName != "img" {
			b.Width = min(b.Width, b.contentExtent())
		}
		atoms = append(atoms, &atom{
			node:   n,
			chain:  chain,
			style:  style,
			block:  b,
			width:  b.outerWidth(),
			height: b.outerHeight(),
			space:  pendingSpace,
		})
		pendingSpace = 0
	}
	for _, n := range nodes {
		collect(n, nil, parent.Style)
	}
	if len(atoms) == 0 {
		return 0
	}

	lines := breakLines(atoms, width)
	align, _ := parent.Style.Get("text-align")
	cursor := y
	for _, line := range lines {
		lineWidth, lineHeight := 0.0, 0.0
		for _, a := range line {
			lineWidth = a.x + a.width
			lineHeight = max(lineHeight, a.height)
		}
		offset := 0.0
		switch align {
		case "center":
			offset = (width - lineWidth) / 2
		case "right", "end":
			offset = width - lineWidth
		}
		for _, a := range line {
			a.x += x + offset
			a.y = cursor
		}
		cursor += lineHeight
	}

	lc.buildInlineBoxes(parent, atoms)
	return cursor - y
}

// breakLines assigns line-relative x positions and splits atoms greedily
// so that no line exceeds width unless it holds a single atom.
func breakLines(atoms []*atom, width float64) [][]*atom {
	var lines [][]*atom
	var line []*atom
	pen := 0.0
	for _, a := range atoms {
		gap := a.space
		if len(line) == 0 {
			gap = 0
		}
		if len(line) > 0 && pen+gap+a.width > width+0.01 {
			lines = append(lines, line)
			line, pen, gap = nil, 0, 0
		}
		a.x = pen + gap
		pen = a.x + a.width
		line = append(line, a)
	}
	return append(lines, line)
}

// buildInlineBoxes turns placed atoms into boxes. Each inline element gets
// one box spanning all of its atoms; word boxes hang off the innermost
// enclosing inline box.
func (lc *layoutContext) buildInlineBoxes(parent *Box, atoms []*atom) {
	inlineBoxes := make(map[*html.Node]*Box)
	var extents []*Box

	boxFor := func(a *atom) *Box {
		owner := parent
		for _, el := range a.chain {
			b, ok := inlineBoxes[el]
			if !ok {
				b = &Box{Node: el, Style: lc.styleOf(el), Parent: owner, Display: css.DisplayInline, X: a.x, Y: a.y}
				owner.Children = append(owner.Children, b)
				inlineBoxes[el] = b
				extents = append(extents, b)
				lc.register(b)
			}
			owner = b
		}
		return owner
	}

	rects := make(map[*Box]Rect)
	grow := func(b *Box, r Rect) {
		for ; b != nil && b != parent; b = b.Parent {
			if cur, ok := rects[b]; ok {
				rects[b] = cur.union(r)
			} else {
				rects[b] = r
			}
		}
	}

	for _, a := range atoms {
		owner := boxFor(a)
		r := Rect{X: a.x, Y: a.y, Width: a.width, Height: a.height}
		switch {
		case a.block != nil:
			a.block.shift(a.x, a.y)
			a.block.Parent = owner
			owner.Children = append(owner.Children, a.block)
		case a.marker:
			b := &Box{Node: a.node, Style: a.style, Parent: owner, Display: css.DisplayInline, X: a.x, Y: a.y}
			owner.Children = append(owner.Children, b)
			lc.register(b)
			r.Height = 0
		default:
			b := &Box{
				Node:    a.node,
				Style:   a.style,
				Parent:  owner,
				Display: css.DisplayInline,
				X:       a.x,
				Y:       a.y,
				Width:   a.width,
				Height:  a.height,
				Text:    a.word,
				Face:    faceOf(a.style),
			}
			owner.Children = append(owner.Children, b)
			lc.register(b)
		}
		grow(owner, r)
	}

	for _, b := range extents {
		if r, ok := rects[b]; ok {
			b.X, b.Y, b.Width, b.Height = r.X, r.Y, r.Width, r.Height
		}
	}
}
