package layout

import (
	"sync"

	"slidertext/pkg/html"
)

// Live measures a document that keeps changing. A measurement lays the
// document out again when any node was mutated since the last pass, the
// viewport changed or Invalidate was called, so callers always see the
// geometry of the DOM as it is now.
type Live struct {
	mu     sync.Mutex
	doc    *html.Document
	engine *LayoutEngine
	last   *Tree
	gen    uint64
	stale  bool
	passes int
}

func NewLive(doc *html.Document, engine *LayoutEngine) *Live {
	return &Live{doc: doc, engine: engine}
}

// Tree returns the layout of the document as it is now, laying it out
// again only when it changed.
func (l *Live) Tree() *Tree {
	l.mu.Lock()
	defer l.mu.Unlock()
	gen := html.Generation()
	if l.last != nil && !l.stale && gen == l.gen {
		return l.last
	}
	l.last = l.engine.Layout(l.doc)
	l.gen = gen
	l.stale = false
	l.passes++
	return l.last
}

// Invalidate forces the next measurement to lay out again, for changes
// the node generation does not see such as new stylesheets.
func (l *Live) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stale = true
}

// Last returns the most recent tree without laying out, or lays out once
// if there is none yet.
func (l *Live) Last() *Tree {
	l.mu.Lock()
	last := l.last
	l.mu.Unlock()
	if last == nil {
		return l.Tree()
	}
	return last
}

// SetViewport resizes the viewport for subsequent measurements.
func (l *Live) SetViewport(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine.SetViewport(width, height)
	l.stale = true
}

func (l *Live) Viewport() Size {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Viewport()
}

// Passes reports how many layout passes have run.
func (l *Live) Passes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.passes
}

func (l *Live) OffsetTop(node, container *html.Node) (float64, bool) {
	return l.Tree().OffsetTop(node, container)
}

func (l *Live) OffsetWidth(n *html.Node) float64 {
	return l.Tree().OffsetWidth(n)
}

func (l *Live) MarginRight(n *html.Node) float64 {
	return l.Tree().MarginRight(n)
}

// Bounds locates n in the current layout; Live is a timeline.Geometry.
func (l *Live) Bounds(n *html.Node) (top, height float64, ok bool) {
	return l.Tree().Bounds(n)
}

func (l *Live) ViewportHeight() float64 {
	return l.Viewport().Height
}
