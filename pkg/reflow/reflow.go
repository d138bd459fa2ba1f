// Package reflow regroups word fragments into visual lines. Each line is
// wrapped in an overflow-clipped element holding one inner element, which
// is what line-by-line reveal animations target.
package reflow

import (
	"errors"
	"fmt"
	"math"

	"slidertext/pkg/html"
)

// ErrDetached is returned when the container is not part of a document,
// so there is no geometry to group by.
var ErrDetached = errors.New("reflow: container is not attached to a document")

// Positions supplies laid out offsets. OffsetTop reports the top of node
// relative to container, and false when node has no box.
type Positions interface {
	OffsetTop(node, container *html.Node) (float64, bool)
}

// Fragment is one word element with its measured top offset. A fragment
// without a box, such as one under display: none, has NoBox set and rides
// along with the line it follows.
type Fragment struct {
	Node  *html.Node
	Top   float64
	NoBox bool
}

// Line is a run of fragments that share a top offset.
type Line struct {
	Top       float64
	Fragments []Fragment
}

// SameLine decides whether a fragment at top belongs to the line that
// started at lineTop.
type SameLine func(lineTop, top float64) bool

// ExactTop groups only fragments whose tops are equal.
func ExactTop(lineTop, top float64) bool { return lineTop == top }

// WithinTolerance groups fragments whose tops differ by at most px, for
// layouts that position mixed font sizes on a shared baseline.
func WithinTolerance(px float64) SameLine {
	return func(lineTop, top float64) bool { return math.Abs(lineTop-top) <= px }
}

const (
	LineClass      = "line"
	LineInnerClass = "line__inner"
)

type options struct {
	tag      string
	sameLine SameLine
}

// Option configures Reflow.
type Option func(*options)

// WithFragmentTag selects which child elements are fragments. The default
// is "span".
func WithFragmentTag(tag string) Option {
	return func(o *options) { o.tag = tag }
}

// WithSameLine replaces the exact-equality line policy.
func WithSameLine(policy SameLine) Option {
	return func(o *options) { o.sameLine = policy }
}

// Collect measures the fragments under container in document order. A
// fragment is any descendant element with the fragment tag; descendants of
// a fragment are part of it.
func Collect(container *html.Node, positions Positions, tag string) []Fragment {
	var frags []Fragment
	for _, child := range container.Children {
		child.Walk(func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return false
			}
			if n.TagName != tag {
				return true
			}
			top, ok := positions.OffsetTop(n, container)
			frags = append(frags, Fragment{Node: n, Top: top, NoBox: !ok})
			return false
		})
	}
	return frags
}

// Group partitions fragments into lines, preserving order. A fragment
// opens a new line when the policy rejects it for the current one.
// Fragments without a box join the current line, or the first line when
// they lead.
func Group(frags []Fragment, sameLine SameLine) []Line {
	if sameLine == nil {
		sameLine = ExactTop
	}
	var lines []Line
	var leading []Fragment
	for _, f := range frags {
		n := len(lines)
		switch {
		case f.NoBox && n == 0:
			leading = append(leading, f)
		case f.NoBox || n > 0 && sameLine(lines[n-1].Top, f.Top):
			lines[n-1].Fragments = append(lines[n-1].Fragments, f)
		default:
			lines = append(lines, Line{Top: f.Top, Fragments: []Fragment{f}})
		}
	}
	if len(leading) > 0 {
		if len(lines) == 0 {
			return []Line{{Fragments: leading}}
		}
		lines[0].Fragments = append(leading, lines[0].Fragments...)
	}
	return lines
}

// detach moves a fragment out of container. A nested fragment takes
// shallow copies of its ancestors below container with it, so inline
// markup such as <em> keeps applying to the word. Line wrappers of an
// earlier reflow are not copied.
func detach(frag, container *html.Node) *html.Node {
	node := frag
	for a := frag.Parent; a != nil && a != container; a = a.Parent {
		if a.HasClass(LineClass) || a.HasClass(LineInnerClass) {
			continue
		}
		wrap := a.CloneNode(false)
		wrap.AddChild(node)
		node = wrap
	}
	return node
}

// Reflow rebuilds container so that every visual line of its fragments
// sits in
//
//	<div class="line" style="overflow: hidden"><div class="line__inner">…</div></div>
//
// and returns the inner elements in line order. Fragments are moved, not
// copied, and separated by single spaces; nested fragments carry copies of
// their inline ancestors. Text outside fragments is discarded. A container
// without fragments yields no lines and no error.
func Reflow(container *html.Node, positions Positions, opts ...Option) ([]*html.Node, error) {
	o := options{tag: "span", sameLine: ExactTop}
	for _, opt := range opts {
		opt(&o)
	}
	if container == nil {
		return nil, fmt.Errorf("reflow: nil container")
	}
	if !container.Attached() {
		return nil, ErrDetached
	}

	lines := Group(Collect(container, positions, o.tag), o.sameLine)
	if len(lines) == 0 {
		return nil, nil
	}

	moved := make([][]*html.Node, len(lines))
	for i, line := range lines {
		for _, f := range line.Fragments {
			moved[i] = append(moved[i], detach(f.Node, container))
		}
	}
	container.RemoveChildren()
	inners := make([]*html.Node, 0, len(lines))
	for i := range lines {
		outer := html.NewElement("div", map[string]string{"class": LineClass, "style": "overflow: hidden"})
		inner := html.NewElement("div", map[string]string{"class": LineInnerClass})
		for j, node := range moved[i] {
			if j > 0 {
				inner.AddChild(html.NewText(" "))
			}
			inner.AddChild(node)
		}
		outer.AddChild(inner)
		container.AddChild(outer)
		inners = append(inners, inner)
	}
	return inners, nil
}
