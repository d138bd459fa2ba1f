package text

import (
	"strings"

	"slidertext/pkg/html"
)

// SplitOptions controls how Split fragments a container.
type SplitOptions struct {
	// Append replaces the container's children with the fragments of its
	// whole text content. Otherwise text nodes are split in place and
	// element children are kept and descended into.
	Append bool
	// Tag of the fragment elements, "span" when empty.
	Tag string
	// Class is added to every fragment when set.
	Class string
}

// Split breaks the text under container into one element per word,
// separated by single-space text nodes. Whitespace runs collapse and
// leading or trailing whitespace is dropped. The fragments are returned in
// document order.
func Split(container *html.Node, opts SplitOptions) []*html.Node {
	if container == nil {
		return nil
	}
	if opts.Tag == "" {
		opts.Tag = "span"
	}
	if opts.Append {
		words := strings.Fields(container.TextContent())
		container.RemoveChildren()
		return appendWords(container, nil, words, opts)
	}
	return splitInPlace(container, opts)
}

func splitInPlace(n *html.Node, opts SplitOptions) []*html.Node {
	var out []*html.Node
	for _, child := range append([]*html.Node(nil), n.Children...) {
		switch child.Type {
		case html.ElementNode:
			out = append(out, splitInPlace(child, opts)...)
		case html.TextNode:
			words := strings.Fields(child.Text)
			if len(words) == 0 {
				continue
			}
			frags := make([]*html.Node, 0, 2*len(words))
			for i, w := range words {
				if i > 0 {
					frags = append(frags, html.NewText(" "))
				}
				frags = append(frags, newFragment(w, opts))
			}
			// keep a separating space where the text touched a sibling
			if strings.TrimLeft(child.Text, " \t\n\r") != child.Text && child.IndexInParent() > 0 {
				frags = append([]*html.Node{html.NewText(" ")}, frags...)
			}
			if strings.TrimRight(child.Text, " \t\n\r") != child.Text && child.IndexInParent() < len(n.Children)-1 {
				frags = append(frags, html.NewText(" "))
			}
			for _, f := range frags {
				n.InsertBefore(f, child)
				if f.Type == html.ElementNode {
					out = append(out, f)
				}
			}
			n.RemoveChild(child)
		}
	}
	return out
}

func appendWords(container *html.Node, out []*html.Node, words []string, opts SplitOptions) []*html.Node {
	for i, w := range words {
		if i > 0 {
			container.AddChild(html.NewText(" "))
		}
		frag := newFragment(w, opts)
		container.AddChild(frag)
		out = append(out, frag)
	}
	return out
}

func newFragment(word string, opts SplitOptions) *html.Node {
	attrs := map[string]string{}
	if opts.Class != "" {
		attrs["class"] = opts.Class
	}
	frag := html.NewElement(opts.Tag, attrs)
	frag.AddChild(html.NewText(word))
	return frag
}
