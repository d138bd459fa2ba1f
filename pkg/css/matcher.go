package css

import (
	"slidertext/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	// Match right to left, starting at the subject element
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

func matchesFrom(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	switch selector.Combinators[partIndex-1] {
	case ChildCombinator:
		parent := node.Parent
		return isElement(parent) && matchesFrom(parent, selector, partIndex-1)
	default:
		for ancestor := node.Parent; isElement(ancestor); ancestor = ancestor.Parent {
			if matchesFrom(ancestor, selector, partIndex-1) {
				return true
			}
		}
		return false
	}
}

// isElement excludes the synthetic document root.
func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.TagName != "document"
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	return true
}

// QuerySelectorAll returns every descendant of root (excluding root) that
// matches any selector of the group, in document order.
func QuerySelectorAll(root *html.Node, group string) ([]*html.Node, error) {
	sels, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n != root && matchesAny(n, sels) {
			out = append(out, n)
		}
		return true
	})
	return out, nil
}

// QuerySelector returns the first match, or nil.
func QuerySelector(root *html.Node, group string) (*html.Node, error) {
	sels, err := parseGroup(group)
	if err != nil {
		return nil, err
	}
	var found *html.Node
	root.Walk(func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n != root && matchesAny(n, sels) {
			found = n
			return false
		}
		return true
	})
	return found, nil
}

// Matches reports whether node matches the selector group.
func Matches(node *html.Node, group string) (bool, error) {
	sels, err := parseGroup(group)
	if err != nil {
		return false, err
	}
	return matchesAny(node, sels), nil
}

func parseGroup(group string) ([]Selector, error) {
	raws := SplitSelectorGroup(group)
	sels := make([]Selector, 0, len(raws))
	for _, raw := range raws {
		sel, err := ParseSelector(raw)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	if len(sels) == 0 {
		return nil, ErrEmptySelector
	}
	return sels, nil
}

func matchesAny(n *html.Node, sels []Selector) bool {
	for _, sel := range sels {
		if MatchesSelector(n, sel) {
			return true
		}
	}
	return false
}
