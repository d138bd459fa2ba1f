package css

import (
	"errors"
	"sort"
	"strconv"

	"slidertext/pkg/html"
)

var ErrEmptySelector = errors.New("css: empty selector")

// inherited lists the properties children take from their parent when they
// do not set them.
var inherited = []string{"font-size", "font-weight", "font-style", "line-height", "color", "text-align"}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	switch node.TagName {
	case "span", "a", "em", "strong", "b", "i", "small", "label", "button", "img", "br":
		style.Set("display", "inline")
	case "head", "style", "script", "title", "meta", "link":
		style.Set("display", "none")
	case "h1":
		style.Set("font-size", "2em")
		style.Set("font-weight", "bold")
	case "h2":
		style.Set("font-size", "1.5em")
		style.Set("font-weight", "bold")
	case "h3":
		style.Set("font-size", "1.17em")
		style.Set("font-weight", "bold")
	}
	if node.TagName == "a" {
		style.Set("color", "#0645ad")
	}
}

// ComputeStyle computes the cascaded style for one node, without
// inheritance: user agent defaults, then matching rules by specificity and
// source order, then the inline style attribute.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet) *Style {
	final := NewStyle()
	applyUserAgentStyles(node, final)

	var matched []Rule
	for _, sheet := range stylesheets {
		for _, rule := range sheet.Rules {
			if MatchesSelector(node, rule.Selector) {
				matched = append(matched, rule)
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Selector.Specificity != matched[j].Selector.Specificity {
			return matched[i].Selector.Specificity < matched[j].Selector.Specificity
		}
		return matched[i].Order < matched[j].Order
	})
	for _, rule := range matched {
		for property, value := range rule.Declarations {
			final.Set(property, value)
		}
	}

	if attr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(attr).Properties {
			final.Set(property, value)
		}
	}
	return final
}

// ComputedStyles maps every element of a tree to its computed style.
type ComputedStyles map[*html.Node]*Style

// Of returns the style of n, or an empty style for unknown nodes.
func (cs ComputedStyles) Of(n *html.Node) *Style {
	if s, ok := cs[n]; ok {
		return s
	}
	return NewStyle()
}

// ApplyStylesToDocument parses the document's stylesheets and computes
// styles for every element, resolving inheritance and relative font sizes.
func ApplyStylesToDocument(doc *html.Document) ComputedStyles {
	sheets := make([]*Stylesheet, 0, len(doc.Stylesheets))
	for _, src := range doc.Stylesheets {
		if sheet, err := ParseStylesheet(src); err == nil {
			sheets = append(sheets, sheet)
		}
	}
	styles := make(ComputedStyles)
	rootStyle := NewStyle()
	rootStyle.Set("font-size", formatPx(DefaultFontSize))
	for _, child := range doc.Root.Children {
		applyStylesToNode(child, sheets, rootStyle, styles)
	}
	return styles
}

func applyStylesToNode(node *html.Node, sheets []*Stylesheet, parent *Style, styles ComputedStyles) {
	if node.Type != html.ElementNode {
		return
	}
	style := ComputeStyle(node, sheets)

	parentSize := parent.GetFontSize()
	if l, ok := style.GetLength("font-size"); ok {
		style.Set("font-size", formatPx(l.Resolve(parentSize, parentSize, parentSize)))
	}
	for _, prop := range inherited {
		if _, ok := style.Get(prop); !ok {
			if v, ok := parent.Get(prop); ok {
				style.Set(prop, v)
			}
		}
	}
	styles[node] = style

	for _, child := range node.Children {
		applyStylesToNode(child, sheets, style, styles)
	}
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
