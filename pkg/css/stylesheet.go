package css

import (
	"fmt"
	"strings"
)

// Rule is one selector with its expanded declarations. A rule written
// with a selector group ("a, b { }") becomes one Rule per selector.
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int // source order, breaks specificity ties
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses stylesheet text. Malformed rules and at-rules are
// skipped rather than failing the whole sheet.
func ParseStylesheet(src string) (*Stylesheet, error) {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	src = strings.TrimSpace(stripComments(src))
	if src == "" {
		return sheet, nil
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		return sheet, fmt.Errorf("unbalanced braces in stylesheet")
	}

	order := 0
	for _, block := range splitRules(src) {
		brace := strings.IndexByte(block, '{')
		if brace < 0 {
			continue
		}
		prelude := strings.TrimSpace(block[:brace])
		if prelude == "" || strings.HasPrefix(prelude, "@") {
			continue
		}
		body := strings.TrimSuffix(strings.TrimSpace(block[brace+1:]), "}")
		decls := parseDeclarations(body)
		for _, raw := range SplitSelectorGroup(prelude) {
			sel, err := ParseSelector(raw)
			if err != nil {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls, Order: order})
			order++
		}
	}
	return sheet, nil
}

// stripComments removes /* ... */ comments.
func stripComments(src string) string {
	var sb strings.Builder
	for {
		start := strings.Index(src, "/*")
		if start < 0 {
			sb.WriteString(src)
			return sb.String()
		}
		sb.WriteString(src[:start])
		end := strings.Index(src[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		src = src[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "prelude { body }" blocks.
func splitRules(src string) []string {
	rules := make([]string, 0)
	depth, start := 0, 0
	for i, ch := range src {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if block := strings.TrimSpace(src[start : i+1]); block != "" {
					rules = append(rules, block)
				}
				start = i + 1
			}
		}
	}
	return rules
}

// parseDeclarations parses "prop: value; ..." into expanded longhands.
func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()
	for _, part := range strings.Split(declStr, ";") {
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if property == "" || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style.Properties
}
