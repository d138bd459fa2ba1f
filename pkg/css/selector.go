package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
)

// SelectorPart is one compound selector: tag, id and classes that must all
// match the same element.
type SelectorPart struct {
	Element string
	ID      string
	Classes []string
}

// Selector is a complex selector such as ".slider .current" or "ul > li".
// Combinators[i] joins Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// SplitSelectorGroup splits "a, b" into its selectors.
func SplitSelectorGroup(group string) []string {
	var out []string
	for _, s := range strings.Split(group, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseSelector parses a single complex selector.
func ParseSelector(raw string) (Selector, error) {
	sel := Selector{Raw: strings.TrimSpace(raw)}
	tokens := strings.Fields(strings.ReplaceAll(sel.Raw, ">", " > "))
	if len(tokens) == 0 {
		return sel, fmt.Errorf("empty selector")
	}

	pending := DescendantCombinator
	dangling := false
	for _, tok := range tokens {
		if tok == ">" {
			if len(sel.Parts) == 0 || dangling {
				return sel, fmt.Errorf("selector %q has a misplaced combinator", raw)
			}
			pending, dangling = ChildCombinator, true
			continue
		}
		dangling = false
		part, err := parseCompound(tok)
		if err != nil {
			return sel, fmt.Errorf("selector %q: %w", raw, err)
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Parts = append(sel.Parts, part)
		pending = DescendantCombinator

		if part.ID != "" {
			sel.Specificity += 100
		}
		sel.Specificity += 10 * len(part.Classes)
		if part.Element != "" && part.Element != "*" {
			sel.Specificity++
		}
	}
	if dangling {
		return sel, fmt.Errorf("selector %q ends with a combinator", raw)
	}
	return sel, nil
}

func parseCompound(tok string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readIdent := func() string {
		start := i
		for i < len(tok) && tok[i] != '.' && tok[i] != '#' && tok[i] != ':' && tok[i] != '[' {
			i++
		}
		return tok[start:i]
	}
	if tok[0] != '.' && tok[0] != '#' {
		part.Element = strings.ToLower(readIdent())
	}
	for i < len(tok) {
		switch tok[i] {
		case '.':
			i++
			name := readIdent()
			if name == "" {
				return part, fmt.Errorf("empty class in %q", tok)
			}
			part.Classes = append(part.Classes, name)
		case '#':
			i++
			part.ID = readIdent()
			if part.ID == "" {
				return part, fmt.Errorf("empty id in %q", tok)
			}
		default:
			return part, fmt.Errorf("unsupported selector syntax %q", tok[i:])
		}
	}
	return part, nil
}
