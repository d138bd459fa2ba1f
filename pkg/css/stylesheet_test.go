package css

import "testing"

func TestParseStylesheet_GroupsAndComments(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* slides */
		.slide, .slide--clone { width: 300px; margin: 0 24px 0 0; }
		@media (max-width: 600px) { .slide { width: 100px; } }
		.broken { color }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules (two from the group, one empty), got %d", len(sheet.Rules))
	}
	first := sheet.Rules[0]
	if first.Selector.Raw != ".slide" || first.Declarations["width"] != "300px" {
		t.Errorf("unexpected first rule %+v", first)
	}
	if first.Declarations["margin-right"] != "24px" || first.Declarations["margin-left"] != "0" {
		t.Errorf("margin shorthand not expanded: %v", first.Declarations)
	}
	if sheet.Rules[1].Order <= first.Order {
		t.Error("rules should keep source order")
	}
	if len(sheet.Rules[2].Declarations) != 0 {
		t.Errorf("malformed declaration should be dropped, got %v", sheet.Rules[2].Declarations)
	}
}

func TestParseStylesheet_Unbalanced(t *testing.T) {
	if _, err := ParseStylesheet(`.a { color: red;`); err == nil {
		t.Error("expected error for unbalanced braces")
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw         string
		parts       int
		specificity int
		wantErr     bool
	}{
		{"div", 1, 1, false},
		{".slider__text__pagination .current", 2, 20, false},
		{"ul > li.active", 2, 12, false},
		{"#hero.dark", 1, 110, false},
		{"a:hover", 0, 0, true},
		{"> li", 0, 0, true},
		{"ul >", 0, 0, true},
	}
	for _, tt := range tests {
		sel, err := ParseSelector(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.raw, err)
			continue
		}
		if len(sel.Parts) != tt.parts || sel.Specificity != tt.specificity {
			t.Errorf("%q: parts=%d specificity=%d, want %d/%d", tt.raw, len(sel.Parts), sel.Specificity, tt.parts, tt.specificity)
		}
	}
}
