package html

import "testing"

func TestTokenizer_TagWithAttributes(t *testing.T) {
	tokenizer := NewTokenizer(`<div style="color: red" class='slide' data-index=3 hidden>`)
	token, err := tokenizer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Type != TokenStartTag || token.TagName != "div" {
		t.Fatalf("expected start tag div, got %+v", token)
	}
	want := map[string]string{"style": "color: red", "class": "slide", "data-index": "3", "hidden": ""}
	for k, v := range want {
		if token.Attributes[k] != v {
			t.Errorf("attribute %s = %q, want %q", k, token.Attributes[k], v)
		}
	}
}

func TestTokenizer_CompleteSequence(t *testing.T) {
	tokenizer := NewTokenizer("<!DOCTYPE html><!-- c --><div>Hello &amp;\n  bye </div>")
	expect := []Token{
		{Type: TokenStartTag, TagName: "div"},
		{Type: TokenText, Text: "Hello & bye "},
		{Type: TokenEndTag, TagName: "div"},
		{Type: TokenEOF},
	}
	for i, want := range expect {
		got, err := tokenizer.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if got.Type != want.Type || got.TagName != want.TagName || got.Text != want.Text {
			t.Errorf("token %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestTokenizer_Errors(t *testing.T) {
	for _, input := range []string{"<div", `<div class="x`, "< div>"} {
		if _, err := NewTokenizer(input).NextToken(); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
