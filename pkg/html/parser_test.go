package html

import "testing"

func TestParser_NestedElements(t *testing.T) {
	doc, err := Parse(`<section class="slider__text"><h2>Hello <em>big</em> world</h2></section>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Root.Children))
	}
	section := doc.Root.Children[0]
	if section.TagName != "section" || !section.HasClass("slider__text") {
		t.Fatalf("unexpected root element %q", section.SerializeOuter())
	}
	h2 := section.Children[0]
	if h2.Parent != section {
		t.Error("h2's parent should be section")
	}
	if got := h2.TextContent(); got != "Hello big world" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestParser_StyleAndScript(t *testing.T) {
	doc, err := Parse(`
		<style>.slide { width: 100px; }</style>
		<div class="slide"></div>
		<script>if (a < b) { page.press("ArrowRight"); }</script>
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected only the div in the tree, got %d nodes", len(doc.Root.Children))
	}
	if len(doc.Stylesheets) != 1 || doc.Stylesheets[0] != ".slide { width: 100px; }" {
		t.Errorf("unexpected stylesheets %q", doc.Stylesheets)
	}
	if len(doc.Scripts) != 1 || doc.Scripts[0] != `if (a < b) { page.press("ArrowRight"); }` {
		t.Errorf("unexpected scripts %q", doc.Scripts)
	}
}

func TestParser_VoidAndSelfClosing(t *testing.T) {
	doc, err := Parse(`<div><img src="a.png"><span/>after</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := doc.Root.Children[0]
	if len(div.Children) != 3 {
		t.Fatalf("expected img, span and text as siblings, got %d", len(div.Children))
	}
	if div.Children[2].Text != "after" {
		t.Errorf("expected trailing text, got %q", div.Children[2].Text)
	}
}

func TestParser_AutoCloseP(t *testing.T) {
	doc, err := Parse(`<p>one<div>two</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 2 {
		t.Errorf("block element should close the open <p>, got %d root children", len(doc.Root.Children))
	}
}

func TestSetInnerHTML(t *testing.T) {
	n := NewElement("div", nil)
	n.AppendText("old")
	if err := n.SetInnerHTML(`<span>a</span> <span>b</span>`); err != nil {
		t.Fatal(err)
	}
	if got := n.Serialize(); got != "<span>a</span><span>b</span>" {
		t.Errorf("Serialize() = %q", got)
	}
	for _, c := range n.Children {
		if c.Parent != n {
			t.Error("parsed children should be owned by the target")
		}
	}
}

func TestDocumentBodyAndTitle(t *testing.T) {
	doc, err := Parse(`<html><head><title> Home </title></head><body><main></main></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title() != "Home" {
		t.Errorf("Title() = %q", doc.Title())
	}
	if body := doc.Body(); body.TagName != "body" || len(body.Children) != 1 {
		t.Errorf("unexpected body %q", body.SerializeOuter())
	}

	bare, _ := Parse(`<main></main>`)
	if bare.Body() != bare.Root {
		t.Error("documents without <body> should fall back to the root")
	}
}
