package text

import (
	"testing"

	"slidertext/pkg/html"
)

func parseContainer(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Root.Children[0]
}

func words(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TextContent()
	}
	return out
}

func TestSplitAppend(t *testing.T) {
	container := parseContainer(t, "<h2>  Built   for\n the <em>long</em> run </h2>")
	frags := Split(container, SplitOptions{Append: true})

	got := words(frags)
	want := []string{"Built", "for", "the", "long", "run"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i], want[i])
		}
		if frags[i].TagName != "span" || frags[i].Parent != container {
			t.Errorf("fragment %d should be a span child of the container", i)
		}
	}
	if len(container.Children) != 2*len(want)-1 {
		t.Errorf("expected spans joined by single spaces, got %d children", len(container.Children))
	}
	if container.TextContent() != "Built for the long run" {
		t.Errorf("text content changed: %q", container.TextContent())
	}
}

func TestSplitInPlaceKeepsElements(t *testing.T) {
	container := parseContainer(t, "<p>one <em>two</em> three</p>")
	frags := Split(container, SplitOptions{Tag: "i", Class: "word"})

	got := words(frags)
	if len(got) != 3 || got[0] != "one" || got[1] != "two" || got[2] != "three" {
		t.Fatalf("unexpected fragments %v", got)
	}
	if frags[1].Parent.TagName != "em" {
		t.Error("words inside an element should stay inside it")
	}
	if !frags[0].HasClass("word") || frags[0].TagName != "i" {
		t.Error("tag and class options should apply")
	}
	if container.TextContent() != "one two three" {
		t.Errorf("spacing around elements lost: %q", container.TextContent())
	}
}

func TestSplitEmpty(t *testing.T) {
	container := html.NewElement("div", nil)
	container.AppendText("   ")
	if frags := Split(container, SplitOptions{Append: true}); len(frags) != 0 {
		t.Errorf("expected no fragments, got %d", len(frags))
	}
	if Split(nil, SplitOptions{}) != nil {
		t.Error("nil container should yield nil")
	}
}
