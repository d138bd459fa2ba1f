package reflow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/layout"
	"slidertext/pkg/text"
)

// fixedTops reports a preset top per fragment text.
type fixedTops map[string]float64

func (f fixedTops) OffsetTop(node, _ *html.Node) (float64, bool) {
	top, ok := f[node.TextContent()]
	return top, ok
}

func container(t *testing.T, words ...string) *html.Node {
	t.Helper()
	doc := html.NewDocument()
	c := html.NewElement("h2", nil)
	doc.Root.AddChild(c)
	for i, w := range words {
		if i > 0 {
			c.AddChild(html.NewText(" "))
		}
		span := html.NewElement("span", nil)
		span.AppendText(w)
		c.AddChild(span)
	}
	return c
}

func lineWords(line *html.Node) []string {
	var out []string
	for _, c := range line.ElementChildren() {
		out = append(out, c.TextContent())
	}
	return out
}

func TestReflowGroupsByTop(t *testing.T) {
	c := container(t, "Built", "for", "the", "long", "run")
	tops := fixedTops{"Built": 0, "for": 0, "the": 0, "long": 32, "run": 32}

	inners, err := Reflow(c, tops)
	require.NoError(t, err)
	require.Len(t, inners, 2)
	assert.Equal(t, []string{"Built", "for", "the"}, lineWords(inners[0]))
	assert.Equal(t, []string{"long", "run"}, lineWords(inners[1]))

	require.Len(t, c.Children, 2)
	for i, outer := range c.Children {
		assert.True(t, outer.HasClass(LineClass))
		assert.Equal(t, "hidden", outer.InlineStyle()["overflow"])
		require.Len(t, outer.Children, 1)
		assert.Same(t, inners[i], outer.Children[0])
		assert.True(t, inners[i].HasClass(LineInnerClass))
	}
	assert.Equal(t, "Built for the", inners[0].TextContent())
	assert.Equal(t, "Built for thelong run", c.TextContent())
}

func TestReflowPreservesOrderAndMembership(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	c := container(t, words...)
	originals := c.ElementChildren()
	tops := fixedTops{"a": 0, "b": 0, "c": 18, "d": 18, "e": 18, "f": 36, "g": 54}

	inners, err := Reflow(c, tops)
	require.NoError(t, err)

	var flat []*html.Node
	for _, inner := range inners {
		line := inner.ElementChildren()
		top := tops[line[0].TextContent()]
		for _, frag := range line {
			assert.Equal(t, top, tops[frag.TextContent()], "fragments of one line share a top")
			flat = append(flat, frag)
		}
	}
	require.Len(t, flat, len(originals))
	for i := range originals {
		assert.Same(t, originals[i], flat[i], "fragment %d moved out of order", i)
	}
	assert.Len(t, inners, 4)
}

func TestReflowEmpty(t *testing.T) {
	c := container(t)
	c.AppendText("no fragments")
	inners, err := Reflow(c, fixedTops{})
	require.NoError(t, err)
	assert.Empty(t, inners)
	assert.Equal(t, "no fragments", c.TextContent(), "container is untouched")
}

func TestReflowDetached(t *testing.T) {
	c := html.NewElement("div", nil)
	_, err := Reflow(c, fixedTops{})
	assert.ErrorIs(t, err, ErrDetached)
}

func TestGroupPolicies(t *testing.T) {
	frags := []Fragment{{Top: 0}, {Top: 0.4}, {Top: 20}, {Top: 20.2}}

	assert.Len(t, Group(frags, ExactTop), 4)
	lines := Group(frags, WithinTolerance(0.5))
	require.Len(t, lines, 2)
	assert.Len(t, lines[0].Fragments, 2)
	assert.Equal(t, 20.0, lines[1].Top)
	assert.Empty(t, Group(nil, nil))
}

func TestGroupBoxlessFragments(t *testing.T) {
	a, b, c, d := html.NewElement("span", nil), html.NewElement("span", nil), html.NewElement("span", nil), html.NewElement("span", nil)
	lines := Group([]Fragment{
		{Node: a, NoBox: true},
		{Node: b, Top: 0},
		{Node: c, Top: 20},
		{Node: d, NoBox: true},
	}, ExactTop)
	require.Len(t, lines, 2)
	assert.Equal(t, []*html.Node{a, b}, []*html.Node{lines[0].Fragments[0].Node, lines[0].Fragments[1].Node})
	assert.Equal(t, []*html.Node{c, d}, []*html.Node{lines[1].Fragments[0].Node, lines[1].Fragments[1].Node})

	only := Group([]Fragment{{Node: a, NoBox: true}}, nil)
	require.Len(t, only, 1)
	assert.Len(t, only[0].Fragments, 1)
}

func parseHeading(t *testing.T, markup string) (*html.Document, *html.Node) {
	t.Helper()
	doc, err := html.Parse(markup)
	require.NoError(t, err)
	heading, err := css.QuerySelector(doc.Root, ".heading")
	require.NoError(t, err)
	require.NotNil(t, heading)
	return doc, heading
}

func newLive(doc *html.Document) *layout.Live {
	return layout.NewLive(doc, layout.NewLayoutEngine(800, 600, layout.WithMeasurer(text.NewFallbackMeasurer())))
}

func TestReflowKeepsNestedFragments(t *testing.T) {
	doc, heading := parseHeading(t, `<h2 class="heading">Hello <em>big</em> world</h2>`)
	text.Split(heading, text.SplitOptions{})
	before := heading.TextContent()

	inners, err := Reflow(heading, newLive(doc).Tree())
	require.NoError(t, err)
	require.Len(t, inners, 1)
	assert.Equal(t, before, heading.TextContent())
	assert.Equal(t, "Hello big world", inners[0].TextContent())

	em, err := css.QuerySelector(inners[0], "em > span")
	require.NoError(t, err)
	require.NotNil(t, em, "the emphasis still wraps its word")
	assert.Equal(t, "big", em.TextContent())
}

func TestReflowKeepsHiddenFragments(t *testing.T) {
	doc, heading := parseHeading(t, `<h2 class="heading"><span>one</span> <span class="x" style="display: none">two</span> <span>three</span></h2>`)
	hidden, err := css.QuerySelector(heading, ".x")
	require.NoError(t, err)

	inners, err := Reflow(heading, newLive(doc).Tree())
	require.NoError(t, err)
	require.Len(t, inners, 1)
	assert.Equal(t, "one two three", heading.TextContent())
	assert.Same(t, inners[0], hidden.Parent)
	assert.Equal(t, "none", hidden.InlineStyle()["display"])
}

func TestReflowLinesMatchLayoutAtAnyWidth(t *testing.T) {
	const sentence = "aa bbbb c dddddd ee fff gggg h iiiii jj kkk l"
	for _, width := range []int{30, 45, 70, 100, 160, 400} {
		t.Run(fmt.Sprintf("%dpx", width), func(t *testing.T) {
			doc, heading := parseHeading(t, fmt.Sprintf(
				`<style>.heading { width: %dpx; font-size: 13px; line-height: 20px }</style><h2 class="heading">%s</h2>`,
				width, sentence))
			frags := text.Split(heading, text.SplitOptions{Append: true})
			live := newLive(doc)

			tops := make(map[*html.Node]float64, len(frags))
			measured := live.Tree()
			for _, f := range frags {
				top, ok := measured.OffsetTop(f, heading)
				require.True(t, ok)
				tops[f] = top
			}

			inners, err := Reflow(heading, measured)
			require.NoError(t, err)
			assert.Equal(t, sentence, heading.TextContent())

			after := live.Tree()
			var flat []*html.Node
			for i, inner := range inners {
				line := inner.ElementChildren()
				require.NotEmpty(t, line)
				for _, f := range line {
					assert.Equal(t, tops[line[0]], tops[f], "line %d mixes tops", i)
					a, _ := after.OffsetTop(f, heading)
					b, _ := after.OffsetTop(line[0], heading)
					assert.Equal(t, b, a, "line %d wraps after reflow", i)
					flat = append(flat, f)
				}
				if i > 0 {
					prev := inners[i-1].ElementChildren()
					assert.NotEqual(t, tops[prev[0]], tops[line[0]], "lines %d and %d share a top", i-1, i)
				}
			}
			require.Len(t, flat, len(frags), "every fragment lands in one line")
			for i := range frags {
				assert.Same(t, frags[i], flat[i], "fragment %d out of order", i)
			}
		})
	}
}

func TestReflowWithLayout(t *testing.T) {
	doc, err := html.Parse(`<style>.heading { width: 100px; font-size: 13px; line-height: 20px }</style>
		<h2 class="heading">aaaa bbbb cccc dddd eeee</h2>`)
	require.NoError(t, err)
	heading, err := css.QuerySelector(doc.Root, ".heading")
	require.NoError(t, err)
	text.Split(heading, text.SplitOptions{Append: true})

	live := layout.NewLive(doc, layout.NewLayoutEngine(800, 600, layout.WithMeasurer(text.NewFallbackMeasurer())))
	inners, err := Reflow(heading, live.Last())
	require.NoError(t, err)
	require.Len(t, inners, 2)
	assert.Equal(t, []string{"aaaa", "bbbb", "cccc"}, lineWords(inners[0]))
	assert.Equal(t, []string{"dddd", "eeee"}, lineWords(inners[1]))

	// the rebuilt lines stack
	tree := live.Tree()
	top0, _ := tree.OffsetTop(inners[0], heading)
	top1, _ := tree.OffsetTop(inners[1], heading)
	assert.Equal(t, 0.0, top0)
	assert.Equal(t, 20.0, top1)
}
