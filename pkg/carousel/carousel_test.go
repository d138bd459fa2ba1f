package carousel

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/input"
	"slidertext/pkg/layout"
	"slidertext/pkg/text"
	"slidertext/pkg/timeline"
)

type call struct {
	kind    string
	targets []*html.Node
	props   timeline.Props
	vars    timeline.Vars
}

// recorder stands in for the timeline engine. Completion callbacks are
// queued and only run when the test fires them.
type recorder struct {
	calls   []call
	pending []func()
	killed    []*html.Node
	forgotten []*html.Node
	onSet     func(call)
}

func (r *recorder) Set(targets []*html.Node, props timeline.Props) {
	c := call{kind: "set", targets: targets, props: props}
	r.calls = append(r.calls, c)
	if r.onSet != nil {
		r.onSet(c)
	}
}

func (r *recorder) To(targets []*html.Node, v timeline.Vars) *timeline.Tween {
	r.calls = append(r.calls, call{kind: "to", targets: targets, props: v.Props, vars: v})
	if v.OnComplete != nil {
		r.pending = append(r.pending, v.OnComplete)
	}
	return nil
}

func (r *recorder) KillTweensOf(targets ...*html.Node) {
	r.killed = append(r.killed, targets...)
}

func (r *recorder) Forget(nodes ...*html.Node) {
	r.forgotten = append(r.forgotten, nodes...)
}

// fire runs the oldest queued completion.
func (r *recorder) fire(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, r.pending, "no completion queued")
	fn := r.pending[0]
	r.pending = r.pending[1:]
	fn()
}

func (r *recorder) callsOn(kind string, n *html.Node) []call {
	var out []call
	for _, c := range r.calls {
		if c.kind == kind && len(c.targets) == 1 && c.targets[0] == n {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) lastTrackX(t *testing.T, track *html.Node) float64 {
	t.Helper()
	for i := len(r.calls) - 1; i >= 0; i-- {
		c := r.calls[i]
		if len(c.targets) == 1 && c.targets[0] == track {
			return c.props[timeline.X]
		}
	}
	t.Fatal("track never positioned")
	return 0
}

type fixedMetrics struct{ width, gutter float64 }

func (m *fixedMetrics) OffsetWidth(*html.Node) float64 { return m.width }
func (m *fixedMetrics) MarginRight(*html.Node) float64 { return m.gutter }

func sliderMarkup(n int) string {
	var sb strings.Builder
	sb.WriteString(`<ul class="slider__text__slider" style="display: flex">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<li class="slider__text__slide" style="width: 100%%; margin-right: 24px">`+
			`<div class="slider__text__slide__media"><img class="slider__text__slide__media__image" src="%d.png"></div>`+
			`<p class="slider__text__slide__title">Slide %d</p></li>`, i, i)
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

func buildSlider(t *testing.T, n int) (*html.Document, *html.Node, []*html.Node) {
	t.Helper()
	doc, err := html.Parse(sliderMarkup(n))
	require.NoError(t, err)
	track, err := css.QuerySelector(doc.Root, ".slider__text__slider")
	require.NoError(t, err)
	slides, err := css.QuerySelectorAll(track, ".slider__text__slide")
	require.NoError(t, err)
	require.Len(t, slides, n)
	return doc, track, slides
}

func newRecorded(t *testing.T, n int, opts ...Option) (*Carousel, *recorder, *html.Node, *[]int) {
	t.Helper()
	_, track, slides := buildSlider(t, n)
	rec := &recorder{}
	var shown []int
	opts = append(opts, WithPagination(func(d int) { shown = append(shown, d) }))
	c := New(track, slides, rec, &fixedMetrics{width: 300, gutter: 20}, opts...)
	return c, rec, track, &shown
}

func TestMod(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for i := -50; i <= 50; i++ {
			m := Mod(i, n)
			require.GreaterOrEqual(t, m, 0)
			require.Less(t, m, n)
			require.Zero(t, (i-m)%n, "Mod(%d, %d) = %d is not congruent", i, n, m)
		}
	}
}

func TestSetupClonesAndPrimes(t *testing.T) {
	c, rec, track, shown := newRecorded(t, 3)
	setup := c.Setup()

	require.Len(t, setup.Rendered, 6)
	assert.Equal(t, 3, setup.PaginationTotal)
	children := track.ElementChildren()
	require.Len(t, children, 6)
	for i, slide := range setup.Rendered {
		assert.Same(t, children[i], slide)
		assert.Equal(t, i >= 3, slide.HasClass(CloneClass), "slide %d clone flag", i)
	}
	assert.Equal(t, "Slide 1", setup.Rendered[4].TextContent())
	assert.Equal(t, State{CurrentSlide: 0, IsAnimating: false}, c.State())
	assert.Equal(t, []int{1}, *shown)

	require.GreaterOrEqual(t, len(rec.calls), 4)
	assert.Equal(t, "set", rec.calls[0].kind)
	assert.Len(t, rec.calls[0].targets, 6)
	assert.Equal(t, 1.1, rec.calls[0].props[timeline.Scale])
	assert.Len(t, rec.calls[1].targets, 6)
	assert.Equal(t, 0.0, rec.calls[1].props[timeline.Opacity])
	assert.Equal(t, 20.0, rec.calls[1].props[timeline.Y])
	assert.Equal(t, timeline.Vars{Props: timeline.Props{timeline.Scale: 1}, Duration: 1.4, Ease: "expo.out", Delay: 0.5}, rec.calls[2].vars)
	assert.Equal(t, 0.8, rec.calls[3].vars.Delay)

	again := c.Setup()
	assert.Len(t, again.Rendered, 6, "setup runs once")
	assert.Len(t, track.ElementChildren(), 6)
}

func TestSingleTransitionInFlight(t *testing.T) {
	c, rec, track, _ := newRecorded(t, 3)
	c.Setup()

	assert.True(t, c.Advance(Next))
	assert.False(t, c.Advance(Next))
	assert.False(t, c.Advance(Prev))
	assert.Equal(t, State{CurrentSlide: 1, IsAnimating: true}, c.State())
	assert.Len(t, rec.callsOn("to", track), 1)

	rec.fire(t)
	assert.Equal(t, State{CurrentSlide: 1, IsAnimating: false}, c.State())
	assert.True(t, c.Advance(Next))
}

func TestForwardResetAfterClone(t *testing.T) {
	c, rec, track, shown := newRecorded(t, 3)
	c.Setup()
	for i := 0; i < 2; i++ {
		require.True(t, c.Advance(Next))
		rec.fire(t)
	}
	require.Equal(t, 2, c.State().CurrentSlide)

	var atReset State
	rec.onSet = func(cl call) {
		if cl.targets[0] == track {
			atReset = c.State()
		}
	}
	require.True(t, c.Advance(Next))
	assert.Equal(t, State{CurrentSlide: 3, IsAnimating: true}, c.State(), "transiently on the clone")
	assert.Equal(t, -960.0, rec.lastTrackX(t, track))

	rec.fire(t)
	assert.Equal(t, State{CurrentSlide: 0, IsAnimating: true}, atReset, "index reset before the latch clears")
	assert.Equal(t, State{CurrentSlide: 0, IsAnimating: false}, c.State())
	assert.Equal(t, 0.0, rec.lastTrackX(t, track))
	assert.Equal(t, []int{1, 2, 3, 1}, *shown)

	// original slide 0 takes over the visible state of clone 0
	sets := rec.callsOn("set", c.titles[0])
	require.NotEmpty(t, sets)
	assert.Equal(t, 1.0, sets[len(sets)-1].props[timeline.Opacity])

	// and clone 0 is primed again for its next entrance
	titleSets := rec.callsOn("set", c.titles[3])
	require.NotEmpty(t, titleSets)
	assert.Equal(t, timeline.Props{timeline.Opacity: 0, timeline.Y: DefaultMotion().PrimeTitleY}, titleSets[len(titleSets)-1].props)
	imageSets := rec.callsOn("set", c.images[3])
	require.NotEmpty(t, imageSets)
	assert.Equal(t, timeline.Props{timeline.Scale: DefaultMotion().PrimeScale}, imageSets[len(imageSets)-1].props)
	assert.Contains(t, rec.killed, c.titles[3])
}

func TestBackwardResetBeforeFirst(t *testing.T) {
	c, rec, track, shown := newRecorded(t, 3)
	c.Setup()

	var atReset State
	rec.onSet = func(cl call) {
		if cl.targets[0] == track {
			atReset = c.State()
		}
	}
	require.True(t, c.Advance(Prev))
	assert.Equal(t, -1, c.State().CurrentSlide)
	assert.Equal(t, 320.0, rec.lastTrackX(t, track))

	// leaving slide 0, entering the last original
	assert.NotEmpty(t, rec.callsOn("to", c.titles[0]))
	enter := rec.callsOn("to", c.titles[2])
	require.Len(t, enter, 1)
	assert.Equal(t, 1.0, enter[0].props[timeline.Opacity])

	rec.fire(t)
	assert.Equal(t, State{CurrentSlide: 2, IsAnimating: true}, atReset)
	assert.Equal(t, State{CurrentSlide: 2, IsAnimating: false}, c.State())
	assert.Equal(t, -640.0, rec.lastTrackX(t, track))
	assert.Equal(t, []int{1, 3}, *shown)
}

func TestContentTargetsUseRawIndex(t *testing.T) {
	c, rec, _, _ := newRecorded(t, 2)
	c.Setup()
	require.True(t, c.Advance(Next))
	rec.fire(t)
	require.True(t, c.Advance(Next)) // raw 2 is clone 0

	enter := rec.callsOn("to", c.images[2])
	require.Len(t, enter, 1)
	assert.Equal(t, 1.0, enter[0].props[timeline.Scale])
	assert.Equal(t, 0.2, enter[0].vars.Delay)
	out := rec.callsOn("to", c.images[1])
	require.NotEmpty(t, out)
	assert.Equal(t, 1.1, out[len(out)-1].props[timeline.Scale])
}

func TestFiveNextScenario(t *testing.T) {
	_, track, slides := buildSlider(t, 5)
	engine := timeline.New()
	var shown []int
	c := New(track, slides, engine, &fixedMetrics{width: 400, gutter: 24},
		WithPagination(func(d int) { shown = append(shown, d) }))
	c.Setup()

	var actual []int
	for i := 0; i < 5; i++ {
		require.True(t, c.Advance(Next))
		actual = append(actual, c.ActualSlide())
		engine.Advance(1)
		require.False(t, c.State().IsAnimating, "transition %d should be complete", i)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 0}, actual)
	assert.Equal(t, 0, c.State().CurrentSlide)
	assert.Equal(t, 0.0, engine.Get(track).X)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 1}, shown)

	engine.Advance(2)
	assert.Equal(t, 1.0, engine.Get(c.titles[0]).Opacity, "slide 0 title visible after the reset")
	assert.Equal(t, 1.0, engine.Get(c.images[0]).Scale)
	assert.Equal(t, 0.0, engine.Get(c.titles[4]).Opacity)
}

func TestCloneEntranceRunsEveryLap(t *testing.T) {
	_, track, slides := buildSlider(t, 3)
	engine := timeline.New()
	c := New(track, slides, engine, &fixedMetrics{width: 400, gutter: 24})
	c.Setup()

	lap := func() {
		for i := 0; i < 3; i++ {
			require.True(t, c.Advance(Next))
			engine.Advance(2)
		}
	}
	lap()
	require.Equal(t, 0, c.State().CurrentSlide)
	assert.Equal(t, 0.0, engine.Get(c.titles[3]).Opacity, "clone 0 title primed after the reset")
	assert.Equal(t, 1.1, engine.Get(c.images[3]).Scale)
	assert.Equal(t, 1.0, engine.Get(c.titles[0]).Opacity)

	for i := 0; i < 2; i++ {
		require.True(t, c.Advance(Next))
		engine.Advance(2)
	}
	require.True(t, c.Advance(Next))
	engine.Advance(0.7)
	op := engine.Get(c.titles[3]).Opacity
	assert.Greater(t, op, 0.0, "clone 0 title animates in on the second lap")
	assert.Less(t, op, 1.0)
}

func TestResizeBetweenTransitions(t *testing.T) {
	doc, track, slides := buildSlider(t, 3)
	live := layout.NewLive(doc, layout.NewLayoutEngine(800, 600, layout.WithMeasurer(text.NewFallbackMeasurer())))
	engine := timeline.New()
	c := New(track, slides, engine, live)
	c.Setup()

	require.True(t, c.Advance(Next))
	engine.Advance(1)
	assert.Equal(t, -824.0, engine.Get(track).X)

	live.SetViewport(500, 600)
	require.True(t, c.Advance(Next))
	engine.Advance(1)
	assert.Equal(t, -1048.0, engine.Get(track).X)
}

func TestKeyboardAndButtons(t *testing.T) {
	host := input.NewHost()
	next := html.NewElement("button", map[string]string{"class": "slide__next"})
	prev := html.NewElement("button", map[string]string{"class": "slide__pervious"})
	c, rec, _, _ := newRecorded(t, 3, WithInput(host), WithButtons(next, prev))
	c.Setup()
	assert.Equal(t, 3, host.Len())

	host.DispatchKey(input.ArrowRight)
	assert.Equal(t, 1, c.State().CurrentSlide)
	host.DispatchKey(input.ArrowLeft) // dropped, still animating
	assert.Equal(t, 1, c.State().CurrentSlide)
	rec.fire(t)

	host.DispatchClick(prev)
	assert.Equal(t, 0, c.State().CurrentSlide)
	rec.fire(t)
	host.DispatchKey("Enter")
	assert.False(t, c.State().IsAnimating)
	host.DispatchClick(next)
	assert.Equal(t, 1, c.State().CurrentSlide)
}

func TestTeardownIdempotent(t *testing.T) {
	host := input.NewHost()
	next := html.NewElement("button", nil)
	line := html.NewElement("div", nil)
	c, rec, track, _ := newRecorded(t, 4, WithInput(host), WithButtons(next, nil), WithExtraTargets(line))
	c.Setup()

	c.Teardown()
	assert.NotPanics(t, c.Teardown)

	clones, err := css.QuerySelectorAll(track, "."+CloneClass)
	require.NoError(t, err)
	assert.Empty(t, clones)
	assert.Len(t, track.ElementChildren(), 4)
	assert.Zero(t, host.Len())
	assert.Contains(t, rec.killed, track)
	assert.Contains(t, rec.killed, line)
	assert.Contains(t, rec.killed, c.images[7])
	assert.Len(t, rec.forgotten, 8, "clone images and titles are forgotten")
	assert.Contains(t, rec.forgotten, c.titles[4])
	assert.NotContains(t, rec.forgotten, c.titles[0])
	assert.False(t, c.Advance(Next))
}

func TestLateCompletionAfterTeardown(t *testing.T) {
	c, rec, track, shown := newRecorded(t, 3)
	c.Setup()
	require.True(t, c.Advance(Prev))
	c.Teardown()

	before := len(rec.calls)
	rec.fire(t)
	assert.Len(t, rec.calls, before, "no animation calls from a dead carousel")
	assert.Equal(t, -1, c.State().CurrentSlide, "no reset after teardown")
	assert.Equal(t, []int{1, 3}, *shown)
	assert.Empty(t, rec.callsOn("set", track))
}

func TestEmptySlideSet(t *testing.T) {
	_, track, _ := buildSlider(t, 0)
	rec := &recorder{}
	c := New(track, nil, rec, &fixedMetrics{})
	setup := c.Setup()
	assert.Empty(t, setup.Rendered)
	assert.Zero(t, setup.PaginationTotal)
	assert.False(t, c.Advance(Next))
	c.Teardown()
}
