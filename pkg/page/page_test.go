package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"slidertext/pkg/carousel"
	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/input"
	"slidertext/pkg/section"
	"slidertext/pkg/text"
)

const homeMarkup = `<main class="home">
<section class="products__selection"><h2 class="products__selection__title">Our selection</h2></section>
<section class="slider__text">
<div class="slider__text__content__heading">Crafted slowly</div>
<div class="slider__text__pagination"><span class="current"></span><span class="total"></span></div>
<button class="slide__pervious">Prev</button><button class="slide__next">Next</button>
<ul class="slider__text__slider" style="display: flex">
<li class="slider__text__slide" style="width: 100%; margin-right: 10px"><p class="slider__text__slide__title">A</p></li>
<li class="slider__text__slide" style="width: 100%; margin-right: 10px"><p class="slider__text__slide__title">B</p></li>
</ul>
</section>
</main>`

func newHome(t *testing.T, opts ...Option) *Page {
	t.Helper()
	doc, err := html.Parse(homeMarkup)
	require.NoError(t, err)
	opts = append([]Option{WithViewport(400, 300), WithMeasurer(text.NewFallbackMeasurer())}, opts...)
	p := Home(doc, DefaultMotion(), opts...)
	require.NoError(t, p.Create())
	return p
}

func query(t *testing.T, p *Page, sel string) *html.Node {
	t.Helper()
	n, err := css.QuerySelector(p.Document().Root, sel)
	require.NoError(t, err)
	require.NotNil(t, n, sel)
	return n
}

func sliderCarousel(t *testing.T, p *Page) *carousel.Carousel {
	t.Helper()
	s, ok := p.Section("slider-text")
	require.True(t, ok)
	st, ok := s.(*section.SliderText)
	require.True(t, ok)
	require.NotNil(t, st.Carousel())
	return st.Carousel()
}

func TestHomeMountsSections(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := newHome(t, WithLogger(zap.New(core)))

	require.Len(t, p.Sections(), 2)
	assert.Equal(t, "products-selection", p.Sections()[0].Name())
	for _, s := range p.Sections() {
		assert.True(t, s.Active(), s.Name())
	}
	assert.Equal(t, "02", query(t, p, ".total").TextContent())
	assert.Equal(t, "01", query(t, p, ".current").TextContent())
	assert.ErrorIs(t, p.Create(), ErrCreated)

	created := logs.FilterMessage("page created").All()
	require.Len(t, created, 1)
	assert.Equal(t, int64(2), created[0].ContextMap()["sections"])
	assert.Equal(t, "home", created[0].ContextMap()["page"])
}

func TestHomeNavigation(t *testing.T) {
	p := newHome(t)
	c := sliderCarousel(t, p)

	p.Key(input.ArrowRight)
	p.Key(input.ArrowRight)
	assert.Equal(t, carousel.State{CurrentSlide: 1, IsAnimating: true}, c.State())
	p.Tick(1)
	assert.Equal(t, -410.0, p.Engine().Get(query(t, p, ".slider__text__slider")).X)

	assert.Equal(t, 1, p.Click(query(t, p, ".slide__next")))
	p.Tick(1)
	assert.Equal(t, carousel.State{CurrentSlide: 0}, c.State())
	assert.Equal(t, "01", query(t, p, ".current").TextContent())
}

func TestHomeResizeBetweenTransitions(t *testing.T) {
	p := newHome(t)
	c := sliderCarousel(t, p)
	track := query(t, p, ".slider__text__slider")

	require.True(t, c.Advance(carousel.Next))
	p.Tick(1)
	assert.Equal(t, -410.0, p.Engine().Get(track).X)

	p.Resize(600, 300)
	require.True(t, c.Advance(carousel.Prev))
	p.Tick(1)
	assert.Equal(t, 0.0, p.Engine().Get(track).X)
	require.True(t, c.Advance(carousel.Prev))
	p.Tick(1)
	assert.Equal(t, -610.0, p.Engine().Get(track).X, "reset uses the new width")
	assert.Equal(t, 1, c.State().CurrentSlide)
}

func TestDestroy(t *testing.T) {
	p := newHome(t)
	c := sliderCarousel(t, p)
	require.Equal(t, 3, p.Input().Len())

	p.Destroy()
	p.Destroy()
	assert.True(t, p.Destroyed())
	assert.Zero(t, p.Input().Len())
	clones, err := css.QuerySelectorAll(p.Document().Root, "."+carousel.CloneClass)
	require.NoError(t, err)
	assert.Empty(t, clones)

	p.Key(input.ArrowRight)
	assert.Equal(t, 0, c.State().CurrentSlide)
	assert.Zero(t, p.Click(query(t, p, ".slide__next")))
	assert.ErrorIs(t, p.Create(), ErrDestroyed)
}

var errBroken = errors.New("broken section")

func TestCreateFailure(t *testing.T) {
	doc, err := html.Parse(homeMarkup)
	require.NoError(t, err)
	p := New("broken", doc,
		WithMeasurer(text.NewFallbackMeasurer()),
		WithSections(
			func(env section.Env) (section.Section, error) { return section.NewTitleReveal(env, section.DefaultReveal()) },
			func(section.Env) (section.Section, error) { return nil, errBroken },
		))

	err = p.Create()
	require.ErrorIs(t, err, errBroken)
	assert.Contains(t, err.Error(), "broken")
	assert.Len(t, p.Sections(), 1)
	p.Destroy()
	assert.True(t, p.Engine().Idle())
}
