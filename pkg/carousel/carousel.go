// Package carousel implements an endless slide carousel. The N slides are
// followed by N clones; the track moves by a raw, unbounded index, and
// when it runs onto the clones (or before the first slide) the index and
// track position are silently re-based once the transition completes.
package carousel

import (
	"go.uber.org/zap"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/input"
	"slidertext/pkg/timeline"
)

// CloneClass marks cloned slides.
const CloneClass = "slide--clone"

// Direction of a transition.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Animator is the subset of the timeline engine the carousel drives.
type Animator interface {
	Set(targets []*html.Node, props timeline.Props)
	To(targets []*html.Node, v timeline.Vars) *timeline.Tween
	KillTweensOf(targets ...*html.Node)
	// Forget drops the state of nodes that left the document.
	Forget(nodes ...*html.Node)
}

// Metrics measures the rendered slides. Values are read on every
// transition, never cached.
type Metrics interface {
	OffsetWidth(n *html.Node) float64
	MarginRight(n *html.Node) float64
}

// Input grants keyboard and click subscriptions.
type Input interface {
	OnKey(fn input.KeyFunc) *input.Subscription
	OnClick(node *html.Node, fn input.ClickFunc) *input.Subscription
}

// State is a snapshot of the navigation state.
type State struct {
	// CurrentSlide is the raw index. Between transitions it is in [0, N);
	// while one runs it may be N or -1.
	CurrentSlide int
	IsAnimating  bool
}

// Setup is the result of Carousel.Setup.
type Setup struct {
	Rendered        []*html.Node
	PaginationTotal int
}

// Mod returns i modulo n in [0, n). n must be positive.
func Mod(i, n int) int {
	return ((i % n) + n) % n
}

type Carousel struct {
	track      *html.Node
	originals  []*html.Node
	animator   Animator
	metrics    Metrics
	input      Input
	next       *html.Node
	prev       *html.Node
	motion     Motion
	logger     *zap.Logger
	pagination func(display int)
	imageSel   string
	titleSel   string
	extra      []*html.Node

	rendered []*html.Node
	images   []*html.Node
	titles   []*html.Node
	clones   []*html.Node
	subs     []*input.Subscription

	// in-flight enter tweens, handed over on the forward reset
	enterImage *timeline.Tween
	enterTitle *timeline.Tween

	current   int
	animating bool
	alive     bool
	setup     bool
	torn      bool
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithInput binds ArrowLeft/ArrowRight and the navigation buttons.
func WithInput(in Input) Option {
	return func(c *Carousel) { c.input = in }
}

// WithButtons sets the next and previous buttons. Either may be nil.
func WithButtons(next, prev *html.Node) Option {
	return func(c *Carousel) { c.next, c.prev = next, prev }
}

// WithPagination receives the 1-based number of the shown slide.
func WithPagination(fn func(display int)) Option {
	return func(c *Carousel) { c.pagination = fn }
}

func WithMotion(m Motion) Option {
	return func(c *Carousel) { c.motion = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Carousel) { c.logger = l }
}

// WithSelectors sets the selectors of the animated image and title inside
// each slide.
func WithSelectors(image, title string) Option {
	return func(c *Carousel) { c.imageSel, c.titleSel = image, title }
}

// WithExtraTargets adds nodes whose tweens are killed at teardown.
func WithExtraTargets(nodes ...*html.Node) Option {
	return func(c *Carousel) { c.extra = append(c.extra, nodes...) }
}

// New creates a carousel over slides, which must be the slide children of
// track in order. Nothing changes until Setup.
func New(track *html.Node, slides []*html.Node, animator Animator, metrics Metrics, opts ...Option) *Carousel {
	c := &Carousel{
		track:     track,
		originals: append([]*html.Node(nil), slides...),
		animator:  animator,
		metrics:   metrics,
		motion:    DefaultMotion(),
		logger:    zap.NewNop(),
		imageSel:  ".slider__text__slide__media__image",
		titleSel:  ".slider__text__slide__title",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Setup clones the slides, primes their entrance state, shows slide 0 and
// binds input. Calling it again returns the first result.
func (c *Carousel) Setup() Setup {
	n := len(c.originals)
	if c.setup {
		return Setup{Rendered: c.rendered, PaginationTotal: n}
	}
	c.setup, c.alive = true, true
	c.current, c.animating = 0, false

	c.rendered = append(c.rendered, c.originals...)
	for _, slide := range c.originals {
		clone := slide.CloneNode(true)
		clone.AddClass(CloneClass)
		c.track.AddChild(clone)
		c.clones = append(c.clones, clone)
		c.rendered = append(c.rendered, clone)
	}
	for _, slide := range c.rendered {
		c.images = append(c.images, c.find(slide, c.imageSel))
		c.titles = append(c.titles, c.find(slide, c.titleSel))
	}

	if n > 0 {
		c.animator.Set(present(c.images), timeline.Props{timeline.Scale: c.motion.PrimeScale})
		c.animator.Set(present(c.titles), timeline.Props{timeline.Opacity: 0, timeline.Y: c.motion.PrimeTitleY})
		c.enterImage = c.tween(c.images[0], timeline.Props{timeline.Scale: 1}, c.motion.FirstImage)
		c.enterTitle = c.tween(c.titles[0], timeline.Props{timeline.Opacity: 1, timeline.Y: 0}, c.motion.FirstTitle)
		c.showPagination(0)
	}
	c.bindInput()

	c.logger.Debug("carousel ready", zap.Int("slides", n), zap.Int("rendered", len(c.rendered)))
	return Setup{Rendered: c.rendered, PaginationTotal: n}
}

func (c *Carousel) find(slide *html.Node, sel string) *html.Node {
	if sel == "" {
		return nil
	}
	n, err := css.QuerySelector(slide, sel)
	if err != nil {
		c.logger.Warn("invalid slide selector", zap.String("selector", sel), zap.Error(err))
		return nil
	}
	return n
}

func (c *Carousel) bindInput() {
	if c.input == nil {
		return
	}
	c.subs = append(c.subs, c.input.OnKey(func(key string) {
		switch key {
		case input.ArrowLeft:
			c.Advance(Prev)
		case input.ArrowRight:
			c.Advance(Next)
		}
	}))
	if c.next != nil {
		c.subs = append(c.subs, c.input.OnClick(c.next, func(*html.Node) { c.Advance(Next) }))
	}
	if c.prev != nil {
		c.subs = append(c.subs, c.input.OnClick(c.prev, func(*html.Node) { c.Advance(Prev) }))
	}
}

// State returns the current navigation state.
func (c *Carousel) State() State {
	return State{CurrentSlide: c.current, IsAnimating: c.animating}
}

// ActualSlide is the index of the shown original slide.
func (c *Carousel) ActualSlide() int {
	if len(c.originals) == 0 {
		return 0
	}
	return Mod(c.current, len(c.originals))
}

// Rendered returns the 2N rendered slides.
func (c *Carousel) Rendered() []*html.Node { return c.rendered }

// stepWidth measures slide width plus gutter from the first rendered slide.
func (c *Carousel) stepWidth() float64 {
	first := c.rendered[0]
	return c.metrics.OffsetWidth(first) + c.metrics.MarginRight(first)
}

// Offset returns the track x for raw index i at the current layout.
func (c *Carousel) Offset(i int) float64 {
	if len(c.rendered) == 0 {
		return 0
	}
	return -c.stepWidth() * float64(i)
}

// Advance starts a transition and reports whether it did. Requests made
// while a transition runs are dropped.
func (c *Carousel) Advance(dir Direction) bool {
	n := len(c.originals)
	if !c.alive || c.animating || n == 0 {
		return false
	}
	step := 1
	if dir == Prev {
		step = -1
	}
	c.animating = true
	c.current += step
	cur := c.current

	width := c.stepWidth()
	offset := -width * float64(cur)
	actual := Mod(cur, n)

	c.logger.Debug("carousel advance",
		zap.Stringer("direction", dir),
		zap.Int("slide", cur),
		zap.Int("actual", actual),
		zap.Float64("offset", offset))

	c.tweenTrack(offset, func() { c.complete(width) })
	c.transitionContent(cur-step, cur, actual)
	c.showPagination(actual)
	return true
}

func (c *Carousel) tweenTrack(x float64, onComplete func()) {
	s := c.motion.Track
	c.animator.To([]*html.Node{c.track}, timeline.Vars{
		Props:      timeline.Props{timeline.X: x},
		Duration:   s.Duration,
		Ease:       s.Ease,
		Delay:      s.Delay,
		OnComplete: onComplete,
	})
}

// complete runs when the track tween finishes. width is the step measured
// when the transition started, so the reset lands where the track is.
func (c *Carousel) complete(width float64) {
	if !c.alive {
		return
	}
	n := len(c.originals)
	switch {
	case c.current >= n:
		c.current = 0
		c.animator.Set([]*html.Node{c.track}, timeline.Props{timeline.X: 0})
		c.handOver(n, 0)
		c.prime(n)
		c.logger.Debug("carousel reset", zap.Int("slide", 0))
	case c.current < 0:
		c.current = n - 1
		c.animator.Set([]*html.Node{c.track}, timeline.Props{timeline.X: -width * float64(n-1)})
		c.logger.Debug("carousel reset", zap.Int("slide", n-1))
	}
	c.animating = false
}

// handOver gives rendered slide to the entrance state its twin from was
// animating to, so the jump from a clone back to its original is not
// visible in the slide content either.
func (c *Carousel) handOver(from, to int) {
	pairs := []struct {
		src, dst *html.Node
		tw       *timeline.Tween
		props    timeline.Props
	}{
		{c.images[from], c.images[to], c.enterImage, timeline.Props{timeline.Scale: 1}},
		{c.titles[from], c.titles[to], c.enterTitle, timeline.Props{timeline.Opacity: 1, timeline.Y: 0}},
	}
	for _, p := range pairs {
		if p.dst == nil {
			continue
		}
		c.animator.KillTweensOf(p.dst)
		if p.tw == nil || p.tw.Done() || p.tw.Killed() {
			c.animator.Set([]*html.Node{p.dst}, p.props)
			continue
		}
		delay, remaining := p.tw.Remaining()
		c.animator.To([]*html.Node{p.dst}, timeline.Vars{
			Props:    p.props,
			Duration: remaining,
			Ease:     p.tw.Vars().Ease,
			Delay:    delay,
		})
	}
}

// prime puts rendered slide i back into its pre-entrance state.
func (c *Carousel) prime(i int) {
	img, title := c.images[i], c.titles[i]
	if img != nil {
		c.animator.KillTweensOf(img)
		c.animator.Set([]*html.Node{img}, timeline.Props{timeline.Scale: c.motion.PrimeScale})
	}
	if title != nil {
		c.animator.KillTweensOf(title)
		c.animator.Set([]*html.Node{title}, timeline.Props{timeline.Opacity: 0, timeline.Y: c.motion.PrimeTitleY})
	}
}

// transitionContent animates the slide at raw index out and the one at
// raw index in. A raw index outside the rendered range falls back to the
// actual slide for the entrance and is skipped for the exit.
func (c *Carousel) transitionContent(out, in, actual int) {
	if out >= 0 && out < len(c.rendered) {
		c.tween(c.images[out], timeline.Props{timeline.Scale: c.motion.PrimeScale}, c.motion.ImageOut)
		c.tween(c.titles[out], timeline.Props{timeline.Opacity: 0, timeline.Y: c.motion.PrimeTitleY}, c.motion.TitleOut)
	}
	if in < 0 || in >= len(c.rendered) {
		in = actual
	}
	c.enterImage = c.tween(c.images[in], timeline.Props{timeline.Scale: 1}, c.motion.ImageIn)
	c.enterTitle = c.tween(c.titles[in], timeline.Props{timeline.Opacity: 1, timeline.Y: 0}, c.motion.TitleIn)
}

func (c *Carousel) tween(target *html.Node, props timeline.Props, s Step) *timeline.Tween {
	if target == nil {
		return nil
	}
	return c.animator.To([]*html.Node{target}, timeline.Vars{
		Props:    props,
		Duration: s.Duration,
		Ease:     s.Ease,
		Delay:    s.Delay,
	})
}

func (c *Carousel) showPagination(actual int) {
	if c.pagination != nil {
		c.pagination(actual + 1)
	}
}

// Teardown stops the carousel: pending completions become no-ops, tweens
// on every animated node are killed, clones are removed and input is
// released. It is safe to call more than once.
func (c *Carousel) Teardown() {
	if c.torn {
		return
	}
	c.torn = true
	c.alive = false

	targets := append([]*html.Node{c.track}, c.extra...)
	targets = append(targets, present(c.images)...)
	targets = append(targets, present(c.titles)...)
	c.animator.KillTweensOf(targets...)

	for _, clone := range c.clones {
		clone.Remove()
	}
	if n := len(c.originals); len(c.images) > n {
		c.animator.Forget(present(c.images[n:])...)
		c.animator.Forget(present(c.titles[n:])...)
	}
	for _, sub := range c.subs {
		sub.Release()
	}
	c.subs = nil
	c.logger.Debug("carousel torn down", zap.Int("clones", len(c.clones)))
	c.clones = nil
	c.animating = false
}

// Clones returns the clones still owned by the carousel.
func (c *Carousel) Clones() []*html.Node { return c.clones }

func present(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
