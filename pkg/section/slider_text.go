package section

import (
	"fmt"

	"go.uber.org/zap"

	"slidertext/pkg/carousel"
	"slidertext/pkg/html"
	"slidertext/pkg/timeline"
)

// Entrance configures the SliderText entrance timeline.
type Entrance struct {
	Trigger      Trigger `yaml:"trigger"`
	HeadingLines Cue     `yaml:"heading_lines"`
	TextLines    Cue     `yaml:"text_lines"`
	CTA          Cue     `yaml:"cta"`
	Pagination   Cue     `yaml:"pagination"`
	Navigation   Cue     `yaml:"navigation"`
}

func DefaultEntrance() Entrance {
	return Entrance{
		Trigger:      DefaultTrigger,
		HeadingLines: Cue{Duration: 1.2, Ease: "expo.out", Stagger: 0.08},
		TextLines:    Cue{Duration: 1, Ease: "expo.out", At: 0.3, Stagger: 0.06},
		CTA:          Cue{Duration: 0.8, Ease: "power2.out", At: 0.5},
		Pagination:   Cue{Duration: 0.6, Ease: "power2.out", At: 0.6},
		Navigation:   Cue{Duration: 0.6, Ease: "power2.out", At: 0.7},
	}
}

// Cues returns the named cues, for validation.
func (e Entrance) Cues() map[string]Cue {
	return map[string]Cue{
		"heading_lines": e.HeadingLines,
		"text_lines":    e.TextLines,
		"cta":           e.CTA,
		"pagination":    e.Pagination,
		"navigation":    e.Navigation,
	}
}

// SliderText is a heading and copy block that reveals line by line, next
// to an endless image carousel with pagination and prev/next buttons.
type SliderText struct {
	env Env

	root              *html.Node
	heading           *html.Node
	text              *html.Node
	cta               *html.Node
	pagination        *html.Node
	paginationCurrent *html.Node
	paginationTotal   *html.Node
	navigation        *html.Node
	next              *html.Node
	prev              *html.Node
	track             *html.Node
	slides            []*html.Node

	headingLines []*html.Node
	textLines    []*html.Node
	carousel     *carousel.Carousel
	tl           *timeline.Timeline
	trigger      *timeline.ScrollTrigger
	dead         bool
}

// NewSliderText mounts the section. Without a .slider__text element it
// does nothing; any other missing element only disables its feature.
func NewSliderText(env Env, entrance Entrance, motion carousel.Motion) (*SliderText, error) {
	s := &SliderText{env: env, root: one(env.Root, ".slider__text")}
	if s.root == nil {
		return s, nil
	}
	s.heading = one(s.root, ".slider__text__content__heading")
	s.text = one(s.root, ".slider__text__content__text")
	s.cta = one(s.root, ".slider__text__content__cta")
	s.pagination = one(s.root, ".slider__text__pagination")
	s.paginationCurrent = one(s.root, ".slider__text__pagination .current")
	s.paginationTotal = one(s.root, ".slider__text__pagination .total")
	s.navigation = one(s.root, ".slider__text__navigation")
	s.next = one(s.root, ".slide__next")
	s.prev = one(s.root, ".slide__pervious")
	s.track = one(s.root, ".slider__text__slider")
	s.slides = all(s.track, ".slider__text__slide")

	if err := s.splitText(); err != nil {
		return nil, err
	}
	s.setupSlider(motion)
	if err := s.setupEntrance(entrance); err != nil {
		return nil, err
	}
	env.logger().Debug("section mounted",
		zap.String("section", s.Name()),
		zap.Int("heading_lines", len(s.headingLines)),
		zap.Int("text_lines", len(s.textLines)),
		zap.Int("slides", len(s.slides)))
	return s, nil
}

func (s *SliderText) splitText() error {
	var err error
	if s.headingLines, err = splitLines(s.env, s.heading); err != nil {
		return fmt.Errorf("slider text heading: %w", err)
	}
	if s.textLines, err = splitLines(s.env, s.text); err != nil {
		return fmt.Errorf("slider text copy: %w", err)
	}
	return nil
}

func (s *SliderText) setupSlider(motion carousel.Motion) {
	if s.track == nil {
		return
	}
	extra := append(append([]*html.Node(nil), s.headingLines...), s.textLines...)
	extra = append(extra, nonNil(s.cta, s.pagination, s.navigation)...)

	opts := []carousel.Option{
		carousel.WithButtons(s.next, s.prev),
		carousel.WithPagination(s.showCurrent),
		carousel.WithMotion(motion),
		carousel.WithLogger(s.env.logger()),
		carousel.WithExtraTargets(extra...),
	}
	if s.env.Input != nil {
		opts = append(opts, carousel.WithInput(s.env.Input))
	}
	s.carousel = carousel.New(s.track, s.slides, s.env.Engine, s.env.Layout, opts...)
	setup := s.carousel.Setup()
	if s.paginationTotal != nil {
		s.paginationTotal.SetTextContent(fmt.Sprintf("%02d", setup.PaginationTotal))
	}
}

func (s *SliderText) showCurrent(display int) {
	if s.paginationCurrent != nil {
		s.paginationCurrent.SetTextContent(fmt.Sprintf("%02d", display))
	}
}

func (s *SliderText) setupEntrance(e Entrance) error {
	eng := s.env.Engine
	eng.Set(s.headingLines, timeline.Props{timeline.YPercent: 100})
	eng.Set(s.textLines, timeline.Props{timeline.YPercent: 100})
	eng.Set(nonNil(s.cta), timeline.Props{timeline.Opacity: 0, timeline.Y: 20})
	eng.Set(nonNil(s.pagination), timeline.Props{timeline.Opacity: 0, timeline.Y: -20})
	eng.Set(nonNil(s.navigation), timeline.Props{timeline.Opacity: 0, timeline.Y: 20})

	s.tl = eng.NewTimeline()
	staggerLines(s.tl, s.headingLines, e.HeadingLines)
	staggerLines(s.tl, s.textLines, e.TextLines)
	shown := timeline.Props{timeline.Opacity: 1, timeline.Y: 0}
	for _, c := range []struct {
		node *html.Node
		cue  Cue
	}{
		{s.cta, e.CTA},
		{s.pagination, e.Pagination},
		{s.navigation, e.Navigation},
	} {
		if c.node != nil {
			s.tl.To([]*html.Node{c.node}, c.cue.vars(shown), c.cue.offset(0))
		}
	}

	var err error
	if s.trigger, err = e.Trigger.attach(s.env, s.root, s.tl); err != nil {
		return fmt.Errorf("slider text trigger: %w", err)
	}
	return nil
}

func (s *SliderText) Name() string { return "slider-text" }

func (s *SliderText) Active() bool { return s.root != nil }

// Carousel returns the slide carousel, nil without a slider track.
func (s *SliderText) Carousel() *carousel.Carousel { return s.carousel }

func (s *SliderText) HeadingLines() []*html.Node { return s.headingLines }

func (s *SliderText) TextLines() []*html.Node { return s.textLines }

func (s *SliderText) Timeline() *timeline.Timeline { return s.tl }

func (s *SliderText) Trigger() *timeline.ScrollTrigger { return s.trigger }

// Destroy stops every animation of the section, removes the slide clones,
// kills the scroll trigger and releases input. It is idempotent.
func (s *SliderText) Destroy() {
	if s.dead || s.root == nil {
		return
	}
	s.dead = true
	if s.carousel != nil {
		s.carousel.Teardown()
	} else {
		targets := append(append([]*html.Node(nil), s.headingLines...), s.textLines...)
		s.env.Engine.KillTweensOf(append(targets, nonNil(s.cta, s.pagination, s.navigation)...)...)
	}
	if s.trigger != nil {
		s.trigger.Kill()
	}
	if s.tl != nil {
		s.tl.Kill()
	}
	s.env.logger().Debug("section destroyed", zap.String("section", s.Name()))
}
