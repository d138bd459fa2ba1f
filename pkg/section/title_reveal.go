package section

import (
	"fmt"

	"go.uber.org/zap"

	"slidertext/pkg/html"
	"slidertext/pkg/timeline"
)

// Reveal configures TitleReveal.
type Reveal struct {
	Trigger Trigger `yaml:"trigger"`
	Lines   Cue     `yaml:"lines"`
}

func DefaultReveal() Reveal {
	return Reveal{
		Trigger: DefaultTrigger,
		Lines:   Cue{Duration: 1.2, Ease: "expo.out", Stagger: 0.08},
	}
}

// TitleReveal reveals the product selection title line by line.
type TitleReveal struct {
	env     Env
	root    *html.Node
	title   *html.Node
	lines   []*html.Node
	tl      *timeline.Timeline
	trigger *timeline.ScrollTrigger
	dead    bool
}

// NewTitleReveal mounts the section. Without a .products__selection
// element it does nothing.
func NewTitleReveal(env Env, cfg Reveal) (*TitleReveal, error) {
	s := &TitleReveal{env: env, root: one(env.Root, ".products__selection")}
	if s.root == nil {
		return s, nil
	}
	s.title = one(s.root, ".products__selection__title")

	var err error
	if s.lines, err = splitLines(env, s.title); err != nil {
		return nil, fmt.Errorf("products selection title: %w", err)
	}
	env.Engine.Set(s.lines, timeline.Props{timeline.YPercent: 100})

	s.tl = env.Engine.NewTimeline()
	staggerLines(s.tl, s.lines, cfg.Lines)
	if s.trigger, err = cfg.Trigger.attach(env, s.root, s.tl); err != nil {
		return nil, fmt.Errorf("products selection trigger: %w", err)
	}
	env.logger().Debug("section mounted", zap.String("section", s.Name()), zap.Int("lines", len(s.lines)))
	return s, nil
}

func (s *TitleReveal) Name() string { return "products-selection" }

func (s *TitleReveal) Active() bool { return s.root != nil }

// Lines returns the animated line elements.
func (s *TitleReveal) Lines() []*html.Node { return s.lines }

func (s *TitleReveal) Timeline() *timeline.Timeline { return s.tl }

func (s *TitleReveal) Destroy() {
	if s.dead || s.root == nil {
		return
	}
	s.dead = true
	s.env.Engine.KillTweensOf(s.lines...)
	if s.trigger != nil {
		s.trigger.Kill()
	}
	s.tl.Kill()
}
