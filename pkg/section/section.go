// Package section wires page sections to the timeline engine: text blocks
// are split into words, regrouped into visual lines and revealed when the
// section scrolls into view.
package section

import (
	"go.uber.org/zap"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/input"
	"slidertext/pkg/layout"
	"slidertext/pkg/reflow"
	"slidertext/pkg/text"
	"slidertext/pkg/timeline"
)

// Env is what a page grants its sections.
type Env struct {
	Root   *html.Node
	Engine *timeline.Engine
	Layout *layout.Live
	Input  *input.Host
	Logger *zap.Logger
}

func (env Env) logger() *zap.Logger {
	if env.Logger == nil {
		return zap.NewNop()
	}
	return env.Logger
}

// Section is a mounted page section.
type Section interface {
	Name() string
	// Active reports whether the section found its root element.
	Active() bool
	Destroy()
}

// Cue places an animation on an entrance timeline. The i-th target of a
// staggered cue starts at At + i*Stagger.
type Cue struct {
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	At       float64 `yaml:"at"`
	Stagger  float64 `yaml:"stagger"`
}

func (c Cue) offset(i int) float64 { return c.At + float64(i)*c.Stagger }

func (c Cue) vars(props timeline.Props) timeline.Vars {
	return timeline.Vars{Props: props, Duration: c.Duration, Ease: c.Ease}
}

// Trigger is where an entrance starts and ends relative to the viewport.
type Trigger struct {
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	ToggleActions string `yaml:"toggle_actions"`
	// Once detaches the trigger after it first scrolls past its end.
	Once bool `yaml:"once"`
}

var DefaultTrigger = Trigger{Start: "top center", End: "top 20%", ToggleActions: "play none none none", Once: true}

func (t Trigger) attach(env Env, root *html.Node, tl *timeline.Timeline) (*timeline.ScrollTrigger, error) {
	return env.Engine.NewScrollTrigger(timeline.TriggerConfig{
		Trigger:       root,
		Timeline:      tl,
		Start:         t.Start,
		End:           t.End,
		ToggleActions: t.ToggleActions,
		Once:          t.Once,
	})
}

// one returns the first match of sel under root, or nil.
func one(root *html.Node, sel string) *html.Node {
	if root == nil {
		return nil
	}
	n, _ := css.QuerySelector(root, sel)
	return n
}

func all(root *html.Node, sel string) []*html.Node {
	if root == nil {
		return nil
	}
	nodes, _ := css.QuerySelectorAll(root, sel)
	return nodes
}

// splitLines splits container into word spans and wraps them in lines as
// they are laid out now. A nil container has no lines.
func splitLines(env Env, container *html.Node) ([]*html.Node, error) {
	if container == nil {
		return nil, nil
	}
	text.Split(container, text.SplitOptions{Append: true})
	return reflow.Reflow(container, env.Layout.Tree())
}

// staggerLines adds one tween per line bringing it up from below its clip.
func staggerLines(tl *timeline.Timeline, lines []*html.Node, c Cue) {
	for i, line := range lines {
		tl.To([]*html.Node{line}, c.vars(timeline.Props{timeline.YPercent: 0}), c.offset(i))
	}
}

// nonNil drops missing optional elements.
func nonNil(nodes ...*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
