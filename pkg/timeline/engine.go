// Package timeline animates element properties on a deterministic clock.
//
// An Engine owns the animated state of every node it has touched. Time only
// moves when Advance is called, normally once per frame from the event
// loop, so the engine is not safe for concurrent use.
package timeline

import (
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"slidertext/pkg/html"
)

// Animated property names.
const (
	X        = "x"
	Y        = "y"
	YPercent = "yPercent"
	Scale    = "scale"
	Opacity  = "opacity"
)

// Props maps property names to target values.
type Props map[string]float64

// State is the animated state of one node.
type State struct {
	X        float64
	Y        float64
	YPercent float64
	Scale    float64
	Opacity  float64
}

// DefaultState is the state of a node nothing has animated.
var DefaultState = State{Scale: 1, Opacity: 1}

func (s *State) get(prop string) float64 {
	switch prop {
	case X:
		return s.X
	case Y:
		return s.Y
	case YPercent:
		return s.YPercent
	case Scale:
		return s.Scale
	case Opacity:
		return s.Opacity
	}
	return 0
}

func (s *State) set(prop string, v float64) {
	switch prop {
	case X:
		s.X = v
	case Y:
		s.Y = v
	case YPercent:
		s.YPercent = v
	case Scale:
		s.Scale = v
	case Opacity:
		s.Opacity = v
	}
}

// Vars describes a tween. Duration and Delay are in seconds.
type Vars struct {
	Props      Props
	Duration   float64
	Ease       string
	Delay      float64
	OnComplete func()
}

// Geometry locates trigger elements for scroll triggers.
type Geometry interface {
	// Bounds returns the document-space top and height of n.
	Bounds(n *html.Node) (top, height float64, ok bool)
	ViewportHeight() float64
}

type Engine struct {
	logger   *zap.Logger
	geometry Geometry

	states    map[*html.Node]*State
	tweens    []*Tween
	triggers  []*ScrollTrigger
	scrollY   float64
	now       float64
	warned    map[string]bool
	callbacks []func()
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithGeometry sets the geometry scroll triggers are evaluated against.
func WithGeometry(g Geometry) Option {
	return func(e *Engine) { e.geometry = g }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		states: make(map[*html.Node]*State),
		warned: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Get returns the current state of n.
func (e *Engine) Get(n *html.Node) State {
	if s, ok := e.states[n]; ok {
		return *s
	}
	return DefaultState
}

func (e *Engine) state(n *html.Node) *State {
	s, ok := e.states[n]
	if !ok {
		s = new(State)
		*s = DefaultState
		e.states[n] = s
	}
	return s
}

// Forget drops the state of nodes that left the document.
func (e *Engine) Forget(nodes ...*html.Node) {
	for _, n := range nodes {
		delete(e.states, n)
	}
}

// Set applies props immediately.
func (e *Engine) Set(targets []*html.Node, props Props) {
	for _, n := range targets {
		s := e.state(n)
		for prop, v := range props {
			s.set(prop, v)
		}
	}
}

// To starts a tween from the targets' values at the moment the tween
// begins (after its delay) to v.Props.
func (e *Engine) To(targets []*html.Node, v Vars) *Tween {
	t := &Tween{
		engine:  e,
		targets: append([]*html.Node(nil), targets...),
		vars:    v,
		ease:    e.resolveEase(v.Ease),
		delay:   v.Delay,
	}
	e.tweens = append(e.tweens, t)
	return t
}

func (e *Engine) resolveEase(name string) ease.TweenFunc {
	if name == "" {
		name = DefaultEase
	}
	if fn, ok := LookupEase(name); ok {
		return fn
	}
	if !e.warned[name] {
		e.warned[name] = true
		e.logger.Warn("unknown ease, using default", zap.String("ease", name), zap.String("default", DefaultEase))
	}
	fn, _ := LookupEase(DefaultEase)
	return fn
}

// KillTweensOf stops every running or delayed tween on the targets. Their
// completion callbacks never fire; a tween on other targets as well keeps
// animating those.
func (e *Engine) KillTweensOf(targets ...*html.Node) {
	kill := make(map[*html.Node]bool, len(targets))
	for _, n := range targets {
		kill[n] = true
	}
	for _, t := range e.tweens {
		if t.finished() {
			continue
		}
		t.removeTargets(kill)
	}
	e.compact()
}

// Advance moves the clock by dt seconds. Completion callbacks run after
// every tween has stepped, in start order; tweens they create first step
// on the next Advance.
func (e *Engine) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.now += dt
	active := append([]*Tween(nil), e.tweens...)
	for _, t := range active {
		if t.finished() || t.paused {
			continue
		}
		if t.step(dt) && t.vars.OnComplete != nil {
			e.callbacks = append(e.callbacks, t.vars.OnComplete)
		}
	}
	e.compact()

	callbacks := e.callbacks
	e.callbacks = nil
	for _, fn := range callbacks {
		fn()
	}
}

func (e *Engine) compact() {
	live := e.tweens[:0]
	for _, t := range e.tweens {
		if !t.finished() {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(e.tweens); i++ {
		e.tweens[i] = nil
	}
	e.tweens = live
}

// Now returns the engine clock in seconds.
func (e *Engine) Now() float64 { return e.now }

// Idle reports whether no unpaused tween is pending.
func (e *Engine) Idle() bool {
	for _, t := range e.tweens {
		if !t.paused && !t.finished() {
			return false
		}
	}
	return true
}

// Active returns the number of tweens not yet finished or killed.
func (e *Engine) Active() int { return len(e.tweens) }

// IsTweening reports whether any unfinished tween targets n.
func (e *Engine) IsTweening(n *html.Node) bool {
	for _, t := range e.tweens {
		for _, target := range t.targets {
			if target == n {
				return true
			}
		}
	}
	return false
}
