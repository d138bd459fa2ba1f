package timeline

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"slidertext/pkg/html"
)

// Tween animates one set of targets. It is created by Engine.To or by a
// Timeline and driven by Engine.Advance.
type Tween struct {
	engine  *Engine
	targets []*html.Node
	vars    Vars
	ease    ease.TweenFunc

	delay   float64
	elapsed float64
	started bool
	tracks  []track
	done    bool
	killed  bool
	paused  bool
}

type track struct {
	node  *html.Node
	prop  string
	to    float64
	tween *gween.Tween
}

// Done reports whether the tween ran to completion.
func (t *Tween) Done() bool { return t.done }

// Killed reports whether the tween was stopped before completing.
func (t *Tween) Killed() bool { return t.killed }

// Targets returns the nodes still animated by the tween.
func (t *Tween) Targets() []*html.Node { return t.targets }

// Kill stops the tween where it is; OnComplete never fires.
func (t *Tween) Kill() {
	if !t.done {
		t.killed = true
	}
}

func (t *Tween) finished() bool { return t.done || t.killed }

func (t *Tween) removeTargets(kill map[*html.Node]bool) {
	kept := t.targets[:0]
	for _, n := range t.targets {
		if !kill[n] {
			kept = append(kept, n)
		}
	}
	t.targets = kept
	tracks := t.tracks[:0]
	for _, tr := range t.tracks {
		if !kill[tr.node] {
			tracks = append(tracks, tr)
		}
	}
	t.tracks = tracks
	if len(t.targets) == 0 {
		t.killed = true
	}
}

// start captures the from-values of every target.
func (t *Tween) start() {
	t.started = true
	for _, n := range t.targets {
		s := t.engine.state(n)
		for prop, to := range t.vars.Props {
			from := s.get(prop)
			t.tracks = append(t.tracks, track{
				node:  n,
				prop:  prop,
				to:    to,
				tween: gween.New(float32(from), float32(to), float32(t.vars.Duration), t.ease),
			})
		}
	}
}

// step advances the tween by dt and reports whether it completed during
// this step.
func (t *Tween) step(dt float64) bool {
	if !t.started {
		t.delay -= dt
		if t.delay > 0 {
			return false
		}
		dt = -t.delay
		t.start()
	}
	if t.vars.Duration <= 0 {
		t.finish()
		return true
	}
	t.elapsed += dt
	complete := len(t.tracks) > 0 || t.elapsed >= t.vars.Duration
	for _, tr := range t.tracks {
		v, fin := tr.tween.Update(float32(dt))
		if fin {
			t.engine.state(tr.node).set(tr.prop, tr.to)
			continue
		}
		complete = false
		t.engine.state(tr.node).set(tr.prop, float64(v))
	}
	if complete {
		t.done = true
	}
	return complete
}

// finish jumps every track to its end value.
func (t *Tween) finish() {
	for _, tr := range t.tracks {
		t.engine.state(tr.node).set(tr.prop, tr.to)
	}
	t.done = true
}

// Remaining returns the delay left before the tween starts and the time
// left to run after that. Both are zero once the tween has finished.
func (t *Tween) Remaining() (delay, duration float64) {
	if t.finished() {
		return 0, 0
	}
	if !t.started {
		return max(t.delay, 0), t.vars.Duration
	}
	return 0, max(t.vars.Duration-t.elapsed, 0)
}

// Vars returns the tween's configuration.
func (t *Tween) Vars() Vars { return t.vars }
