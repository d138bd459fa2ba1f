package timeline

import "slidertext/pkg/html"

// Timeline sequences tweens at fixed offsets from its start. It does
// nothing until played, either directly or by a ScrollTrigger.
type Timeline struct {
	engine   *Engine
	children []child
	tweens   []*Tween
	initial  map[*html.Node]map[string]float64
	started  bool
	paused   bool
	killed   bool
}

type child struct {
	targets []*html.Node
	vars    Vars
	at      float64
}

// NewTimeline creates a paused, empty timeline.
func (e *Engine) NewTimeline() *Timeline {
	return &Timeline{engine: e}
}

// To adds a tween starting at offset at seconds into the timeline.
func (tl *Timeline) To(targets []*html.Node, v Vars, at float64) *Timeline {
	tl.children = append(tl.children, child{targets: append([]*html.Node(nil), targets...), vars: v, at: at})
	return tl
}

// Duration is the end time of the last child.
func (tl *Timeline) Duration() float64 {
	d := 0.0
	for _, c := range tl.children {
		d = max(d, c.at+c.vars.Delay+c.vars.Duration)
	}
	return d
}

// Targets returns every node the timeline animates.
func (tl *Timeline) Targets() []*html.Node {
	seen := make(map[*html.Node]bool)
	var out []*html.Node
	for _, c := range tl.children {
		for _, n := range c.targets {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Started reports whether the timeline has been played since the last reset.
func (tl *Timeline) Started() bool { return tl.started }

// Play starts the timeline. Playing a started timeline resumes it.
func (tl *Timeline) Play() {
	if tl.killed {
		return
	}
	if tl.started {
		tl.Resume()
		return
	}
	tl.capture()
	tl.started, tl.paused = true, false
	tl.tweens = tl.tweens[:0]
	for _, c := range tl.children {
		v := c.vars
		v.Delay += c.at
		tl.tweens = append(tl.tweens, tl.engine.To(c.targets, v))
	}
}

// capture records the values the timeline animates from, the first time
// it plays, so Reset can restore them.
func (tl *Timeline) capture() {
	if tl.initial != nil {
		return
	}
	tl.initial = make(map[*html.Node]map[string]float64)
	for _, c := range tl.children {
		for _, n := range c.targets {
			vals, ok := tl.initial[n]
			if !ok {
				vals = make(map[string]float64)
				tl.initial[n] = vals
			}
			s := tl.engine.Get(n)
			for prop := range c.vars.Props {
				if _, ok := vals[prop]; !ok {
					vals[prop] = s.get(prop)
				}
			}
		}
	}
}

func (tl *Timeline) Pause() {
	tl.paused = true
	for _, t := range tl.tweens {
		t.paused = true
	}
}

func (tl *Timeline) Resume() {
	if !tl.started {
		tl.Play()
		return
	}
	tl.paused = false
	for _, t := range tl.tweens {
		t.paused = false
	}
}

// Reset stops the timeline and restores the values captured when it first
// played.
func (tl *Timeline) Reset() {
	tl.stop()
	for n, vals := range tl.initial {
		s := tl.engine.state(n)
		for prop, v := range vals {
			s.set(prop, v)
		}
	}
	tl.started = false
}

// Restart plays the timeline again from its initial values.
func (tl *Timeline) Restart() {
	tl.Reset()
	tl.Play()
}

// Complete jumps every child to its end values without firing callbacks.
func (tl *Timeline) Complete() {
	if !tl.started {
		tl.capture()
	}
	tl.stop()
	for _, c := range tl.children {
		tl.engine.Set(c.targets, c.vars.Props)
	}
	tl.started = true
}

// Kill stops the timeline for good.
func (tl *Timeline) Kill() {
	tl.stop()
	tl.killed = true
}

func (tl *Timeline) stop() {
	for _, t := range tl.tweens {
		t.Kill()
	}
	tl.tweens = tl.tweens[:0]
	tl.engine.compact()
}

// Done reports whether every child tween has completed.
func (tl *Timeline) Done() bool {
	if !tl.started || len(tl.tweens) < len(tl.children) {
		return false
	}
	for _, t := range tl.tweens {
		if !t.Done() {
			return false
		}
	}
	return true
}
