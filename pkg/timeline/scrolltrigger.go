package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"slidertext/pkg/html"
)

var (
	ErrNoGeometry     = errors.New("timeline: scroll triggers need geometry")
	ErrInvalidTrigger = errors.New("timeline: invalid scroll trigger")
)

// TriggerConfig configures a ScrollTrigger. Start and End pair an edge of
// the trigger element with an edge of the viewport, e.g. "top center" or
// "top 20%". ToggleActions lists the actions for enter, leave, enter back
// and leave back.
type TriggerConfig struct {
	Trigger       *html.Node
	Timeline      *Timeline
	Start         string
	End           string
	ToggleActions string
	Once          bool
}

type position struct {
	element  float64 // fraction of the trigger height, or pixels when elementPx
	viewport float64 // fraction of the viewport height, or pixels when viewportPx

	elementPx, viewportPx bool
}

type zone int

const (
	zoneBefore zone = iota
	zoneActive
	zoneAfter
)

// ScrollTrigger plays a timeline as its trigger element scrolls through
// the viewport.
type ScrollTrigger struct {
	engine  *Engine
	cfg     TriggerConfig
	start   position
	end     position
	actions [4]string
	zone    zone
	killed  bool
}

var validActions = map[string]bool{
	"play": true, "pause": true, "resume": true, "reset": true,
	"restart": true, "complete": true, "none": true,
}

// NewScrollTrigger registers a trigger and evaluates it against the
// current scroll position.
func (e *Engine) NewScrollTrigger(cfg TriggerConfig) (*ScrollTrigger, error) {
	if e.geometry == nil {
		return nil, ErrNoGeometry
	}
	if cfg.Trigger == nil || cfg.Timeline == nil {
		return nil, fmt.Errorf("%w: trigger and timeline are required", ErrInvalidTrigger)
	}
	if cfg.Start == "" {
		cfg.Start = "top bottom"
	}
	if cfg.End == "" {
		cfg.End = "bottom top"
	}
	if cfg.ToggleActions == "" {
		cfg.ToggleActions = "play none none none"
	}

	st := &ScrollTrigger{engine: e, cfg: cfg}
	var err error
	if st.start, err = parsePosition(cfg.Start); err != nil {
		return nil, err
	}
	if st.end, err = parsePosition(cfg.End); err != nil {
		return nil, err
	}
	actions := strings.Fields(cfg.ToggleActions)
	if len(actions) != 4 {
		return nil, fmt.Errorf("%w: toggleActions %q needs four actions", ErrInvalidTrigger, cfg.ToggleActions)
	}
	for i, a := range actions {
		if !validActions[a] {
			return nil, fmt.Errorf("%w: unknown toggle action %q", ErrInvalidTrigger, a)
		}
		st.actions[i] = a
	}

	e.triggers = append(e.triggers, st)
	st.update(e.scrollY)
	return st, nil
}

// parsePosition parses "<element edge> <viewport edge>".
func parsePosition(s string) (position, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return position{}, fmt.Errorf("%w: position %q", ErrInvalidTrigger, s)
	}
	var p position
	var err error
	if p.element, p.elementPx, err = parseEdge(parts[0]); err != nil {
		return position{}, err
	}
	if p.viewport, p.viewportPx, err = parseEdge(parts[1]); err != nil {
		return position{}, err
	}
	return p, nil
}

func parseEdge(s string) (float64, bool, error) {
	switch s {
	case "top":
		return 0, false, nil
	case "center":
		return 0.5, false, nil
	case "bottom":
		return 1, false, nil
	}
	if v, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: edge %q", ErrInvalidTrigger, s)
		}
		return f / 100, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: edge %q", ErrInvalidTrigger, s)
	}
	return f, true, nil
}

// scrollFor returns the scroll offset at which p is reached.
func (st *ScrollTrigger) scrollFor(p position, top, height, viewport float64) float64 {
	el := p.element * height
	if p.elementPx {
		el = p.element
	}
	vp := p.viewport * viewport
	if p.viewportPx {
		vp = p.viewport
	}
	return top + el - vp
}

// Range returns the scroll offsets where the trigger becomes active and
// where it stops being active.
func (st *ScrollTrigger) Range() (start, end float64, ok bool) {
	top, height, ok := st.engine.geometry.Bounds(st.cfg.Trigger)
	if !ok {
		return 0, 0, false
	}
	vh := st.engine.geometry.ViewportHeight()
	return st.scrollFor(st.start, top, height, vh), st.scrollFor(st.end, top, height, vh), true
}

// IsActive reports whether the scroll position is between start and end.
func (st *ScrollTrigger) IsActive() bool { return st.zone == zoneActive }

// Trigger returns the trigger element.
func (st *ScrollTrigger) Trigger() *html.Node { return st.cfg.Trigger }

// Kill unregisters the trigger and kills its timeline.
func (st *ScrollTrigger) Kill() {
	if st.killed {
		return
	}
	st.detach()
	st.cfg.Timeline.Kill()
}

// detach unregisters the trigger, leaving its timeline running.
func (st *ScrollTrigger) detach() {
	st.killed = true
	e := st.engine
	for i, t := range e.triggers {
		if t == st {
			e.triggers = append(e.triggers[:i], e.triggers[i+1:]...)
			break
		}
	}
}

func (st *ScrollTrigger) update(scrollY float64) {
	if st.killed {
		return
	}
	start, end, ok := st.Range()
	if !ok {
		return
	}
	next := zoneBefore
	switch {
	case scrollY >= end:
		next = zoneAfter
	case scrollY >= start:
		next = zoneActive
	}
	prev := st.zone
	st.zone = next

	switch {
	case prev == next:
	case prev < next:
		if prev == zoneBefore {
			st.fire(0, "enter")
		}
		if next == zoneAfter {
			st.fire(1, "leave")
			if st.cfg.Once {
				st.detach()
			}
		}
	default:
		if prev == zoneAfter {
			st.fire(2, "enterBack")
		}
		if next == zoneBefore {
			st.fire(3, "leaveBack")
		}
	}
}

func (st *ScrollTrigger) fire(i int, event string) {
	action := st.actions[i]
	st.engine.logger.Debug("scroll trigger",
		zap.String("event", event), zap.String("action", action), zap.String("trigger", st.cfg.Trigger.TagName))
	tl := st.cfg.Timeline
	switch action {
	case "play":
		tl.Play()
	case "pause":
		tl.Pause()
	case "resume":
		tl.Resume()
	case "reset":
		tl.Reset()
	case "restart":
		tl.Restart()
	case "complete":
		tl.Complete()
	}
}

// Scroll evaluates every trigger at the new scroll offset.
func (e *Engine) Scroll(scrollY float64) {
	e.scrollY = scrollY
	for _, st := range append([]*ScrollTrigger(nil), e.triggers...) {
		st.update(scrollY)
	}
}

// Refresh re-evaluates triggers at the current offset, after layout moved
// their elements.
func (e *Engine) Refresh() { e.Scroll(e.scrollY) }

// ScrollY returns the last scroll offset.
func (e *Engine) ScrollY() float64 { return e.scrollY }

// TriggersFor returns the live triggers whose trigger element is n.
func (e *Engine) TriggersFor(n *html.Node) []*ScrollTrigger {
	var out []*ScrollTrigger
	for _, st := range e.triggers {
		if st.cfg.Trigger == n {
			out = append(out, st)
		}
	}
	return out
}
