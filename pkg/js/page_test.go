package js

import (
	"context"
	"errors"
	"strings"
	"testing"

	"slidertext/pkg/html"
	"slidertext/pkg/timeline"
)

func TestPagePressAndTick(t *testing.T) {
	d := run(t, `<div></div>`, `
		page.press("ArrowRight", "ArrowRight");
		page.tick(1, 4);
		page.tick(0.5);
	`)
	if len(d.keys) != 2 {
		t.Errorf("keys = %v", d.keys)
	}
	if d.ticks != 5 || d.elapsed != 1.5 {
		t.Errorf("ticks = %d, elapsed = %v", d.ticks, d.elapsed)
	}
}

func TestPageClickBySelectorAndElement(t *testing.T) {
	d := run(t, `<button class="slide__next">Next</button><button class="slide__pervious">Prev</button>`, `
		if (page.click(".slide__next") !== 1) throw new Error("click should report handlers");
		page.click(document.querySelector(".slide__pervious"));
	`)
	if len(d.clicks) != 2 {
		t.Fatalf("clicks = %d", len(d.clicks))
	}
	if !d.clicks[0].HasClass("slide__next") || !d.clicks[1].HasClass("slide__pervious") {
		t.Errorf("wrong click targets")
	}
}

func TestPageClickWithoutMatchThrows(t *testing.T) {
	d := newFakeDriver(t, `<div></div>`)
	err := New(d).Run(context.Background(), "click.js", `page.click(".missing")`)
	if err == nil || !strings.Contains(err.Error(), "no element matches") {
		t.Fatalf("got %v", err)
	}
}

func TestPageScrollAndResize(t *testing.T) {
	d := run(t, `<div></div>`, `
		page.scroll(640);
		if (page.scrollY() !== 640) throw new Error("scrollY: " + page.scrollY());
		page.resize(800, 600);
	`)
	if d.width != 800 || d.height != 600 {
		t.Errorf("viewport = %vx%v", d.width, d.height)
	}
}

func TestPageState(t *testing.T) {
	d := newFakeDriver(t, `<ul class="track"></ul>`)
	var track *html.Node
	d.doc.Root.Walk(func(n *html.Node) bool {
		if n.HasClass("track") {
			track = n
		}
		return true
	})
	d.states[track] = timeline.State{X: -410, Scale: 1, Opacity: 0.5}

	err := New(d).Run(context.Background(), "state.js", `
		var s = page.state(".track");
		if (s.x !== -410) throw new Error("x: " + s.x);
		if (s.opacity !== 0.5) throw new Error("opacity: " + s.opacity);
		if (page.state(document.querySelector(".track")).scale !== 1) throw new Error("scale");
	`)
	if err != nil {
		t.Fatal(err)
	}
}

func TestPageSnapshot(t *testing.T) {
	var written []string
	d := newFakeDriver(t, `<div></div>`)
	e := New(d, WithSnapshot(func(path string) error {
		written = append(written, path)
		return nil
	}))
	if err := e.Run(context.Background(), "snap.js", `page.snapshot("a.png"); page.snapshot("b.png")`); err != nil {
		t.Fatal(err)
	}
	if strings.Join(e.Snapshots(), ",") != "a.png,b.png" || len(written) != 2 {
		t.Errorf("snapshots = %v, written = %v", e.Snapshots(), written)
	}
}

func TestPageSnapshotErrors(t *testing.T) {
	d := newFakeDriver(t, `<div></div>`)
	if err := New(d).Run(context.Background(), "snap.js", `page.snapshot("a.png")`); err == nil {
		t.Error("snapshot without a writer should fail")
	}

	diskFull := errors.New("disk full")
	e := New(d, WithSnapshot(func(string) error { return diskFull }))
	err := e.Run(context.Background(), "snap.js", `page.snapshot("a.png")`)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("got %v", err)
	}
	if len(e.Snapshots()) != 0 {
		t.Errorf("failed snapshot recorded: %v", e.Snapshots())
	}
}
