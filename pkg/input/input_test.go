package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"slidertext/pkg/html"
)

func TestKeySubscription(t *testing.T) {
	h := NewHost()
	var got []string
	sub := h.OnKey(func(k string) { got = append(got, k) })

	h.DispatchKey(ArrowRight)
	sub.Release()
	sub.Release()
	h.DispatchKey(ArrowLeft)

	assert.Equal(t, []string{ArrowRight}, got)
	assert.Equal(t, 0, h.Len())
}

func TestClickBubbles(t *testing.T) {
	h := NewHost()
	button := html.NewElement("button", nil)
	icon := html.NewElement("svg", nil)
	button.AddChild(icon)
	other := html.NewElement("button", nil)

	var targets []*html.Node
	h.OnClick(button, func(target *html.Node) { targets = append(targets, target) })
	otherSub := h.OnClick(other, func(*html.Node) { t.Error("unrelated handler ran") })

	assert.Equal(t, 1, h.DispatchClick(icon))
	assert.Equal(t, []*html.Node{icon}, targets)
	assert.Equal(t, 2, h.Len())

	otherSub.Release()
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.DispatchClick(other))
}

func TestReleaseDuringDispatch(t *testing.T) {
	h := NewHost()
	calls := 0
	var sub *Subscription
	sub = h.OnKey(func(string) {
		calls++
		sub.Release()
	})
	h.OnKey(func(string) { calls++ })

	h.DispatchKey("a")
	h.DispatchKey("b")
	assert.Equal(t, 3, calls)
}

func TestNilSubscriptionRelease(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Release)
}
