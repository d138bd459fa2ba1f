// Package input routes keyboard and click events to subscribers and hands
// back a subscription handle for each registration, so owners can detach
// exactly what they attached.
package input

import (
	"sync"

	"slidertext/pkg/html"
)

// Key names follow KeyboardEvent.key.
const (
	ArrowLeft  = "ArrowLeft"
	ArrowRight = "ArrowRight"
)

// KeyFunc handles a key press.
type KeyFunc func(key string)

// ClickFunc handles a click on node. target is the element clicked, which
// may be a descendant of node.
type ClickFunc func(target *html.Node)

// Subscription detaches a handler when released. Release is idempotent.
type Subscription struct {
	once    sync.Once
	release func()
}

func (s *Subscription) Release() {
	if s == nil {
		return
	}
	s.once.Do(s.release)
}

type keyHandler struct {
	id int
	fn KeyFunc
}

type clickHandler struct {
	id   int
	node *html.Node
	fn   ClickFunc
}

// Host is the event source of a page.
type Host struct {
	mu     sync.Mutex
	nextID int
	keys   []keyHandler
	clicks []clickHandler
}

func NewHost() *Host {
	return &Host{}
}

// OnKey subscribes fn to every key press.
func (h *Host) OnKey(fn KeyFunc) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.keys = append(h.keys, keyHandler{id: id, fn: fn})
	return &Subscription{release: func() { h.removeKey(id) }}
}

// OnClick subscribes fn to clicks on node or its descendants.
func (h *Host) OnClick(node *html.Node, fn ClickFunc) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.clicks = append(h.clicks, clickHandler{id: id, node: node, fn: fn})
	return &Subscription{release: func() { h.removeClick(id) }}
}

func (h *Host) removeKey(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, k := range h.keys {
		if k.id == id {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			return
		}
	}
}

func (h *Host) removeClick(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.clicks {
		if c.id == id {
			h.clicks = append(h.clicks[:i], h.clicks[i+1:]...)
			return
		}
	}
}

// DispatchKey delivers key to every key subscriber in subscription order.
func (h *Host) DispatchKey(key string) {
	h.mu.Lock()
	handlers := append([]keyHandler(nil), h.keys...)
	h.mu.Unlock()
	for _, k := range handlers {
		k.fn(key)
	}
}

// DispatchClick bubbles a click from target to the document root and
// returns the number of handlers that ran.
func (h *Host) DispatchClick(target *html.Node) int {
	h.mu.Lock()
	handlers := append([]clickHandler(nil), h.clicks...)
	h.mu.Unlock()

	ran := 0
	for n := target; n != nil; n = n.Parent {
		for _, c := range handlers {
			if c.node == n {
				c.fn(target)
				ran++
			}
		}
	}
	return ran
}

// Len returns the number of live subscriptions.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.keys) + len(h.clicks)
}
