package chart

import (
	"geochart/internal/scene"
)

// Surface is where a chart is mounted: it resolves container selectors,
// measures containers and notifies about resizes.
type Surface interface {
	// Root is the topmost node; charts fall back to it when their container
	// selector matches nothing.
	Root() *scene.Node
	Resolve(selector string) *scene.Node
	// Width is the current width of n, zero when unknown.
	Width(n *scene.Node) float64
	// Subscribe registers fn for resize notifications under id. A second
	// subscription with the same id replaces the first.
	Subscribe(id string, fn func()) Subscription
}

// Subscription is a registered resize handler.
type Subscription interface {
	Unsubscribe()
}

// Host is an in-memory Surface. Its root is a "body" node whose width the
// owner sets, typically from a terminal or a command-line flag.
type Host struct {
	root  *scene.Node
	width float64
	subs  []*hostSub
}

type hostSub struct {
	h  *Host
	id string
	fn func()
}

func (s *hostSub) Unsubscribe() {
	for i, o := range s.h.subs {
		if o == s {
			s.h.subs = append(s.h.subs[:i], s.h.subs[i+1:]...)
			return
		}
	}
}

// NewHost returns a host whose body is width wide.
func NewHost(width float64) *Host {
	return &Host{root: scene.New("body"), width: width}
}

func (h *Host) Root() *scene.Node { return h.root }

func (h *Host) Resolve(selector string) *scene.Node {
	if selector == "" {
		return nil
	}
	return h.root.Find(selector)
}

// Width returns the body width for the root, and the numeric width
// attribute for any other node.
func (h *Host) Width(n *scene.Node) float64 {
	if n == nil {
		return 0
	}
	if n == h.root {
		return h.width
	}
	w, _ := n.AttrFloat("width")
	return w
}

func (h *Host) Subscribe(id string, fn func()) Subscription {
	for _, s := range h.subs {
		if s.id == id {
			s.fn = fn
			return s
		}
	}
	s := &hostSub{h: h, id: id, fn: fn}
	h.subs = append(h.subs, s)
	return s
}

// SetWidth resizes the body and runs every subscriber in subscription
// order before returning.
func (h *Host) SetWidth(w float64) {
	h.width = w
	for _, s := range append([]*hostSub(nil), h.subs...) {
		s.fn()
	}
}

// Subscribers is the number of live subscriptions.
func (h *Host) Subscribers() int { return len(h.subs) }
