package bind

import (
	"geochart/internal/scene"
)

// Selection is an ordered set of bound nodes with their items.
type Selection[T any] struct {
	nodes []*scene.Node
	data  []T
	stats Stats
}

func (s *Selection[T]) Len() int { return len(s.nodes) }

func (s *Selection[T]) Nodes() []*scene.Node { return s.nodes }

func (s *Selection[T]) Data() []T { return s.data }

func (s *Selection[T]) Node(i int) *scene.Node { return s.nodes[i] }

func (s *Selection[T]) Datum(i int) T { return s.data[i] }

// Stats reports what the Bind call that produced s did. Selections handed
// to OnEnter and OnExit report zero.
func (s *Selection[T]) Stats() Stats { return s.stats }

// Attr sets the same attribute value on every node.
func (s *Selection[T]) Attr(name string, v any) *Selection[T] {
	for _, n := range s.nodes {
		n.SetAttr(name, v)
	}
	return s
}

// AttrFunc sets an attribute computed from each item.
func (s *Selection[T]) AttrFunc(name string, fn func(d T, i int) any) *Selection[T] {
	for i, n := range s.nodes {
		n.SetAttr(name, fn(s.data[i], i))
	}
	return s
}

func (s *Selection[T]) Style(name string, v any) *Selection[T] {
	for _, n := range s.nodes {
		n.SetStyle(name, v)
	}
	return s
}

func (s *Selection[T]) StyleFunc(name string, fn func(d T, i int) any) *Selection[T] {
	for i, n := range s.nodes {
		n.SetStyle(name, fn(s.data[i], i))
	}
	return s
}

func (s *Selection[T]) Text(v string) *Selection[T] {
	for _, n := range s.nodes {
		n.Text = v
	}
	return s
}

func (s *Selection[T]) TextFunc(fn func(d T, i int) string) *Selection[T] {
	for i, n := range s.nodes {
		n.Text = fn(s.data[i], i)
	}
	return s
}

func (s *Selection[T]) Each(fn func(n *scene.Node, d T, i int)) *Selection[T] {
	for i, n := range s.nodes {
		fn(n, s.data[i], i)
	}
	return s
}

// Remove detaches every node of the selection from the tree.
func (s *Selection[T]) Remove() {
	for _, n := range s.nodes {
		n.Remove()
	}
}

// Order moves nodes so that, among siblings, tree order matches selection
// order. Bind keeps retained nodes where they are; call Order after it when
// items were re-sorted and paint order matters.
func (s *Selection[T]) Order() *Selection[T] {
	var next *scene.Node
	for i := len(s.nodes) - 1; i >= 0; i-- {
		n := s.nodes[i]
		p := n.Parent()
		if p == nil {
			next = nil
			continue
		}
		if next != nil && next.Parent() == p && n.NextSibling() != next {
			p.InsertBefore(n, next)
		}
		next = n
	}
	return s
}
