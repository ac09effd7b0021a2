// Package bind reconciles ordered collections of data items with the
// children of a scene node.
//
// A call to Bind looks at the children of parent that were previously bound
// under the same class and splits them against the new items by key:
// children whose key persists are kept (update), items with a new key get a
// freshly created node (enter), and children whose key disappeared are
// removed (exit). Nodes are never recreated for a key that persists, so
// repeated passes with the same identities only change attributes.
package bind

import (
	"geochart/internal/scene"
)

// Stats counts what a reconciliation did.
type Stats struct {
	Entered int
	Updated int
	Exited  int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Entered += o.Entered
	s.Updated += o.Updated
	s.Exited += o.Exited
}

type options[T any] struct {
	key   KeyFunc[T]
	enter func(*Selection[T])
	exit  func(*Selection[T])
}

// Option configures a Bind call.
type Option[T any] func(*options[T])

// WithKey replaces DefaultKey.
func WithKey[T any](fn KeyFunc[T]) Option[T] {
	return func(o *options[T]) {
		if fn != nil {
			o.key = fn
		}
	}
}

// OnEnter runs on the entering nodes after they are attached and bound.
func OnEnter[T any](fn func(*Selection[T])) Option[T] {
	return func(o *options[T]) { o.enter = fn }
}

// OnExit receives the exiting nodes instead of having them removed. The
// callback owns their removal (see Selection.Remove); until then they stay
// attached and are matched again by the next Bind on the same class.
func OnExit[T any](fn func(*Selection[T])) Option[T] {
	return func(o *options[T]) { o.exit = fn }
}

// Bind makes the children of parent bound under class correspond one to one
// with items and returns the live selection in item order.
//
// An empty items slice binds a single placeholder (the zero T at index 0) so
// that wrappers such as an svg root or a content group exist exactly once.
// When two items share a key the last one wins and the earlier ones are
// dropped; when two existing children share a key the last one is reused
// and the others exit.
func Bind[T any](parent *scene.Node, class, tag string, items []T, opts ...Option[T]) *Selection[T] {
	o := options[T]{key: DefaultKey[T]}
	for _, fn := range opts {
		fn(&o)
	}
	if len(items) == 0 {
		items = make([]T, 1)
	}

	keys := make([]string, len(items))
	last := make(map[string]int, len(items))
	for i, it := range items {
		k := o.key(it, i)
		keys[i] = k
		last[k] = i
	}

	current := parent.ChildrenByClass(class)
	existing := make(map[string]*scene.Node, len(current))
	for _, n := range current {
		existing[n.Key] = n
	}

	sel := &Selection[T]{}
	matched := make(map[string]bool, len(existing))
	var selKeys []string
	for i, it := range items {
		k := keys[i]
		if last[k] != i {
			continue
		}
		n := existing[k]
		if n != nil {
			matched[k] = true
		}
		sel.nodes = append(sel.nodes, n)
		sel.data = append(sel.data, it)
		selKeys = append(selKeys, k)
	}

	// exit, in tree order
	var exiting []*scene.Node
	for _, n := range current {
		if existing[n.Key] != n || !matched[n.Key] {
			exiting = append(exiting, n)
		}
	}
	if len(exiting) > 0 {
		if o.exit != nil {
			o.exit(selectionOf[T](exiting))
		} else {
			for _, n := range exiting {
				n.Remove()
			}
		}
	}

	// enter: each new node goes before the next bound node in item order
	var entered []int
	var next *scene.Node
	for j := len(sel.nodes) - 1; j >= 0; j-- {
		if sel.nodes[j] == nil {
			n := scene.New(tag)
			parent.InsertBefore(n, next)
			sel.nodes[j] = n
			entered = append(entered, j)
		}
		next = sel.nodes[j]
	}

	for j, n := range sel.nodes {
		n.Class = class
		n.Key = selKeys[j]
		n.Datum = sel.data[j]
		n.SetAttr("class", class)
	}

	sel.stats = Stats{
		Entered: len(entered),
		Updated: len(sel.nodes) - len(entered),
		Exited:  len(exiting),
	}

	if o.enter != nil && len(entered) > 0 {
		es := &Selection[T]{}
		for k := len(entered) - 1; k >= 0; k-- {
			j := entered[k]
			es.nodes = append(es.nodes, sel.nodes[j])
			es.data = append(es.data, sel.data[j])
		}
		o.enter(es)
	}
	return sel
}

// BindChildren runs Bind under every node of sel, with the items that fn
// derives from that node's datum. The result concatenates the per-parent
// selections in sel order.
func BindChildren[T, U any](sel *Selection[T], class, tag string, fn func(T) []U, opts ...Option[U]) *Selection[U] {
	out := &Selection[U]{}
	for i, n := range sel.nodes {
		child := Bind(n, class, tag, fn(sel.data[i]), opts...)
		out.nodes = append(out.nodes, child.nodes...)
		out.data = append(out.data, child.data...)
		out.stats.Add(child.stats)
	}
	return out
}

// One binds a single wrapper node of tag under parent and returns it.
func One(parent *scene.Node, class, tag string) *scene.Node {
	return Bind[struct{}](parent, class, tag, nil).Node(0)
}

// Clear removes every child of parent bound under class. Drawers use it for
// layers whose data is absent, where Bind would keep a placeholder.
func Clear(parent *scene.Node, class string) Stats {
	nodes := parent.ChildrenByClass(class)
	for _, n := range nodes {
		n.Remove()
	}
	return Stats{Exited: len(nodes)}
}

func selectionOf[T any](nodes []*scene.Node) *Selection[T] {
	s := &Selection[T]{nodes: nodes, data: make([]T, len(nodes))}
	for i, n := range nodes {
		if d, ok := n.Datum.(T); ok {
			s.data[i] = d
		}
	}
	return s
}
