package scene

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 { return nodeIDCounter.Add(1) }

// Attr is a single name/value pair. Attributes and styles keep insertion order
// so serialized output is stable between passes.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the retained visual tree.
type Node struct {
	// ID is assigned at creation and never reused; it identifies the node
	// across re-renders.
	ID  uint32
	Tag string

	// Class is the semantic group the node was bound under and Key its
	// identity within that group. Both are maintained by the reconciler.
	Class string
	Key   string
	Datum any

	// Text is character data written after the children (labels).
	Text string

	parent   *Node
	attrs    []Attr
	styles   []Attr
	children []*Node
}

// New returns a detached node with the given tag.
func New(tag string) *Node {
	return &Node{ID: nextNodeID(), Tag: tag}
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns the live child slice. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// NextSibling returns the child following n under its parent, or nil.
func (n *Node) NextSibling() *Node {
	p := n.parent
	if p == nil {
		return nil
	}
	if i := p.indexOf(n); i >= 0 && i+1 < len(p.children) {
		return p.children[i+1]
	}
	return nil
}

// AppendChild adds c as the last child, detaching it from any previous parent.
func (n *Node) AppendChild(c *Node) {
	c.detach()
	c.parent = n
	n.children = append(n.children, c)
}

// InsertBefore inserts c before ref. A nil or foreign ref appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref == nil || ref.parent != n || ref == c {
		n.AppendChild(c)
		return
	}
	c.detach()
	i := n.indexOf(ref)
	c.parent = n
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}

// RemoveChild detaches c. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	if c == nil || c.parent != n {
		return false
	}
	c.detach()
	return true
}

// Remove detaches n from its parent.
func (n *Node) Remove() { n.detach() }

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) indexOf(c *Node) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	return -1
}

// ChildrenByClass returns the direct children bound under class, in tree order.
func (n *Node) ChildrenByClass(class string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// SetAttr sets or replaces an attribute. Values are formatted with FormatValue.
func (n *Node) SetAttr(name string, v any) *Node {
	n.attrs = setPair(n.attrs, name, FormatValue(v))
	return n
}

func (n *Node) Attr(name string) (string, bool) { return getPair(n.attrs, name) }

// AttrFloat parses a numeric attribute. ok is false when absent or not a number.
func (n *Node) AttrFloat(name string) (float64, bool) {
	s, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (n *Node) RemoveAttr(name string) { n.attrs = deletePair(n.attrs, name) }

func (n *Node) Attrs() []Attr { return n.attrs }

// SetStyle sets an inline style property.
func (n *Node) SetStyle(name string, v any) *Node {
	n.styles = setPair(n.styles, name, FormatValue(v))
	return n
}

func (n *Node) Style(name string) (string, bool) { return getPair(n.styles, name) }

func (n *Node) RemoveStyle(name string) { n.styles = deletePair(n.styles, name) }

func (n *Node) Styles() []Attr { return n.styles }

// HasClass reports whether n was bound under class or lists it in its class attribute.
func (n *Node) HasClass(class string) bool {
	if n.Class == class {
		return true
	}
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool { total++; return true })
	return total
}

// Find returns the first node in the subtree (n included) matching selector.
// Supported selectors: "tag", "#id" and ".class".
func (n *Node) Find(selector string) *Node {
	match := matcher(strings.TrimSpace(selector))
	if match == nil {
		return nil
	}
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func matcher(sel string) func(*Node) bool {
	switch {
	case sel == "":
		return nil
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		return func(c *Node) bool {
			v, ok := c.Attr("id")
			return ok && v == id
		}
	case strings.HasPrefix(sel, "."):
		class := sel[1:]
		return func(c *Node) bool { return c.HasClass(class) }
	default:
		return func(c *Node) bool { return c.Tag == sel }
	}
}

// FormatValue renders an attribute value the way SVG expects it.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func setPair(ps []Attr, name, value string) []Attr {
	for i := range ps {
		if ps[i].Name == name {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Attr{Name: name, Value: value})
}

func getPair(ps []Attr, name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

func deletePair(ps []Attr, name string) []Attr {
	for i := range ps {
		if ps[i].Name == name {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}
