// Package treemap turns nested value records into positioned rectangles.
package treemap

import (
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Datum is one input record. Leaves carry Value; parents may carry one too,
// it is added to the sum of their children.
type Datum struct {
	ID       string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string  `yaml:"name,omitempty" json:"name,omitempty"`
	Value    float64 `yaml:"value,omitempty" json:"value,omitempty"`
	Children []Datum `yaml:"children,omitempty" json:"children,omitempty"`
}

// Node is a laid-out hierarchy node.
type Node struct {
	Datum    Datum
	Parent   *Node
	Children []*Node

	// Depth counts from the root (0); Height is the longest distance to a leaf.
	Depth  int
	Height int
	Value  float64

	X0, Y0, X1, Y1 float64
}

// ID is the record identity; empty means the binding falls back to position.
func (n *Node) ID() string { return n.Datum.ID }

// Label is the record name, or its id.
func (n *Node) Label() string {
	if n.Datum.Name != "" {
		return n.Datum.Name
	}
	return n.Datum.ID
}

// Dx and Dy are the laid-out extents.
func (n *Node) Dx() float64 { return n.X1 - n.X0 }
func (n *Node) Dy() float64 { return n.Y1 - n.Y0 }

// Hierarchy builds the tree rooted at a synthetic node whose children are data.
func Hierarchy(data []Datum) *Node {
	root := &Node{Datum: Datum{Children: data}}
	var build func(n *Node)
	build = func(n *Node) {
		for _, d := range n.Datum.Children {
			c := &Node{Datum: d, Parent: n, Depth: n.Depth + 1}
			n.Children = append(n.Children, c)
			build(c)
		}
		for _, c := range n.Children {
			if c.Height+1 > n.Height {
				n.Height = c.Height + 1
			}
		}
	}
	build(root)
	return root
}

// EachBefore visits n and its descendants in pre-order.
func (n *Node) EachBefore(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.EachBefore(fn)
	}
}

// EachAfter visits n and its descendants in post-order.
func (n *Node) EachAfter(fn func(*Node)) {
	for _, c := range n.Children {
		c.EachAfter(fn)
	}
	fn(n)
}

// Sum sets every node's Value to its own value plus its descendants'.
func (n *Node) Sum() *Node {
	n.EachAfter(func(c *Node) {
		c.Value = c.Datum.Value
		for _, ch := range c.Children {
			c.Value += ch.Value
		}
	})
	return n
}

// SortByValue orders every child list by descending value, keeping input
// order for ties.
func (n *Node) SortByValue() *Node {
	n.EachBefore(func(c *Node) {
		sort.SliceStable(c.Children, func(i, j int) bool {
			return c.Children[i].Value > c.Children[j].Value
		})
	})
	return n
}

// Leaves returns the nodes without children in pre-order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.EachBefore(func(c *Node) {
		if len(c.Children) == 0 {
			out = append(out, c)
		}
	})
	return out
}

// Ancestor returns the ancestor of n (or n itself) at depth, nil if n is shallower.
func (n *Node) Ancestor(depth int) *Node {
	for c := n; c != nil; c = c.Parent {
		if c.Depth == depth {
			return c
		}
	}
	return nil
}

// Validate rejects records a layout cannot place.
func Validate(data []Datum) error {
	var walk func(path string, ds []Datum) error
	walk = func(path string, ds []Datum) error {
		for i, d := range ds {
			p := path + "/" + label(d, i)
			if d.Value < 0 {
				return errors.Errorf("treemap: %s: negative value %g", p, d.Value)
			}
			if err := walk(p, d.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk("", data)
}

func label(d Datum, i int) string {
	switch {
	case d.ID != "":
		return d.ID
	case d.Name != "":
		return d.Name
	}
	return "#" + strconv.Itoa(i)
}

// LoadFile reads treemap records from YAML or JSON. The document is either
// a list of records or a single record whose children are used.
func LoadFile(path string) ([]Datum, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "treemap: read")
	}
	return Parse(b)
}

// Parse decodes YAML or JSON records. See LoadFile.
func Parse(b []byte) ([]Datum, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, errors.Wrap(err, "treemap: decode")
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	doc := node.Content[0]
	var data []Datum
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&data); err != nil {
			return nil, errors.Wrap(err, "treemap: decode")
		}
	case yaml.MappingNode:
		var root Datum
		if err := doc.Decode(&root); err != nil {
			return nil, errors.Wrap(err, "treemap: decode")
		}
		data = root.Children
	default:
		return nil, errors.New("treemap: expected a list or an object")
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}
