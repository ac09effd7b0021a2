package chart

import (
	"geochart/internal/bind"
	"geochart/internal/scene"
	"geochart/internal/treemap"
)

// Palette is the categorical fill scheme, assigned to top-level groups in
// order of appearance.
var Palette = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Treemap draws one group per leaf, holding a rect and a label.
type Treemap struct{}

func (Treemap) Name() string { return "treemap" }

func (Treemap) Keys() []string { return nil }

func (Treemap) Draw(g *scene.Node, c *Config, l Layout) (bind.Stats, error) {
	if len(c.Data) == 0 {
		return bind.Clear(g, "node-group"), nil
	}
	leaves := treemap.Tile(c.Data, l.ContentWidth, l.ContentHeight)
	fill := colors(leaves)

	groups := bind.Bind(g, "node-group", "g", leaves).
		AttrFunc("transform", func(d *treemap.Node, _ int) any {
			return "translate(" + scene.FormatValue(d.X0) + "," + scene.FormatValue(d.Y0) + ")"
		})
	self := func(d *treemap.Node) []*treemap.Node { return []*treemap.Node{d} }

	rects := bind.BindChildren(groups, "node-group-rect", "rect", self).
		AttrFunc("width", func(d *treemap.Node, _ int) any { return d.Dx() }).
		AttrFunc("height", func(d *treemap.Node, _ int) any { return d.Dy() }).
		Attr("stroke", "white").
		AttrFunc("fill", func(d *treemap.Node, _ int) any { return fill(d) })

	labels := bind.BindChildren(groups, "node-group-label", "text", self).
		Attr("x", 3).
		Attr("y", 12).
		Attr("font-size", 10).
		Attr("fill", c.DefaultTextFill).
		TextFunc(func(d *treemap.Node, _ int) string { return d.Label() })

	st := groups.Stats()
	st.Add(rects.Stats())
	st.Add(labels.Stats())
	return st, nil
}

// colors maps every leaf to the palette entry of its top-level ancestor.
func colors(leaves []*treemap.Node) func(*treemap.Node) string {
	index := map[*treemap.Node]int{}
	for _, l := range leaves {
		top := l.Ancestor(1)
		if _, ok := index[top]; !ok {
			index[top] = len(index)
		}
	}
	return func(n *treemap.Node) string {
		return Palette[index[n.Ancestor(1)]%len(Palette)]
	}
}
