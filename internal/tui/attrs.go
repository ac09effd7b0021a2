package tui

import (
	"encoding/json"
	"sort"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"geochart/internal/geom"
	"geochart/internal/treemap"
)

const maxColW = 24

// refreshAttrs rebuilds the data table from the nodes currently bound in
// the chart.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no bound data"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, len(cols))
		copy(cells, r)
		for i, v := range cells {
			if len(v)+2 > tcols[i].Width {
				tcols[i].Width = min(len(v)+2, maxColW)
			}
		}
		trows = append(trows, table.Row(cells))
	}
	// clear rows first so the old rows never meet the new columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns one row per bound datum, in paint order.
func (m *Model) buildAttributes() ([]string, [][]string) {
	g := m.ctrl.Chart()
	if g == nil {
		return nil, nil
	}
	var leaves []*treemap.Node
	type bound struct {
		layer string
		f     geom.Feature
	}
	var feats []bound
	for _, n := range g.Children() {
		switch d := n.Datum.(type) {
		case *treemap.Node:
			leaves = append(leaves, d)
		case geom.Feature:
			feats = append(feats, bound{n.Class, d})
		}
	}
	if len(leaves) > 0 {
		return leafAttributes(leaves)
	}

	// union of property keys, sorted for a stable layout
	seen := map[string]bool{}
	var keys []string
	for _, b := range feats {
		for k := range b.f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	cols := append([]string{"layer", "id"}, keys...)
	rows := make([][]string, 0, len(feats))
	for _, b := range feats {
		row := []string{b.layer, b.f.ID()}
		for _, k := range keys {
			row = append(row, propString(b.f.Properties[k]))
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func leafAttributes(leaves []*treemap.Node) ([]string, [][]string) {
	cols := []string{"id", "name", "group", "value", "x", "y", "w", "h"}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	rows := make([][]string, 0, len(leaves))
	for _, l := range leaves {
		group := ""
		if top := l.Ancestor(1); top != nil && top != l {
			group = top.Label()
		}
		rows = append(rows, []string{l.ID(), l.Datum.Name, group, f(l.Value), f(l.X0), f(l.Y0), f(l.Dx()), f(l.Dy())})
	}
	return cols, rows
}

func propString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	b, _ := json.Marshal(v)
	return string(b)
}
