package chart

import (
	"math"

	"geochart/internal/bind"
	"geochart/internal/geom"
	"geochart/internal/scene"
)

// Map colors.
const (
	StateStroke = "#9A9A9A"
	MetroStroke = "#D7D7D8"
	MetroFill   = "white"
	// MarkerRadius is the circle radius of a marker.
	MarkerRadius = 2.5
)

// USMap draws state outlines, metro areas and markers on an Albers
// equal-area projection of the lower 48 states.
type USMap struct{}

func (USMap) Name() string { return "usmap" }

func (USMap) Keys() []string { return []string{"scale", "fitExtent"} }

// Projection returns the projection a render with c and l uses: fitted to
// the metro areas when FitExtent is set and there are any, otherwise
// centered on Center at Scale.
func (USMap) Projection(c *Config, l Layout) *geom.Albers {
	if c.FitExtent && c.Metro.Len() > 0 {
		return geom.USAlbers().FitSize(l.ContentWidth, l.ContentHeight, c.Metro)
	}
	p := geom.NewAlbers(29.5, 45.5, c.Center[0], c.Center[1])
	p.Scale = c.Scale
	p.Translate = [2]float64{l.ContentWidth / 2, l.ContentHeight / 2}
	return p
}

func (m USMap) Draw(g *scene.Node, c *Config, l Layout) (bind.Stats, error) {
	proj := m.Projection(c, l)
	path := geom.NewPath(proj)
	d := func(f geom.Feature, _ int) any { return path.D(f) }

	var st bind.Stats
	layer := func(class, tag string, fc *geom.Collection, style func(*bind.Selection[geom.Feature])) {
		if fc.Len() == 0 {
			st.Add(bind.Clear(g, class))
			return
		}
		sel := bind.Bind(g, class, tag, fc.Features)
		style(sel)
		st.Add(sel.Stats())
	}

	layer("map-state", "path", c.GeoJSON, func(s *bind.Selection[geom.Feature]) {
		s.AttrFunc("d", d).
			Attr("fill", "none").
			Attr("stroke", StateStroke).
			Attr("stroke-width", 0.5)
	})
	layer("map-path", "path", c.Metro, func(s *bind.Selection[geom.Feature]) {
		s.AttrFunc("d", d).
			Attr("stroke", MetroStroke).
			Attr("stroke-width", 0.5).
			Attr("fill", MetroFill)
	})
	layer("map-marker", "circle", c.Markers, func(s *bind.Selection[geom.Feature]) {
		s.Each(func(n *scene.Node, f geom.Feature, _ int) {
			x, y, ok := centroid(proj, f)
			if !ok {
				n.RemoveAttr("cx")
				n.RemoveAttr("cy")
				return
			}
			n.SetAttr("cx", round3(x)).SetAttr("cy", round3(y))
		}).
			Attr("r", MarkerRadius).
			Attr("fill", c.DefaultTextFill)
	})
	return st, nil
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// centroid projects the mean of f's vertices.
func centroid(p geom.Projection, f geom.Feature) (float64, float64, bool) {
	var sx, sy float64
	n := 0
	f.Geometry.Each(func(pt [2]float64) {
		sx += pt[0]
		sy += pt[1]
		n++
	})
	if n == 0 {
		return 0, 0, false
	}
	return p.Project(sx/float64(n), sy/float64(n))
}
