package tui

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"geochart/internal/chart"
	"geochart/internal/geom"
	"geochart/internal/raster"
	"geochart/internal/scene"
	"geochart/internal/treemap"
)

// inkThreshold is the summed channel distance from the paper color above
// which a pixel is drawn.
const inkThreshold = 24

// previewScale is the number of micro-pixels per svg unit that fits the
// whole svg into w x h cells.
func previewScale(svgW, svgH float64, w, h int) float64 {
	if svgW <= 0 || svgH <= 0 {
		return 0
	}
	return math.Min(float64(w*2)/svgW, float64(h*4)/svgH)
}

// renderPreview rasterizes the chart and draws it with braille dots.
func (m Model) renderPreview(w, h int) string {
	root := m.ctrl.Root()
	cfg := m.ctrl.Config()
	s := previewScale(cfg.SvgWidth, cfg.SvgHeight, w, h)
	if root == nil || s <= 0 {
		return dimStyle.Render("nothing rendered")
	}
	img, err := raster.Rasterize(root, s)
	if err != nil {
		return dimStyle.Render("preview: " + err.Error())
	}

	paper := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if bg, ok := raster.ParseColor(cfg.SvgBackground); ok {
		paper = bg
	}
	br := newBrailleBuf(w, h)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); isInk(c, paper) {
				br.setInk(x, y, c)
			}
		}
	}

	if m.showBounds {
		l := m.ctrl.Layout()
		x0, y0 := int(l.Left*s), int(l.Top*s)
		x1, y1 := int((l.Left+l.ContentWidth)*s)-1, int((l.Top+l.ContentHeight)*s)-1
		br.drawLineMicro(x0, y0, x1, y0)
		br.drawLineMicro(x1, y0, x1, y1)
		br.drawLineMicro(x1, y1, x0, y1)
		br.drawLineMicro(x0, y1, x0, y0)
	}
	return strings.Join(br.toLines(true), "\n")
}

func isInk(c, paper color.RGBA) bool {
	if c.A < 0x80 {
		return false
	}
	d := abs(int(c.R)-int(paper.R)) + abs(int(c.G)-int(paper.G)) + abs(int(c.B)-int(paper.B))
	return d > inkThreshold
}

// cellToSvg maps a preview cell to the svg coordinates of its center.
func (m Model) cellToSvg(cx, cy, w, h int) (float64, float64, bool) {
	cfg := m.ctrl.Config()
	s := previewScale(cfg.SvgWidth, cfg.SvgHeight, w, h)
	if s <= 0 {
		return 0, 0, false
	}
	x, y := float64(cx*2+1)/s, float64(cy*4+2)/s
	if x > cfg.SvgWidth || y > cfg.SvgHeight {
		return 0, 0, false
	}
	return x, y, true
}

// hitTest names the topmost bound datum under svg point (x, y).
func (m Model) hitTest(x, y float64) (string, bool) {
	g := m.ctrl.Chart()
	if g == nil {
		return "", false
	}
	l := m.ctrl.Layout()
	x, y = x-l.Left, y-l.Top

	var proj geom.Projection
	if m.kind != "treemap" {
		cfg := m.ctrl.Config()
		proj = chart.USMap{}.Projection(&cfg, l)
	}
	kids := g.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		switch d := kids[i].Datum.(type) {
		case *treemap.Node:
			if x >= d.X0 && x < d.X1 && y >= d.Y0 && y < d.Y1 {
				return d.Label() + "  " + strconv.FormatFloat(d.Value, 'g', -1, 64), true
			}
		case geom.Feature:
			if proj != nil && featureContains(proj, kids[i], d, x, y) {
				return featureLabel(d), true
			}
		}
	}
	return "", false
}

func featureLabel(f geom.Feature) string {
	switch {
	case f.Name() != "" && f.ID() != "":
		return f.Name() + " (" + f.ID() + ")"
	case f.Name() != "":
		return f.Name()
	case f.ID() != "":
		return f.ID()
	}
	return "feature"
}

// featureContains reports whether the drawn feature covers (x, y): markers
// by their circle, areas by their projected rings.
func featureContains(p geom.Projection, n *scene.Node, f geom.Feature, x, y float64) bool {
	if n.Tag == "circle" {
		cx, ok1 := n.AttrFloat("cx")
		cy, ok2 := n.AttrFloat("cy")
		return ok1 && ok2 && math.Hypot(x-cx, y-cy) <= chart.MarkerRadius+1
	}
	for _, poly := range f.Geometry.Polygons {
		inside := false
		for _, ring := range poly {
			if ringContains(p, ring, x, y) {
				inside = !inside
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// ringContains is an even-odd test against the projected ring.
func ringContains(p geom.Projection, ring [][2]float64, x, y float64) bool {
	pts := make([][2]float64, 0, len(ring))
	for _, v := range ring {
		if px, py, ok := p.Project(v[0], v[1]); ok {
			pts = append(pts, [2]float64{px, py})
		}
	}
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a[1] > y) != (b[1] > y) && x < (b[0]-a[0])*(y-a[1])/(b[1]-a[1])+a[0] {
			in = !in
		}
	}
	return in
}
