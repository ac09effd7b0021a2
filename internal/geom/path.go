package geom

import (
	"math"
	"strconv"
	"strings"
)

// PointRadius is the radius of the circle drawn for point geometries.
const PointRadius = 4.5

// Path renders the projected geometry of features as SVG path data.
type Path struct {
	Projection Projection
}

// NewPath returns a path generator for p.
func NewPath(p Projection) Path { return Path{Projection: p} }

// D returns the "d" attribute for f, or "" when nothing projects.
func (g Path) D(f Feature) string {
	var b strings.Builder
	for _, poly := range f.Geometry.Polygons {
		for _, ring := range poly {
			g.line(&b, ring, true)
		}
	}
	for _, ls := range f.Geometry.Lines {
		g.line(&b, ls, false)
	}
	for _, p := range f.Geometry.Points {
		x, y, ok := g.Projection.Project(p[0], p[1])
		if !ok {
			continue
		}
		r := num(PointRadius)
		b.WriteString("M" + num(x) + "," + num(y))
		b.WriteString("m0," + r + "a" + r + "," + r + " 0 1,1 0,-" + num(2*PointRadius))
		b.WriteString("a" + r + "," + r + " 0 1,1 0," + num(2*PointRadius) + "Z")
	}
	return b.String()
}

func (g Path) line(b *strings.Builder, pts [][2]float64, closed bool) {
	n := 0
	for _, p := range pts {
		x, y, ok := g.Projection.Project(p[0], p[1])
		if !ok {
			continue
		}
		if n == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(num(x) + "," + num(y))
		n++
	}
	if closed && n > 0 {
		b.WriteString("Z")
	}
}

// num formats with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
