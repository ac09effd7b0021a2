package geom

import (
	"math"

	"github.com/pkg/errors"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has positive extent on both axes.
func (b BBox) Valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

// Data is a minimal geometry container for one feature
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
}

// Empty reports whether d holds no geometry.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

// Check rejects vertices that are not finite degrees: longitude within
// [-180, 180] and latitude within [-90, 90].
func (d Data) Check() error {
	var err error
	d.Each(func(pt [2]float64) {
		if err == nil && !validLonLat(pt[0], pt[1]) {
			err = errors.Errorf("coordinate (%g, %g) out of range", pt[0], pt[1])
		}
	})
	return err
}

func validLonLat(lon, lat float64) bool {
	return !math.IsNaN(lon) && !math.IsNaN(lat) &&
		math.Abs(lon) <= 180 && math.Abs(lat) <= 90
}

// Each calls fn for every vertex of d.
func (d Data) Each(fn func(pt [2]float64)) {
	for _, p := range d.Points {
		fn(p)
	}
	for _, ls := range d.Lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range d.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				fn(p)
			}
		}
	}
}

// Feature is one geographic record bound to a map element.
type Feature struct {
	FeatureID  string
	Properties map[string]any
	Geometry   Data
}

// ID is the feature identity used for binding; empty when the source had none.
func (f Feature) ID() string { return f.FeatureID }

// Name returns the "name" or "NAME" property, if any.
func (f Feature) Name() string {
	for _, k := range []string{"name", "NAME"} {
		if s, ok := f.Properties[k].(string); ok {
			return s
		}
	}
	return ""
}

// Collection is an ordered set of features with the bbox of all vertices.
type Collection struct {
	Features []Feature
	BBox     BBox

	boxed bool
}

// Len is the number of features; zero for a nil collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Add appends f and grows the bbox to cover its vertices.
func (c *Collection) Add(f Feature) {
	f.Geometry.Each(func(pt [2]float64) {
		if !c.boxed {
			c.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
			c.boxed = true
			return
		}
		if pt[0] < c.BBox.MinX {
			c.BBox.MinX = pt[0]
		}
		if pt[1] < c.BBox.MinY {
			c.BBox.MinY = pt[1]
		}
		if pt[0] > c.BBox.MaxX {
			c.BBox.MaxX = pt[0]
		}
		if pt[1] > c.BBox.MaxY {
			c.BBox.MaxY = pt[1]
		}
	})
	c.Features = append(c.Features, f)
}
