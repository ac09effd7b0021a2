package geom

import (
	"math"
)

// Projection maps lon/lat degrees to surface coordinates (y down).
type Projection interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

// Albers is a conic equal-area projection.
type Albers struct {
	// Scale is the linear scale factor; Translate the surface position of
	// the center point.
	Scale     float64
	Translate [2]float64

	lambda0 float64 // central meridian, radians
	n, c    float64
	rho0    float64
	cx, cy  float64 // raw coordinates of the center point
}

// NewAlbers builds an Albers projection with standard parallels phi1, phi2
// centered on (centerLon, centerLat), all in degrees.
func NewAlbers(phi1, phi2, centerLon, centerLat float64) *Albers {
	s1 := math.Sin(radians(phi1))
	n := (s1 + math.Sin(radians(phi2))) / 2
	a := &Albers{
		Scale:   1,
		lambda0: radians(centerLon),
		n:       n,
		c:       1 + s1*(2*n-s1),
	}
	a.rho0 = math.Sqrt(a.c) / n
	a.cx, a.cy = a.raw(radians(centerLon), radians(centerLat))
	return a
}

// USAlbers is the usual lower-48 parameterization: parallels 29.5N and
// 45.5N, centered on 96W 38.7N.
func USAlbers() *Albers { return NewAlbers(29.5, 45.5, -96, 38.7) }

func (a *Albers) raw(lambda, phi float64) (float64, float64) {
	l := wrap(lambda - a.lambda0)
	rho := math.Sqrt(math.Max(0, a.c-2*a.n*math.Sin(phi))) / a.n
	return rho * math.Sin(l*a.n), a.rho0 - rho*math.Cos(l*a.n)
}

func (a *Albers) Project(lon, lat float64) (float64, float64, bool) {
	if !finite(lon) || !finite(lat) {
		return 0, 0, false
	}
	x, y := a.raw(radians(lon), radians(lat))
	return a.Translate[0] + a.Scale*(x-a.cx), a.Translate[1] - a.Scale*(y-a.cy), true
}

// FitSize sets Scale and Translate so that every vertex of c fits the
// w x h box, centered. It leaves the projection unchanged when c has no
// extent.
func (a *Albers) FitSize(w, h float64, c *Collection) *Albers {
	if c.Len() == 0 || w <= 0 || h <= 0 {
		return a
	}
	var b BBox
	first := true
	for _, f := range c.Features {
		f.Geometry.Each(func(pt [2]float64) {
			if !finite(pt[0]) || !finite(pt[1]) {
				return
			}
			x, y := a.raw(radians(pt[0]), radians(pt[1]))
			y = -y
			if first {
				b = BBox{MinX: x, MinY: y, MaxX: x, MaxY: y}
				first = false
				return
			}
			b.MinX = math.Min(b.MinX, x)
			b.MinY = math.Min(b.MinY, y)
			b.MaxX = math.Max(b.MaxX, x)
			b.MaxY = math.Max(b.MaxY, y)
		})
	}
	dx, dy := b.MaxX-b.MinX, b.MaxY-b.MinY
	if dx <= 0 && dy <= 0 {
		a.Translate = [2]float64{w / 2, h / 2}
		return a
	}
	k := math.Inf(1)
	if dx > 0 {
		k = w / dx
	}
	if dy > 0 {
		k = math.Min(k, h/dy)
	}
	a.Scale = k
	midX, midY := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	a.Translate = [2]float64{w/2 - k*(midX-a.cx), h/2 - k*(midY+a.cy)}
	return a
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// wrap reduces l to [-π, π].
func wrap(l float64) float64 { return math.Remainder(l, 2*math.Pi) }
