package chart

import (
	"geochart/internal/geom"
	"geochart/internal/treemap"
)

// Getters return the current option value. Setters change it, mark a
// rendered chart stale and return the controller for chaining; the scene
// changes on the next Render.

// ID returns the chart id; it namespaces the resize subscription.
func (c *Controller) ID() string { return c.cfg.ID }

func (c *Controller) SetID(v string) *Controller {
	c.cfg.ID = v
	c.markStale()
	return c
}

func (c *Controller) SvgWidth() float64 { return c.cfg.SvgWidth }

func (c *Controller) SetSvgWidth(v float64) *Controller {
	c.cfg.SvgWidth = v
	c.markStale()
	return c
}

func (c *Controller) SvgHeight() float64 { return c.cfg.SvgHeight }

func (c *Controller) SetSvgHeight(v float64) *Controller {
	c.cfg.SvgHeight = v
	c.markStale()
	return c
}

func (c *Controller) MarginTop() float64 { return c.cfg.MarginTop }

func (c *Controller) SetMarginTop(v float64) *Controller {
	c.cfg.MarginTop = v
	c.markStale()
	return c
}

func (c *Controller) MarginBottom() float64 { return c.cfg.MarginBottom }

func (c *Controller) SetMarginBottom(v float64) *Controller {
	c.cfg.MarginBottom = v
	c.markStale()
	return c
}

func (c *Controller) MarginRight() float64 { return c.cfg.MarginRight }

func (c *Controller) SetMarginRight(v float64) *Controller {
	c.cfg.MarginRight = v
	c.markStale()
	return c
}

func (c *Controller) MarginLeft() float64 { return c.cfg.MarginLeft }

func (c *Controller) SetMarginLeft(v float64) *Controller {
	c.cfg.MarginLeft = v
	c.markStale()
	return c
}

// Container returns the selector of the node the svg is mounted in.
func (c *Controller) Container() string { return c.cfg.Container }

func (c *Controller) SetContainer(v string) *Controller {
	c.cfg.Container = v
	c.markStale()
	return c
}

func (c *Controller) DefaultTextFill() string { return c.cfg.DefaultTextFill }

func (c *Controller) SetDefaultTextFill(v string) *Controller {
	c.cfg.DefaultTextFill = v
	c.markStale()
	return c
}

// SvgBackground returns the svg background color; empty for none.
func (c *Controller) SvgBackground() string { return c.cfg.SvgBackground }

func (c *Controller) SetSvgBackground(v string) *Controller {
	c.cfg.SvgBackground = v
	c.markStale()
	return c
}

func (c *Controller) DefaultFont() string { return c.cfg.DefaultFont }

func (c *Controller) SetDefaultFont(v string) *Controller {
	c.cfg.DefaultFont = v
	c.markStale()
	return c
}

// Center returns the [lon, lat] map center used when the projection is not fitted.
func (c *Controller) Center() [2]float64 { return c.cfg.Center }

func (c *Controller) SetCenter(v [2]float64) *Controller {
	c.cfg.Center = v
	c.markStale()
	return c
}

func (c *Controller) Scale() float64 { return c.cfg.Scale }

func (c *Controller) SetScale(v float64) *Controller {
	c.cfg.Scale = v
	c.markStale()
	return c
}

// FitExtent returns whether the map projection is fitted to the metro areas.
func (c *Controller) FitExtent() bool { return c.cfg.FitExtent }

func (c *Controller) SetFitExtent(v bool) *Controller {
	c.cfg.FitExtent = v
	c.markStale()
	return c
}

// GeoJSON returns the state outlines.
func (c *Controller) GeoJSON() *geom.Collection { return c.cfg.GeoJSON }

func (c *Controller) SetGeoJSON(v *geom.Collection) *Controller {
	c.cfg.GeoJSON = v
	c.markStale()
	return c
}

// Metro returns the metro areas.
func (c *Controller) Metro() *geom.Collection { return c.cfg.Metro }

func (c *Controller) SetMetro(v *geom.Collection) *Controller {
	c.cfg.Metro = v
	c.markStale()
	return c
}

// Markers returns the marker points.
func (c *Controller) Markers() *geom.Collection { return c.cfg.Markers }

func (c *Controller) SetMarkers(v *geom.Collection) *Controller {
	c.cfg.Markers = v
	c.markStale()
	return c
}

// Data returns the treemap records.
func (c *Controller) Data() []treemap.Datum { return c.cfg.Data }

func (c *Controller) SetData(v []treemap.Datum) *Controller {
	c.cfg.Data = v
	c.markStale()
	return c
}

// GuiEnabled returns whether the first render opens a tweak panel.
func (c *Controller) GuiEnabled() bool { return c.cfg.GuiEnabled }

func (c *Controller) SetGuiEnabled(v bool) *Controller {
	c.cfg.GuiEnabled = v
	c.markStale()
	return c
}

// FirstRender reports whether the chart has not rendered successfully yet.
func (c *Controller) FirstRender() bool { return c.cfg.FirstRender }
