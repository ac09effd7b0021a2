package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geochart/internal/scene"
)

func canvas(w, h float64) *scene.Node {
	svg := scene.New("svg").
		SetAttr("width", w).
		SetAttr("height", h).
		SetAttr("viewBox", "0 0 "+scene.FormatValue(w)+" "+scene.FormatValue(h))
	return svg
}

func TestRasterizeFillsShapes(t *testing.T) {
	svg := canvas(20, 10)
	g := scene.New("g").SetAttr("transform", "translate(10,0)")
	svg.AppendChild(g)
	g.AppendChild(scene.New("rect").SetAttr("width", 10).SetAttr("height", 10).SetAttr("fill", "#ff0000"))

	img, err := Rasterize(svg, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(15, 5))
	assert.Equal(t, uint8(0), img.RGBAAt(5, 5).A)
}

func TestRasterizeBackgroundAndScale(t *testing.T) {
	svg := canvas(4, 2)
	svg.SetStyle("background-color", "#EBEBEB")
	img, err := Rasterize(svg, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{R: 0xeb, G: 0xeb, B: 0xeb, A: 0xff}, img.RGBAAt(7, 3))
}

func TestRasterizeErrors(t *testing.T) {
	_, err := Rasterize(nil, 1)
	assert.Error(t, err)
	_, err = Rasterize(scene.New("svg"), 1)
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, canvas(3, 3), 1))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#2C3E50")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}, c)
	c, ok = ParseColor("#fff")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)
	c, ok = ParseColor("White")
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), c.R)
	_, ok = ParseColor("none")
	assert.False(t, ok)
	_, ok = ParseColor("#12")
	assert.False(t, ok)
}
