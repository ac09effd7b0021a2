// Package raster paints a scene's svg into an image.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"geochart/internal/scene"
)

// Rasterize paints svg, the root of a chart scene, at scale pixels per user
// unit. The svg background-color style, when set, fills the image first.
// Text is not rendered.
func Rasterize(svg *scene.Node, scale float64) (*image.RGBA, error) {
	if svg == nil {
		return nil, errors.New("raster: no scene")
	}
	if scale <= 0 {
		scale = 1
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(scene.SVGBytes(svg)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(err, "raster: parse svg")
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, _ = svg.AttrFloat("width")
		vh, _ = svg.AttrFloat("height")
	}
	w, h := int(math.Ceil(vw*scale)), int(math.Ceil(vh*scale))
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("raster: empty canvas %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg, ok := svg.Style("background-color"); ok {
		if c, ok := ParseColor(bg); ok {
			draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// WritePNG rasterizes svg and encodes it to w.
func WritePNG(w io.Writer, svg *scene.Node, scale float64) error {
	img, err := Rasterize(svg, scale)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "raster: encode png")
}

// ParseColor understands #rgb, #rrggbb and the svg color keywords.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
