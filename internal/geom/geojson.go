package geom

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadFeatures reads a GeoJSON file into a Collection. See ParseFeatures.
func LoadFeatures(path, idProperty string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "geojson: read")
	}
	c, err := ParseFeatures(data, idProperty)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// ParseFeatures decodes a FeatureCollection, a single Feature or a bare
// geometry. A feature's identity is its top-level "id"; when idProperty is
// set and present in the properties it takes precedence.
func ParseFeatures(data []byte, idProperty string) (*Collection, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "geojson: decode")
	}
	parsePoint := func(v any) (pt [2]float64, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			lon, lok := a[0].(float64)
			lat, aok := a[1].(float64)
			if lok && aok {
				return [2]float64{lon, lat}, true
			}
		}
		return [2]float64{}, false
	}
	parseArrayPoints := func(v any) (pts [][2]float64, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, el := range arr {
			if pt, ok := parsePoint(el); ok {
				pts = append(pts, pt)
			}
		}
		return pts, true
	}
	parsePolygon := func(v any) (poly [][][2]float64, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, ring := range arr {
			if ls, ok := parseArrayPoints(ring); ok && len(ls) > 0 {
				poly = append(poly, ls)
			}
		}
		return poly, len(poly) > 0
	}
	var walkGeom func(g map[string]any, d *Data)
	walkGeom = func(g map[string]any, d *Data) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if pt, ok := parsePoint(g["coordinates"]); ok {
				d.Points = append(d.Points, pt)
			}
		case "MultiPoint":
			if pts, ok := parseArrayPoints(g["coordinates"]); ok {
				d.Points = append(d.Points, pts...)
			}
		case "LineString":
			if ls, ok := parseArrayPoints(g["coordinates"]); ok && len(ls) > 0 {
				d.Lines = append(d.Lines, ls)
			}
		case "MultiLineString":
			if arr, ok := g["coordinates"].([]any); ok {
				for _, el := range arr {
					if ls, ok := parseArrayPoints(el); ok && len(ls) > 0 {
						d.Lines = append(d.Lines, ls)
					}
				}
			}
		case "Polygon":
			if poly, ok := parsePolygon(g["coordinates"]); ok {
				d.Polygons = append(d.Polygons, poly)
			}
		case "MultiPolygon":
			if arr, ok := g["coordinates"].([]any); ok {
				for _, el := range arr {
					if poly, ok := parsePolygon(el); ok {
						d.Polygons = append(d.Polygons, poly)
					}
				}
			}
		case "GeometryCollection":
			if gs, ok := g["geometries"].([]any); ok {
				for _, sub := range gs {
					if sm, ok := sub.(map[string]any); ok {
						walkGeom(sm, d)
					}
				}
			}
		}
	}
	feature := func(fm map[string]any) Feature {
		f := Feature{Properties: map[string]any{}}
		if props, ok := fm["properties"].(map[string]any); ok {
			f.Properties = props
		}
		f.FeatureID = idString(fm["id"])
		if idProperty != "" {
			if id := idString(f.Properties[idProperty]); id != "" {
				f.FeatureID = id
			}
		}
		if g, ok := fm["geometry"].(map[string]any); ok {
			walkGeom(g, &f.Geometry)
		}
		return f
	}

	c := &Collection{}
	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		c.Add(feature(raw))
	case "FeatureCollection":
		fs, ok := raw["features"].([]any)
		if !ok {
			return nil, errors.New("geojson: features is not an array")
		}
		for i, f := range fs {
			fm, ok := f.(map[string]any)
			if !ok {
				return nil, errors.Errorf("geojson: feature %d is not an object", i)
			}
			c.Add(feature(fm))
		}
	case "":
		return nil, errors.New("geojson: missing type")
	default:
		var d Data
		walkGeom(raw, &d)
		c.Add(Feature{Properties: map[string]any{}, Geometry: d})
	}
	for i, f := range c.Features {
		if f.Geometry.Empty() {
			return nil, errors.Errorf("geojson: feature %d (%q) has no usable coordinates", i, f.FeatureID)
		}
		if err := f.Geometry.Check(); err != nil {
			return nil, errors.Wrapf(err, "geojson: feature %d (%q)", i, f.FeatureID)
		}
	}
	return c, nil
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
