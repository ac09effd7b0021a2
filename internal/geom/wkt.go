package geom

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseWKT parses a subset of WKT into geometry.
// Supported: POINT, MULTIPOINT, LINESTRING, POLYGON (with holes).
func ParseWKT(wkt string) (Data, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Data{}, errors.New("wkt: empty")
	}
	up := strings.ToUpper(s)
	parseTuples := func(block string) [][2]float64 {
		var out [][2]float64
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.Trim(strings.TrimSpace(tup), "()"))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, [2]float64{x, y})
		}
		return out
	}
	inner := func(open, closing string) (string, error) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, closing)
		if i < 0 || j <= i {
			return "", errors.Errorf("wkt: malformed %s", strings.TrimSpace(strings.SplitN(up, "(", 2)[0]))
		}
		return s[i+len(open) : j], nil
	}
	var d Data
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"), strings.HasPrefix(up, "POINT"):
		block, err := inner("(", ")")
		if err != nil {
			return Data{}, err
		}
		d.Points = parseTuples(block)
	case strings.HasPrefix(up, "LINESTRING"):
		block, err := inner("(", ")")
		if err != nil {
			return Data{}, err
		}
		if ls := parseTuples(block); len(ls) > 0 {
			d.Lines = append(d.Lines, ls)
		}
	case strings.HasPrefix(up, "POLYGON"):
		block, err := inner("((", "))")
		if err != nil {
			return Data{}, err
		}
		// normalize spaces around ring separators
		norm := strings.ReplaceAll(block, "), (", "),(")
		norm = strings.ReplaceAll(norm, ") , (", "),(")
		var poly [][][2]float64
		for _, rp := range strings.Split(norm, "),(") {
			if ring := parseTuples(rp); len(ring) > 0 {
				poly = append(poly, ring)
			}
		}
		if len(poly) > 0 {
			d.Polygons = append(d.Polygons, poly)
		}
	default:
		return Data{}, errors.New("wkt: unsupported type")
	}
	if d.Empty() {
		return Data{}, errors.New("wkt: no coordinates parsed")
	}
	if err := d.Check(); err != nil {
		return Data{}, errors.Wrap(err, "wkt")
	}
	return d, nil
}
