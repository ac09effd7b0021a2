package geom

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadCSV reads a CSV with latitude/longitude columns and returns one point
// feature per valid row. Column detection (case-insensitive):
// lat|latitude|y, lon|lng|long|longitude|x, and id|geoid|code for identity.
// All columns are kept as string properties.
func LoadCSV(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "csv: open")
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv: read")
	}
	if len(recs) == 0 {
		return nil, errors.New("csv: empty file")
	}
	header := recs[0]
	idxLat, idxLon, idxID := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "id", "geoid", "code":
			if idxID == -1 {
				idxID = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	c := &Collection{}
	for n, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if !validLonLat(lon, lat) {
			return nil, errors.Errorf("csv: row %d: coordinate (%g, %g) out of range", n+2, lon, lat)
		}
		props := make(map[string]any, len(header))
		for i, h := range header {
			if i < len(row) {
				props[h] = row[i]
			}
		}
		feat := Feature{Properties: props, Geometry: Data{Points: [][2]float64{{lon, lat}}}}
		if idxID >= 0 && idxID < len(row) {
			feat.FeatureID = strings.TrimSpace(row[idxID])
		}
		c.Add(feat)
	}
	if c.Len() == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return c, nil
}
