package geom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Load reads any supported file into a Collection, choosing the format by
// extension: .geojson/.json, .csv, .kml, .wkt (a single feature identified
// by the file's base name).
func Load(path, idProperty string) (*Collection, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadFeatures(path, idProperty)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "wkt: read")
		}
		d, err := ParseWKT(string(data))
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		c := &Collection{}
		c.Add(Feature{
			FeatureID:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Properties: map[string]any{},
			Geometry:   d,
		})
		return c, nil
	default:
		return nil, errors.Errorf("unsupported file: %s", ext)
	}
}
