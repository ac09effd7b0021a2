package geom

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadKML reads Placemark > Point coordinates from a KML file, one feature
// per placemark. The placemark's id attribute, or else its name, is the
// feature identity. KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func LoadKML(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "kml: read")
	}

	type kmlPoint struct {
		Coordinates string `xml:"coordinates"`
	}
	type kmlPlacemark struct {
		ID    string    `xml:"id,attr"`
		Name  string    `xml:"name"`
		Point *kmlPoint `xml:"Point"`
	}
	type kmlDoc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Document   struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Document"`
	}

	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "kml: decode")
	}
	c := &Collection{}
	for _, pm := range append(doc.Placemarks, doc.Document.Placemarks...) {
		if pm.Point == nil {
			continue
		}
		var d Data
		// coordinates may contain multiple tuples separated by spaces
		for _, tuple := range strings.Fields(pm.Point.Coordinates) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			d.Points = append(d.Points, [2]float64{lon, lat})
		}
		if d.Empty() {
			continue
		}
		id := pm.ID
		if id == "" {
			id = strings.TrimSpace(pm.Name)
		}
		if err := d.Check(); err != nil {
			return nil, errors.Wrapf(err, "kml: placemark %q", id)
		}
		c.Add(Feature{
			FeatureID:  id,
			Properties: map[string]any{"name": strings.TrimSpace(pm.Name)},
			Geometry:   d,
		})
	}
	if c.Len() == 0 {
		return nil, errors.New("kml: no points found")
	}
	return c, nil
}
