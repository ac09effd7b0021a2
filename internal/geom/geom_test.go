package geom

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metroJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "35620", "properties": {"NAME": "New York"},
     "geometry": {"type": "Polygon", "coordinates": [[[-74.3, 40.5], [-73.7, 40.5], [-73.7, 41.0], [-74.3, 41.0], [-74.3, 40.5]]]}},
    {"type": "Feature", "id": 31080, "properties": {"NAME": "Los Angeles", "GEOID": "LA"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[-118.7, 33.7], [-117.6, 33.7], [-117.6, 34.4], [-118.7, 33.7]]]]}},
    {"type": "Feature", "properties": {"name": "Chicago"},
     "geometry": {"type": "Point", "coordinates": [-87.6, 41.9]}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseFeatures(t *testing.T) {
	c, err := ParseFeatures([]byte(metroJSON), "")
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	assert.Equal(t, "35620", c.Features[0].ID())
	assert.Equal(t, "31080", c.Features[1].ID())
	assert.Equal(t, "", c.Features[2].ID())
	assert.Equal(t, "New York", c.Features[0].Name())
	assert.Equal(t, "Chicago", c.Features[2].Name())

	assert.Len(t, c.Features[0].Geometry.Polygons, 1)
	assert.Len(t, c.Features[1].Geometry.Polygons, 1)
	assert.Len(t, c.Features[2].Geometry.Points, 1)
	assert.Equal(t, BBox{MinX: -118.7, MinY: 33.7, MaxX: -73.7, MaxY: 41.9}, c.BBox)
}

func TestParseFeaturesIDProperty(t *testing.T) {
	c, err := ParseFeatures([]byte(metroJSON), "GEOID")
	require.NoError(t, err)
	assert.Equal(t, "35620", c.Features[0].ID(), "falls back to top-level id")
	assert.Equal(t, "LA", c.Features[1].ID())
}

func TestParseFeaturesErrors(t *testing.T) {
	_, err := ParseFeatures([]byte(`{`), "")
	assert.Error(t, err)

	_, err = ParseFeatures([]byte(`{"features": []}`), "")
	assert.ErrorContains(t, err, "missing type")

	_, err = ParseFeatures([]byte(`{"type": "FeatureCollection", "features": [{"type": "Feature", "id": "x", "geometry": {"type": "Point"}}]}`), "")
	assert.ErrorContains(t, err, `"x"`)
}

func TestParseFeaturesBareGeometry(t *testing.T) {
	c, err := ParseFeatures([]byte(`{"type": "LineString", "coordinates": [[0, 0], [1, 1]]}`), "")
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Len(t, c.Features[0].Geometry.Lines, 1)
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "pts.csv", "GEOID,Name,Latitude,Longitude\n35620,New York,40.7,-74.0\nbad,row,x,y\n31080,Los Angeles,34.05,-118.24\n")
	c, err := LoadCSV(p)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "35620", c.Features[0].ID())
	assert.Equal(t, [2]float64{-74.0, 40.7}, c.Features[0].Geometry.Points[0])
	assert.Equal(t, "Los Angeles", c.Features[1].Properties["Name"])

	_, err = LoadCSV(writeFile(t, "none.csv", "a,b\n1,2\n"))
	assert.ErrorContains(t, err, "columns not found")
}

func TestLoadKML(t *testing.T) {
	p := writeFile(t, "pts.kml", `<?xml version="1.0"?>
<kml><Document>
  <Placemark id="nyc"><name>New York</name><Point><coordinates>-74.0,40.7,0</coordinates></Point></Placemark>
  <Placemark><name>Boston</name><Point><coordinates>-71.06,42.36</coordinates></Point></Placemark>
  <Placemark><name>No point</name></Placemark>
</Document></kml>`)
	c, err := LoadKML(p)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "nyc", c.Features[0].ID())
	assert.Equal(t, "Boston", c.Features[1].ID())
}

func TestParseWKT(t *testing.T) {
	d, err := ParseWKT("POLYGON((0 0, 4 0, 4 4, 0 0), (1 1, 2 1, 2 2, 1 1))")
	require.NoError(t, err)
	require.Len(t, d.Polygons, 1)
	assert.Len(t, d.Polygons[0], 2)

	d, err = ParseWKT("MULTIPOINT((1 2), (3 4))")
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{1, 2}, {3, 4}}, d.Points)

	_, err = ParseWKT("CIRCLE(1 2)")
	assert.Error(t, err)
	_, err = ParseWKT("POINT 1 2")
	assert.ErrorContains(t, err, "malformed POINT")
}

func TestLoadDispatch(t *testing.T) {
	p := writeFile(t, "austin.wkt", "POINT(-97.74 30.27)")
	c, err := Load(p, "")
	require.NoError(t, err)
	assert.Equal(t, "austin", c.Features[0].ID())

	_, err = Load("x.shp", "")
	assert.ErrorContains(t, err, "unsupported")
}

func TestAlbersFitSize(t *testing.T) {
	c, err := ParseFeatures([]byte(metroJSON), "")
	require.NoError(t, err)

	p := USAlbers().FitSize(390, 190, c)
	const eps = 1e-6
	var minX, minY, maxX, maxY = math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, f := range c.Features {
		f.Geometry.Each(func(pt [2]float64) {
			x, y, ok := p.Project(pt[0], pt[1])
			require.True(t, ok)
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		})
	}
	assert.GreaterOrEqual(t, minX, -eps)
	assert.GreaterOrEqual(t, minY, -eps)
	assert.LessOrEqual(t, maxX, 390+eps)
	assert.LessOrEqual(t, maxY, 190+eps)
	// one axis is filled exactly
	assert.True(t, math.Abs(maxX-minX-390) < 1e-6 || math.Abs(maxY-minY-190) < 1e-6)

	// west is left, north is up
	lax, _, _ := p.Project(-118, 34)
	nyx, nyy, _ := p.Project(-74, 40.7)
	_, miy, _ := p.Project(-74, 30)
	assert.Less(t, lax, nyx)
	assert.Less(t, nyy, miy)
}

func TestAlbersCenter(t *testing.T) {
	p := USAlbers()
	p.Scale = 1000
	p.Translate = [2]float64{200, 100}
	x, y, ok := p.Project(-96, 38.7)
	require.True(t, ok)
	assert.InDelta(t, 200, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
}

type identity struct{}

func (identity) Project(lon, lat float64) (float64, float64, bool) { return lon, lat, true }

func TestPathD(t *testing.T) {
	g := NewPath(identity{})
	poly := Feature{Geometry: Data{Polygons: [][][][2]float64{{{{0, 0}, {10, 0}, {10, 10.12345}}}}}}
	assert.Equal(t, "M0,0L10,0L10,10.123Z", g.D(poly))

	line := Feature{Geometry: Data{Lines: [][][2]float64{{{1, 2}, {3, 4}}}}}
	assert.Equal(t, "M1,2L3,4", g.D(line))

	pt := g.D(Feature{Geometry: Data{Points: [][2]float64{{5, 5}}}})
	assert.True(t, strings.HasPrefix(pt, "M5,5m0,4.5a4.5,4.5 0 1,1 0,-9"))
	assert.True(t, strings.HasSuffix(pt, "Z"))

	assert.Equal(t, "", g.D(Feature{}))
}

func TestLoadersRejectBadCoordinates(t *testing.T) {
	for _, body := range []string{"id,lat,lon\na,40,inf\n", "id,lat,lon\na,1e300,-90\n", "id,lat,lon\na,40,NaN\n"} {
		_, err := LoadCSV(writeFile(t, "pts.csv", body))
		assert.ErrorContains(t, err, "out of range", body)
	}

	for _, js := range []string{
		`{"type": "Point", "coordinates": [1e300, 40]}`,
		`{"type": "Feature", "id": "x", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 95], [1, 1], [0, 0]]]}}`,
	} {
		_, err := ParseFeatures([]byte(js), "")
		assert.ErrorContains(t, err, "out of range", js)
	}

	_, err := ParseWKT("POINT(inf 40)")
	assert.ErrorContains(t, err, "out of range")
	_, err = ParseWKT("LINESTRING(0 0, 1e300 1)")
	assert.ErrorContains(t, err, "out of range")

	_, err = LoadKML(writeFile(t, "pts.kml", `<kml><Placemark id="p"><Point><coordinates>-Inf,40</coordinates></Point></Placemark></kml>`))
	assert.ErrorContains(t, err, "out of range")
}

func TestAlbersNonFiniteInput(t *testing.T) {
	p := USAlbers()
	for _, lon := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, _, ok := p.Project(lon, 40)
		assert.False(t, ok)
	}
	_, _, ok := p.Project(-96, math.Inf(1))
	assert.False(t, ok)

	// huge finite longitudes wrap instead of spinning
	x, y, ok := p.Project(1e300, 40)
	assert.True(t, ok)
	assert.False(t, math.IsInf(x, 0) || math.IsInf(y, 0))

	c := &Collection{}
	c.Add(Feature{Geometry: Data{Points: [][2]float64{{math.Inf(1), 40}, {-100, 35}, {-90, 45}}}})
	p.FitSize(400, 200, c)
	assert.False(t, math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0))
}
