package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoMetros = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "a", "properties": {"GEOID": "100"}, "geometry": {"type": "Point", "coordinates": [-90, 35]}},
  {"type": "Feature", "id": "b", "properties": {"GEOID": "200"}, "geometry": {"type": "Point", "coordinates": [-80, 40]}}
]}`

func TestSourcesLoad(t *testing.T) {
	dir := t.TempDir()
	metroPath := filepath.Join(dir, "metro.geojson")
	dataPath := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(metroPath, []byte(twoMetros), 0o644))
	require.NoError(t, os.WriteFile(dataPath, []byte("- {id: x, value: 1}\n"), 0o644))

	s := Sources{Metro: metroPath, Data: dataPath, IDProperty: "GEOID"}
	assert.Equal(t, []string{metroPath, dataPath}, s.Paths())

	c := DefaultMapConfig()
	require.NoError(t, s.Load(&c))
	require.Equal(t, 2, c.Metro.Len())
	assert.Equal(t, "100", c.Metro.Features[0].ID())
	assert.Nil(t, c.GeoJSON)
	assert.Len(t, c.Data, 1)

	c.Data = nil
	c.Metro = nil
	require.NoError(t, s.LoadChanged(&c, []string{dataPath}))
	assert.Nil(t, c.Metro, "unchanged source not reloaded")
	assert.Len(t, c.Data, 1)

	require.NoError(t, os.WriteFile(dataPath, []byte("- {id: x, value: -1}\n"), 0o644))
	err := s.Load(&c)
	assert.ErrorContains(t, err, dataPath)

	assert.Error(t, Sources{Metro: filepath.Join(dir, "none.geojson")}.Load(&c))
}

func TestDrawerFor(t *testing.T) {
	d, c, err := DrawerFor("map")
	require.NoError(t, err)
	assert.Equal(t, "usmap", d.Name())
	assert.Equal(t, 1070.0, c.Scale)

	d, c, err = DrawerFor("treemap")
	require.NoError(t, err)
	assert.Equal(t, "treemap", d.Name())
	assert.Equal(t, 0.0, c.MarginLeft)

	_, _, err = DrawerFor("pie")
	assert.Error(t, err)
}
