package chart

import (
	"path/filepath"

	"github.com/pkg/errors"

	"geochart/internal/geom"
	"geochart/internal/treemap"
)

// Sources names the data files a chart is drawn from. Empty paths are
// skipped.
type Sources struct {
	States  string
	Metro   string
	Markers string
	Data    string
	// IDProperty selects the feature property used as identity in GeoJSON
	// inputs; empty uses the feature id.
	IDProperty string
}

// Paths returns the non-empty source paths.
func (s Sources) Paths() []string {
	var out []string
	for _, p := range []string{s.States, s.Metro, s.Markers, s.Data} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads every source into c.
func (s Sources) Load(c *Config) error {
	return s.LoadChanged(c, nil)
}

// LoadChanged reads the sources among changed into c; a nil changed reads
// all of them. Paths are compared after cleaning to absolute form.
func (s Sources) LoadChanged(c *Config, changed []string) error {
	want := func(p string) bool {
		if p == "" {
			return false
		}
		if changed == nil {
			return true
		}
		abs, _ := filepath.Abs(p)
		for _, ch := range changed {
			if a, _ := filepath.Abs(ch); a == abs {
				return true
			}
		}
		return false
	}
	for _, l := range []struct {
		path string
		dst  **geom.Collection
	}{
		{s.States, &c.GeoJSON},
		{s.Metro, &c.Metro},
		{s.Markers, &c.Markers},
	} {
		if !want(l.path) {
			continue
		}
		fc, err := geom.Load(l.path, s.IDProperty)
		if err != nil {
			return err
		}
		*l.dst = fc
	}
	if want(s.Data) {
		data, err := treemap.LoadFile(s.Data)
		if err != nil {
			return errors.WithMessage(err, s.Data)
		}
		c.Data = data
	}
	return nil
}
