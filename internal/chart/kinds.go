package chart

import (
	"github.com/pkg/errors"
)

// Kinds lists the chart types by name.
var Kinds = []string{"map", "treemap"}

// DrawerFor returns the drawer and default configuration of a chart type.
func DrawerFor(kind string) (Drawer, Config, error) {
	switch kind {
	case "map", "usmap":
		return USMap{}, DefaultMapConfig(), nil
	case "treemap":
		return Treemap{}, DefaultTreemapConfig(), nil
	}
	return nil, Config{}, errors.Errorf("chart: unknown chart type %q", kind)
}
