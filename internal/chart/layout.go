package chart

// Layout holds the values derived from a configuration on every render.
type Layout struct {
	Left, Top     float64
	ContentWidth  float64
	ContentHeight float64
}

// ComputeLayout subtracts the margins from the svg size.
func ComputeLayout(c Config) Layout {
	return Layout{
		Left:          c.MarginLeft,
		Top:           c.MarginTop,
		ContentWidth:  c.SvgWidth - c.MarginLeft - c.MarginRight,
		ContentHeight: c.SvgHeight - c.MarginTop - c.MarginBottom,
	}
}
