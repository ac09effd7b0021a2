package treemap

import "math"

// Phi is the golden ratio, the default target aspect ratio of squarified rows.
var Phi = (1 + math.Sqrt(5)) / 2

// Layout positions a summed hierarchy inside a Width x Height box.
type Layout struct {
	Width, Height float64
	// Padding returns the gap kept around the children of a parent node.
	Padding func(*Node) float64
	// Ratio is the target row aspect ratio; zero means Phi.
	Ratio float64
	Round bool
}

// LeafParentPadding pads parents whose children are all leaves by one unit.
func LeafParentPadding(n *Node) float64 {
	if n.Height == 1 {
		return 1
	}
	return 0
}

// Apply sets X0, Y0, X1, Y1 on root and every descendant. root must have been
// summed.
func (l Layout) Apply(root *Node) *Node {
	ratio := l.Ratio
	if ratio <= 0 {
		ratio = Phi
	}
	pad := l.Padding
	if pad == nil {
		pad = func(*Node) float64 { return 0 }
	}
	stack := []float64{0}
	root.X0, root.Y0, root.X1, root.Y1 = 0, 0, l.Width, l.Height
	root.EachBefore(func(n *Node) {
		for len(stack) <= n.Depth+1 {
			stack = append(stack, 0)
		}
		p := stack[n.Depth]
		x0, y0, x1, y1 := clampBox(n.X0+p, n.Y0+p, n.X1-p, n.Y1-p)
		n.X0, n.Y0, n.X1, n.Y1 = x0, y0, x1, y1
		if len(n.Children) == 0 {
			return
		}
		// inner padding is split between neighbors; outer padding equals it
		inner := pad(n)
		p = inner / 2
		stack[n.Depth+1] = p
		x0, y0, x1, y1 = clampBox(x0+inner-p, y0+inner-p, x1-(inner-p), y1-(inner-p))
		squarify(ratio, n, x0, y0, x1, y1)
	})
	if l.Round {
		root.EachBefore(func(n *Node) {
			n.X0, n.Y0 = math.Round(n.X0), math.Round(n.Y0)
			n.X1, n.Y1 = math.Round(n.X1), math.Round(n.Y1)
		})
	}
	return root
}

func clampBox(x0, y0, x1, y1 float64) (float64, float64, float64, float64) {
	if x1 < x0 {
		x0 = (x0 + x1) / 2
		x1 = x0
	}
	if y1 < y0 {
		y0 = (y0 + y1) / 2
		y1 = y0
	}
	return x0, y0, x1, y1
}

// squarify lays parent's children out in rows whose aspect ratios approach
// ratio, alternating between horizontal and vertical rows along the
// shorter side.
func squarify(ratio float64, parent *Node, x0, y0, x1, y1 float64) {
	nodes := parent.Children
	n := len(nodes)
	value := parent.Value
	i0, i1 := 0, 0
	for i0 < n {
		dx, dy := x1-x0, y1-y0

		// find the next non-empty node
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		// keep adding nodes while the worst aspect ratio improves
		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			beta = sum * sum * alpha
			r := math.Max(maxV/beta, beta/minV)
			if r > minRatio {
				sum -= v
				break
			}
			minRatio = r
		}

		row := nodes[i0:i1]
		if dx < dy {
			bottom := y1
			if value != 0 {
				bottom = y0 + dy*sum/value
			}
			dice(row, sum, x0, y0, x1, bottom)
			if value != 0 {
				y0 = bottom
			}
		} else {
			right := x1
			if value != 0 {
				right = x0 + dx*sum/value
			}
			slice(row, sum, x0, y0, right, y1)
			if value != 0 {
				x0 = right
			}
		}
		value -= sum
		i0 = i1
	}
}

// dice splits the box horizontally in proportion to node values.
func dice(nodes []*Node, value, x0, y0, x1, y1 float64) {
	var k float64
	if value != 0 {
		k = (x1 - x0) / value
	}
	for _, n := range nodes {
		n.Y0, n.Y1 = y0, y1
		n.X0 = x0
		x0 += n.Value * k
		n.X1 = x0
	}
}

// slice splits the box vertically in proportion to node values.
func slice(nodes []*Node, value, x0, y0, x1, y1 float64) {
	var k float64
	if value != 0 {
		k = (y1 - y0) / value
	}
	for _, n := range nodes {
		n.X0, n.X1 = x0, x1
		n.Y0 = y0
		y0 += n.Value * k
		n.Y1 = y0
	}
}

// Tile sums data, sorts it by descending value and lays it out in a
// w x h box with leaf-parent padding and rounding. It returns the leaves.
func Tile(data []Datum, w, h float64) []*Node {
	root := Hierarchy(data).Sum().SortByValue()
	Layout{Width: w, Height: h, Padding: LeafParentPadding, Round: true}.Apply(root)
	return root.Leaves()
}
