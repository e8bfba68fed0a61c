// Package treemap lays trending topics out as area-proportional rectangles.
//
// Tiling follows the squarified algorithm with the golden ratio as target aspect
// ratio. Padding mirrors a flat hierarchy with equal inner and outer padding: every
// cell is inset by half the padding inside a box that is itself inset by half the
// padding, leaving a full padding between neighbours and along the canvas edge.
package treemap

import (
	"fmt"
	"math"
	"sort"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// Defaults used when Options leaves a dimension unset.
const (
	DefaultWidth   = 960
	DefaultHeight  = 400
	DefaultPadding = 2
)

var phi = (1 + math.Sqrt(5)) / 2

// Options sizes the canvas.
type Options struct {
	Width   float64
	Height  float64
	Padding float64
}

// DefaultOptions returns the dashboard's canvas size.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}
}

// Label is one line of a cell caption, relative to the cell's top-left corner.
type Label struct {
	Text string
	X    float64
	Y    float64
}

// Cell is the rectangle of one topic.
type Cell struct {
	Topic   news.TrendingTopic
	X0, Y0  float64
	X1, Y1  float64
	Fill    string
	Labels  []Label
	Tooltip string
}

// Width returns the cell width.
func (c Cell) Width() float64 { return c.X1 - c.X0 }

// Height returns the cell height.
func (c Cell) Height() float64 { return c.Y1 - c.Y0 }

// Area returns the cell area.
func (c Cell) Area() float64 { return c.Width() * c.Height() }

// Map is a laid-out treemap.
type Map struct {
	Width  float64
	Height float64
	Cells  []Cell
}

// Empty reports whether there is nothing to draw.
func (m Map) Empty() bool { return len(m.Cells) == 0 }

type node struct {
	value          float64
	x0, y0, x1, y1 float64
}

// Layout tiles topics with a positive count onto the canvas, largest first.
func Layout(topics []news.TrendingTopic, opts Options) Map {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}

	var kept []news.TrendingTopic
	for _, t := range topics {
		if t.Count > 0 {
			kept = append(kept, t)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Count > kept[j].Count })

	m := Map{Width: opts.Width, Height: opts.Height}
	if len(kept) == 0 {
		return m
	}

	nodes := make([]*node, len(kept))
	total := 0.0
	for i, t := range kept {
		nodes[i] = &node{value: float64(t.Count)}
		total += nodes[i].value
	}

	half := opts.Padding / 2
	x0, y0 := opts.Padding-half, opts.Padding-half
	x1, y1 := opts.Width-opts.Padding+half, opts.Height-opts.Padding+half
	if x1 < x0 {
		x0, x1 = (x0+x1)/2, (x0+x1)/2
	}
	if y1 < y0 {
		y0, y1 = (y0+y1)/2, (y0+y1)/2
	}
	squarify(nodes, total, x0, y0, x1, y1)

	m.Cells = make([]Cell, len(kept))
	for i, n := range nodes {
		cx0, cx1 := inset(n.x0, n.x1, half)
		cy0, cy1 := inset(n.y0, n.y1, half)
		t := kept[i]
		m.Cells[i] = Cell{
			Topic:   t,
			X0:      cx0,
			Y0:      cy0,
			X1:      cx1,
			Y1:      cy1,
			Fill:    Color(t.AverageSentiment),
			Labels:  labels(t.Name),
			Tooltip: Tooltip(t),
		}
	}
	return m
}

func inset(a, b, p float64) (float64, float64) {
	a, b = a+p, b-p
	if b < a {
		mid := (a + b) / 2
		return mid, mid
	}
	return a, b
}

// squarify assigns rectangles to nodes, which must be sorted by value descending
// and have positive values summing to total.
func squarify(nodes []*node, total, x0, y0, x1, y1 float64) {
	value := total
	n := len(nodes)
	i0, i1 := 0, 0
	for i0 < n {
		dx, dy := x1-x0, y1-y0

		sum := nodes[i1].value
		i1++
		minValue, maxValue := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * phi)
		beta := sum * sum * alpha
		minRatio := math.Max(maxValue/beta, beta/minValue)

		// Keep adding nodes while the worst aspect ratio holds or improves.
		for ; i1 < n; i1++ {
			v := nodes[i1].value
			sum += v
			if v < minValue {
				minValue = v
			}
			if v > maxValue {
				maxValue = v
			}
			beta = sum * sum * alpha
			ratio := math.Max(maxValue/beta, beta/minValue)
			if ratio > minRatio {
				sum -= v
				break
			}
			minRatio = ratio
		}

		row := nodes[i0:i1]
		if dx < dy {
			ny := y1
			if value > 0 {
				ny = y0 + dy*sum/value
			}
			dice(row, sum, x0, y0, x1, ny)
			y0 = ny
		} else {
			nx := x1
			if value > 0 {
				nx = x0 + dx*sum/value
			}
			slice(row, sum, x0, y0, nx, y1)
			x0 = nx
		}
		value -= sum
		i0 = i1
	}
}

// dice lays a row out left to right.
func dice(row []*node, sum, x0, y0, x1, y1 float64) {
	k := 0.0
	if sum > 0 {
		k = (x1 - x0) / sum
	}
	for _, n := range row {
		n.y0, n.y1 = y0, y1
		n.x0 = x0
		x0 += n.value * k
		n.x1 = x0
	}
}

// slice lays a row out top to bottom.
func slice(row []*node, sum, x0, y0, x1, y1 float64) {
	k := 0.0
	if sum > 0 {
		k = (y1 - y0) / sum
	}
	for _, n := range row {
		n.x0, n.x1 = x0, x1
		n.y0 = y0
		y0 += n.value * k
		n.y1 = y0
	}
}

// Tooltip is the hover text of a topic cell.
func Tooltip(t news.TrendingTopic) string {
	return fmt.Sprintf("%s\nMentions: %d\nAverage sentiment: %.2f", t.Name, t.Count, t.AverageSentiment)
}
