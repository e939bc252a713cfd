// Package circle renders a single set partition as a circular diagram.
//
// The n elements sit evenly spaced on a circle (a single element sits at the
// center), each drawn as a disc colored by its block, with chords joining
// consecutive members of the same block. The output is self-contained SVG
// built directly, with no rendering dependency.
package circle

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
)

// palette is the matplotlib tab20 cycle. Block i uses palette[i % 20], so
// diagrams for up to 20 blocks have distinct colors and larger block counts
// wrap around.
var palette = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// BlockColor returns the fill color for block label i.
func BlockColor(i int) string {
	return palette[((i%len(palette))+len(palette))%len(palette)]
}

// Point is a 2D position in SVG user units.
type Point struct {
	X, Y float64
}

// Options configures partition diagram rendering.
type Options struct {
	// Size is the width and height of the square SVG in user units.
	// Zero uses DefaultSize.
	Size float64

	// Title is drawn above the circle when nonempty, typically the set
	// notation of the partition.
	Title string
}

// DefaultSize is the SVG edge length used when Options.Size is zero.
const DefaultSize = 480

// Positions returns the canvas positions of elements 1..n: evenly spaced on
// a circle of the given radius around the center, starting at the top and
// proceeding clockwise. A single element sits at the center.
func Positions(n int, center Point, radius float64) []Point {
	pts := make([]Point, n)
	if n == 1 {
		pts[0] = center
		return pts
	}
	for i := 0; i < n; i++ {
		angle := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
		pts[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y - radius*math.Sin(angle),
		}
	}
	return pts
}

// Render draws the partition encoded by r as an SVG document.
func Render(r partition.RGS, opts Options) []byte {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	center := Point{X: size / 2, Y: size / 2}
	radius := size * 0.38
	discR := size * 0.04

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		size, size, size, size)

	if opts.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#333">%s</text>`+"\n",
			center.X, size*0.06, size*0.035, escapeText(opts.Title))
	}

	// Guide circle behind everything.
	if len(r) > 1 {
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ccc" stroke-dasharray="4,4"/>`+"\n",
			center.X, center.Y, radius)
	}

	pts := Positions(len(r), center, radius)

	// Chords join consecutive members of each block, drawn under the discs.
	for _, block := range r.Blocks() {
		for i := 1; i < len(block); i++ {
			a := pts[block[i-1]-1]
			b := pts[block[i]-1]
			fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-opacity="0.5"/>`+"\n",
				a.X, a.Y, b.X, b.Y, BlockColor(r[block[i]-1]), size*0.008)
		}
	}

	for i, p := range pts {
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="white" stroke-width="%.1f"/>`+"\n",
			p.X, p.Y, discR, BlockColor(r[i]), size*0.004)
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.1f" fill="white">%d</text>`+"\n",
			p.X, p.Y, discR*1.1, i+1)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		switch c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(c)
		}
	}
	return buf.String()
}
