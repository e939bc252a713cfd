package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// Node fill colors, matching the matplotlib default cycle so diagrams look
// familiar next to textbook figures: orange for base cases, blue for
// recursive calls.
const (
	baseFill      = "#ff7f0e"
	recursiveFill = "#1f77b4"
)

// Options configures tree diagram generation.
type Options struct {
	// Steps clips the diagram to the nodes revealed by the first Steps
	// events of a trace in Order. Zero or negative draws the full tree.
	Steps int

	// Order selects the reveal order used when Steps clips the tree.
	Order stirling.Order
}

// ToDOT converts a recursion tree to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG] or processed by external Graphviz
// tools.
//
// Resolved nodes show their value in the label; unresolved ones show only the
// call. The edge to each k-times child carries the multiplier of the
// recurrence as its label.
func ToDOT(t *stirling.Tree, opts Options) string {
	visible := visibleNodes(t, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph S {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=16, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, idx := range visible {
		nd := t.Node(idx)
		fill := recursiveFill
		if nd.IsBase() {
			fill = baseFill
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q];\n", idx, nd.Label(), fill)
	}

	buf.WriteString("\n")
	shown := make(map[int]bool, len(visible))
	for _, idx := range visible {
		shown[idx] = true
	}
	for _, idx := range visible {
		nd := t.Node(idx)
		if nd.Parent < 0 || !shown[nd.Parent] {
			continue
		}
		switch nd.Term {
		case stirling.TermKTimes:
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", nd.Parent, idx, fmt.Sprintf("×%d", nd.K))
		default:
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", nd.Parent, idx)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// visibleNodes returns the arena indices to draw, in the reveal order that
// the clip is taken against. Parents always precede their children in any
// trace, so a prefix is always a connected subtree.
func visibleNodes(t *stirling.Tree, opts Options) []int {
	events := t.Trace(opts.Order).Events()
	limit := len(events)
	if opts.Steps > 0 && opts.Steps < limit {
		limit = opts.Steps
	}
	out := make([]int, 0, limit)
	for _, ev := range events[:limit] {
		out = append(out, ev.Index)
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(src string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the drawing starts at the
// origin. Graphviz emits translated viewBoxes that confuse some embedders.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
