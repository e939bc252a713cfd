// Package dot renders recursion trees as node-link diagrams.
//
// # Overview
//
// This package produces directed tree visualizations using Graphviz, where
// every call site of the recurrence S(n,k) = k·S(n-1,k) + S(n-1,k-1) appears
// as a box connected to its two subcalls. Base-case leaves and recursive
// interior nodes are filled with distinct colors so the shape of the
// recursion is readable at a glance.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	src := dot.ToDOT(tree, dot.Options{})
//	svg, err := dot.RenderSVG(src)
//
// # Animation
//
// Setting [Options.Steps] clips the diagram to the nodes revealed by the
// first events of a trace, which is how step-by-step animations are produced:
// render the same tree with Steps = 1, 2, 3, ... and the diagram grows one
// node at a time in a stable layout order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no external graphviz binary is required.
package dot
