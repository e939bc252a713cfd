// Package pipeline provides the core visualization pipeline for recursion
// trees.
//
// This package implements the complete build → resolve → trace → render
// pipeline that can be used by CLI, API, and TUI components. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Expand the recursion tree for S(n,k)
//  2. Resolve: Evaluate every node bottom-up
//  3. Trace: Produce the deterministic reveal sequence for animation
//  4. Render: Generate output in various formats (SVG, DOT, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    N: 5, K: 3,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// DefaultOrder is the reveal order used when none is requested.
const DefaultOrder = "dfs"

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	N int `json:"n"`
	K int `json:"k"`

	// Trace options
	Order string `json:"order,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Steps clips rendered diagrams to the first reveal events;
	// zero renders the full tree.
	Steps int `json:"steps,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	order stirling.Order
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the expanded recursion tree, resolved.
	Tree *stirling.Tree

	// Value is S(n,k), the resolved root value.
	Value int64

	// Events is the reveal sequence in the requested order.
	Events []stirling.Event

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	LeafCount   int
	BuildTime   time.Duration
	ResolveTime time.Duration
	TraceTime   time.Duration
	RenderTime  time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once. The (n,k) pair itself is validated by the
// build stage.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	order, err := stirling.ParseOrder(o.Order)
	if err != nil {
		return err
	}
	o.order = order

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
