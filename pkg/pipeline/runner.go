package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/observability"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/render/dot"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// Runner executes the visualization pipeline.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses the package default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete build → resolve → trace → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	tree, err := stirling.Build(opts.N, opts.K)
	result.Stats.BuildTime = time.Since(buildStart)
	nodeCount := 0
	if tree != nil {
		nodeCount = tree.Len()
	}
	observability.Tree().OnBuild(ctx, opts.N, opts.K, nodeCount, result.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = tree
	result.Stats.NodeCount = tree.Len()
	result.Stats.LeafCount = tree.LeafCount()

	r.Logger.Info("built recursion tree",
		"n", opts.N, "k", opts.K,
		"nodes", tree.Len(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	result.Value = tree.Resolve()
	result.Stats.ResolveTime = time.Since(resolveStart)
	observability.Tree().OnResolve(ctx, opts.N, opts.K, result.Value, result.Stats.ResolveTime)

	r.Logger.Info("resolved values",
		"value", result.Value,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Trace
	traceStart := time.Now()
	result.Events = tree.Trace(opts.order).Events()
	result.Stats.TraceTime = time.Since(traceStart)
	observability.Tree().OnTrace(ctx, opts.order.String(), len(result.Events))

	// Stage 4: Render
	renderStart := time.Now()
	for _, format := range opts.Formats {
		artifact, err := r.renderFormat(tree, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = artifact
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) renderFormat(tree *stirling.Tree, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot.ToDOT(tree, dot.Options{Steps: opts.Steps, Order: opts.order})), nil
	case FormatSVG:
		return dot.RenderSVG(dot.ToDOT(tree, dot.Options{Steps: opts.Steps, Order: opts.order}))
	case FormatJSON:
		return marshalTree(tree)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// treeJSON is the serialized form of a recursion tree, used by the JSON
// artifact and the API's tree endpoint.
type treeJSON struct {
	N     int        `json:"n"`
	K     int        `json:"k"`
	Value int64      `json:"value"`
	Nodes []nodeJSON `json:"nodes"`
}

type nodeJSON struct {
	Index    int    `json:"index"`
	N        int    `json:"n"`
	K        int    `json:"k"`
	Kind     string `json:"kind"`
	Value    int64  `json:"value"`
	Parent   int    `json:"parent"`
	Term     string `json:"term,omitempty"`
	Children []int  `json:"children,omitempty"`
}

// MarshalTree serializes a resolved tree for API responses.
func MarshalTree(tree *stirling.Tree) ([]byte, error) {
	return marshalTree(tree)
}

func marshalTree(tree *stirling.Tree) ([]byte, error) {
	root := tree.Root()
	value, _ := tree.Value()
	out := treeJSON{
		N:     root.N,
		K:     root.K,
		Value: value,
		Nodes: make([]nodeJSON, 0, tree.Len()),
	}
	for i, nd := range tree.Nodes() {
		out.Nodes = append(out.Nodes, nodeJSON{
			Index:    i,
			N:        nd.N,
			K:        nd.K,
			Kind:     nd.Kind.String(),
			Value:    nd.Value,
			Parent:   nd.Parent,
			Term:     nd.Term.String(),
			Children: nd.Children,
		})
	}
	return json.Marshal(out)
}
