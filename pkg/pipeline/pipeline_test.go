package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

func quietRunner() *Runner {
	return NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{N: 4, K: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Order != DefaultOrder {
		t.Errorf("Order = %q, want %q", opts.Order, DefaultOrder)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
	// Idempotent.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatSVG, FormatDOT, FormatJSON}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := ValidateFormat("png"); err == nil {
		t.Error("png accepted")
	}
	opts := Options{N: 4, K: 2, Formats: []string{"bmp"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("bad format accepted by ValidateAndSetDefaults")
	}
}

func TestValidateOrder(t *testing.T) {
	opts := Options{N: 4, K: 2, Order: "sideways"}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, stirling.ErrUnknownOrder) {
		t.Errorf("error = %v, want ErrUnknownOrder", err)
	}
}

func TestExecute(t *testing.T) {
	res, err := quietRunner().Execute(context.Background(), Options{
		N: 4, K: 2,
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Value != 7 {
		t.Errorf("Value = %d, want 7", res.Value)
	}
	if !res.Tree.Resolved() {
		t.Error("tree not resolved")
	}
	if res.Stats.NodeCount != res.Tree.Len() {
		t.Errorf("NodeCount = %d, want %d", res.Stats.NodeCount, res.Tree.Len())
	}
	if len(res.Events) != res.Tree.Len() {
		t.Errorf("%d events, want %d", len(res.Events), res.Tree.Len())
	}

	dotSrc := string(res.Artifacts[FormatDOT])
	if !strings.Contains(dotSrc, "S(4,2) = 7") {
		t.Errorf("DOT artifact missing resolved root:\n%s", dotSrc)
	}

	var doc struct {
		N     int   `json:"n"`
		K     int   `json:"k"`
		Value int64 `json:"value"`
		Nodes []struct {
			Index  int    `json:"index"`
			Kind   string `json:"kind"`
			Parent int    `json:"parent"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("JSON artifact: %v", err)
	}
	if doc.N != 4 || doc.K != 2 || doc.Value != 7 {
		t.Errorf("JSON root = %+v", doc)
	}
	if len(doc.Nodes) != res.Tree.Len() {
		t.Errorf("JSON has %d nodes, want %d", len(doc.Nodes), res.Tree.Len())
	}
	if doc.Nodes[0].Parent != -1 || doc.Nodes[0].Kind != "recursive" {
		t.Errorf("JSON root node = %+v", doc.Nodes[0])
	}
}

func TestExecuteInvalidBuild(t *testing.T) {
	_, err := quietRunner().Execute(context.Background(), Options{N: 2, K: 5, Formats: []string{FormatDOT}})
	if !errors.Is(err, stirling.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestExecuteSteps(t *testing.T) {
	res, err := quietRunner().Execute(context.Background(), Options{
		N: 4, K: 2,
		Steps:   2,
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dotSrc := string(res.Artifacts[FormatDOT])
	if !strings.Contains(dotSrc, "n1 ") || strings.Contains(dotSrc, "n2") {
		t.Errorf("clip wrong:\n%s", dotSrc)
	}
	// Events always cover the full tree; Steps clips diagrams only.
	if len(res.Events) != res.Tree.Len() {
		t.Errorf("%d events, want %d", len(res.Events), res.Tree.Len())
	}
}
