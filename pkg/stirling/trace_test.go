package stirling

import (
	"errors"
	"testing"
)

func TestParseOrder(t *testing.T) {
	for _, s := range []string{"dfs", "bfs"} {
		o, err := ParseOrder(s)
		if err != nil {
			t.Fatalf("ParseOrder(%q): %v", s, err)
		}
		if o.String() != s {
			t.Errorf("ParseOrder(%q).String() = %q", s, o.String())
		}
	}
	if _, err := ParseOrder("spiral"); !errors.Is(err, ErrUnknownOrder) {
		t.Errorf("ParseOrder(spiral) error = %v, want ErrUnknownOrder", err)
	}
}

func TestTraceDFSIsPreorder(t *testing.T) {
	tr, err := Build(4, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := tr.Trace(OrderDFS)
	if s.Len() != tr.Len() {
		t.Fatalf("trace length %d, want %d", s.Len(), tr.Len())
	}
	// The arena is laid out in preorder, so a DFS trace reveals nodes in
	// ascending index order.
	for i := 0; i < s.Len(); i++ {
		ev, ok := s.Step()
		if !ok {
			t.Fatalf("trace exhausted at step %d", i)
		}
		if ev.Index != i {
			t.Fatalf("step %d revealed node %d", i, ev.Index)
		}
		if ev.Parent != ev.Node.Parent || ev.Term != ev.Node.Term {
			t.Errorf("step %d: event edge (%d,%v) disagrees with node (%d,%v)",
				i, ev.Parent, ev.Term, ev.Node.Parent, ev.Node.Term)
		}
	}
	if _, ok := s.Step(); ok {
		t.Error("Step past the end reported an event")
	}
}

func TestTraceBFSLevels(t *testing.T) {
	tr, err := Build(4, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := tr.Trace(OrderBFS)

	seen := make([]bool, tr.Len())
	prevDepth := -1
	for ev, ok := s.Step(); ok; ev, ok = s.Step() {
		if ev.Parent >= 0 && !seen[ev.Parent] {
			t.Fatalf("node %d revealed before its parent %d", ev.Index, ev.Parent)
		}
		seen[ev.Index] = true

		d := depth(tr, ev.Index)
		if d < prevDepth {
			t.Fatalf("node %d at depth %d revealed after depth %d", ev.Index, d, prevDepth)
		}
		prevDepth = d
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("node %d never revealed", i)
		}
	}
}

func depth(t *Tree, idx int) int {
	d := 0
	for p := t.Node(idx).Parent; p >= 0; p = t.Node(p).Parent {
		d++
	}
	return d
}

func TestTraceDeterministic(t *testing.T) {
	tr, err := Build(5, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, order := range []Order{OrderDFS, OrderBFS} {
		a := tr.Trace(order).Events()
		b := tr.Trace(order).Events()
		if len(a) != len(b) {
			t.Fatalf("%s: lengths %d and %d", order, len(a), len(b))
		}
		for i := range a {
			if a[i].Index != b[i].Index {
				t.Fatalf("%s step %d: indices %d and %d", order, i, a[i].Index, b[i].Index)
			}
		}
	}
}

func TestStepperReset(t *testing.T) {
	tr, err := Build(4, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := tr.Trace(OrderDFS)
	first, ok := s.Step()
	if !ok {
		t.Fatal("empty trace")
	}
	s.Step()
	s.Step()
	if s.Pos() != 3 {
		t.Fatalf("Pos = %d, want 3", s.Pos())
	}
	s.Reset()
	if s.Pos() != 0 {
		t.Fatalf("Pos after Reset = %d, want 0", s.Pos())
	}
	again, ok := s.Step()
	if !ok || again.Index != first.Index {
		t.Fatalf("replayed first event %+v, want %+v", again, first)
	}
}

func TestTraceSnapshotsResolution(t *testing.T) {
	tr, err := Build(3, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	before := tr.Trace(OrderDFS).Events()
	if before[0].Node.Resolved {
		t.Error("root resolved in events taken before Resolve")
	}
	tr.Resolve()
	after := tr.Trace(OrderDFS).Events()
	if !after[0].Node.Resolved {
		t.Error("root unresolved in events taken after Resolve")
	}
}
